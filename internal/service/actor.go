package service

import (
	"context"
	"strings"
	"time"

	"github.com/ondertalhatorpil/uye-onder-api/internal/apperr"
	"github.com/ondertalhatorpil/uye-onder-api/internal/visibility"
)

// Actor represents the already-authenticated caller of a service operation.
// The zero value is an anonymous viewer. Identity issuance lives elsewhere;
// services only consume the {id, role} pair.
type Actor struct {
	ID   uint
	Role string
}

// Viewer converts the actor into the visibility filter's viewer shape.
func (a Actor) Viewer() visibility.Viewer {
	return visibility.Viewer{ID: a.ID, Role: a.Role}
}

// IsAdmin reports whether the actor carries an administrator role.
func (a Actor) IsAdmin() bool {
	return a.Viewer().IsAdmin()
}

// requireAdmin asserts the administrator precondition inside the service so
// the rule holds regardless of route wiring.
func requireAdmin(actor Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	return apperr.Forbidden("administrator role required")
}

// requireMember asserts an authenticated caller.
func requireMember(actor Actor) error {
	if actor.ID != 0 {
		return nil
	}
	return apperr.Forbidden("authenticated member required")
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// withStoreTimeout bounds a store round trip so outages surface as transient
// errors instead of hung requests.
func withStoreTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
