package visibility

import (
	"strings"

	"gorm.io/gorm"

	"github.com/ondertalhatorpil/uye-onder-api/internal/models"
)

// Viewer identifies who is looking at an activity. The zero value is an
// anonymous viewer.
type Viewer struct {
	ID   uint
	Role string
}

// IsAdmin reports whether the viewer carries an administrator role.
func (v Viewer) IsAdmin() bool {
	switch strings.ToLower(strings.TrimSpace(v.Role)) {
	case "admin", "super_admin":
		return true
	default:
		return false
	}
}

// Visible decides whether a viewer may see an activity. Approved activities
// are public; otherwise only the author and administrators may see them.
// The same rule must gate the public list, single reads, profile aggregates
// and the moderation queue.
func Visible(activity models.Activity, viewer Viewer) bool {
	if activity.Status == models.ActivityStatusApproved {
		return true
	}
	if viewer.ID != 0 && viewer.ID == activity.AuthorID {
		return true
	}
	return viewer.IsAdmin()
}

// Scope renders Visible as a SQL predicate so list totals and paging are
// computed over the visible set, not the raw table. It must stay equivalent
// to Visible; visibility_test.go checks the two against each other.
func Scope(viewer Viewer) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if viewer.IsAdmin() {
			return db
		}
		if viewer.ID != 0 {
			return db.Where("status = ? OR author_id = ?", models.ActivityStatusApproved, viewer.ID)
		}
		return db.Where("status = ?", models.ActivityStatusApproved)
	}
}
