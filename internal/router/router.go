package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ondertalhatorpil/uye-onder-api/internal/config"
	"github.com/ondertalhatorpil/uye-onder-api/internal/handler"
	"github.com/ondertalhatorpil/uye-onder-api/internal/middleware"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ActivityHandler   *handler.ActivityHandler
	ModerationHandler *handler.AdminModerationHandler
	EngagementHandler *handler.EngagementHandler
	UploadHandler     *handler.UploadHandler
}

// Register wires the HTTP routes into the fiber application.
//
// Reads on the activity feed are public but carry optional auth so the
// visibility rules can recognize authors and admins. Writes require a valid
// token; the moderation surface additionally requires an admin role. Role
// checks are repeated inside the services, the middleware only fails fast.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret)
	requireAuth := middleware.JWTProtected(cfg.JWTSecret)
	requireAdmin := middleware.RequireRole("admin", "super_admin")

	// Member-facing feed.
	if deps.ActivityHandler != nil {
		public := api.Group("/activities", optionalAuth)
		deps.ActivityHandler.RegisterPublic(public)
		if deps.EngagementHandler != nil {
			deps.EngagementHandler.RegisterPublic(public)
		}

		protected := api.Group("/activities", requireAuth)
		deps.ActivityHandler.RegisterProtected(protected)
		if deps.EngagementHandler != nil {
			engagementWrites := api.Group("/activities",
				requireAuth,
				middleware.RateLimit("engagement", cfg.EngagementRateLimit, cfg.EngagementRateWindow),
			)
			deps.EngagementHandler.RegisterProtected(engagementWrites)
		}
	}

	if deps.EngagementHandler != nil {
		comments := api.Group("/comments", requireAuth)
		deps.EngagementHandler.RegisterCommentRoutes(comments)
	}

	if deps.UploadHandler != nil {
		uploads := api.Group("/uploads", requireAuth)
		deps.UploadHandler.Register(uploads)
	}

	// Moderation surface.
	if deps.ModerationHandler != nil {
		admin := api.Group("/admin/activities", requireAuth, requireAdmin)
		deps.ModerationHandler.Register(admin)
	}
}
