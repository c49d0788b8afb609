package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/edutrack/edutrack-api/internal/middleware"
	"github.com/edutrack/edutrack-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth       *AuthHandler
	Users      *UserHandler
	Roles      *RoleHandler
	Students   *StudentHandler
	Formations *FormationHandler
	Invoices   *InvoiceHandler
	Sessions   *SessionHandler
	Health     *HealthHandler
}

// RegisterRoutes mounts all endpoints under the API prefix plus the
// operational endpoints at the root.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, authSvc *service.AuthService) {
	r.GET("/health", h.Health.Health)
	r.GET("/metrics", h.Health.Metrics)

	api := r.Group(prefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.GET("/me", middleware.OptionalJWT(authSvc), h.Auth.Me)
		auth.GET("/all", h.Auth.All)
		auth.PUT("/:id", h.Auth.Update)
		auth.DELETE("/:id", h.Auth.Delete)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		auth.POST("/reset-password/:id", h.Auth.ResetPasswordByID)
		auth.PATCH("/toggle-status/:id", h.Auth.ToggleStatus)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
	}

	users := api.Group("/users")
	{
		users.GET("", h.Users.List)
		users.GET("/:id", h.Users.Get)
		users.POST("", h.Users.Create)
		users.PUT("/:id", h.Users.Update)
		users.DELETE("/:id", h.Users.Delete)
	}

	roles := api.Group("/roles")
	{
		roles.GET("", h.Roles.List)
		roles.GET("/:id", h.Roles.Get)
		roles.POST("", h.Roles.Create)
		roles.PUT("/:id", h.Roles.Update)
		roles.DELETE("/:id", h.Roles.Delete)
	}

	students := api.Group("/students")
	{
		students.GET("", h.Students.List)
		students.GET("/export", h.Students.Export)
		students.GET("/:id", h.Students.Get)
		students.POST("", h.Students.Create)
		students.PUT("/:id", h.Students.Update)
		students.DELETE("/:id", h.Students.Delete)
	}

	formations := api.Group("/formations")
	{
		formations.GET("", h.Formations.List)
		formations.GET("/:id", h.Formations.Get)
		formations.POST("", h.Formations.Create)
		formations.PUT("/:id", h.Formations.Update)
		formations.DELETE("/:id", h.Formations.Delete)
	}

	invoices := api.Group("/invoices")
	{
		invoices.GET("", h.Invoices.List)
		invoices.GET("/:id", h.Invoices.Get)
		invoices.GET("/:id/pdf", h.Invoices.ExportPDF)
		invoices.POST("", h.Invoices.Create)
		invoices.PUT("/:id", h.Invoices.Update)
		invoices.DELETE("/:id", h.Invoices.Delete)
	}

	sessions := api.Group("/sessions", middleware.JWT(authSvc))
	{
		sessions.GET("", h.Sessions.List)
		sessions.GET("/:id", h.Sessions.Get)
		sessions.POST("", h.Sessions.Create)
		sessions.PUT("/:id", h.Sessions.Update)
		sessions.DELETE("/:id", h.Sessions.Delete)
	}
}
