package api

import (
	"net/http"

	"benfit/meustreinos/internal/catalog"
	"benfit/meustreinos/internal/domain"
	"benfit/meustreinos/internal/metrics"
	"benfit/meustreinos/internal/service"

	"github.com/gin-gonic/gin"
)

// Services are the application services the routes dispatch to.
type Services struct {
	Auth      service.AuthService
	Exercises service.ExerciseService
	Plans     service.PlanService
	Progress  service.ProgressService
	Profile   service.ProfileService
	Sync      service.SyncService
	Catalog   *catalog.Catalog
}

// RouterOptions carries the cross-cutting pieces. RateLimiter, MetricsHandler and
// MCPHandler are optional.
type RouterOptions struct {
	JWTSecret      string
	Metrics        *metrics.Manager
	RateLimiter    RequestRateLimiter
	AuthPerMinute  int
	MetricsHandler http.Handler
	MCPHandler     http.Handler
}

func SetupRoutes(router *gin.Engine, opts RouterOptions, svc Services) {
	authHandler := NewAuthHandler(svc.Auth, svc.Sync)
	catalogHandler := NewCatalogHandler(svc.Catalog)
	exerciseHandler := NewExerciseHandler(svc.Exercises)
	planHandler := NewPlanHandler(svc.Plans, exerciseHandler)
	progressHandler := NewProgressHandler(svc.Progress)
	profileHandler := NewProfileHandler(svc.Profile)
	syncHandler := NewSyncHandler(svc.Sync)

	authMiddleware := AuthMiddleware(opts.JWTSecret)

	if opts.Metrics != nil {
		router.Use(RequestMetrics(opts.Metrics))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(opts.MetricsHandler))
	}
	if opts.MCPHandler != nil {
		router.Any("/mcp", gin.WrapH(opts.MCPHandler))
	}

	apiV1 := router.Group("/api/v1")
	{
		// --- Public Routes ---
		authGroup := apiV1.Group("/auth")
		if opts.RateLimiter != nil {
			authGroup.Use(RateLimit(opts.RateLimiter, "auth", opts.AuthPerMinute, opts.Metrics))
		}
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		catalogGroup := apiV1.Group("/catalog")
		{
			catalogGroup.GET("/muscles", catalogHandler.Muscles)
			catalogGroup.GET("/avatars", catalogHandler.Avatars)
			catalogGroup.GET("/goals", catalogHandler.Goals)
			catalogGroup.GET("/trophies", catalogHandler.Trophies)
		}

		apiV1.GET("/exercises", exerciseHandler.ListExercises)
		apiV1.GET("/exercises/:id", exerciseHandler.GetExercise)
	}

	// Routes below require a valid JWT
	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", profileHandler.Me)
		protected.PUT("/me/avatar", profileHandler.SetAvatar)
		protected.PUT("/me/measurements", profileHandler.SetMeasurements)

		// --- Plan Management ---
		plans := protected.Group("/plans")
		{
			plans.POST("/preview", planHandler.PreviewPlan)
			plans.POST("", planHandler.SavePlan)
			plans.GET("/current", planHandler.CurrentPlan)
			plans.GET("/current/sessions/:sessionId/items/:index/alternatives", planHandler.Alternatives)
			plans.PUT("/current/sessions/:sessionId/items/:index", planHandler.SwapExercise)
		}

		// --- Progress, Marks and Trophies ---
		progress := protected.Group("/progress")
		{
			progress.GET("", progressHandler.GetProgress)
			progress.PUT("/target", progressHandler.SetTarget)
			progress.POST("/finish", progressHandler.FinishSession)
		}

		marks := protected.Group("/sessions/:sessionId/marks")
		{
			marks.GET("", progressHandler.GetMarks)
			marks.POST("/:index/toggle", progressHandler.ToggleMark)
			marks.DELETE("", progressHandler.ResetMarks)
		}

		protected.GET("/dashboard", progressHandler.Dashboard)

		// --- Remote Sync ---
		syncGroup := protected.Group("/sync")
		{
			syncGroup.POST("/pull", syncHandler.Pull)
			syncGroup.GET("/status", syncHandler.Status)
		}

		// --- Admin Specific Routes ---
		admin := protected.Group("/admin")
		admin.Use(RoleMiddleware(domain.RoleAdmin))
		{
			admin.POST("/exercises", exerciseHandler.CreateExercise)
			admin.PUT("/exercises/:id", exerciseHandler.UpdateExercise)
			admin.DELETE("/exercises/:id", exerciseHandler.DeleteExercise)
			admin.POST("/exercises/:id/image-upload-url", exerciseHandler.ImageUploadURL)
		}
	}
}
