package main

import (
	"legal_nexus_go/config"
	"legal_nexus_go/db"
	"legal_nexus_go/handlers"
	"legal_nexus_go/middleware"
	"legal_nexus_go/models"
	"legal_nexus_go/services"
	"legal_nexus_go/services/jobs"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment, cfg.TursoDatabaseURL, cfg.TursoAuthToken); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.User{},
		&models.LawyerProfile{},
		&models.APIToken{},
		&models.Case{},
		&models.CaseActivity{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Protected routes (bearer token required)
	api := e.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		api.GET("/me", handlers.GetCurrentUserHandler)

		// Case routes (all roles, visibility enforced per handler)
		api.GET("/cases", handlers.ListCasesHandler)
		api.POST("/cases", handlers.CreateCaseHandler)
		api.GET("/cases/:id", handlers.GetCaseHandler)
		api.GET("/cases/:id/priority", handlers.GetCasePriorityHandler)

		// Prioritized views
		api.GET("/cases/prioritized", handlers.GetPrioritizedCasesHandler)
		api.GET("/cases/stats", handlers.GetPriorityStatsHandler)

		// Notifications
		api.GET("/notifications", handlers.ListNotificationsHandler)
		api.POST("/notifications/:id/read", handlers.MarkNotificationReadHandler)

		// Case management (admin and lawyer only)
		staffRoutes := api.Group("")
		staffRoutes.Use(middleware.RequireRole(models.RoleAdmin, models.RoleLawyer))
		{
			staffRoutes.PUT("/cases/:id", handlers.UpdateCaseHandler)
			staffRoutes.PUT("/cases/:id/status", handlers.ChangeCaseStatusHandler)
			staffRoutes.PUT("/cases/:id/priority", handlers.OverridePriorityHandler)
			staffRoutes.GET("/cases/prioritized/export", handlers.ExportPrioritizedCasesHandler)
			staffRoutes.GET("/lawyers", handlers.ListLawyersHandler)
			staffRoutes.GET("/lawyers/:id/caseload", handlers.GetLawyerCaseloadHandler)
		}

		// Assignment is admin-only
		adminRoutes := api.Group("")
		adminRoutes.Use(middleware.RequireRole(models.RoleAdmin))
		{
			adminRoutes.PUT("/cases/:id/assign", handlers.AssignLawyerHandler)
		}
	}

	// Start background urgent actions sweep (runs every hour)
	go func() {
		store := services.NewCaseStore(db.DB)
		scorer := services.NewScorer(priorityPolicy(cfg))
		query := services.NewPriorityQueryService(store, scorer)

		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			jobs.RunUrgentActionsSweep(db.DB, cfg, query)
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// priorityPolicy applies config overrides on top of the default scoring policy
func priorityPolicy(cfg *config.Config) services.PriorityPolicy {
	policy := services.DefaultPriorityPolicy()
	if len(cfg.UrgentCaseTypes) > 0 {
		policy.UrgentCaseTypes = cfg.UrgentCaseTypes
	}
	return policy
}
