package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"lyricmotion/config"
	"lyricmotion/internal/database"
	"lyricmotion/internal/handlers"
	"lyricmotion/internal/services"
	"lyricmotion/internal/worker"
)

func main() {
	fmt.Println("Persian Lyric Motion Studio")

	// Optional .env for local overrides
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env file")
	}

	cfg := config.LoadConfig()
	log.Printf("Environment: %s", cfg.Environment)
	log.Printf("Server port: %d", cfg.ServerPort)

	if err := cfg.EnsureDirs(); err != nil {
		log.Fatalf("Failed to create storage directories: %v", err)
	}

	if err := database.InitDB(cfg.DBPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	schemaPath := filepath.Join("scripts", "schema.sql")
	if err := database.ExecSchema(schemaPath); err != nil {
		log.Printf("Warning: Failed to apply schema: %v", err)
	}

	// Repositories
	projectRepo := database.NewProjectRepository(database.DB)
	queueRepo := database.NewQueueRepository(database.DB)
	settingsRepo := database.NewSettingsRepository(database.DB)

	// Progress broadcaster for live updates
	broadcaster := services.NewProgressBroadcaster()

	// Handlers
	projectHandler := handlers.NewProjectHandler(projectRepo)
	uploadHandler := handlers.NewUploadHandler(projectRepo, cfg)
	queueHandler := handlers.NewQueueHandler(queueRepo, projectRepo, broadcaster)
	progressHandler := handlers.NewProgressHandler(broadcaster)
	settingsHandler := handlers.NewSettingsHandler(settingsRepo, cfg)
	dashboardHandler := handlers.NewDashboardHandler(projectRepo, queueRepo, cfg)

	// Render queue worker
	pollInterval := time.Duration(cfg.PollIntervalSeconds) * time.Second
	queueWorker := worker.NewWorker(queueRepo, projectRepo, broadcaster, cfg, pollInterval)
	go queueWorker.Start()
	log.Printf("Render worker started (polling every %s)", pollInterval)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS middleware - MUST be first
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Add("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Add("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Add("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Add("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "lyricmotion",
		})
	})

	v1 := router.Group("/api/v1")
	{
		projects := v1.Group("/projects")
		{
			projects.GET("", projectHandler.GetAll)
			projects.GET("/:id", projectHandler.GetByID)
			projects.POST("", projectHandler.Create)
			projects.PUT("/:id", projectHandler.Update)
			projects.DELETE("/:id", projectHandler.Delete)
			projects.GET("/:id/export", projectHandler.Export)
			projects.POST("/:id/upload/:kind", uploadHandler.Upload)
			projects.GET("/:id/log", dashboardHandler.GetRenderLog)
		}
		v1.POST("/projects/import", projectHandler.Import)

		queue := v1.Group("/queue")
		{
			queue.GET("", queueHandler.GetAll)
			queue.POST("", queueHandler.Create)
			queue.GET("/:id", queueHandler.GetByID)
			queue.DELETE("/:id", queueHandler.Delete)
			queue.GET("/:id/download", dashboardHandler.Download)
			queue.GET("/:id/storyboard", dashboardHandler.GetStoryboard)
		}

		progress := v1.Group("/progress")
		{
			progress.GET("/stream", progressHandler.StreamProgress)
			progress.GET("/stream/:id", progressHandler.StreamQueueProgress)
			progress.GET("/stats", progressHandler.GetStats)
		}

		v1.GET("/options", settingsHandler.GetOptions)
		v1.GET("/settings", settingsHandler.Get)
		v1.PUT("/settings", settingsHandler.Update)
		v1.POST("/preview/text", settingsHandler.PreviewText)

		v1.GET("/summary", dashboardHandler.Summary)
	}

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	log.Printf("Starting server on %s", addr)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")
	queueWorker.Stop()
	database.Close()
	log.Println("Shutdown complete")
}
