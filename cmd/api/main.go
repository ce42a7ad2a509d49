package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/luminalabs/lumina-video-api/pkg/config"
	"github.com/luminalabs/lumina-video-api/pkg/db"
	"github.com/luminalabs/lumina-video-api/pkg/db/queries"
	"github.com/luminalabs/lumina-video-api/pkg/drive"
	"github.com/luminalabs/lumina-video-api/pkg/handlers"
	"github.com/luminalabs/lumina-video-api/pkg/middleware"
	"github.com/luminalabs/lumina-video-api/pkg/pipeline"
	"github.com/luminalabs/lumina-video-api/pkg/quota"
	"github.com/luminalabs/lumina-video-api/pkg/scraper"
	"github.com/luminalabs/lumina-video-api/pkg/services"
	"github.com/luminalabs/lumina-video-api/pkg/veo"
)

func main() {
	log.SetOutput(gin.DefaultWriter)
	log.SetLevel(log.InfoLevel)
	log.SetFormatter(&log.JSONFormatter{})
	log.Info("Starting Lumina Video API...")

	cfg := config.LoadConfig()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	store := queries.NewStore(database)

	veoClient, err := veo.NewClient(context.Background(), cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Failed to initialize Veo client: %v", err)
	}

	harvester := scraper.NewHarvester(cfg.BrowserlessWSURL)
	uploader := drive.NewUploader()
	tracker := quota.NewTracker(store)
	processor := pipeline.NewProcessor(veoClient, uploader, tracker, store)
	tokens := services.NewTokenService(cfg.JwtSecret)

	apiHandlers := handlers.NewHandlers(store, harvester, processor, tracker, tokens)

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "https://lumina-video.vercel.app"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", handlers.HealthCheck)

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", apiHandlers.RegisterUser)
		authRoutes.POST("/login", apiHandlers.LoginUser)
	}

	protectedRoutes := router.Group("/api")
	protectedRoutes.Use(middleware.AuthMiddleware(tokens))
	{
		protectedRoutes.POST("/scrape-images", apiHandlers.ScrapeImages)
		protectedRoutes.POST("/generate-videos", apiHandlers.GenerateVideos)
		protectedRoutes.GET("/user-usage", apiHandlers.UserUsage)
		protectedRoutes.GET("/get-recents", apiHandlers.GetRecents)
		protectedRoutes.POST("/delete", apiHandlers.DeleteAccount)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Infof("Server listening on %s:%s", cfg.Host, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server with a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited gracefully.")
}
