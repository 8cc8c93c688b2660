// main.go
package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/yumozi/ConCreate/internal/platform"
	"github.com/yumozi/ConCreate/models"
	"github.com/yumozi/ConCreate/videos"
)

type Server struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Router *gin.Engine
}

func NewServer() (*Server, error) {
	// Use the shared connection initializers
	db := platform.NewDBConnection()
	rdb := platform.NewRedisClient()

	if err := db.AutoMigrate(&models.RenderJob{}, &models.RenderSegment{}); err != nil {
		return nil, err
	}

	router := gin.Default()

	// Add CORS middleware for the frontend
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", os.Getenv("FRONTEND_URL"))
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	server := &Server{
		DB:     db,
		Redis:  rdb,
		Router: router,
	}

	server.setupRoutes()

	return server, nil
}

func (s *Server) setupRoutes() {
	// Health check
	s.Router.GET("/health", func(c *gin.Context) {
		sqlDB, err := s.DB.DB()
		if err != nil {
			c.JSON(500, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}

		if err := sqlDB.Ping(); err != nil {
			c.JSON(500, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}

		c.JSON(200, gin.H{
			"status":   "healthy",
			"database": "connected",
		})
	})

	s.Router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "ConCreate API v1"})
	})

	videoHandler := videos.NewHandler(s.DB, s.Redis, platform.NewOrchestrator())

	s.Router.POST("/generate-script", videoHandler.GenerateScript)
	s.Router.POST("/split-script", videoHandler.SplitScript)
	s.Router.POST("/generate-audio-video", videoHandler.GenerateAudioVideo)

	jobRoutes := s.Router.Group("/render-jobs")
	{
		jobRoutes.POST("", videoHandler.CreateVideo)
		jobRoutes.GET("/:id", videoHandler.GetVideo)
	}

	// Finished videos are served straight from the public directory; the
	// pipeline's returned URLs point here.
	s.Router.Static("/videos", platform.PublicVideoDir())
}

func (s *Server) Run() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	return s.Router.Run(":" + port)
}

func main() {
	server, err := NewServer()
	if err != nil {
		log.Fatal("Failed to create server:", err)
	}

	if err := server.Run(); err != nil {
		log.Fatal("Failed to run server:", err)
	}
}
