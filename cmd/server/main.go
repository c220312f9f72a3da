package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"scribby/internal/api"
	"scribby/internal/config"
	"scribby/internal/jobs"
	"scribby/internal/media"
	"scribby/internal/youtube"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	// Set Gin mode (default to release mode)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory %s: %v", cfg.OutputDir, err)
	}

	transcription, err := config.NewStore(cfg.TranscriptionConfigFile,
		config.TranscriptionDefaults(cfg.WhisperBaseURL))
	if err != nil {
		log.Fatalf("Failed to load transcription config: %v", err)
	}
	generation, err := config.NewStore(cfg.GenerationConfigFile,
		config.GenerationDefaults(cfg.LLMBaseURL))
	if err != nil {
		log.Fatalf("Failed to load generation config: %v", err)
	}

	// yt-dlp is fetched on first run if the host does not have it.
	log.Println("Ensuring yt-dlp is available...")
	youtube.Install(context.Background())

	server := api.NewServer(
		jobs.NewRegistry(),
		transcription,
		generation,
		cfg.OutputDir,
		media.NewAudio(media.ExecRunner{}),
		youtube.NewFetcher(),
	)

	r := gin.Default()
	r.Use(corsMiddleware())
	server.RegisterRoutes(r)

	log.Printf("Scribby backend running on :%s (outputs in %s)", cfg.Port, filepath.Clean(cfg.OutputDir))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// corsMiddleware adds CORS headers for the web frontend
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, Cache-Control")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
