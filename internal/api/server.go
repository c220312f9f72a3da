// Package api exposes the transcription and content-generation HTTP surface.
package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"scribby/internal/ai"
	"scribby/internal/config"
	"scribby/internal/jobs"
	"scribby/internal/media"
	"scribby/internal/stt"
	"scribby/internal/utils"
	"scribby/internal/youtube"
)

// STTClient is the per-job transcription client. Built per request because
// the API key arrives with the request.
type STTClient interface {
	TranscribeFile(ctx context.Context, audioPath string, opts stt.Options) (*stt.Result, error)
}

// Fetcher resolves a YouTube URL into a local audio file plus metadata.
type Fetcher interface {
	Resolve(ctx context.Context, url string) (*youtube.Download, error)
}

// Server holds the handler dependencies. The function fields are seams for
// tests; production wiring comes from NewServer.
type Server struct {
	Jobs          *jobs.Registry
	Transcription *config.Store
	Generation    *config.Store

	fetcher      Fetcher
	newSTT       func(apiKey, baseURL string) STTClient
	callModel    func(ctx context.Context, prompt, apiKey, model, baseURL string) (string, error)
	pollInterval time.Duration
}

func NewServer(registry *jobs.Registry, transcription, generation *config.Store, outputDir string, audio *media.Audio, fetcher *youtube.Fetcher) *Server {
	return &Server{
		Jobs:          registry,
		Transcription: transcription,
		Generation:    generation,
		fetcher:       fetcher,
		newSTT: func(apiKey, baseURL string) STTClient {
			return stt.NewClient(apiKey, baseURL, outputDir, audio)
		},
		callModel:    ai.CallModel,
		pollInterval: 10 * time.Second,
	}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/", s.root)

	// Transcription surface
	r.GET("/models", s.transcriptionModels)
	r.GET("/languages", s.languages)
	r.POST("/transcribe/file", s.transcribeFile)
	r.POST("/transcribe/youtube", s.transcribeYouTube)
	r.GET("/status/:job_id", s.jobStatus)
	r.GET("/download/:job_id", s.downloadResult)
	r.GET("/youtube-info", s.youtubeInfo)
	r.GET("/config/transcription", s.getConfig(func() *config.Store { return s.Transcription }))
	r.POST("/config/transcription", s.updateConfig(func() *config.Store { return s.Transcription }))

	// Generation surface
	r.POST("/generate", s.generate)
	r.GET("/platforms", s.platforms)
	r.GET("/generate/models", s.generationModels)
	r.GET("/config/generation", s.getConfig(func() *config.Store { return s.Generation }))
	r.POST("/config/generation", s.updateConfig(func() *config.Store { return s.Generation }))
}

func (s *Server) root(c *gin.Context) {
	c.JSON(200, gin.H{"message": "Scribby API is running"})
}

// jobStatus reports the live state of any job, transcription or generation.
// Polling clients must always see fresh state, hence the no-cache headers.
func (s *Server) jobStatus(c *gin.Context) {
	snap, err := s.Jobs.Get(c.Param("job_id"))
	if err != nil {
		utils.Error(c, 404, err.Error())
		return
	}

	utils.NoCache(c)
	c.JSON(200, gin.H{
		"status":  snap.Status,
		"message": snap.Message,
		"result":  snap.Result,
	})
}
