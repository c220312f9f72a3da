package api

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"scribby/internal/jobs"
	"scribby/internal/storage"
	"scribby/internal/stt"
	"scribby/internal/utils"
)

// supportedAudioFormats mirrors what the upstream transcription API accepts.
var supportedAudioFormats = []string{".mp3", ".mp4", ".mpeg", ".mpga", ".m4a", ".wav", ".webm"}

var languageList = []string{
	"Automatic Detection", "English", "Spanish", "French", "German",
	"Italian", "Portuguese", "Dutch", "Russian", "Japanese",
	"Chinese", "Arabic", "Korean", "Hindi",
}

func (s *Server) transcriptionModels(c *gin.Context) {
	c.JSON(200, gin.H{"models": s.Transcription.Get().Models})
}

func (s *Server) languages(c *gin.Context) {
	c.JSON(200, gin.H{"languages": languageList})
}

// transcribeParams is the resolved per-job transcription setup shared by the
// file and YouTube paths.
type transcribeParams struct {
	apiKey    string
	model     string
	baseURL   string
	language  string
	translate bool
	timestamp bool
}

// resolveTranscribeParams applies config defaults and validates the model.
// A custom base_url skips the model allow-list since the configured list only
// describes the default endpoint.
func (s *Server) resolveTranscribeParams(apiKey, model, baseURL, language string, translate bool, timestamp *bool) (transcribeParams, error) {
	cfg := s.Transcription.Get()

	if model == "" {
		model = cfg.DefaultModel
	}
	if baseURL == "" {
		if !cfg.HasModel(model) {
			return transcribeParams{}, fmt.Errorf("Invalid model. Available models: %s", strings.Join(cfg.Models, ", "))
		}
		baseURL = cfg.BaseURL
	}

	p := transcribeParams{
		apiKey:    apiKey,
		model:     model,
		baseURL:   baseURL,
		language:  language,
		translate: translate,
		timestamp: true,
	}
	if timestamp != nil {
		p.timestamp = *timestamp
	}
	return p, nil
}

type fileTranscribeForm struct {
	APIKey    string `form:"api_key" binding:"required"`
	Model     string `form:"model"`
	BaseURL   string `form:"base_url"`
	Language  string `form:"language"`
	Translate bool   `form:"translate"`
	Timestamp *bool  `form:"timestamp"`
}

func (s *Server) transcribeFile(c *gin.Context) {
	var form fileTranscribeForm
	if err := c.ShouldBind(&form); err != nil {
		utils.Error(c, 400, err.Error())
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		utils.Error(c, 400, "file is required")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !isSupportedFormat(ext) {
		utils.Error(c, 400, fmt.Sprintf("Unsupported file format. Supported formats: %s",
			strings.Join(supportedAudioFormats, ", ")))
		return
	}

	params, err := s.resolveTranscribeParams(form.APIKey, form.Model, form.BaseURL,
		form.Language, form.Translate, form.Timestamp)
	if err != nil {
		utils.Error(c, 400, err.Error())
		return
	}

	uploadPath, err := storage.SaveUpload(header)
	if err != nil {
		utils.Error(c, 500, err.Error())
		return
	}

	id := s.Jobs.Submit(jobs.KindTranscription, func(ctx context.Context, report func(string)) (jobs.Outcome, error) {
		defer func() {
			if err := os.Remove(uploadPath); err != nil {
				log.Printf("[Transcribe] Warning: could not remove upload %s: %v", uploadPath, err)
			}
		}()

		report("Transcription in progress...")
		return s.runTranscription(ctx, uploadPath, params)
	})

	c.JSON(200, gin.H{
		"job_id":  id,
		"status":  jobs.StatusQueued,
		"message": "Transcription job has been queued",
	})
}

type youtubeTranscribeRequest struct {
	YouTubeURL string `json:"youtube_url" binding:"required"`
	APIKey     string `json:"api_key" binding:"required"`
	Model      string `json:"model"`
	BaseURL    string `json:"base_url"`
	Language   string `json:"language"`
	Translate  bool   `json:"translate"`
	Timestamp  *bool  `json:"timestamp"`
}

func (s *Server) transcribeYouTube(c *gin.Context) {
	var req youtubeTranscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, err.Error())
		return
	}

	params, err := s.resolveTranscribeParams(req.APIKey, req.Model, req.BaseURL,
		req.Language, req.Translate, req.Timestamp)
	if err != nil {
		utils.Error(c, 400, err.Error())
		return
	}

	id := s.submitYouTubeJob(req.YouTubeURL, params)
	c.JSON(200, gin.H{
		"job_id":  id,
		"status":  jobs.StatusQueued,
		"message": "YouTube transcription job has been queued",
	})
}

// submitYouTubeJob queues download-then-transcribe. Shared with the content
// generation worker, which transcribes YouTube sources the same way.
func (s *Server) submitYouTubeJob(url string, params transcribeParams) string {
	return s.Jobs.Submit(jobs.KindTranscription, func(ctx context.Context, report func(string)) (jobs.Outcome, error) {
		report("Downloading YouTube video...")

		dl, err := s.fetcher.Resolve(ctx, url)
		if dl != nil {
			defer dl.Cleanup()
		}
		if err != nil {
			return jobs.Outcome{}, err
		}

		report("Transcription in progress...")
		outcome, err := s.runTranscription(ctx, dl.AudioPath, params)
		if err != nil {
			return jobs.Outcome{}, err
		}

		result := outcome.Result.(*stt.Result)
		result.Title = dl.Title
		result.ThumbnailURL = dl.ThumbnailURL
		return outcome, nil
	})
}

func (s *Server) runTranscription(ctx context.Context, audioPath string, params transcribeParams) (jobs.Outcome, error) {
	client := s.newSTT(params.apiKey, params.baseURL)
	result, err := client.TranscribeFile(ctx, audioPath, stt.Options{
		Model:     params.model,
		Language:  params.language,
		Translate: params.translate,
		Timestamp: params.timestamp,
	})
	if err != nil {
		return jobs.Outcome{}, err
	}
	return jobs.Outcome{
		Message: fmt.Sprintf("Transcription completed in %.2f seconds", result.ElapsedTime),
		Result:  result,
	}, nil
}

// downloadResult serves the transcript artifact of a completed job.
func (s *Server) downloadResult(c *gin.Context) {
	result, err := s.Jobs.Result(c.Param("job_id"))
	switch {
	case err == jobs.ErrNotFound:
		utils.Error(c, 404, err.Error())
		return
	case err == jobs.ErrInvalidState:
		utils.Error(c, 400, err.Error())
		return
	case err != nil:
		utils.Error(c, 400, "No file available for download")
		return
	}

	res, ok := result.(*stt.Result)
	if !ok || res.FilePath == "" {
		utils.Error(c, 400, "No file available for download")
		return
	}
	if _, err := os.Stat(res.FilePath); err != nil {
		utils.Error(c, 404, "File not found")
		return
	}

	c.FileAttachment(res.FilePath, filepath.Base(res.FilePath))
}

// youtubeInfo resolves title and thumbnail without keeping the audio around.
func (s *Server) youtubeInfo(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		utils.Error(c, 400, "url parameter is required")
		return
	}

	dl, err := s.fetcher.Resolve(c.Request.Context(), url)
	if dl != nil {
		dl.Cleanup()
	}
	if err != nil {
		utils.Error(c, 400, err.Error())
		return
	}

	c.JSON(200, gin.H{
		"title":         dl.Title,
		"thumbnail_url": dl.ThumbnailURL,
	})
}

func isSupportedFormat(ext string) bool {
	for _, supported := range supportedAudioFormats {
		if ext == supported {
			return true
		}
	}
	return false
}
