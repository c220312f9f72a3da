package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"scribby/internal/ai"
	"scribby/internal/jobs"
	"scribby/internal/storage"
	"scribby/internal/stt"
	"scribby/internal/utils"
)

// pollAttempts caps how long generation waits on an upstream transcription
// job: 30 polls at the 10 second interval, five minutes total.
const pollAttempts = 30

type generateRequest struct {
	TranscriptionJobID   string   `json:"transcription_job_id"`
	YouTubeURL           string   `json:"youtube_url"`
	FileUploadID         string   `json:"file_upload_id"`
	APIKey               string   `json:"api_key"`
	LLMAPIKey            string   `json:"llm_api_key" binding:"required"`
	LLMModel             string   `json:"llm_model"`
	LLMBaseURL           string   `json:"llm_base_url"`
	TranscriptionBaseURL string   `json:"transcription_base_url"`
	ContentType          string   `json:"content_type"`
	Platforms            []string `json:"platforms"`
	Context              string   `json:"context"`
	Audience             string   `json:"audience"`
	Tags                 []string `json:"tags"`
}

// generationResult is the completed-job payload. Content and BlogContent are
// mutually exclusive, keyed off ContentType.
type generationResult struct {
	ContentType string                        `json:"content_type"`
	Platforms   []string                      `json:"platforms"`
	Transcript  string                        `json:"transcript"`
	Prompt      string                        `json:"prompt"`
	Content     map[string]ai.PlatformContent `json:"content,omitempty"`
	BlogContent *ai.PlatformContent           `json:"blog_content,omitempty"`
}

func (s *Server) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, err.Error())
		return
	}

	if req.TranscriptionJobID == "" && req.YouTubeURL == "" && req.FileUploadID == "" {
		utils.Error(c, 400, "At least one source (transcription_job_id, youtube_url, or file_upload_id) must be provided")
		return
	}
	if len(req.Platforms) == 0 {
		utils.Error(c, 400, "At least one platform must be selected")
		return
	}

	cfg := s.Generation.Get()
	model := req.LLMModel
	if model == "" {
		model = cfg.DefaultModel
	}
	if req.LLMBaseURL == "" && !cfg.HasModel(model) {
		utils.Error(c, 400, fmt.Sprintf("Invalid model. Available models: %s", strings.Join(cfg.Models, ", ")))
		return
	}

	if req.ContentType == "" {
		req.ContentType = ai.ContentTypeSocial
	}

	llmBaseURL := req.LLMBaseURL
	if llmBaseURL == "" {
		llmBaseURL = cfg.BaseURL
	}

	id := s.Jobs.Submit(jobs.KindGeneration, func(ctx context.Context, report func(string)) (jobs.Outcome, error) {
		return s.runGeneration(ctx, report, req, model, llmBaseURL)
	})

	c.JSON(200, gin.H{
		"job_id":  id,
		"status":  jobs.StatusQueued,
		"message": "Content generation job has been queued",
	})
}

func (s *Server) runGeneration(ctx context.Context, report func(string), req generateRequest, model, llmBaseURL string) (jobs.Outcome, error) {
	report("Starting content generation process...")

	transcript, err := s.resolveTranscript(ctx, report, req)
	if err != nil {
		return jobs.Outcome{}, err
	}

	report("Processing with LLM...")
	prompt := ai.BuildPrompt(transcript, req.Platforms, req.Context, req.Audience, req.Tags, req.ContentType)

	content, err := s.callModel(ctx, prompt, req.LLMAPIKey, model, llmBaseURL)
	if err != nil {
		return jobs.Outcome{}, fmt.Errorf("LLM API error: %w", err)
	}

	result := generationResult{
		ContentType: req.ContentType,
		Platforms:   req.Platforms,
		Transcript:  transcript,
		Prompt:      prompt,
	}
	if req.ContentType == ai.ContentTypeBlog {
		blog, err := ai.ParseBlog(content)
		if err != nil {
			return jobs.Outcome{}, fmt.Errorf("error parsing LLM response: %w", err)
		}
		result.BlogContent = &blog
	} else {
		parsed, err := ai.ParseSocial(content, req.Platforms)
		if err != nil {
			return jobs.Outcome{}, fmt.Errorf("error parsing LLM response: %w", err)
		}
		result.Content = parsed
	}

	return jobs.Outcome{
		Message: "Content generation completed successfully",
		Result:  result,
	}, nil
}

// resolveTranscript turns whichever source the request named into transcript
// text.
func (s *Server) resolveTranscript(ctx context.Context, report func(string), req generateRequest) (string, error) {
	switch {
	case req.TranscriptionJobID != "":
		report("Retrieving transcription data...")
		return s.awaitTranscription(ctx, req.TranscriptionJobID, report, "Transcription in progress (%d/%d)...")

	case req.YouTubeURL != "":
		report("Starting new YouTube transcription...")
		params, err := s.resolveTranscribeParams(req.APIKey, "", req.TranscriptionBaseURL,
			"Automatic Detection", false, nil)
		if err != nil {
			return "", err
		}
		jobID := s.submitYouTubeJob(req.YouTubeURL, params)
		return s.awaitTranscription(ctx, jobID, report, "Transcribing YouTube video (%d/%d)...")

	case req.FileUploadID != "":
		return "", errors.New("direct file upload processing not implemented in this endpoint")

	default:
		return "", errors.New("no transcription source provided")
	}
}

// awaitTranscription polls a transcription job until it reaches a terminal
// state, then loads the saved transcript.
func (s *Server) awaitTranscription(ctx context.Context, jobID string, report func(string), progressFormat string) (string, error) {
	for attempt := 1; attempt <= pollAttempts; attempt++ {
		snap, err := s.Jobs.Get(jobID)
		if err != nil {
			return "", fmt.Errorf("error fetching transcription status: %w", err)
		}

		switch snap.Status {
		case jobs.StatusCompleted:
			res, ok := snap.Result.(*stt.Result)
			if !ok || res.FilePath == "" {
				return "", errors.New("no transcription data available")
			}
			transcript, err := storage.ReadTranscript(res.FilePath)
			if err != nil {
				return "", err
			}
			if transcript.Text == "" {
				return "No text found in transcription.", nil
			}
			return transcript.Text, nil

		case jobs.StatusError:
			return "", fmt.Errorf("transcription error: %s", snap.Message)
		}

		report(fmt.Sprintf(progressFormat, attempt, pollAttempts))
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
	return "", errors.New("transcription timed out or failed to complete")
}

func (s *Server) platforms(c *gin.Context) {
	c.JSON(200, gin.H{"platforms": ai.Platforms()})
}

func (s *Server) generationModels(c *gin.Context) {
	cfg := s.Generation.Get()
	models := make([]gin.H, 0, len(cfg.Models))
	for _, m := range cfg.Models {
		models = append(models, gin.H{"id": m, "name": m, "provider": "Default"})
	}
	c.JSON(200, gin.H{"models": models})
}
