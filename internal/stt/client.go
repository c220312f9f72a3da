// Package stt transcribes audio through an OpenAI-compatible speech-to-text
// endpoint, chunking files that exceed the upstream size limit.
package stt

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"scribby/internal/media"
	"scribby/internal/model"
	"scribby/internal/upstream"
)

const (
	// maxDirectFileBytes is the upstream API upload limit. Anything larger
	// goes through the chunked path.
	maxDirectFileBytes = 25 << 20

	// chunkSeconds is the fixed chunk length for large files: 10 minutes.
	chunkSeconds = 600.0

	// previewLimit caps the inline transcript preview attached to job status.
	previewLimit = 2000

	translateHint = "Please transcribe this audio and translate to English if needed."
)

// Options control a single transcription request.
type Options struct {
	Model     string
	Language  string
	Translate bool
	// Timestamp appends a generation timestamp to the artifact filename so
	// repeated runs on the same source do not collide.
	Timestamp bool
}

// Result is what a finished transcription job carries: the (possibly
// truncated) inline content plus the file-backed artifact.
type Result struct {
	Content      string  `json:"content"`
	FilePath     string  `json:"file_path"`
	ElapsedTime  float64 `json:"elapsed_time"`
	Title        string  `json:"title,omitempty"`
	ThumbnailURL string  `json:"thumbnail_url,omitempty"`
}

// Client calls the speech-to-text endpoint and persists normalized results.
type Client struct {
	outputDir string
	audio     *media.Audio
	call      func(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
	now       func() time.Time
}

// NewClient creates a transcription client for one API key and base URL.
// Keys arrive per request, so clients are built per job.
func NewClient(apiKey, baseURL, outputDir string, audio *media.Audio) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	api := openai.NewClientWithConfig(cfg)

	return &Client{
		outputDir: outputDir,
		audio:     audio,
		call:      api.CreateTranscription,
		now:       time.Now,
	}
}

// TranscribeFile transcribes an audio file, switching to the chunked path
// when the file exceeds the upstream upload limit.
func (c *Client) TranscribeFile(ctx context.Context, audioPath string, opts Options) (*Result, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return nil, fmt.Errorf("cannot access audio file: %w", err)
	}

	if info.Size() > maxDirectFileBytes {
		log.Printf("[STT] File size (%.2f MB) exceeds %d MB limit, using chunking",
			float64(info.Size())/(1<<20), maxDirectFileBytes>>20)
		return c.transcribeLarge(ctx, audioPath, opts)
	}

	start := c.now()
	transcript, err := c.transcribeOnce(ctx, audioPath, opts)
	if err != nil {
		return nil, err
	}

	outPath, content, err := c.saveTranscript(audioPath, transcript, opts.Timestamp)
	if err != nil {
		return nil, err
	}

	return &Result{
		Content:     content,
		FilePath:    outPath,
		ElapsedTime: c.now().Sub(start).Seconds(),
	}, nil
}

// transcribeOnce performs one upstream call and reduces the response to the
// canonical schema.
func (c *Client) transcribeOnce(ctx context.Context, audioPath string, opts Options) (model.Transcript, error) {
	req := openai.AudioRequest{
		Model:    opts.Model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}
	if lang := normalizeLanguage(opts.Language); lang != "" {
		req.Language = lang
	}
	if opts.Translate {
		req.Prompt = translateHint
	}

	resp, err := c.call(ctx, req)
	if err != nil {
		return model.Transcript{}, upstream.Classify(err)
	}
	return normalizeResponse(resp), nil
}

// normalizeResponse keeps only the stable fields of the verbose response.
func normalizeResponse(resp openai.AudioResponse) model.Transcript {
	t := model.Transcript{
		Text:     resp.Text,
		Language: resp.Language,
		Duration: resp.Duration,
	}
	for _, s := range resp.Segments {
		t.Segments = append(t.Segments, model.Segment{
			ID:    s.ID,
			Start: s.Start,
			End:   s.End,
			Text:  s.Text,
			Seek:  s.Seek,
		})
	}
	return t
}

// saveTranscript writes the transcript as indented JSON into the output
// directory, deriving the artifact name from the source filename.
func (c *Client) saveTranscript(sourcePath string, t model.Transcript, timestamp bool) (string, string, error) {
	base := filepath.Base(sourcePath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if timestamp {
		name += "_" + c.now().Format("20060102_150405")
	}

	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating output directory: %w", err)
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("encoding transcript: %w", err)
	}

	outPath := filepath.Join(c.outputDir, name+".json")
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return "", "", fmt.Errorf("writing transcript file: %w", err)
	}
	return outPath, string(data), nil
}

// normalizeLanguage maps the auto-detection sentinels to "omit the field".
func normalizeLanguage(raw string) string {
	lang := strings.TrimSpace(raw)
	if lang == "" || strings.EqualFold(lang, "auto") || lang == "Automatic Detection" {
		return ""
	}
	return lang
}
