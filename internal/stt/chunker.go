package stt

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"scribby/internal/model"
)

// chunkResult pairs a per-chunk transcript with the chunk's offset into the
// original stream.
type chunkResult struct {
	transcript model.Transcript
	offset     float64
}

// chunkCount returns the number of fixed-length chunks needed to cover a
// stream of the given duration. Always at least one.
func chunkCount(duration float64) int {
	n := int(math.Ceil(duration / chunkSeconds))
	if n < 1 {
		n = 1
	}
	return n
}

func chunkOffset(i int) float64 {
	return float64(i) * chunkSeconds
}

// transcribeLarge splits the source into 10-minute chunks, transcribes them
// sequentially and merges the results into a single transcript. Chunks that
// fail to transcribe are skipped rather than failing the whole job.
func (c *Client) transcribeLarge(ctx context.Context, audioPath string, opts Options) (*Result, error) {
	start := c.now()

	duration, err := c.audio.Duration(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	chunkDir, err := os.MkdirTemp("", "scribby-chunks-*")
	if err != nil {
		return nil, fmt.Errorf("creating chunk directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(chunkDir); err != nil {
			log.Printf("[STT] Warning: could not remove chunk directory %s: %v", chunkDir, err)
		}
	}()

	total := chunkCount(duration)
	log.Printf("[STT] Splitting %s (%.1fs) into %d chunks", filepath.Base(audioPath), duration, total)

	var (
		results   []chunkResult
		artifacts []string
	)
	for i := 0; i < total; i++ {
		offset := chunkOffset(i)
		chunkPath := filepath.Join(chunkDir, fmt.Sprintf("chunk_%03d.mp3", i))

		// The last chunk runs to end-of-stream instead of a fixed length.
		length := chunkSeconds
		if i == total-1 {
			length = 0
		}
		if err := c.audio.Cut(ctx, audioPath, offset, length, chunkPath); err != nil {
			return nil, fmt.Errorf("cutting chunk %d: %w", i, err)
		}

		transcript, err := c.transcribeOnce(ctx, chunkPath, opts)
		if err != nil {
			log.Printf("[STT] Warning: chunk %d/%d failed, skipping: %v", i+1, total, err)
			continue
		}

		// Per-chunk artifacts are intermediate, no timestamp suffix.
		path, _, err := c.saveTranscript(chunkPath, transcript, false)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, path)
		results = append(results, chunkResult{transcript: transcript, offset: offset})
	}

	merged := mergeChunks(results)
	outPath, content, err := c.saveTranscript(audioPath, merged, opts.Timestamp)
	if err != nil {
		return nil, err
	}

	for _, path := range artifacts {
		if err := os.Remove(path); err != nil {
			log.Printf("[STT] Warning: could not remove chunk transcript %s: %v", path, err)
		}
	}

	return &Result{
		Content:     preview(content),
		FilePath:    outPath,
		ElapsedTime: c.now().Sub(start).Seconds(),
	}, nil
}

// mergeChunks combines per-chunk transcripts into one transcript covering the
// whole stream. Segment timestamps are shifted by the chunk offset; segment
// ids and seek positions are kept as the upstream reported them.
func mergeChunks(chunks []chunkResult) model.Transcript {
	var merged model.Transcript
	merged.Language = "Unknown"

	var parts []string
	for _, chunk := range chunks {
		if text := strings.TrimSpace(chunk.transcript.Text); text != "" {
			parts = append(parts, text)
		}
		if merged.Language == "Unknown" && chunk.transcript.Language != "" {
			merged.Language = chunk.transcript.Language
		}
		merged.Duration += chunk.transcript.Duration

		for _, s := range chunk.transcript.Segments {
			s.Start += chunk.offset
			s.End += chunk.offset
			merged.Segments = append(merged.Segments, s)
		}
	}
	merged.Text = strings.TrimSpace(strings.Join(parts, " "))
	return merged
}

// preview truncates long transcript content for inline job results. The full
// text stays in the artifact file. The limit is in characters: a byte slice
// could cut a multi-byte rune in half.
func preview(content string) string {
	if utf8.RuneCountInString(content) <= previewLimit {
		return content
	}
	return string([]rune(content)[:previewLimit]) + "..."
}
