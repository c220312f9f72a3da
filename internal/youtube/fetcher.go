// Package youtube resolves YouTube URLs into local audio files plus the
// metadata attached to transcription results.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"

	"github.com/lrstanley/go-ytdlp"
)

var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?v=([^&\s]+)`),
	regexp.MustCompile(`youtu\.be/([^?\s]+)`),
	regexp.MustCompile(`youtube\.com/embed/([^?\s]+)`),
}

// VideoID extracts the video id from the common YouTube URL shapes.
func VideoID(url string) (string, bool) {
	for _, p := range idPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// ThumbnailURL builds the max-resolution thumbnail URL for a video id.
func ThumbnailURL(videoID string) string {
	return fmt.Sprintf("https://i.ytimg.com/vi/%s/maxresdefault.jpg", videoID)
}

// Download holds the resolved audio file and the metadata that survived
// resolution. Title and ThumbnailURL are best effort: they carry fallback
// values when metadata extraction fails.
type Download struct {
	AudioPath    string
	Title        string
	ThumbnailURL string

	tempDir string
}

// Cleanup removes the temporary download directory.
func (d *Download) Cleanup() {
	if d.tempDir == "" {
		return
	}
	if err := os.RemoveAll(d.tempDir); err != nil {
		log.Printf("[YouTube] Warning: could not remove temp dir %s: %v", d.tempDir, err)
	}
}

// Fetcher downloads YouTube audio via yt-dlp.
type Fetcher struct {
	runner func(ctx context.Context, cmd *ytdlp.Command, url string) (*ytdlp.Result, error)
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		runner: func(ctx context.Context, cmd *ytdlp.Command, url string) (*ytdlp.Result, error) {
			return cmd.Run(ctx, url)
		},
	}
}

// Install makes sure a yt-dlp binary is available, downloading one if needed.
func Install(ctx context.Context) {
	ytdlp.MustInstall(ctx, nil)
}

// Resolve fetches metadata and downloads the audio track of a YouTube URL as
// mp3. On error the returned Download still carries whatever metadata was
// resolved, so callers can attach it to the failed job.
func (f *Fetcher) Resolve(ctx context.Context, url string) (*Download, error) {
	d := &Download{Title: "YouTube Video"}
	if id, ok := VideoID(url); ok {
		d.ThumbnailURL = ThumbnailURL(id)
	}

	if title, err := f.title(ctx, url); err != nil {
		log.Printf("[YouTube] Warning: could not extract metadata for %s: %v", url, err)
	} else if title != "" {
		d.Title = title
	}

	tempDir, err := os.MkdirTemp("", "scribby-youtube-*")
	if err != nil {
		return d, fmt.Errorf("creating temp directory: %w", err)
	}
	d.tempDir = tempDir

	dl := ytdlp.New().
		Format("bestaudio").
		ExtractAudio().
		AudioFormat("mp3").
		AudioQuality("0").
		NoPlaylist().
		Output(filepath.Join(tempDir, "audio.%(ext)s"))

	if _, err := f.runner(ctx, dl, url); err != nil {
		return d, fmt.Errorf("yt-dlp failed: %w", err)
	}

	audioPath := filepath.Join(tempDir, "audio.mp3")
	info, err := os.Stat(audioPath)
	if err != nil {
		return d, errors.New("failed to download YouTube video - no file created")
	}
	if info.Size() == 0 {
		return d, errors.New("downloaded file is empty (0 bytes)")
	}

	d.AudioPath = audioPath
	return d, nil
}

// title runs a metadata-only pass and pulls the video title out of the JSON
// dump.
func (f *Fetcher) title(ctx context.Context, url string) (string, error) {
	dl := ytdlp.New().
		DumpSingleJSON().
		NoPlaylist().
		SkipDownload()

	result, err := f.runner(ctx, dl, url)
	if err != nil {
		return "", err
	}

	var meta struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal([]byte(result.Stdout), &meta); err != nil {
		return "", fmt.Errorf("parsing video metadata: %w", err)
	}
	return meta.Title, nil
}
