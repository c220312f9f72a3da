// Package media wraps the ffprobe/ffmpeg tools used to probe and cut audio
// streams. Both are treated as black boxes behind a CommandRunner so tests
// can swap in fakes.
package media

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrDurationUnknown means the probe could not determine the total duration
// of the source. Chunked transcription cannot proceed without it.
var ErrDurationUnknown = errors.New("could not determine audio duration")

// CommandRunner executes external commands.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner implements CommandRunner via os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// Audio probes and cuts audio files.
type Audio struct {
	runner CommandRunner
}

// NewAudio creates an audio processor backed by the given runner.
func NewAudio(runner CommandRunner) *Audio {
	return &Audio{runner: runner}
}

// Duration returns the total duration of an audio file in seconds.
func (a *Audio) Duration(ctx context.Context, audioFile string) (float64, error) {
	output, err := a.runner.Run(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioFile)
	if err != nil {
		return 0, fmt.Errorf("%w: ffprobe: %v: %s", ErrDurationUnknown, err, strings.TrimSpace(string(output)))
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parsing ffprobe output: %v", ErrDurationUnknown, err)
	}
	return duration, nil
}

// Cut extracts [start, start+duration) of an audio file into output as a
// standalone mp3. A duration <= 0 means run to end-of-stream, which is how
// the final chunk of a split avoids losing a few seconds to rounding.
func (a *Audio) Cut(ctx context.Context, audioFile string, start, duration float64, output string) error {
	args := []string{
		"-i", audioFile,
		"-ss", formatSeconds(start),
	}
	if duration > 0 {
		args = append(args, "-t", formatSeconds(duration))
	}
	args = append(args,
		"-c:a", "libmp3lame",
		"-q:a", "4",
		"-y",
		output)

	cmdOutput, err := a.runner.Run(ctx, "ffmpeg", args...)
	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w: %s", err, strings.TrimSpace(string(cmdOutput)))
	}
	return nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
