package media

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	output []byte
	err    error
	name   string
	args   []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.name = name
	f.args = args
	return f.output, f.err
}

func TestDurationParsesProbeOutput(t *testing.T) {
	runner := &fakeRunner{output: []byte("2700.504000\n")}
	audio := NewAudio(runner)

	d, err := audio.Duration(context.Background(), "talk.mp3")
	require.NoError(t, err)
	assert.InDelta(t, 2700.504, d, 1e-9)
	assert.Equal(t, "ffprobe", runner.name)
	assert.Contains(t, runner.args, "format=duration")
}

func TestDurationProbeFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1")}
	audio := NewAudio(runner)

	_, err := audio.Duration(context.Background(), "talk.mp3")
	assert.ErrorIs(t, err, ErrDurationUnknown)
}

func TestDurationUnparsableOutput(t *testing.T) {
	runner := &fakeRunner{output: []byte("N/A")}
	audio := NewAudio(runner)

	_, err := audio.Duration(context.Background(), "talk.mp3")
	assert.ErrorIs(t, err, ErrDurationUnknown)
}

func TestCutBoundedChunk(t *testing.T) {
	runner := &fakeRunner{}
	audio := NewAudio(runner)

	err := audio.Cut(context.Background(), "talk.mp3", 600, 600, "/tmp/chunk_001.mp3")
	require.NoError(t, err)
	assert.Equal(t, "ffmpeg", runner.name)
	assert.Equal(t, []string{
		"-i", "talk.mp3",
		"-ss", "600",
		"-t", "600",
		"-c:a", "libmp3lame",
		"-q:a", "4",
		"-y",
		"/tmp/chunk_001.mp3",
	}, runner.args)
}

func TestCutFinalChunkRunsToEnd(t *testing.T) {
	runner := &fakeRunner{}
	audio := NewAudio(runner)

	err := audio.Cut(context.Background(), "talk.mp3", 2400, 0, "/tmp/chunk_004.mp3")
	require.NoError(t, err)
	assert.NotContains(t, runner.args, "-t")
}
