package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitForStatus polls until the job reaches the wanted status or the test
// deadline expires.
func waitForStatus(t *testing.T, r *Registry, id string, want Status) Snapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snap, err := r.Get(id)
		require.NoError(t, err)
		if snap.Status == want {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s never reached status %s", id, want)
	return Snapshot{}
}

func TestSubmitReturnsImmediately(t *testing.T) {
	r := NewRegistry()
	release := make(chan struct{})

	id := r.Submit(KindTranscription, func(ctx context.Context, report func(string)) (Outcome, error) {
		<-release
		return Outcome{Result: "done"}, nil
	})
	require.NotEmpty(t, id)

	snap, err := r.Get(id)
	require.NoError(t, err)
	assert.Contains(t, []Status{StatusQueued, StatusProcessing}, snap.Status)

	close(release)
	waitForStatus(t, r, id, StatusCompleted)
}

func TestGetUnknownJob(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJobCompletesWithResult(t *testing.T) {
	r := NewRegistry()
	id := r.Submit(KindTranscription, func(ctx context.Context, report func(string)) (Outcome, error) {
		report("Transcription in progress...")
		return Outcome{Message: "Transcription completed in 1.00 seconds", Result: 42}, nil
	})

	snap := waitForStatus(t, r, id, StatusCompleted)
	assert.Equal(t, "Transcription completed in 1.00 seconds", snap.Message)
	assert.Equal(t, 42, snap.Result)

	result, err := r.Result(id)
	require.NoError(t, err)
	assert.Equal(t, 42, result)
}

func TestJobFailureRecordsMessage(t *testing.T) {
	r := NewRegistry()
	id := r.Submit(KindGeneration, func(ctx context.Context, report func(string)) (Outcome, error) {
		return Outcome{}, errors.New("upstream exploded")
	})

	snap := waitForStatus(t, r, id, StatusError)
	assert.Equal(t, "Error: upstream exploded", snap.Message)

	_, err := r.Result(id)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestResultBeforeCompletion(t *testing.T) {
	r := NewRegistry()
	release := make(chan struct{})
	id := r.Submit(KindTranscription, func(ctx context.Context, report func(string)) (Outcome, error) {
		<-release
		return Outcome{Result: "late"}, nil
	})

	_, err := r.Result(id)
	assert.ErrorIs(t, err, ErrInvalidState)

	close(release)
	waitForStatus(t, r, id, StatusCompleted)
}

func TestCompletedJobWithoutArtifact(t *testing.T) {
	r := NewRegistry()
	id := r.Submit(KindGeneration, func(ctx context.Context, report func(string)) (Outcome, error) {
		return Outcome{Message: "nothing to show"}, nil
	})

	waitForStatus(t, r, id, StatusCompleted)
	_, err := r.Result(id)
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestTerminalStateIsFinal(t *testing.T) {
	r := NewRegistry()
	id := r.Submit(KindTranscription, func(ctx context.Context, report func(string)) (Outcome, error) {
		return Outcome{Result: "ok"}, nil
	})
	waitForStatus(t, r, id, StatusCompleted)

	// A stray late write must not move the job out of its terminal state.
	r.update(id, StatusProcessing, "should be ignored", nil)

	snap, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, snap.Status)
	assert.Equal(t, "ok", snap.Result)
}

func TestProgressMessagesVisibleWhileProcessing(t *testing.T) {
	r := NewRegistry()
	reported := make(chan struct{})
	release := make(chan struct{})

	id := r.Submit(KindGeneration, func(ctx context.Context, report func(string)) (Outcome, error) {
		report("Transcribing YouTube video (1/30)...")
		close(reported)
		<-release
		return Outcome{Result: "done"}, nil
	})

	<-reported
	snap, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, snap.Status)
	assert.Equal(t, "Transcribing YouTube video (1/30)...", snap.Message)

	close(release)
	waitForStatus(t, r, id, StatusCompleted)
}
