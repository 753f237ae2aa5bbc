package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/lingualive/lingualive/pkg/core/live"
)

// The metrics type must satisfy the core's recorder port.
var _ live.Recorder = (*Metrics)(nil)

func TestRecorderCounters(t *testing.T) {
	m := New()

	m.FrameSent()
	m.FrameSent()
	m.FrameDropped()
	m.ChunkScheduled(200 * time.Millisecond)
	m.ChunkDropped()
	m.PlaybackInterrupted(3)
	m.TurnCompleted(2)
	m.SyncFinished(nil)
	m.SyncFinished(errors.New("down"))

	if got := testutil.ToFloat64(m.FramesSent); got != 2 {
		t.Errorf("frames sent = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.FramesDropped); got != 1 {
		t.Errorf("frames dropped = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SourcesStopped); got != 3 {
		t.Errorf("sources stopped = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.TranscriptEntries); got != 2 {
		t.Errorf("transcript entries = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.SyncSuccesses); got != 1 {
		t.Errorf("sync successes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SyncFailures); got != 1 {
		t.Errorf("sync failures = %v, want 1", got)
	}
}

func TestActiveSessionsGauge(t *testing.T) {
	m := New()

	m.SessionStarted()
	if got := testutil.ToFloat64(m.ActiveSessions); got != 1 {
		t.Fatalf("active = %v, want 1", got)
	}
	m.SessionEnded(time.Minute)
	if got := testutil.ToFloat64(m.ActiveSessions); got != 0 {
		t.Fatalf("active = %v, want 0", got)
	}
}
