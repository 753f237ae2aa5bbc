package live

import "time"

// Recorder receives instrumentation callbacks from the session core. The
// default implementation discards everything; internal/metrics provides a
// Prometheus-backed one.
type Recorder interface {
	// FrameSent is called after a capture frame reaches the upstream.
	FrameSent()
	// FrameDropped is called when a capture frame is discarded, either
	// because no connection is attached or the send failed.
	FrameDropped()
	// ChunkScheduled is called when a playback chunk is placed on the
	// timeline.
	ChunkScheduled(d time.Duration)
	// ChunkDropped is called when a playback chunk fails validation.
	ChunkDropped()
	// PlaybackInterrupted is called on barge-in with the number of sources
	// that were stopped.
	PlaybackInterrupted(stopped int)
	// TurnCompleted is called at each turn boundary with the number of
	// transcript entries committed.
	TurnCompleted(entries int)
	// SyncFinished is called when the post-session transcript upload
	// completes.
	SyncFinished(err error)
	// SessionStarted is called when a session reaches the Connected state.
	SessionStarted()
	// SessionEnded is called at teardown with the connected duration.
	SessionEnded(d time.Duration)
}

// NopRecorder discards all instrumentation.
type NopRecorder struct{}

func (NopRecorder) FrameSent()                   {}
func (NopRecorder) FrameDropped()                {}
func (NopRecorder) ChunkScheduled(time.Duration) {}
func (NopRecorder) ChunkDropped()                {}
func (NopRecorder) PlaybackInterrupted(int)      {}
func (NopRecorder) TurnCompleted(int)            {}
func (NopRecorder) SyncFinished(error)           {}
func (NopRecorder) SessionStarted()              {}
func (NopRecorder) SessionEnded(time.Duration)   {}
