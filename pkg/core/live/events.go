package live

// ServerEvent is the interface for decoded upstream messages. The provider
// adapter decodes its wire format into these once, at the boundary; the
// session core never sees provider types.
type ServerEvent interface {
	// ServerEventType returns the event type string for logging.
	ServerEventType() string
}

// InputTranscriptionEvent carries a transcription token of the user's speech.
type InputTranscriptionEvent struct {
	Text string `json:"text"`
}

func (e *InputTranscriptionEvent) ServerEventType() string { return "transcription.input" }

// OutputTranscriptionEvent carries a transcription token of the model's speech.
type OutputTranscriptionEvent struct {
	Text string `json:"text"`
}

func (e *OutputTranscriptionEvent) ServerEventType() string { return "transcription.output" }

// AudioChunkEvent carries one decoded PCM16LE audio chunk for playback.
type AudioChunkEvent struct {
	PCM []byte `json:"pcm"`
}

func (e *AudioChunkEvent) ServerEventType() string { return "audio.chunk" }

// TurnCompleteEvent marks the end of a model turn.
type TurnCompleteEvent struct{}

func (e *TurnCompleteEvent) ServerEventType() string { return "turn.complete" }

// InterruptedEvent signals the user barged in over model speech.
type InterruptedEvent struct{}

func (e *InterruptedEvent) ServerEventType() string { return "interrupted" }

// UpstreamErrorEvent signals a fatal connection error.
type UpstreamErrorEvent struct {
	Err error `json:"-"`
}

func (e *UpstreamErrorEvent) ServerEventType() string { return "error" }

// UpstreamClosedEvent signals the connection closed.
type UpstreamClosedEvent struct {
	Reason string `json:"reason,omitempty"`
}

func (e *UpstreamClosedEvent) ServerEventType() string { return "closed" }

// Event is the interface for events the session emits to its rendering
// surface.
type Event interface {
	// EventType returns the event type string for serialization.
	EventType() string
}

// StateChangedEvent is emitted when the session state changes.
type StateChangedEvent struct {
	From SessionState `json:"from"`
	To   SessionState `json:"to"`
}

func (e *StateChangedEvent) EventType() string { return "state.changed" }

// EntryAddedEvent is emitted when a transcript entry is committed at a turn
// boundary.
type EntryAddedEvent struct {
	Entry TranscriptEntry `json:"entry"`
}

func (e *EntryAddedEvent) EventType() string { return "transcript.entry" }

// ProgressEvent is emitted when the interview question counter changes.
// Question runs 1..10 for the numbered questions and FinalReportPhase once
// the closing report begins.
type ProgressEvent struct {
	Question int `json:"question"`
}

func (e *ProgressEvent) EventType() string { return "progress" }

// LevelEvent carries the RMS level of the latest capture window for
// visualization.
type LevelEvent struct {
	RMS float64 `json:"rms"`
}

func (e *LevelEvent) EventType() string { return "level" }

// SyncStateEvent signals the start and end of the post-session transcript
// upload.
type SyncStateEvent struct {
	Syncing bool `json:"syncing"`
}

func (e *SyncStateEvent) EventType() string { return "sync.state" }

// SessionErrorEvent is emitted when a fatal session error occurs.
type SessionErrorEvent struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *SessionErrorEvent) EventType() string { return "error" }
