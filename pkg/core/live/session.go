package live

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Dialer establishes upstream connections. The provider adapter implements
// it.
type Dialer interface {
	Dial(ctx context.Context, cfg ConnectConfig) (Upstream, error)
}

// ConnectConfig is the subset of session configuration the provider needs to
// open a connection.
type ConnectConfig struct {
	Model  string
	System string
	Voice  string
}

// Upstream is an established provider connection. Events yields decoded
// server events in delivery order; the channel closes when the connection
// ends. Close is idempotent.
type Upstream interface {
	FrameSink
	Events() <-chan ServerEvent
	Close() error
}

// Microphone is the capture device port. Start begins delivering fixed-size
// float32 windows to the callback from the device's own goroutine; Stop
// releases the device and is safe to call repeatedly.
type Microphone interface {
	Start(onWindow func(samples []float32)) error
	Stop()
}

// TranscriptSyncer uploads a completed session transcript.
type TranscriptSyncer interface {
	SyncTranscript(ctx context.Context, userID string, entries []TranscriptEntry) error
}

// Session is the orchestrator for one live conversation attempt. It owns the
// upstream connection exclusively and moves Disconnected -> Connecting ->
// Connected -> Disconnected exactly once; after teardown the session is
// spent and a new conversation needs a new Session.
type Session struct {
	config SessionConfig

	dialer Dialer
	mic    Microphone
	syncer TranscriptSyncer
	rec    Recorder
	log    zerolog.Logger

	encoder    *FrameEncoder
	scheduler  *Scheduler
	transcript *Assembler
	progress   *Tracker

	mu        sync.Mutex
	state     SessionState
	conn      Upstream
	startedAt time.Time

	sessionID string
	events    chan Event
	done      chan struct{}
	closed    atomic.Bool

	emitMu       sync.Mutex
	eventsClosed bool
}

// NewSession creates a live session. The output device and clock feed the
// playback scheduler; everything else wires in directly.
func NewSession(
	config SessionConfig,
	dialer Dialer,
	mic Microphone,
	out Output,
	syncer TranscriptSyncer,
	clock Clock,
	rec Recorder,
	log zerolog.Logger,
) *Session {
	if config.Capture.SampleRate == 0 {
		config.Capture = DefaultCaptureConfig()
	}
	if config.Playback.SampleRate == 0 {
		config.Playback = DefaultPlaybackConfig()
	}
	if config.SyncTimeout == 0 {
		config.SyncTimeout = DefaultSessionConfig().SyncTimeout
	}
	if rec == nil {
		rec = NopRecorder{}
	}
	if clock == nil {
		epoch := time.Now()
		clock = func() time.Duration { return time.Since(epoch) }
	}

	s := &Session{
		config:    config,
		dialer:    dialer,
		mic:       mic,
		syncer:    syncer,
		rec:       rec,
		log:       log.With().Str("component", "session").Logger(),
		state:     StateDisconnected,
		sessionID: uuid.NewString(),
		events:    make(chan Event, 100),
		done:      make(chan struct{}),
	}

	s.encoder = NewFrameEncoder(func(rms float64) {
		s.emit(&LevelEvent{RMS: rms})
	}, rec, log)
	s.scheduler = NewScheduler(config.Playback, out, clock, rec, log)
	s.transcript = NewAssembler()
	s.progress = NewTracker(func(question int) {
		s.emit(&ProgressEvent{Question: question})
	})

	return s
}

// SessionID returns the session identifier.
func (s *Session) SessionID() string {
	return s.sessionID
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Events returns the channel for receiving session events. It closes after
// teardown completes, including the transcript sync if one runs.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Transcript returns a copy of the committed transcript entries so far.
func (s *Session) Transcript() []TranscriptEntry {
	return s.transcript.Entries()
}

// Start opens the capture device and the upstream connection. On any setup
// failure every acquired resource is released and the session returns to
// Disconnected with nothing half-open. A Stop racing the connect wins: the
// dialed connection is discarded and Start returns ErrSessionActive.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateDisconnected || s.closed.Load() {
		s.mu.Unlock()
		return ErrSessionActive
	}
	s.state = StateConnecting
	s.mu.Unlock()
	s.emit(&StateChangedEvent{From: StateDisconnected, To: StateConnecting})

	if err := s.mic.Start(s.encoder.ProcessWindow); err != nil {
		s.setState(StateDisconnected)
		s.log.Error().Err(err).Msg("capture device unavailable")
		return NewMicDeniedError(err)
	}

	conn, err := s.dialer.Dial(ctx, ConnectConfig{
		Model:  s.config.Model,
		System: s.config.System,
		Voice:  s.config.Voice,
	})
	if err != nil {
		s.mic.Stop()
		s.setState(StateDisconnected)
		s.log.Error().Err(err).Str("model", s.config.Model).Msg("upstream connect failed")
		return NewConnectFailedError(err)
	}

	s.encoder.Attach(conn)

	// Stop may have torn the session down while the dial was in flight. Once
	// closed is set teardown never runs again, so the connection acquired
	// here must be released on this path.
	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		s.encoder.Detach()
		_ = conn.Close()
		s.mic.Stop()
		s.log.Info().Str("session_id", s.sessionID).Msg("stopped while connecting, discarding connection")
		return ErrSessionActive
	}
	s.conn = conn
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.setState(StateConnected)
	s.rec.SessionStarted()
	s.log.Info().Str("session_id", s.sessionID).Str("model", s.config.Model).Msg("session connected")

	go s.receiveLoop(conn)
	return nil
}

// Stop tears the session down. Safe to call in any state, from any
// goroutine, any number of times.
func (s *Session) Stop() {
	s.teardown("stop")
}

// receiveLoop dispatches upstream events strictly in delivery order. It is
// the only goroutine that touches the assembler, tracker, and scheduler on
// the receive side, so ordering between transcription tokens, turn
// boundaries, audio, and interrupts is exactly the wire ordering.
func (s *Session) receiveLoop(conn Upstream) {
	for ev := range conn.Events() {
		switch e := ev.(type) {
		case *InputTranscriptionEvent:
			s.transcript.AddInput(e.Text)

		case *OutputTranscriptionEvent:
			s.transcript.AddOutput(e.Text)
			s.progress.AddOutput(e.Text)

		case *AudioChunkEvent:
			s.scheduler.Schedule(e.PCM)

		case *TurnCompleteEvent:
			committed := s.transcript.CommitTurn()
			s.progress.CommitTurn()
			s.rec.TurnCompleted(len(committed))
			for _, entry := range committed {
				s.emit(&EntryAddedEvent{Entry: entry})
			}

		case *InterruptedEvent:
			s.scheduler.Interrupt()

		case *UpstreamErrorEvent:
			s.log.Error().Err(e.Err).Msg("upstream connection error")
			s.emit(&SessionErrorEvent{Code: CodeConnectionLost, Message: e.Err.Error()})
			s.teardown("error")
			return

		case *UpstreamClosedEvent:
			s.teardown(e.Reason)
			return
		}
	}
	s.teardown("closed")
}

// teardown releases every resource and finishes the session. Runs at most
// once; later calls return immediately.
func (s *Session) teardown(reason string) {
	if s.closed.Swap(true) {
		return
	}

	s.encoder.Detach()

	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	startedAt := s.startedAt
	s.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}

	s.scheduler.Reset()
	s.mic.Stop()
	s.progress.Reset()

	close(s.done)
	s.setState(StateDisconnected)

	if !startedAt.IsZero() {
		s.rec.SessionEnded(time.Since(startedAt))
	}
	s.log.Info().Str("session_id", s.sessionID).Str("reason", reason).Int("entries", s.transcript.Len()).Msg("session ended")

	entries := s.transcript.Entries()
	if len(entries) > 0 && s.syncer != nil {
		s.emit(&SyncStateEvent{Syncing: true})
		go s.syncTranscript(entries)
		return
	}
	s.closeEvents()
}

// syncTranscript uploads the transcript after teardown. Failure is logged
// and reported to the recorder but never surfaced as a session error.
func (s *Session) syncTranscript(entries []TranscriptEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.SyncTimeout)
	defer cancel()

	err := s.syncer.SyncTranscript(ctx, s.config.UserID, entries)
	s.rec.SyncFinished(err)
	if err != nil {
		s.log.Warn().Err(err).Int("entries", len(entries)).Msg("transcript sync failed")
	} else {
		s.log.Info().Int("entries", len(entries)).Msg("transcript synced")
	}

	s.emit(&SyncStateEvent{Syncing: false})
	s.closeEvents()
}

// setState updates the session state and emits an event.
func (s *Session) setState(newState SessionState) {
	s.mu.Lock()
	oldState := s.state
	s.state = newState
	s.mu.Unlock()

	if oldState != newState {
		s.log.Debug().Stringer("from", oldState).Stringer("to", newState).Msg("state changed")
		s.emit(&StateChangedEvent{From: oldState, To: newState})
	}
}

// emit sends an event to the events channel without blocking. Events are
// dropped if the consumer falls behind or the channel is already closed.
func (s *Session) emit(event Event) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	if s.eventsClosed {
		return
	}
	select {
	case s.events <- event:
	default:
	}
}

func (s *Session) closeEvents() {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	if !s.eventsClosed {
		s.eventsClosed = true
		close(s.events)
	}
}
