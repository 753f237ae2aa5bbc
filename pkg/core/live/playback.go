package live

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Clock reports elapsed time on the playback timeline. Injected so the
// scheduler can be driven deterministically in tests; production wiring uses
// a monotonic clock.
type Clock func() time.Duration

// Output is the speaker port. Start begins playing pcm after the given
// delay and must invoke done from its own goroutine when playback ends
// naturally, never synchronously from inside Start. done must not fire for a
// source that was stopped.
type Output interface {
	Start(pcm []byte, delay time.Duration, done func()) (OutputHandle, error)
}

// OutputHandle controls one playing source. Stop cancels pending or active
// playback and is safe to call on a source that already finished.
type OutputHandle interface {
	Stop()
}

type playbackSource struct {
	handle OutputHandle
}

// Scheduler places decoded audio chunks on a gap-free timeline. Chunks are
// scheduled back to back: each one starts at the later of the cursor and the
// current clock reading, and the cursor advances by the chunk's duration.
// Barge-in stops every active source and resets the cursor to zero so the
// next chunk plays immediately.
type Scheduler struct {
	cfg   AudioConfig
	out   Output
	clock Clock
	rec   Recorder
	log   zerolog.Logger

	mu     sync.Mutex
	cursor time.Duration
	active map[*playbackSource]struct{}
}

// NewScheduler creates a playback scheduler for the given output format.
func NewScheduler(cfg AudioConfig, out Output, clock Clock, rec Recorder, log zerolog.Logger) *Scheduler {
	if rec == nil {
		rec = NopRecorder{}
	}
	return &Scheduler{
		cfg:    cfg,
		out:    out,
		clock:  clock,
		rec:    rec,
		log:    log.With().Str("component", "playback").Logger(),
		active: make(map[*playbackSource]struct{}),
	}
}

// Schedule validates and enqueues one PCM16LE chunk. Invalid chunks are
// dropped with a warning and leave the timeline untouched.
func (s *Scheduler) Schedule(pcm []byte) {
	if !ValidPCM16(pcm) {
		s.rec.ChunkDropped()
		s.log.Warn().Int("bytes", len(pcm)).Msg("undecodable chunk, dropping")
		return
	}

	duration := s.cfg.Duration(len(pcm))

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	start := s.cursor
	if start < now {
		start = now
	}

	src := &playbackSource{}
	handle, err := s.out.Start(pcm, start-now, func() { s.sourceEnded(src) })
	if err != nil {
		s.rec.ChunkDropped()
		s.log.Warn().Err(err).Msg("output start failed, dropping chunk")
		return
	}
	src.handle = handle

	s.active[src] = struct{}{}
	s.cursor = start + duration
	s.rec.ChunkScheduled(duration)
}

// sourceEnded removes a naturally finished source. A source already removed
// by Interrupt is ignored, so each source leaves the set exactly once.
func (s *Scheduler) sourceEnded(src *playbackSource) {
	s.mu.Lock()
	_, ok := s.active[src]
	if ok {
		delete(s.active, src)
	}
	s.mu.Unlock()
}

// Interrupt stops every active source, clears the set, and resets the cursor
// so the next chunk plays as soon as it arrives.
func (s *Scheduler) Interrupt() {
	stopped := s.reset()
	s.rec.PlaybackInterrupted(stopped)
	s.log.Debug().Int("stopped", stopped).Msg("playback interrupted")
}

// Reset silently clears playback state. Used at teardown.
func (s *Scheduler) Reset() {
	s.reset()
}

func (s *Scheduler) reset() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	stopped := len(s.active)
	for src := range s.active {
		src.handle.Stop()
	}
	s.active = make(map[*playbackSource]struct{})
	s.cursor = 0
	return stopped
}

// Cursor returns the current timeline position of the scheduling cursor.
func (s *Scheduler) Cursor() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// ActiveSources returns the number of sources currently tracked.
func (s *Scheduler) ActiveSources() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}
