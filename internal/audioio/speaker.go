package audioio

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/rs/zerolog"

	"github.com/lingualive/lingualive/pkg/core/live"
)

// Speaker plays 24 kHz mono PCM16LE through oto. Implements live.Output:
// the playback scheduler hands it chunks with a start delay, and the speaker
// reports natural completion through the done callback. The underlying
// player pulls from an internal buffer; when the buffer is empty the speaker
// feeds silence, which is what fills scheduling slack between chunks.
type Speaker struct {
	otoCtx *oto.Context
	player *oto.Player
	cfg    live.AudioConfig
	log    zerolog.Logger

	mu     sync.Mutex
	buf    []byte
	closed bool
}

// NewSpeaker opens the playback device.
func NewSpeaker(log zerolog.Logger) (*Speaker, error) {
	cfg := live.DefaultPlaybackConfig()
	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   100 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	<-ready

	s := &Speaker{
		otoCtx: otoCtx,
		cfg:    cfg,
		log:    log.With().Str("component", "speaker").Logger(),
	}
	s.player = otoCtx.NewPlayer(s)
	s.player.Play()
	return s, nil
}

// Start schedules one chunk. The delay timer and the completion timer run in
// a goroutine per source; done fires only on natural completion, never after
// Stop.
func (s *Speaker) Start(pcm []byte, delay time.Duration, done func()) (live.OutputHandle, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("speaker closed")
	}

	h := &playHandle{speaker: s, stop: make(chan struct{})}
	duration := s.cfg.Duration(len(pcm))

	go func() {
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-h.stop:
				timer.Stop()
				return
			}
		}

		s.enqueue(pcm)

		timer := time.NewTimer(duration)
		select {
		case <-timer.C:
			if done != nil {
				done()
			}
		case <-h.stop:
			timer.Stop()
		}
	}()

	return h, nil
}

type playHandle struct {
	speaker  *Speaker
	stop     chan struct{}
	stopOnce sync.Once
}

// Stop cancels the source and drops any audio still queued on the device.
// Safe on sources that already finished.
func (h *playHandle) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)
		h.speaker.flush()
	})
}

// Read implements io.Reader for the oto player. Empty buffer yields silence
// so the device never starves.
func (s *Speaker) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

func (s *Speaker) enqueue(pcm []byte) {
	s.mu.Lock()
	if !s.closed {
		s.buf = append(s.buf, pcm...)
	}
	s.mu.Unlock()
}

func (s *Speaker) flush() {
	s.mu.Lock()
	s.buf = s.buf[:0]
	s.mu.Unlock()
}

// Close releases the playback device.
func (s *Speaker) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.buf = nil
	s.mu.Unlock()

	if s.player != nil {
		_ = s.player.Close()
	}
	s.log.Debug().Msg("speaker closed")
}
