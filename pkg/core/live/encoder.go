package live

import (
	"sync"

	"github.com/rs/zerolog"
)

// FrameSink accepts wire-ready PCM frames. The provider connection
// implements it.
type FrameSink interface {
	SendRealtimeInput(pcm []byte) error
}

// FrameEncoder converts fixed-size float32 capture windows into PCM16LE
// frames and forwards them to the attached sink. Delivery is best effort:
// frames produced while no sink is attached, and frames whose send fails,
// are dropped without surfacing an error to the capture path.
type FrameEncoder struct {
	mu   sync.Mutex
	sink FrameSink

	onLevel func(rms float64)
	rec     Recorder
	log     zerolog.Logger
}

// NewFrameEncoder creates a frame encoder. onLevel receives the RMS level of
// every window, attached or not; it may be nil.
func NewFrameEncoder(onLevel func(rms float64), rec Recorder, log zerolog.Logger) *FrameEncoder {
	if rec == nil {
		rec = NopRecorder{}
	}
	return &FrameEncoder{
		onLevel: onLevel,
		rec:     rec,
		log:     log.With().Str("component", "encoder").Logger(),
	}
}

// Attach sets the active sink. Subsequent windows are encoded and sent.
func (e *FrameEncoder) Attach(sink FrameSink) {
	e.mu.Lock()
	e.sink = sink
	e.mu.Unlock()
}

// Detach clears the active sink. Subsequent windows are dropped.
func (e *FrameEncoder) Detach() {
	e.mu.Lock()
	e.sink = nil
	e.mu.Unlock()
}

// ProcessWindow handles one capture window. Called from the capture
// goroutine for every window the microphone delivers.
func (e *FrameEncoder) ProcessWindow(samples []float32) {
	if e.onLevel != nil {
		e.onLevel(RMSLevel(samples))
	}

	e.mu.Lock()
	sink := e.sink
	e.mu.Unlock()

	if sink == nil {
		e.rec.FrameDropped()
		return
	}

	pcm := EncodePCM16(samples)
	if err := sink.SendRealtimeInput(pcm); err != nil {
		e.rec.FrameDropped()
		e.log.Debug().Err(err).Int("bytes", len(pcm)).Msg("frame send failed, dropping")
		return
	}
	e.rec.FrameSent()
}
