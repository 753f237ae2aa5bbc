package live

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type fakeSink struct {
	frames  [][]byte
	failAll bool
}

func (s *fakeSink) SendRealtimeInput(pcm []byte) error {
	if s.failAll {
		return errors.New("connection reset")
	}
	s.frames = append(s.frames, pcm)
	return nil
}

func TestEncoderSendsAttachedFrames(t *testing.T) {
	sink := &fakeSink{}
	e := NewFrameEncoder(nil, nil, zerolog.Nop())
	e.Attach(sink)

	e.ProcessWindow([]float32{0, 0.5, -0.5})

	if len(sink.frames) != 1 {
		t.Fatalf("sent %d frames, want 1", len(sink.frames))
	}
	if len(sink.frames[0]) != 6 {
		t.Errorf("frame = %d bytes, want 6", len(sink.frames[0]))
	}
}

func TestEncoderDropsWithoutSink(t *testing.T) {
	e := NewFrameEncoder(nil, nil, zerolog.Nop())

	// Must not panic or block before any connection is attached.
	e.ProcessWindow(make([]float32, CaptureWindowSamples))

	sink := &fakeSink{}
	e.Attach(sink)
	e.ProcessWindow(make([]float32, CaptureWindowSamples))
	e.Detach()
	e.ProcessWindow(make([]float32, CaptureWindowSamples))

	if len(sink.frames) != 1 {
		t.Errorf("sent %d frames, want 1 (only while attached)", len(sink.frames))
	}
}

func TestEncoderSwallowsSendFailure(t *testing.T) {
	sink := &fakeSink{failAll: true}
	e := NewFrameEncoder(nil, nil, zerolog.Nop())
	e.Attach(sink)

	// Send failures are absorbed; the capture path never sees them.
	e.ProcessWindow([]float32{0.1, 0.2})
	e.ProcessWindow([]float32{0.3, 0.4})
}

func TestEncoderLevelTap(t *testing.T) {
	var levels []float64
	e := NewFrameEncoder(func(rms float64) { levels = append(levels, rms) }, nil, zerolog.Nop())

	// The level tap fires for every window, attached or not.
	e.ProcessWindow([]float32{1, -1})
	e.Attach(&fakeSink{})
	e.ProcessWindow(make([]float32, 4))

	if len(levels) != 2 {
		t.Fatalf("level callbacks = %d, want 2", len(levels))
	}
	if levels[0] != 1 || levels[1] != 0 {
		t.Errorf("levels = %v, want [1 0]", levels)
	}
}
