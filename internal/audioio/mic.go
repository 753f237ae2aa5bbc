// Package audioio owns the physical audio devices: a malgo-backed
// microphone delivering fixed-size capture windows and an oto-backed speaker
// implementing the session core's output port.
package audioio

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/rs/zerolog"

	"github.com/lingualive/lingualive/pkg/core/live"
)

// Microphone captures 16 kHz mono float32 audio and delivers it in windows
// of live.CaptureWindowSamples samples. Implements live.Microphone.
type Microphone struct {
	ctx *malgo.AllocatedContext
	log zerolog.Logger

	mu     sync.Mutex
	device *malgo.Device
	window []float32
}

// NewMicrophone initializes the audio context. The device itself is opened
// per session in Start.
func NewMicrophone(log zerolog.Logger) (*Microphone, error) {
	ctxConfig := malgo.ContextConfig{}
	ctxConfig.ThreadPriority = malgo.ThreadPriorityRealtime

	ctx, err := malgo.InitContext(nil, ctxConfig, nil)
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}

	return &Microphone{
		ctx: ctx,
		log: log.With().Str("component", "mic").Logger(),
	}, nil
}

// Start opens the capture device and begins delivering windows to onWindow
// from the device callback thread.
func (m *Microphone) Start(onWindow func(samples []float32)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil {
		return fmt.Errorf("capture already running")
	}

	cfg := live.DefaultCaptureConfig()
	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = uint32(cfg.Channels)
	deviceConfig.SampleRate = uint32(cfg.SampleRate)
	deviceConfig.PeriodSizeInFrames = live.CaptureWindowSamples

	m.window = m.window[:0]
	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, frameCount uint32) {
			m.onData(input, onWindow)
		},
	}

	device, err := malgo.InitDevice(m.ctx.Context, deviceConfig, callbacks)
	if err != nil {
		return fmt.Errorf("init capture device: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("start capture device: %w", err)
	}

	m.device = device
	m.log.Debug().Uint32("sample_rate", deviceConfig.SampleRate).Msg("capture started")
	return nil
}

// onData accumulates device callback data until a full window is available.
// The device may deliver periods of any size regardless of the requested
// period frames.
func (m *Microphone) onData(input []byte, onWindow func([]float32)) {
	m.mu.Lock()
	for i := 0; i+4 <= len(input); i += 4 {
		bits := binary.LittleEndian.Uint32(input[i:])
		m.window = append(m.window, math.Float32frombits(bits))
	}

	var full [][]float32
	for len(m.window) >= live.CaptureWindowSamples {
		window := make([]float32, live.CaptureWindowSamples)
		copy(window, m.window[:live.CaptureWindowSamples])
		m.window = m.window[live.CaptureWindowSamples:]
		full = append(full, window)
	}
	m.mu.Unlock()

	for _, window := range full {
		onWindow(window)
	}
}

// Stop releases the capture device. Safe to call repeatedly and when no
// capture is running.
func (m *Microphone) Stop() {
	m.mu.Lock()
	device := m.device
	m.device = nil
	m.window = nil
	m.mu.Unlock()

	if device != nil {
		_ = device.Stop()
		device.Uninit()
		m.log.Debug().Msg("capture stopped")
	}
}

// Close releases the audio context. The microphone is unusable afterwards.
func (m *Microphone) Close() {
	m.Stop()
	_ = m.ctx.Uninit()
	m.ctx.Free()
}
