package live

import (
	"strconv"
	"time"
)

// SessionState represents the current state of the live session.
type SessionState int

const (
	// StateDisconnected is the idle state before start and after teardown.
	StateDisconnected SessionState = iota
	// StateConnecting is when device and upstream setup is in flight.
	StateConnecting
	// StateConnected is when the duplex conversation is live.
	StateConnected
)

// String returns a human-readable state name.
func (s SessionState) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	default:
		return "UNKNOWN"
	}
}

// DefaultModel is the realtime model used when none is configured.
const DefaultModel = "gemini-2.5-flash-native-audio-preview-09-2025"

// SessionConfig holds all configuration for a live session.
type SessionConfig struct {
	// Model is the upstream realtime model.
	Model string `json:"model"`

	// System is the system instruction sent on connect.
	System string `json:"system,omitempty"`

	// Voice is the prebuilt voice name for synthesized output.
	Voice string `json:"voice,omitempty"`

	// UserID identifies the learner for transcript sync.
	UserID string `json:"user_id"`

	// Capture is the microphone audio format. Default: 16 kHz mono.
	Capture AudioConfig `json:"capture"`

	// Playback is the speaker audio format. Default: 24 kHz mono.
	Playback AudioConfig `json:"playback"`

	// SyncTimeout bounds the post-session transcript upload.
	SyncTimeout time.Duration `json:"sync_timeout"`
}

// DefaultSessionConfig returns a SessionConfig with sensible defaults.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Model:       DefaultModel,
		Voice:       "Kore",
		Capture:     DefaultCaptureConfig(),
		Playback:    DefaultPlaybackConfig(),
		SyncTimeout: 15 * time.Second,
	}
}

// CaptureWindowSamples is the fixed per-window sample count delivered by the
// microphone. At 16 kHz this is roughly a quarter second of audio.
const CaptureWindowSamples = 4096

// AudioConfig specifies audio format parameters.
type AudioConfig struct {
	// SampleRate in Hz. Capture uses 16000, playback 24000.
	SampleRate int `json:"sample_rate"`

	// Channels: 1 for mono, 2 for stereo.
	Channels int `json:"channels"`

	// BitsPerSample: typically 16 for PCM.
	BitsPerSample int `json:"bits_per_sample"`
}

// DefaultCaptureConfig returns the microphone audio configuration.
func DefaultCaptureConfig() AudioConfig {
	return AudioConfig{
		SampleRate:    16000,
		Channels:      1,
		BitsPerSample: 16,
	}
}

// DefaultPlaybackConfig returns the speaker audio configuration.
func DefaultPlaybackConfig() AudioConfig {
	return AudioConfig{
		SampleRate:    24000,
		Channels:      1,
		BitsPerSample: 16,
	}
}

// BytesPerSecond returns the audio byte rate.
func (c AudioConfig) BytesPerSecond() int {
	return c.SampleRate * c.Channels * (c.BitsPerSample / 8)
}

// Duration returns the playback duration of the given byte count.
func (c AudioConfig) Duration(bytes int) time.Duration {
	bps := c.BytesPerSecond()
	if bps == 0 {
		return 0
	}
	return time.Duration(bytes) * time.Second / time.Duration(bps)
}

// BytesForDuration returns the byte count for the given duration.
func (c AudioConfig) BytesForDuration(d time.Duration) int {
	return int(int64(c.BytesPerSecond()) * int64(d) / int64(time.Second))
}

// MIMEType returns the wire MIME type for raw PCM at this sample rate.
func (c AudioConfig) MIMEType() string {
	return "audio/pcm;rate=" + strconv.Itoa(c.SampleRate)
}
