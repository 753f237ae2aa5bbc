package live

import (
	"encoding/binary"
	"math"
	"testing"
	"time"
)

func TestEncodePCM16(t *testing.T) {
	pcm := EncodePCM16([]float32{0, 0.5, -0.5, 1, -1, 2, -2})

	want := []int16{0, 16383, -16383, 32767, -32767, 32767, -32767}
	if len(pcm) != len(want)*2 {
		t.Fatalf("encoded %d bytes, want %d", len(pcm), len(want)*2)
	}
	for i, w := range want {
		got := int16(binary.LittleEndian.Uint16(pcm[i*2:]))
		if got != w {
			t.Errorf("sample %d = %d, want %d", i, got, w)
		}
	}
}

func TestRMSLevel(t *testing.T) {
	tests := []struct {
		name    string
		samples []float32
		want    float64
	}{
		{"empty", nil, 0},
		{"silence", make([]float32, 128), 0},
		{"full scale", []float32{1, -1, 1, -1}, 1},
		{"half scale", []float32{0.5, -0.5}, 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := RMSLevel(tc.samples)
			if math.Abs(got-tc.want) > 1e-6 {
				t.Errorf("RMSLevel = %f, want %f", got, tc.want)
			}
		})
	}
}

func TestValidPCM16(t *testing.T) {
	if ValidPCM16(nil) || ValidPCM16([]byte{}) || ValidPCM16([]byte{1, 2, 3}) {
		t.Error("invalid chunks reported valid")
	}
	if !ValidPCM16([]byte{1, 2}) {
		t.Error("valid chunk reported invalid")
	}
}

func TestAudioConfigDuration(t *testing.T) {
	playback := DefaultPlaybackConfig()
	if got := playback.BytesPerSecond(); got != 48000 {
		t.Errorf("playback BytesPerSecond = %d, want 48000", got)
	}
	if got := playback.Duration(48000); got != time.Second {
		t.Errorf("Duration(48000) = %v, want 1s", got)
	}
	if got := playback.BytesForDuration(500 * time.Millisecond); got != 24000 {
		t.Errorf("BytesForDuration(500ms) = %d, want 24000", got)
	}

	capture := DefaultCaptureConfig()
	if got := capture.MIMEType(); got != "audio/pcm;rate=16000" {
		t.Errorf("capture MIMEType = %q", got)
	}
	// One capture window is 4096 samples, exactly 256ms at 16 kHz.
	if got := capture.Duration(CaptureWindowSamples * 2); got != 256*time.Millisecond {
		t.Errorf("window duration = %v, want 256ms", got)
	}
}
