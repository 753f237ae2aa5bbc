package live

import (
	"encoding/binary"
	"math"
)

// EncodePCM16 converts float32 samples in [-1, 1] to little-endian 16-bit
// PCM. Out-of-range samples are clamped.
func EncodePCM16(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := int16(s * 32767)
		binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
	}
	return out
}

// RMSLevel computes the root-mean-square level of a float32 sample window.
// Returns a value between 0.0 and 1.0 for normalized input.
func RMSLevel(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// ValidPCM16 reports whether a byte slice is a decodable 16-bit PCM chunk.
func ValidPCM16(pcm []byte) bool {
	return len(pcm) > 0 && len(pcm)%2 == 0
}
