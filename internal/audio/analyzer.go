// Package audio extracts technical parameters from uploaded audio
// payloads. Only uncompressed RIFF/WAVE containers are decoded; any
// other format is reported by declared media type and size alone.
package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vanek-ai/backend/internal/domain"
)

const pcmFormat = 1

// Analyze decodes a base64 payload and computes its technical summary.
// It never fails: a payload that cannot be decoded yields a summary
// carrying an error description instead.
func Analyze(payload, mediaType, fileName string) domain.AudioSummary {
	data, err := decodePayload(payload)
	if err != nil {
		return domain.AudioSummary{
			FileName: fileName,
			Format:   mediaType,
			Error:    fmt.Sprintf("decode failed: %v", err),
		}
	}

	w, ok := parseWAV(data)
	if !ok {
		return domain.AudioSummary{
			FileName: fileName,
			Format:   mediaType,
			SizeKB:   round2(float64(len(data)) / 1024),
		}
	}

	peak, avg := amplitude(w)
	return domain.AudioSummary{
		Duration:   round2(float64(w.frames) / float64(w.sampleRate)),
		SampleRate: int(w.sampleRate),
		Channels:   channelLabel(w.channels),
		BitDepth:   int(w.bitsPerSample),
		// Level scale is 20 × ratio-to-full-scale. A linear
		// approximation of dB, not a true logarithmic conversion.
		PeakLevel: round2(20 * peak),
		AvgLevel:  round2(20 * avg),
		FileName:  fileName,
		SizeKB:    round2(float64(len(data)) / 1024),
	}
}

// decodePayload accepts raw base64 or a full data URL.
func decodePayload(payload string) ([]byte, error) {
	if i := strings.Index(payload, "base64,"); i >= 0 {
		payload = payload[i+len("base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return base64.RawStdEncoding.DecodeString(payload)
	}
	return data, nil
}

type wav struct {
	sampleRate    uint32
	channels      uint16
	bitsPerSample uint16
	blockAlign    uint16
	frames        int
	samples       []byte
}

// parseWAV walks the RIFF chunk list looking for PCM fmt and data
// chunks. Returns ok=false for anything that is not plain PCM WAVE.
func parseWAV(data []byte) (wav, bool) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return wav{}, false
	}

	var w wav
	var haveFmt, haveData bool

	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if size < 0 || body+size > len(data) {
			break
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return wav{}, false
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != pcmFormat {
				return wav{}, false
			}
			w.channels = binary.LittleEndian.Uint16(data[body+2 : body+4])
			w.sampleRate = binary.LittleEndian.Uint32(data[body+4 : body+8])
			w.blockAlign = binary.LittleEndian.Uint16(data[body+12 : body+14])
			w.bitsPerSample = binary.LittleEndian.Uint16(data[body+14 : body+16])
			haveFmt = true
		case "data":
			w.samples = data[body : body+size]
			haveData = true
		}

		// Chunks are word-aligned.
		off = body + size + size%2
	}

	if !haveFmt || !haveData || w.sampleRate == 0 || w.channels == 0 || w.blockAlign == 0 {
		return wav{}, false
	}

	switch w.bitsPerSample {
	case 8, 16, 24, 32:
	default:
		return wav{}, false
	}

	w.frames = len(w.samples) / int(w.blockAlign)
	return w, true
}

// amplitude returns peak and average |sample| as ratios against full
// scale, across all channels.
func amplitude(w wav) (peak, avg float64) {
	bytesPerSample := int(w.bitsPerSample) / 8
	n := len(w.samples) / bytesPerSample
	if n == 0 {
		return 0, 0
	}

	fullScale := fullScaleFor(w.bitsPerSample)
	var sum float64
	for i := 0; i < n; i++ {
		s := sampleAt(w.samples, i*bytesPerSample, w.bitsPerSample)
		mag := float64(s)
		if mag < 0 {
			mag = -mag
		}
		sum += mag
		if mag > peak*fullScale {
			peak = mag / fullScale
		}
	}
	return peak, sum / float64(n) / fullScale
}

func fullScaleFor(bits uint16) float64 {
	switch bits {
	case 8:
		return 128
	case 16:
		return 32768
	case 24:
		return 8388608
	default:
		return 2147483648
	}
}

func sampleAt(data []byte, off int, bits uint16) int64 {
	switch bits {
	case 8:
		// 8-bit WAV is unsigned, centered at 128.
		return int64(data[off]) - 128
	case 16:
		return int64(int16(binary.LittleEndian.Uint16(data[off : off+2])))
	case 24:
		v := int64(data[off]) | int64(data[off+1])<<8 | int64(data[off+2])<<16
		if v >= 1<<23 {
			v -= 1 << 24
		}
		return v
	default:
		return int64(int32(binary.LittleEndian.Uint32(data[off : off+4])))
	}
}

func channelLabel(channels uint16) string {
	if channels == 2 {
		return "stereo"
	}
	return "mono"
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
