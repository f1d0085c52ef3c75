package audio

import (
	"encoding/base64"
	"encoding/binary"
	"math"
	"testing"
)

// buildWAV assembles a minimal PCM RIFF/WAVE container.
func buildWAV(t *testing.T, sampleRate int, channels int, bits int, frames int, sampleValue int) []byte {
	t.Helper()

	bytesPerSample := bits / 8
	blockAlign := channels * bytesPerSample
	dataLen := frames * blockAlign

	buf := make([]byte, 0, 44+dataLen)
	buf = append(buf, "RIFF"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+dataLen))
	buf = append(buf, "WAVE"...)

	buf = append(buf, "fmt "...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1) // PCM
	buf = binary.LittleEndian.AppendUint16(buf, uint16(channels))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate*blockAlign))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(blockAlign))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(bits))

	buf = append(buf, "data"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(dataLen))
	for i := 0; i < frames*channels; i++ {
		switch bits {
		case 8:
			buf = append(buf, byte(sampleValue+128))
		case 16:
			buf = binary.LittleEndian.AppendUint16(buf, uint16(int16(sampleValue)))
		case 32:
			buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(sampleValue)))
		default:
			t.Fatalf("unsupported test bit depth %d", bits)
		}
	}
	return buf
}

func encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func TestAnalyzeMono16Bit(t *testing.T) {
	// 2 seconds at 8 kHz, constant half-scale amplitude.
	wav := buildWAV(t, 8000, 1, 16, 16000, 16384)

	got := Analyze(encode(wav), "audio/wav", "tone.wav")

	if got.Error != "" {
		t.Fatalf("Unexpected error: %s", got.Error)
	}
	if math.Abs(got.Duration-2.0) > 0.01 {
		t.Errorf("Expected duration 2.0, got %v", got.Duration)
	}
	if got.SampleRate != 8000 {
		t.Errorf("Expected sample rate 8000, got %d", got.SampleRate)
	}
	if got.Channels != "mono" {
		t.Errorf("Expected mono, got %q", got.Channels)
	}
	if got.BitDepth != 16 {
		t.Errorf("Expected 16-bit, got %d", got.BitDepth)
	}
	// Half scale on the 20x linear level scale.
	if math.Abs(got.PeakLevel-10.0) > 0.01 {
		t.Errorf("Expected peak level 10.0, got %v", got.PeakLevel)
	}
	if math.Abs(got.AvgLevel-10.0) > 0.01 {
		t.Errorf("Expected avg level 10.0, got %v", got.AvgLevel)
	}
	if got.FileName != "tone.wav" {
		t.Errorf("Expected file name preserved, got %q", got.FileName)
	}
}

func TestAnalyzeStereoLabel(t *testing.T) {
	wav := buildWAV(t, 44100, 2, 16, 441, 0)

	got := Analyze(encode(wav), "audio/wav", "s.wav")

	if got.Channels != "stereo" {
		t.Errorf("Expected stereo, got %q", got.Channels)
	}
	if got.PeakLevel != 0 || got.AvgLevel != 0 {
		t.Errorf("Silence should report zero levels, got peak=%v avg=%v", got.PeakLevel, got.AvgLevel)
	}
}

func TestAnalyzeEightBit(t *testing.T) {
	// Full-scale 8-bit amplitude.
	wav := buildWAV(t, 8000, 1, 8, 8000, 127)

	got := Analyze(encode(wav), "audio/wav", "b.wav")

	if got.BitDepth != 8 {
		t.Errorf("Expected 8-bit, got %d", got.BitDepth)
	}
	if got.PeakLevel < 19.0 || got.PeakLevel > 20.0 {
		t.Errorf("Expected near-full-scale peak, got %v", got.PeakLevel)
	}
}

func TestAnalyzeDataURLPrefix(t *testing.T) {
	wav := buildWAV(t, 8000, 1, 16, 8000, 0)

	got := Analyze("data:audio/wav;base64,"+encode(wav), "audio/wav", "d.wav")

	if got.SampleRate != 8000 {
		t.Errorf("Data URL payload should decode, got %+v", got)
	}
}

func TestAnalyzeNonWaveFallsBack(t *testing.T) {
	payload := []byte("ID3\x04compressed audio bytes here")

	got := Analyze(encode(payload), "audio/mpeg", "song.mp3")

	if got.Error != "" {
		t.Fatalf("Fallback should not carry an error, got %q", got.Error)
	}
	if got.Format != "audio/mpeg" {
		t.Errorf("Expected declared format, got %q", got.Format)
	}
	if got.SizeKB <= 0 {
		t.Errorf("Expected a positive size, got %v", got.SizeKB)
	}
	if got.SampleRate != 0 || got.Duration != 0 {
		t.Errorf("Non-WAV input should not report waveform fields, got %+v", got)
	}
}

func TestAnalyzeBadBase64(t *testing.T) {
	got := Analyze("@@not-base64@@", "audio/wav", "x.wav")

	if got.Error == "" {
		t.Error("Expected an error description for undecodable payload")
	}
}

func TestAnalyzeTruncatedHeader(t *testing.T) {
	got := Analyze(encode([]byte("RIFF")), "audio/wav", "t.wav")

	if got.Error != "" {
		t.Fatalf("Truncated container should fall back, not error: %q", got.Error)
	}
	if got.SampleRate != 0 {
		t.Errorf("Truncated container should not parse, got %+v", got)
	}
}
