package domain

// AttachmentKind enumerates the attachment states a chat request can be
// in. Exactly one state is active per request.
type AttachmentKind int

const (
	AttachmentNone AttachmentKind = iota
	AttachmentImage
	AttachmentAudio
	AttachmentOtherFile
)

// AudioSummary carries the technical parameters extracted from an
// uploaded audio file. For uncompressed waveform input the full set is
// populated; anything else reports only the declared format and size.
//
// PeakLevel and AvgLevel are linear ratios against full scale
// (20 × magnitude / full_scale), not true logarithmic decibels. They
// approximate signal level, not perceptual loudness.
type AudioSummary struct {
	Duration   float64 `json:"duration,omitempty"`
	SampleRate int     `json:"sampleRate,omitempty"`
	Channels   string  `json:"channels,omitempty"`
	BitDepth   int     `json:"bitDepth,omitempty"`
	PeakLevel  float64 `json:"peakLevelDb,omitempty"`
	AvgLevel   float64 `json:"avgLevelDb,omitempty"`
	FileName   string  `json:"fileName,omitempty"`
	SizeKB     float64 `json:"sizeKb,omitempty"`
	Format     string  `json:"format,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// AttachmentContext is the tagged attachment state, decided once at the
// request boundary and handled exhaustively downstream.
type AttachmentContext struct {
	Kind     AttachmentKind
	ImageRef string        // AttachmentImage: data URL or https URL
	Audio    *AudioSummary // AttachmentAudio only
	FileName string
	FileType string
}
