package model

// Segment is one timed span of a transcript. Timestamps are chunk-relative
// while a chunked transcription is in flight and global after the merge.
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Seek  int     `json:"seek,omitempty"`
}

// Transcript is the reduced verbose_json schema kept from the upstream
// response. Every other upstream field is discarded so the stored artifact
// stays stable across upstream extensions.
type Transcript struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Duration float64   `json:"duration"`
	Segments []Segment `json:"segments,omitempty"`
}
