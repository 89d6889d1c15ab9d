package translator

import "strings"

// Remote job status values reported by /result.
const (
	StatusProcessing = "processing"
	StatusDone       = "done"
	StatusError      = "error"
)

// Upload is the image handed to Submit.
type Upload struct {
	Filename string
	Content  []byte
}

// Bubble is one translated speech bubble.
type Bubble struct {
	OriginalText   string  `json:"original_text"`
	TranslatedText string  `json:"translated_text"`
	Confidence     float64 `json:"confidence"`
}

// SubmitResponse mirrors the body returned by the submission endpoint.
type SubmitResponse struct {
	TaskID string `json:"task_id"`
}

// ResultResponse mirrors the body returned by /result.
type ResultResponse struct {
	Status  string   `json:"status"`
	Bubbles []Bubble `json:"bubbles"`
	Error   string   `json:"error"`
}

// NormalizedStatus returns the status lowercased with surrounding spaces removed.
func (r ResultResponse) NormalizedStatus() string {
	return strings.ToLower(strings.TrimSpace(r.Status))
}

// IsDone reports whether the job finished successfully.
func (r ResultResponse) IsDone() bool {
	return r.NormalizedStatus() == StatusDone
}

// IsFailed reports whether the service reported the job as failed.
func (r ResultResponse) IsFailed() bool {
	return r.NormalizedStatus() == StatusError
}

// HealthResponse mirrors /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// OK reports whether the service answered with status "ok".
func (h HealthResponse) OK() bool {
	return strings.EqualFold(strings.TrimSpace(h.Status), "ok")
}

// CloneBubbles returns an independent copy of bubbles.
func CloneBubbles(bubbles []Bubble) []Bubble {
	if len(bubbles) == 0 {
		return nil
	}
	dup := make([]Bubble, len(bubbles))
	copy(dup, bubbles)
	return dup
}
