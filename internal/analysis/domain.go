package analysis

import "time"

// Status tracks an analysis through its lifecycle.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Analysis is one AI-assisted review of a regulatory document. The document
// text arrives already extracted client-side; only the text and the
// operator's questions are stored.
type Analysis struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	DocumentText string     `json:"document_text"`
	Questions    []string   `json:"questions"`
	Status       Status     `json:"status"`
	Result       string     `json:"result,omitempty"`
	Error        string     `json:"error,omitempty"`
	RequestedBy  int64      `json:"requested_by"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

type SubmitAnalysisRequest struct {
	Title        string   `json:"title" validate:"required,max=200"`
	DocumentText string   `json:"document_text" validate:"required,max=500000"`
	Questions    []string `json:"questions" validate:"required,min=1,max=20,dive,required,max=500"`
}

type ListAnalysesRequest struct {
	Status *Status `json:"status,omitempty"`
	Limit  int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset int     `json:"offset" validate:"gte=0"`
}
