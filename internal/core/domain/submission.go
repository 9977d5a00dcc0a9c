package domain

import "time"

// Category is the closed set of triage outcomes. PRODUTIVO and IMPRODUTIVO
// are the two meaningful categories; INDEFINIDO is the sentinel used when the
// oracle output cannot be interpreted or the oracle was unavailable.
type Category string

const (
	CategoryProductive   Category = "PRODUTIVO"
	CategoryUnproductive Category = "IMPRODUTIVO"
	CategoryUndetermined Category = "INDEFINIDO"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryProductive, CategoryUnproductive, CategoryUndetermined:
		return true
	default:
		return false
	}
}

type SourceKind string

const (
	SourcePlainText SourceKind = "text"
	SourceTxtFile   SourceKind = "txt"
	SourcePDFFile   SourceKind = "pdf"
)

// Label is the human-facing source tag stored alongside the submission.
func (k SourceKind) Label() string {
	switch k {
	case SourceTxtFile:
		return "TXT"
	case SourcePDFFile:
		return "PDF"
	default:
		return "Texto puro"
	}
}

// ClassificationResult is the value produced exactly once per submission
// attempt. It carries no identity and is never mutated after creation.
type ClassificationResult struct {
	Classification Category `json:"classification"`
	SuggestedReply string   `json:"suggested_reply"`
}

type Submission struct {
	ID             string    `json:"id"`
	Title          string    `json:"email_title"`
	Message        string    `json:"message"`
	SourceType     string    `json:"type"`
	Classification Category  `json:"ai_classification"`
	SuggestedReply string    `json:"ai_suggested_reply"`
	CreatedAt      time.Time `json:"created_at"`
}

type SubmissionPage struct {
	Submissions []Submission `json:"submissions"`
	Total       int          `json:"total"`
}

// Stats aggregates stored submissions by triage outcome.
type Stats struct {
	Total        int `json:"total"`
	Productive   int `json:"productive"`
	Unproductive int `json:"unproductive"`
	Undetermined int `json:"undetermined"`
}
