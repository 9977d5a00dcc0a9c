package ports

import (
	"context"

	"github.com/brennoviana/mail-triage/internal/core/domain"
)

// EmailSubmitter is the inbound contract for submission orchestration.
type EmailSubmitter interface {
	SubmitText(ctx context.Context, title, content string) (*domain.Submission, error)
	SubmitFile(ctx context.Context, title, filename string, file UploadFile) (*domain.Submission, error)
}

// SubmissionReader is the inbound read model for stored submissions.
type SubmissionReader interface {
	List(ctx context.Context, skip, limit int) (*domain.SubmissionPage, error)
	Stats(ctx context.Context) (domain.Stats, error)
}

// SubmissionReclassifier is the inbound contract for asynchronous
// reclassification of undetermined submissions.
type SubmissionReclassifier interface {
	ReclassifyByID(ctx context.Context, submissionID string) error
}
