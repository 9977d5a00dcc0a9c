package ports

import (
	"context"
	"io"

	"github.com/brennoviana/mail-triage/internal/core/domain"
)

// UploadFile is the minimal surface the extractor needs from an uploaded
// file. multipart.File satisfies it.
type UploadFile interface {
	io.Reader
	io.ReaderAt
	io.Seeker
}

// SubmissionRepository persists and reads submission state.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *domain.Submission) error
	GetByID(ctx context.Context, id string) (*domain.Submission, error)
	List(ctx context.Context, skip, limit int) ([]domain.Submission, error)
	Count(ctx context.Context) (int, error)
	Stats(ctx context.Context) (domain.Stats, error)
	UpdateClassification(ctx context.Context, id string, result domain.ClassificationResult) error
}

// ContentExtractor turns an upload into candidate email text, enforcing size
// and length bounds.
type ContentExtractor interface {
	ExtractFile(ctx context.Context, filename string, file UploadFile) (string, domain.SourceKind, error)
	ExtractPlainText(content string) (string, error)
}

// TextNormalizer cleans extracted text for prompting. Implementations must be
// pure functions of the input string.
type TextNormalizer interface {
	Normalize(text string) string
}

// EmailClassifier asks the oracle to triage the email text. A non-nil error
// means the oracle could not be reached at all; an uninterpretable oracle
// answer is not an error and comes back as CategoryUndetermined.
type EmailClassifier interface {
	Classify(ctx context.Context, emailText string) (domain.ClassificationResult, error)
}

// ReclassifyQueue publishes/consumes reclassification events for submissions
// persisted without a usable triage result.
type ReclassifyQueue interface {
	PublishReclassify(ctx context.Context, submissionID string) error
	SubscribeReclassify(ctx context.Context, handler func(context.Context, string) error) error
}
