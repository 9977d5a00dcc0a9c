package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/brennoviana/mail-triage/internal/core/domain"
	"github.com/brennoviana/mail-triage/internal/core/ports"
)

const defaultOracleTimeout = 30 * time.Second

// SubmitEmailUseCase runs the triage pipeline for one submission:
// extract, normalize, classify, persist. The oracle call is the only
// suspension point; extraction always completes and releases its file before
// the oracle is invoked.
type SubmitEmailUseCase struct {
	repo          ports.SubmissionRepository
	extractor     ports.ContentExtractor
	normalizer    ports.TextNormalizer
	classifier    ports.EmailClassifier
	queue         ports.ReclassifyQueue
	oracleTimeout time.Duration
}

func NewSubmitEmailUseCase(
	repo ports.SubmissionRepository,
	extractor ports.ContentExtractor,
	normalizer ports.TextNormalizer,
	classifier ports.EmailClassifier,
	queue ports.ReclassifyQueue,
	oracleTimeout time.Duration,
) *SubmitEmailUseCase {
	if oracleTimeout <= 0 {
		oracleTimeout = defaultOracleTimeout
	}
	return &SubmitEmailUseCase{
		repo:          repo,
		extractor:     extractor,
		normalizer:    normalizer,
		classifier:    classifier,
		queue:         queue,
		oracleTimeout: oracleTimeout,
	}
}

func (uc *SubmitEmailUseCase) SubmitText(ctx context.Context, title, content string) (*domain.Submission, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	text, err := uc.extractor.ExtractPlainText(content)
	if err != nil {
		return nil, fmt.Errorf("extract content: %w", err)
	}
	return uc.finish(ctx, title, text, domain.SourcePlainText)
}

func (uc *SubmitEmailUseCase) SubmitFile(ctx context.Context, title, filename string, file ports.UploadFile) (*domain.Submission, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	text, kind, err := uc.extractor.ExtractFile(ctx, filename, file)
	if err != nil {
		return nil, fmt.Errorf("extract file: %w", err)
	}
	return uc.finish(ctx, title, text, kind)
}

func (uc *SubmitEmailUseCase) finish(ctx context.Context, title, text string, kind domain.SourceKind) (*domain.Submission, error) {
	normalized := uc.normalizer.Normalize(text)

	result, degraded := uc.classify(ctx, normalized)

	sub := &domain.Submission{
		ID:             uuid.NewString(),
		Title:          title,
		Message:        normalized,
		SourceType:     kind.Label(),
		Classification: result.Classification,
		SuggestedReply: result.SuggestedReply,
		CreatedAt:      time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("persist submission: %w", err)
	}

	if degraded {
		// Best effort: the submission is already safe; losing the catch-up
		// event only delays reclassification.
		if err := uc.queue.PublishReclassify(ctx, sub.ID); err != nil {
			slog.Warn("reclassify_enqueue_failed", "submission_id", sub.ID, "error", err)
		}
	}
	return sub, nil
}

// classify runs the oracle call in degraded mode: a submission is never lost
// solely because the oracle is unavailable. On any transport failure the
// result falls back to INDEFINIDO and the caller persists anyway.
func (uc *SubmitEmailUseCase) classify(ctx context.Context, normalized string) (domain.ClassificationResult, bool) {
	classifyCtx, cancel := context.WithTimeout(ctx, uc.oracleTimeout)
	defer cancel()

	result, err := uc.classifier.Classify(classifyCtx, normalized)
	if err != nil {
		slog.Warn("oracle_unavailable", "error", err)
		return domain.ClassificationResult{Classification: domain.CategoryUndetermined}, true
	}
	return result, false
}

func validateTitle(title string) error {
	if chars := utf8.RuneCountInString(title); chars < 2 || chars > 255 {
		return domain.WrapError(domain.ErrInvalidInput, "validate title",
			fmt.Errorf("title must be between 2 and 255 characters"))
	}
	return nil
}
