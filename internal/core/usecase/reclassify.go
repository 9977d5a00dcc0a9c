package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/brennoviana/mail-triage/internal/core/domain"
	"github.com/brennoviana/mail-triage/internal/core/ports"
)

// ReclassifySubmissionUseCase retries the oracle call for submissions that
// were persisted in degraded mode. The worker drives it from queue events.
type ReclassifySubmissionUseCase struct {
	repo          ports.SubmissionRepository
	classifier    ports.EmailClassifier
	oracleTimeout time.Duration
}

func NewReclassifySubmissionUseCase(
	repo ports.SubmissionRepository,
	classifier ports.EmailClassifier,
	oracleTimeout time.Duration,
) *ReclassifySubmissionUseCase {
	if oracleTimeout <= 0 {
		oracleTimeout = defaultOracleTimeout
	}
	return &ReclassifySubmissionUseCase{
		repo:          repo,
		classifier:    classifier,
		oracleTimeout: oracleTimeout,
	}
}

func (uc *ReclassifySubmissionUseCase) ReclassifyByID(ctx context.Context, id string) error {
	sub, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load submission: %w", err)
	}
	if sub.Classification != domain.CategoryUndetermined {
		// Already triaged; a duplicate or stale event.
		return nil
	}

	classifyCtx, cancel := context.WithTimeout(ctx, uc.oracleTimeout)
	defer cancel()

	result, err := uc.classifier.Classify(classifyCtx, sub.Message)
	if err != nil {
		return fmt.Errorf("classify submission %s: %w", id, err)
	}
	if err := uc.repo.UpdateClassification(ctx, id, result); err != nil {
		return fmt.Errorf("store classification: %w", err)
	}
	return nil
}
