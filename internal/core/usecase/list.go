package usecase

import (
	"context"
	"fmt"

	"github.com/brennoviana/mail-triage/internal/core/domain"
	"github.com/brennoviana/mail-triage/internal/core/ports"
)

const (
	defaultPageSize = 100
	maxPageSize     = 100
)

// ListSubmissionsUseCase serves the read side: paginated history and
// aggregate counts.
type ListSubmissionsUseCase struct {
	repo ports.SubmissionRepository
}

func NewListSubmissionsUseCase(repo ports.SubmissionRepository) *ListSubmissionsUseCase {
	return &ListSubmissionsUseCase{repo: repo}
}

func (uc *ListSubmissionsUseCase) List(ctx context.Context, skip, limit int) (*domain.SubmissionPage, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	submissions, err := uc.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count submissions: %w", err)
	}
	return &domain.SubmissionPage{Submissions: submissions, Total: total}, nil
}

func (uc *ListSubmissionsUseCase) Stats(ctx context.Context) (domain.Stats, error) {
	stats, err := uc.repo.Stats(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("submission stats: %w", err)
	}
	return stats, nil
}
