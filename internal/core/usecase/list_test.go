package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/brennoviana/mail-triage/internal/core/domain"
)

func TestListClampsPagination(t *testing.T) {
	cases := []struct {
		name      string
		skip      int
		limit     int
		wantSkip  int
		wantLimit int
	}{
		{"defaults", 0, 0, 0, 100},
		{"negative skip", -5, 10, 0, 10},
		{"limit above cap", 0, 500, 0, 100},
		{"within bounds", 20, 50, 20, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			repo.total = 3
			uc := NewListSubmissionsUseCase(repo)

			page, err := uc.List(context.Background(), tc.skip, tc.limit)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if repo.listSkip != tc.wantSkip || repo.listLimit != tc.wantLimit {
				t.Errorf("repo saw skip=%d limit=%d, want skip=%d limit=%d",
					repo.listSkip, repo.listLimit, tc.wantSkip, tc.wantLimit)
			}
			if page.Total != 3 {
				t.Errorf("total = %d, want 3", page.Total)
			}
		})
	}
}

func TestListPropagatesRepositoryErrors(t *testing.T) {
	repo := newFakeRepo()
	repo.listErr = errors.New("connection reset")
	uc := NewListSubmissionsUseCase(repo)

	if _, err := uc.List(context.Background(), 0, 10); err == nil {
		t.Fatal("expected list error")
	}

	repo = newFakeRepo()
	repo.countErr = errors.New("connection reset")
	uc = NewListSubmissionsUseCase(repo)
	if _, err := uc.List(context.Background(), 0, 10); err == nil {
		t.Fatal("expected count error")
	}
}

func TestStats(t *testing.T) {
	repo := newFakeRepo()
	repo.stats = domain.Stats{Total: 10, Productive: 6, Unproductive: 3, Undetermined: 1}
	uc := NewListSubmissionsUseCase(repo)

	stats, err := uc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats != repo.stats {
		t.Errorf("stats = %+v, want %+v", stats, repo.stats)
	}
}
