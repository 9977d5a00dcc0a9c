package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brennoviana/mail-triage/internal/core/domain"
)

func seedUndetermined(repo *fakeRepo, id string) {
	repo.byID[id] = &domain.Submission{
		ID:             id,
		Title:          "Chamado pendente",
		Message:        "sistema fora do ar desde ontem",
		SourceType:     "Texto puro",
		Classification: domain.CategoryUndetermined,
	}
}

func TestReclassifyUpdatesStoredResult(t *testing.T) {
	repo := newFakeRepo()
	seedUndetermined(repo, "sub-1")
	classifier := &fakeClassifier{result: domain.ClassificationResult{
		Classification: domain.CategoryProductive,
		SuggestedReply: "Equipe acionada.",
	}}
	uc := NewReclassifySubmissionUseCase(repo, classifier, time.Second)

	if err := uc.ReclassifyByID(context.Background(), "sub-1"); err != nil {
		t.Fatalf("ReclassifyByID: %v", err)
	}
	got, ok := repo.updated["sub-1"]
	if !ok {
		t.Fatal("classification was not stored")
	}
	if got.Classification != domain.CategoryProductive || got.SuggestedReply != "Equipe acionada." {
		t.Errorf("stored %+v", got)
	}
	if len(classifier.seen) != 1 || classifier.seen[0] != "sistema fora do ar desde ontem" {
		t.Errorf("classifier received %v, want the stored message", classifier.seen)
	}
}

func TestReclassifySkipsAlreadyTriaged(t *testing.T) {
	repo := newFakeRepo()
	repo.byID["sub-2"] = &domain.Submission{ID: "sub-2", Classification: domain.CategoryProductive}
	classifier := &fakeClassifier{}
	uc := NewReclassifySubmissionUseCase(repo, classifier, time.Second)

	if err := uc.ReclassifyByID(context.Background(), "sub-2"); err != nil {
		t.Fatalf("ReclassifyByID: %v", err)
	}
	if classifier.calls != 0 {
		t.Error("oracle must not run for an already triaged submission")
	}
	if len(repo.updated) != 0 {
		t.Error("no update expected")
	}
}

func TestReclassifyUnknownSubmission(t *testing.T) {
	uc := NewReclassifySubmissionUseCase(newFakeRepo(), &fakeClassifier{}, time.Second)

	err := uc.ReclassifyByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrSubmissionNotFound) {
		t.Fatalf("err = %v, want ErrSubmissionNotFound", err)
	}
}

func TestReclassifyOracleStillDown(t *testing.T) {
	repo := newFakeRepo()
	seedUndetermined(repo, "sub-3")
	classifier := &fakeClassifier{err: domain.WrapError(domain.ErrTemporary, "oracle.classify", errors.New("503"))}
	uc := NewReclassifySubmissionUseCase(repo, classifier, time.Second)

	err := uc.ReclassifyByID(context.Background(), "sub-3")
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("err = %v, want ErrTemporary", err)
	}
	if len(repo.updated) != 0 {
		t.Error("classification must stay untouched while the oracle is down")
	}
}
