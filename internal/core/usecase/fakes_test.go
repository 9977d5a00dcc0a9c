package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/brennoviana/mail-triage/internal/core/domain"
	"github.com/brennoviana/mail-triage/internal/core/ports"
)

type fakeRepo struct {
	created     []*domain.Submission
	byID        map[string]*domain.Submission
	updated     map[string]domain.ClassificationResult
	listResult  []domain.Submission
	listSkip    int
	listLimit   int
	total       int
	stats       domain.Stats
	createErr   error
	getErr      error
	updateErr   error
	listErr     error
	countErr    error
	statsErr    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:    make(map[string]*domain.Submission),
		updated: make(map[string]domain.ClassificationResult),
	}
}

func (r *fakeRepo) Create(_ context.Context, sub *domain.Submission) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, sub)
	r.byID[sub.ID] = sub
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*domain.Submission, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	sub, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrSubmissionNotFound
	}
	return sub, nil
}

func (r *fakeRepo) List(_ context.Context, skip, limit int) ([]domain.Submission, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.listSkip, r.listLimit = skip, limit
	return r.listResult, nil
}

func (r *fakeRepo) Count(_ context.Context) (int, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	return r.total, nil
}

func (r *fakeRepo) Stats(_ context.Context) (domain.Stats, error) {
	if r.statsErr != nil {
		return domain.Stats{}, r.statsErr
	}
	return r.stats, nil
}

func (r *fakeRepo) UpdateClassification(_ context.Context, id string, result domain.ClassificationResult) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.byID[id]; !ok {
		return domain.ErrSubmissionNotFound
	}
	r.updated[id] = result
	return nil
}

type fakeExtractor struct {
	fileText string
	fileKind domain.SourceKind
	fileErr  error
}

func (e *fakeExtractor) ExtractFile(_ context.Context, _ string, _ ports.UploadFile) (string, domain.SourceKind, error) {
	if e.fileErr != nil {
		return "", "", e.fileErr
	}
	return e.fileText, e.fileKind, nil
}

func (e *fakeExtractor) ExtractPlainText(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if len(trimmed) < 10 {
		return "", domain.WrapError(domain.ErrInvalidInput, "validate content", errors.New("content too short"))
	}
	return trimmed, nil
}

type passthroughNormalizer struct{}

func (passthroughNormalizer) Normalize(text string) string { return strings.TrimSpace(text) }

type fakeClassifier struct {
	result domain.ClassificationResult
	err    error
	calls  int
	seen   []string
}

func (c *fakeClassifier) Classify(_ context.Context, emailText string) (domain.ClassificationResult, error) {
	c.calls++
	c.seen = append(c.seen, emailText)
	if c.err != nil {
		return domain.ClassificationResult{}, c.err
	}
	return c.result, nil
}

type fakeQueue struct {
	published []string
	err       error
}

func (q *fakeQueue) PublishReclassify(_ context.Context, submissionID string) error {
	if q.err != nil {
		return q.err
	}
	q.published = append(q.published, submissionID)
	return nil
}

func (q *fakeQueue) SubscribeReclassify(_ context.Context, _ func(context.Context, string) error) error {
	return nil
}
