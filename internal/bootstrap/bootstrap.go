package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brennoviana/mail-triage/internal/config"
	"github.com/brennoviana/mail-triage/internal/core/domain"
	"github.com/brennoviana/mail-triage/internal/core/ports"
	"github.com/brennoviana/mail-triage/internal/core/usecase"
	"github.com/brennoviana/mail-triage/internal/infrastructure/extractor"
	"github.com/brennoviana/mail-triage/internal/infrastructure/llm/openaichat"
	natsqueue "github.com/brennoviana/mail-triage/internal/infrastructure/queue/nats"
	"github.com/brennoviana/mail-triage/internal/infrastructure/repository/postgres"
	"github.com/brennoviana/mail-triage/internal/infrastructure/resilience"
	"github.com/brennoviana/mail-triage/internal/infrastructure/textnorm"
	"github.com/brennoviana/mail-triage/internal/observability/metrics"
)

type App struct {
	Config config.Config

	Queue *natsqueue.Queue
	Repo  ports.SubmissionRepository

	SubmitUC     ports.EmailSubmitter
	ReadUC       ports.SubmissionReader
	ReclassifyUC ports.SubmissionReclassifier

	Pipeline *metrics.PipelineMetrics

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, service string) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewSubmissionRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := natsqueue.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, natsqueue.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	stopwords, err := textnorm.LoadDefaultStopwords()
	if err != nil {
		return nil, fmt.Errorf("load stopwords: %w", err)
	}
	normalizer := textnorm.New(cfg.AdvancedNormalization, stopwords)

	contentExtractor := extractor.New(cfg.MaxUploadMB)

	pipelineMetrics := metrics.NewPipelineMetrics(service)
	classifier, err := buildClassifier(cfg, executor)
	if err != nil {
		return nil, err
	}
	instrumented := &instrumentedClassifier{
		inner:   classifier,
		metrics: pipelineMetrics,
		service: service,
	}

	oracleTimeout := time.Duration(cfg.OracleTimeoutSeconds) * time.Second

	submitUC := usecase.NewSubmitEmailUseCase(repo, contentExtractor, normalizer, instrumented, queue, oracleTimeout)
	readUC := usecase.NewListSubmissionsUseCase(repo)
	reclassifyUC := usecase.NewReclassifySubmissionUseCase(repo, instrumented, oracleTimeout)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		SubmitUC:     submitUC,
		ReadUC:       readUC,
		ReclassifyUC: reclassifyUC,

		Pipeline: pipelineMetrics,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// buildClassifier returns a working oracle classifier, or a stub that always
// fails with ErrOracleNotConfigured so the api can still accept submissions
// in degraded mode when no credential is present.
func buildClassifier(cfg config.Config, executor *resilience.Executor) (ports.EmailClassifier, error) {
	client, err := openaichat.New(
		cfg.OracleBaseURL,
		cfg.OracleAPIKey,
		cfg.OracleModel,
		cfg.OracleMaxTokens,
		time.Duration(cfg.OracleTimeoutSeconds)*time.Second,
	)
	if err != nil {
		if domain.IsKind(err, domain.ErrOracleNotConfigured) {
			slog.Warn("oracle_not_configured", "error", err)
			return unconfiguredClassifier{}, nil
		}
		return nil, fmt.Errorf("init oracle client: %w", err)
	}

	bank, err := openaichat.LoadExampleBank()
	if err != nil {
		return nil, fmt.Errorf("load example bank: %w", err)
	}
	format := openaichat.ParsePromptFormat(cfg.PromptFormat)
	return openaichat.NewClassifier(client, bank, format, executor), nil
}

type unconfiguredClassifier struct{}

func (unconfiguredClassifier) Classify(context.Context, string) (domain.ClassificationResult, error) {
	return domain.ClassificationResult{}, domain.ErrOracleNotConfigured
}

type instrumentedClassifier struct {
	inner   ports.EmailClassifier
	metrics *metrics.PipelineMetrics
	service string
}

func (c *instrumentedClassifier) Classify(ctx context.Context, emailText string) (domain.ClassificationResult, error) {
	start := time.Now()
	result, err := c.inner.Classify(ctx, emailText)
	c.metrics.ObserveOracleCall(c.service, time.Since(start), err)
	if err != nil {
		c.metrics.RecordDegraded(c.service)
		return result, err
	}
	c.metrics.RecordClassification(c.service, string(result.Classification))
	return result, nil
}
