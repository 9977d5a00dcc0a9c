// Package openaichat talks to an OpenAI-compatible chat-completion service
// that acts as the triage oracle. It owns prompt construction, the wire
// transport and the total parsing of whatever the oracle sends back.
package openaichat

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/brennoviana/mail-triage/internal/core/domain"
	"github.com/brennoviana/mail-triage/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// New validates the credential up front: a client without one is a
// configuration error, never a per-request failure.
func New(baseURL, apiKey, model string, maxTokens int, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, domain.WrapError(domain.ErrOracleNotConfigured, "init oracle client",
			errors.New("api key is empty"))
	}
	if maxTokens <= 0 {
		maxTokens = 500
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		maxTokens:  maxTokens,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type Classifier struct {
	client   *Client
	bank     []TrainingExample
	format   PromptFormat
	executor *resilience.Executor
}

func NewClassifier(client *Client, bank []TrainingExample, format PromptFormat, executor *resilience.Executor) *Classifier {
	return &Classifier{
		client:   client,
		bank:     bank,
		format:   format,
		executor: executor,
	}
}

// Classify sends the triage prompt and converts the oracle's raw answer into
// a closed result. A returned error always means the oracle could not be
// reached or refused the call; an uninterpretable answer is not an error.
func (c *Classifier) Classify(ctx context.Context, emailText string) (domain.ClassificationResult, error) {
	prompt := BuildPrompt(c.bank, emailText, c.format)

	var raw string
	call := func(ctx context.Context) error {
		var err error
		raw, err = c.client.chatCompletion(ctx, prompt)
		return err
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "oracle.classify", call, classifyOracleError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return domain.ClassificationResult{}, wrapOracleError("classify email", err)
	}

	return ParseResponse(raw), nil
}
