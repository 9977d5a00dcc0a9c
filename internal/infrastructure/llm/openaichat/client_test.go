package openaichat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brennoviana/mail-triage/internal/core/domain"
)

func TestNewRequiresCredential(t *testing.T) {
	_, err := New("http://localhost", "", "gpt-4", 500, time.Second)
	if err == nil {
		t.Fatalf("expected error for empty api key")
	}
	if !domain.IsKind(err, domain.ErrOracleNotConfigured) {
		t.Fatalf("expected ErrOracleNotConfigured, got %v", err)
	}
}

func newTestClassifier(t *testing.T, serverURL string) *Classifier {
	t.Helper()
	client, err := New(serverURL, "test-key", "gpt-4", 500, 5*time.Second)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return NewClassifier(client, nil, FormatJSON, nil)
}

func oracleReply(content string) string {
	payload := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

func TestClassifySendsDeterministicRequest(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(oracleReply(`{"classification":"PRODUTIVO","suggested_reply":"We received your request."}`)))
	}))
	defer server.Close()

	classifier := newTestClassifier(t, server.URL)
	result, err := classifier.Classify(context.Background(), "My system is broken, please help")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if result.Classification != domain.CategoryProductive {
		t.Fatalf("expected PRODUTIVO, got %q", result.Classification)
	}
	if result.SuggestedReply != "We received your request." {
		t.Fatalf("unexpected reply: %q", result.SuggestedReply)
	}

	if captured.Temperature != 0 {
		t.Fatalf("expected temperature 0, got %v", captured.Temperature)
	}
	if captured.MaxTokens != 500 {
		t.Fatalf("expected bounded output length, got %d", captured.MaxTokens)
	}
	if len(captured.Messages) != 1 || !strings.Contains(captured.Messages[0].Content, "My system is broken") {
		t.Fatalf("prompt does not carry the email text: %+v", captured.Messages)
	}
}

func TestClassifyQuotaExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":"insufficient_quota","message":"You exceeded your current quota"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	classifier := newTestClassifier(t, server.URL)
	_, err := classifier.Classify(context.Background(), "email de teste valido")
	if !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("expected ErrQuotaExhausted, got %v", err)
	}
	if !strings.Contains(err.Error(), "quota") {
		t.Fatalf("expected human-readable cause, got %v", err)
	}
}

func TestClassifyRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":"rate_limit_exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	classifier := newTestClassifier(t, server.URL)
	_, err := classifier.Classify(context.Background(), "email de teste valido")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("rate limit should surface as temporary, got %v", err)
	}
}

func TestClassifyGenericServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	classifier := newTestClassifier(t, server.URL)
	_, err := classifier.Classify(context.Background(), "email de teste valido")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "upstream exploded") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}

func TestClassifyRespectsContextCancellation(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	classifier := newTestClassifier(t, server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := classifier.Classify(ctx, "email de teste valido")
	if err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestClassifyMalformedAnswerIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(oracleReply("resposta completamente fora do formato")))
	}))
	defer server.Close()

	classifier := newTestClassifier(t, server.URL)
	result, err := classifier.Classify(context.Background(), "email de teste valido")
	if err != nil {
		t.Fatalf("malformed oracle output must not error, got %v", err)
	}
	if result.Classification != domain.CategoryUndetermined {
		t.Fatalf("expected INDEFINIDO, got %q", result.Classification)
	}
}
