package openaichat

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/brennoviana/mail-triage/internal/core/domain"
	"github.com/brennoviana/mail-triage/internal/infrastructure/resilience"
)

// Oracle transport failures the caller may want to tell apart. Both wrap a
// human-readable cause; neither is retried inside the client itself.
var (
	ErrQuotaExhausted = errors.New("oracle quota exhausted")
	ErrRateLimited    = errors.New("oracle rate limited")
)

type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "oracle status error"
	}
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("oracle %s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("oracle %s status: %s: %s", e.Operation, e.Status, strings.TrimSpace(e.Body))
}

func classifyOracleError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{
			Retryable:     false,
			RecordFailure: false,
		}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.ErrorClassification{
			Retryable:     true,
			RecordFailure: true,
		}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		if isQuotaExhausted(statusErr) {
			// Retrying a spent quota only burns the breaker budget.
			return resilience.ErrorClassification{
				Retryable:     false,
				RecordFailure: true,
			}
		}
		if isRetryableHTTPStatus(statusErr.StatusCode) {
			return resilience.ErrorClassification{
				Retryable:     true,
				RecordFailure: true,
			}
		}
		return resilience.ErrorClassification{
			Retryable:     false,
			RecordFailure: false,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{
			Retryable:     true,
			RecordFailure: true,
		}
	}

	return resilience.ErrorClassification{
		Retryable:     false,
		RecordFailure: true,
	}
}

// wrapOracleError attaches the taxonomy the caller decides on: quota,
// rate-limit, or generic/temporary.
func wrapOracleError(operation string, err error) error {
	if err == nil {
		return nil
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		switch {
		case isQuotaExhausted(statusErr):
			return fmt.Errorf("%s: %w: verifique o plano e o faturamento da API: %w", operation, ErrQuotaExhausted, err)
		case statusErr.StatusCode == http.StatusTooManyRequests:
			return domain.WrapError(domain.ErrTemporary, operation,
				fmt.Errorf("%w: tente novamente em alguns segundos: %w", ErrRateLimited, err))
		case isRetryableHTTPStatus(statusErr.StatusCode):
			return domain.WrapError(domain.ErrTemporary, operation, err)
		default:
			return fmt.Errorf("%s: %w", operation, err)
		}
	}

	if classifyOracleError(err).Retryable || resilience.IsCircuitOpen(err) {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return fmt.Errorf("%s: %w", operation, err)
}

func isQuotaExhausted(statusErr *HTTPStatusError) bool {
	return statusErr.StatusCode == http.StatusTooManyRequests &&
		strings.Contains(statusErr.Body, "insufficient_quota")
}

func isRetryableHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
