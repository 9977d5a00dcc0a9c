package openaichat

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/brennoviana/mail-triage/internal/core/domain"
)

// Diagnostic replies attached to sentinel results.
const (
	replyProcessingError = "Erro no processamento"
	replyInterpretError  = "Erro ao interpretar resposta da IA"
	replyNoSuggestion    = "Nenhuma sugestão extraída"
)

var (
	categoryPattern   = regexp.MustCompile(`(?i)Categoria:\s*(Produtivo|Improdutivo)`)
	suggestionPattern = regexp.MustCompile(`(?i)Sugestão de resposta:\s*(.+)`)
)

// ParseResponse converts the oracle's raw output into a closed result. It is
// total: every input, however malformed, maps to one of the three
// categories. Structured shape is tried first, then the legacy free-text
// markers, then the sentinel.
func ParseResponse(raw string) domain.ClassificationResult {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return domain.ClassificationResult{
			Classification: domain.CategoryUndetermined,
			SuggestedReply: replyProcessingError,
		}
	}
	if looksStructured(trimmed) {
		return parseStructured(trimmed)
	}
	return parseFreeText(trimmed)
}

func looksStructured(raw string) bool {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	return start >= 0 && end > start
}

func parseStructured(raw string) domain.ClassificationResult {
	// Pointer fields distinguish an absent key from an empty value: both
	// keys are required in the structured shape.
	var decoded struct {
		Classification *string `json:"classification"`
		SuggestedReply *string `json:"suggested_reply"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &decoded); err != nil {
		return domain.ClassificationResult{
			Classification: domain.CategoryUndetermined,
			SuggestedReply: replyInterpretError,
		}
	}
	if decoded.Classification == nil || decoded.SuggestedReply == nil {
		return domain.ClassificationResult{
			Classification: domain.CategoryUndetermined,
			SuggestedReply: replyInterpretError,
		}
	}

	category := domain.Category(strings.ToUpper(strings.TrimSpace(*decoded.Classification)))
	if !category.Valid() {
		return domain.ClassificationResult{
			Classification: domain.CategoryUndetermined,
			SuggestedReply: replyInterpretError,
		}
	}
	return domain.ClassificationResult{
		Classification: category,
		SuggestedReply: *decoded.SuggestedReply,
	}
}

func parseFreeText(raw string) domain.ClassificationResult {
	classification := domain.CategoryUndetermined
	if match := categoryPattern.FindStringSubmatch(raw); match != nil {
		classification = domain.Category(strings.ToUpper(match[1]))
	}

	reply := replyNoSuggestion
	if match := suggestionPattern.FindStringSubmatch(raw); match != nil {
		reply = strings.Trim(strings.TrimSpace(match[1]), `"'`)
	}

	return domain.ClassificationResult{
		Classification: classification,
		SuggestedReply: reply,
	}
}

// extractJSONObject salvages the outermost JSON object from answers wrapped
// in prose or code fences.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
