package openaichat

import (
	"fmt"
	"strings"
)

// PromptFormat selects the output directive appended to the prompt. The
// parser accepts answers in either shape regardless of what was requested.
type PromptFormat string

const (
	FormatJSON     PromptFormat = "json"
	FormatFreeText PromptFormat = "text"
)

func ParsePromptFormat(raw string) PromptFormat {
	if strings.EqualFold(strings.TrimSpace(raw), string(FormatFreeText)) {
		return FormatFreeText
	}
	return FormatJSON
}

const promptHeader = `Você é um assistente que faz a triagem de emails corporativos.

Classifique o email como PRODUTIVO ou IMPRODUTIVO, de acordo com as definições abaixo:

- PRODUTIVO: emails que requerem ação ou resposta específica (ex.: solicitações de suporte, atualização sobre casos em aberto, dúvidas sobre o sistema).
- IMPRODUTIVO: emails que não necessitam de ação imediata (ex.: felicitações, agradecimentos).
`

const jsonDirective = `Responda apenas com um objeto JSON contendo as chaves "classification" e "suggested_reply".
Use somente as categorias PRODUTIVO e IMPRODUTIVO no campo "classification". Sem markdown, sem texto adicional.`

const freeTextDirective = `Formato de resposta:
Categoria: <Produtivo/Improdutivo>
Sugestão de resposta: <texto ou "Nenhuma ação necessária">`

// BuildPrompt assembles the triage instruction. Section order is fixed:
// task definition, worked examples, the target email, then the output
// directive.
func BuildPrompt(examples []TrainingExample, emailText string, format PromptFormat) string {
	var b strings.Builder
	b.WriteString(promptHeader)

	if len(examples) > 0 {
		b.WriteString("\nExemplos:\n")
		for _, ex := range examples {
			fmt.Fprintf(&b, "\nEmail: %q\nCategoria: %s\nSugestão de resposta: %q\n", ex.Email, ex.Category, ex.Reply)
		}
	}

	fmt.Fprintf(&b, "\nClassifique o email a seguir:\nEmail: %q\n\n", emailText)

	switch format {
	case FormatFreeText:
		b.WriteString(freeTextDirective)
	default:
		b.WriteString(jsonDirective)
	}
	return b.String()
}
