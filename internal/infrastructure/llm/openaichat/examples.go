package openaichat

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/brennoviana/mail-triage/internal/core/domain"
)

//go:embed examples.yaml
var exampleBankYAML []byte

// TrainingExample is one worked demonstration in the few-shot bank. The bank
// is ordered, immutable and only ever read after startup.
type TrainingExample struct {
	Email    string          `yaml:"email"`
	Category domain.Category `yaml:"category"`
	Reply    string          `yaml:"reply"`
}

type exampleBank struct {
	Examples []TrainingExample `yaml:"examples"`
}

// LoadExampleBank parses the embedded bank once at startup.
func LoadExampleBank() ([]TrainingExample, error) {
	return parseExampleBank(exampleBankYAML)
}

func parseExampleBank(raw []byte) ([]TrainingExample, error) {
	var bank exampleBank
	if err := yaml.Unmarshal(raw, &bank); err != nil {
		return nil, fmt.Errorf("parse example bank: %w", err)
	}
	if len(bank.Examples) == 0 {
		return nil, fmt.Errorf("example bank is empty")
	}
	for i, ex := range bank.Examples {
		if ex.Email == "" || ex.Reply == "" {
			return nil, fmt.Errorf("example %d: email and reply are required", i)
		}
		// INDEFINIDO is a parser sentinel, never a demonstration.
		if ex.Category != domain.CategoryProductive && ex.Category != domain.CategoryUnproductive {
			return nil, fmt.Errorf("example %d: invalid category %q", i, ex.Category)
		}
	}
	return bank.Examples, nil
}
