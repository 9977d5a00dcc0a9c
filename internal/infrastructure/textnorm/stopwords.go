package textnorm

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed stopwords.yaml
var stopwordsYAML []byte

type stopwordTable struct {
	Language string   `yaml:"language"`
	Words    []string `yaml:"words"`
}

// LoadDefaultStopwords parses the embedded stopword table. It is called once
// at startup; the returned slice is never mutated afterwards.
func LoadDefaultStopwords() ([]string, error) {
	return parseStopwords(stopwordsYAML)
}

func parseStopwords(raw []byte) ([]string, error) {
	var table stopwordTable
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parse stopword table: %w", err)
	}
	if len(table.Words) == 0 {
		return nil, fmt.Errorf("stopword table %q is empty", table.Language)
	}
	return table.Words, nil
}
