// Package extractor turns submission uploads into candidate email text,
// enforcing the upload size cap and the content length bounds before anything
// reaches the classification pipeline.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/brennoviana/mail-triage/internal/core/domain"
	"github.com/brennoviana/mail-triage/internal/core/ports"
)

const (
	minContentChars = 10
	maxContentChars = 10000

	defaultMaxUploadMB = 5
)

type Extractor struct {
	maxUploadBytes int64
}

func New(maxUploadMB int) *Extractor {
	if maxUploadMB <= 0 {
		maxUploadMB = defaultMaxUploadMB
	}
	return &Extractor{maxUploadBytes: int64(maxUploadMB) << 20}
}

// ExtractPlainText is the pass-through path for emails pasted as raw text.
func (e *Extractor) ExtractPlainText(content string) (string, error) {
	text := strings.TrimSpace(content)
	if err := validateLength(text); err != nil {
		return "", err
	}
	return text, nil
}

// ExtractFile decodes an uploaded .txt or .pdf into text. The file is fully
// consumed here; callers must not hold it open across the oracle call.
func (e *Extractor) ExtractFile(_ context.Context, filename string, file ports.UploadFile) (string, domain.SourceKind, error) {
	size, err := uploadSize(file)
	if err != nil {
		return "", "", fmt.Errorf("measure upload: %w", err)
	}
	if size > e.maxUploadBytes {
		return "", "", domain.WrapError(domain.ErrInvalidInput, "extract file",
			fmt.Errorf("file too large: limit is %dMB", e.maxUploadBytes>>20))
	}

	var (
		text string
		kind domain.SourceKind
	)
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")); ext {
	case "txt":
		kind = domain.SourceTxtFile
		text, err = extractTxt(file)
	case "pdf":
		kind = domain.SourcePDFFile
		text, err = extractPDF(file, size)
	default:
		return "", "", domain.WrapError(domain.ErrInvalidInput, "extract file",
			fmt.Errorf("unsupported file type %q: only .txt and .pdf are accepted", ext))
	}
	if err != nil {
		return "", "", err
	}

	text = strings.TrimSpace(text)
	if err := validateLength(text); err != nil {
		return "", kind, err
	}
	return text, kind, nil
}

// uploadSize measures the stream by seeking, so the file is never buffered
// just to learn its length.
func uploadSize(file io.Seeker) (int64, error) {
	size, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("seek end: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seek start: %w", err)
	}
	return size, nil
}

func extractTxt(file io.Reader) (string, error) {
	raw, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read txt upload: %w", err)
	}
	return decodeTxt(raw), nil
}

// decodeTxt decodes as UTF-8 and falls back to Latin-1, which maps every
// byte, so txt decoding is total.
func decodeTxt(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes)
}

func extractPDF(file io.ReaderAt, size int64) (text string, err error) {
	// The pdf library panics on some malformed inputs; a corrupt upload is a
	// client error, not a process crash.
	defer func() {
		if r := recover(); r != nil {
			err = domain.WrapError(domain.ErrInvalidInput, "extract pdf", fmt.Errorf("malformed pdf: %v", r))
		}
	}()

	reader, err := pdf.NewReader(file, size)
	if err != nil {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract pdf", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for n := 1; n <= reader.NumPage(); n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", domain.WrapError(domain.ErrInvalidInput, "extract pdf", fmt.Errorf("page %d: %w", n, err))
		}
		pages = append(pages, content)
	}

	return joinPages(pages)
}

// joinPages concatenates extracted pages in document order. A document whose
// pages hold only whitespace is a hard failure, never an empty-string
// success.
func joinPages(pages []string) (string, error) {
	text := strings.TrimSpace(strings.Join(pages, "\n"))
	if text == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract pdf", errors.New("no extractable text in PDF"))
	}
	return text, nil
}

func validateLength(text string) error {
	switch chars := utf8.RuneCountInString(text); {
	case chars < minContentChars:
		return domain.WrapError(domain.ErrInvalidInput, "validate content",
			fmt.Errorf("content too short: minimum %d characters", minContentChars))
	case chars > maxContentChars:
		return domain.WrapError(domain.ErrInvalidInput, "validate content",
			fmt.Errorf("content too long: maximum %d characters", maxContentChars))
	default:
		return nil
	}
}
