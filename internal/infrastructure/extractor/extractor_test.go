package extractor

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/brennoviana/mail-triage/internal/core/domain"
)

func TestExtractPlainTextBoundaries(t *testing.T) {
	e := New(0)

	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "exactly min", content: strings.Repeat("a", 10)},
		{name: "exactly max", content: strings.Repeat("a", 10000)},
		{name: "one under min", content: strings.Repeat("a", 9), wantErr: "too short"},
		{name: "one over max", content: strings.Repeat("a", 10001), wantErr: "too long"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text, err := e.ExtractPlainText(tc.content)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("ExtractPlainText() error = %v", err)
				}
				if text != tc.content {
					t.Fatalf("expected pass-through content")
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected %q error, got %v", tc.wantErr, err)
			}
			if !domain.IsKind(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestExtractPlainTextTrimsBeforeValidation(t *testing.T) {
	e := New(0)
	if _, err := e.ExtractPlainText("   " + strings.Repeat("a", 9) + "   "); err == nil {
		t.Fatalf("expected too short after trimming")
	}
}

func TestExtractFileTxtUTF8(t *testing.T) {
	e := New(0)
	text, kind, err := e.ExtractFile(context.Background(), "email.txt", bytes.NewReader([]byte("solicitação de suporte urgente")))
	if err != nil {
		t.Fatalf("ExtractFile() error = %v", err)
	}
	if kind != domain.SourceTxtFile {
		t.Fatalf("expected txt source kind, got %q", kind)
	}
	if text != "solicitação de suporte urgente" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractFileTxtLatin1Fallback(t *testing.T) {
	e := New(0)
	// "solicitação de suporte" encoded as Latin-1: 0xE7 and 0xE3 are not
	// valid UTF-8 sequences on their own.
	raw := []byte("solicita\xe7\xe3o de suporte")
	text, _, err := e.ExtractFile(context.Background(), "email.txt", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("expected Latin-1 fallback to succeed, got %v", err)
	}
	if text != "solicitação de suporte" {
		t.Fatalf("unexpected decoded text: %q", text)
	}
}

func TestExtractFileUnsupportedExtension(t *testing.T) {
	e := New(0)
	_, _, err := e.ExtractFile(context.Background(), "email.docx", bytes.NewReader([]byte("irrelevant content")))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), ".txt") || !strings.Contains(err.Error(), ".pdf") {
		t.Fatalf("expected accepted set in error, got %v", err)
	}
}

func TestExtractFileEnforcesUploadCap(t *testing.T) {
	e := New(1)
	raw := bytes.Repeat([]byte("a"), 1<<20+1)
	_, _, err := e.ExtractFile(context.Background(), "email.txt", bytes.NewReader(raw))
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Fatalf("expected size guard error, got %v", err)
	}
}

func TestExtractFileCursorIsResetBeforeReading(t *testing.T) {
	e := New(0)
	content := []byte("conteúdo válido de email")
	reader := bytes.NewReader(content)
	// The size probe seeks to the end; extraction must still see all bytes.
	text, _, err := e.ExtractFile(context.Background(), "email.txt", reader)
	if err != nil {
		t.Fatalf("ExtractFile() error = %v", err)
	}
	if text != string(content) {
		t.Fatalf("expected full content after seek reset, got %q", text)
	}
}

func TestJoinPagesRejectsWhitespaceOnlyDocument(t *testing.T) {
	_, err := joinPages([]string{"   ", "\n\t", ""})
	if err == nil {
		t.Fatalf("expected error for whitespace-only pages")
	}
	if !strings.Contains(err.Error(), "no extractable text") {
		t.Fatalf("expected no-extractable-text error, got %v", err)
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestJoinPagesPreservesDocumentOrder(t *testing.T) {
	text, err := joinPages([]string{"page one", "page two"})
	if err != nil {
		t.Fatalf("joinPages() error = %v", err)
	}
	if text != "page one\npage two" {
		t.Fatalf("unexpected joined text: %q", text)
	}
}
