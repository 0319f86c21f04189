package extract

import (
	"context"
	"strings"
	"testing"

	apperrors "atscan/internal/errors"
)

func TestExtractPlainText(t *testing.T) {
	e := NewDocumentExtractor(nil)
	tests := []struct {
		name     string
		filename string
		data     string
	}{
		{"txt file", "resume.txt", "John Smith\nExperience: Go developer"},
		{"markdown file", "resume.md", "# John Smith\n\n## Skills"},
		{"uppercase extension", "RESUME.TXT", "plain content"},
		{"empty file", "empty.txt", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Extract(context.Background(), []byte(tt.data), tt.filename)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if got != tt.data {
				t.Errorf("Extract() = %q, want %q", got, tt.data)
			}
		})
	}
}

func TestExtractUnsupportedExtension(t *testing.T) {
	e := NewDocumentExtractor(nil)
	_, err := e.Extract(context.Background(), []byte("data"), "resume.exe")
	if err == nil {
		t.Fatal("Extract() expected error for unsupported extension")
	}

	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("Extract() error type = %T, want *AppError", err)
	}
	if appErr.Type != apperrors.ErrorTypeValidation {
		t.Errorf("error type = %q, want %q", appErr.Type, apperrors.ErrorTypeValidation)
	}
	if appErr.Code != apperrors.ErrCodeUnsupportedFormat {
		t.Errorf("error code = %q, want %q", appErr.Code, apperrors.ErrCodeUnsupportedFormat)
	}
}

func TestExtractCorruptDocuments(t *testing.T) {
	e := NewDocumentExtractor(nil)
	tests := []struct {
		name     string
		filename string
	}{
		{"corrupt pdf", "resume.pdf"},
		{"corrupt docx", "resume.docx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Extract(context.Background(), []byte("not a real document"), tt.filename)
			if err == nil {
				t.Fatal("Extract() expected error for corrupt document")
			}
			appErr, ok := err.(*apperrors.AppError)
			if !ok {
				t.Fatalf("Extract() error type = %T, want *AppError", err)
			}
			if appErr.Type != apperrors.ErrorTypeExtraction {
				t.Errorf("error type = %q, want %q", appErr.Type, apperrors.ErrorTypeExtraction)
			}
		})
	}
}

func TestExtractCancelledContext(t *testing.T) {
	e := NewDocumentExtractor(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Extract(ctx, []byte("content"), "resume.txt")
	if err == nil {
		t.Fatal("Extract() expected error for cancelled context")
	}
	if !strings.Contains(err.Error(), "context canceled") {
		t.Errorf("Extract() error = %v, want context cancellation", err)
	}
}

func TestIsSupportedExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"resume.pdf", true},
		{"resume.docx", true},
		{"resume.txt", true},
		{"notes.md", true},
		{"Resume.PDF", true},
		{"resume.doc", false},
		{"resume", false},
	}

	for _, tt := range tests {
		if got := IsSupportedExtension(tt.filename); got != tt.want {
			t.Errorf("IsSupportedExtension(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}
