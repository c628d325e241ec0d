// Package extract turns uploaded documents into plain interview-ready text.
// PDFs are rendered through the poppler pdftotext binary; anything else must
// already be valid UTF-8 text.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/mohammad-safakhou/interviewd/config"
)

var (
	// ErrUnsupportedFormat reports an upload that is neither a PDF nor
	// readable text.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrInsufficientText reports a document too small to interview from.
	ErrInsufficientText = errors.New("document contains too little text")
)

var pdfMagic = []byte("%PDF-")

// Runner executes an external command and returns its stdout. It exists so
// tests can stand in for pdftotext.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor sniffs the upload format and produces the document text.
type Extractor struct {
	cfg    config.DocumentConfig
	runner Runner
}

func New(cfg config.DocumentConfig) *Extractor {
	return &Extractor{cfg: cfg, runner: execRunner{}}
}

// NewWithRunner builds an extractor with a custom command runner.
func NewWithRunner(cfg config.DocumentConfig, runner Runner) *Extractor {
	return &Extractor{cfg: cfg, runner: runner}
}

// CheckAvailable reports whether pdftotext is installed. Text extraction for
// plain uploads works without it.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return fmt.Errorf("pdftotext not found in PATH: %w", err)
	}
	return nil
}

// Text extracts the document text from raw upload bytes. The format is
// sniffed from the content, not from the filename.
func (e *Extractor) Text(ctx context.Context, raw []byte) (string, error) {
	var text string
	switch {
	case bytes.HasPrefix(raw, pdfMagic):
		out, err := e.pdfText(ctx, raw)
		if err != nil {
			return "", err
		}
		text = out
	case utf8.Valid(raw):
		text = string(raw)
	default:
		return "", ErrUnsupportedFormat
	}
	text = strings.TrimSpace(text)
	if len(text) < e.cfg.MinChars {
		return "", fmt.Errorf("%w: got %d characters, need at least %d",
			ErrInsufficientText, len(text), e.cfg.MinChars)
	}
	return text, nil
}

// pdfText writes the upload to a temp file and renders it with pdftotext.
// The binary wants a seekable file, so the bytes cannot be piped in.
func (e *Extractor) pdfText(ctx context.Context, raw []byte) (string, error) {
	tmp, err := os.CreateTemp("", "interviewd-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	out, err := e.runner.Run(ctx, "pdftotext", "-layout", tmp.Name(), "-")
	if err != nil {
		return "", fmt.Errorf("%w: pdftotext: %v", ErrUnsupportedFormat, err)
	}
	return string(out), nil
}

// Preview returns the head of text for upload responses, cut on a rune
// boundary.
func (e *Extractor) Preview(text string) string {
	if len(text) <= e.cfg.PreviewChars {
		return text
	}
	cut := e.cfg.PreviewChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
