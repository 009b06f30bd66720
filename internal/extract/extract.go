// Package extract turns uploaded PDF bytes into cleaned plain text.
//
// Extraction never fails loudly: any problem (not a PDF, missing tool,
// corrupt file, timeout) yields empty text and a logged reason, and the
// parsers downstream treat empty text as "nothing found".
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"kyc-backend/internal/shared/telemetry"
)

const (
	EnginePDFToText = "pdftotext"
	EngineFallback  = "ledongthuc/pdf"

	defaultTimeout = 30 * time.Second
	headerWindow   = 1024
)

var (
	ErrEmptyInput = errors.New("empty input")
	ErrNotPDF     = errors.New("input is not a pdf")

	pdfMagic   = []byte("%PDF-")
	spaceRunRe = regexp.MustCompile(`[ ]{2,}`)
)

// Options configures an Extractor.
type Options struct {
	// Binary is the pdftotext executable, looked up on PATH when relative.
	Binary string
	// Timeout bounds a single pdftotext run.
	Timeout time.Duration
	// TempDir is the parent for per-call scratch directories; empty means os.TempDir.
	TempDir string
	// Fallback enables the pure-Go reader when pdftotext is unavailable or fails.
	Fallback bool
}

// Result is the outcome of one extraction.
type Result struct {
	Text     string
	Engine   string
	Duration time.Duration
	// Err explains why Text is empty. It is informational only.
	Err error
}

type runFunc func(ctx context.Context, bin string, args ...string) ([]byte, error)

// Extractor converts PDFs to text. It is safe for concurrent use; each call
// works in its own scratch directory.
type Extractor struct {
	opts     Options
	run      runFunc
	fallback func(data []byte) (string, error)
	now      func() time.Time
}

// New builds an Extractor.
func New(opts Options) *Extractor {
	if strings.TrimSpace(opts.Binary) == "" {
		opts.Binary = "pdftotext"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Extractor{
		opts:     opts,
		run:      runCommand,
		fallback: readPlainText,
		now:      time.Now,
	}
}

// Text returns the cleaned text of pdfData, or "" on any failure.
func (e *Extractor) Text(ctx context.Context, pdfData []byte) string {
	return e.Extract(ctx, pdfData).Text
}

// Extract is Text with the engine used and the failure reason attached.
func (e *Extractor) Extract(ctx context.Context, pdfData []byte) Result {
	start := e.now()
	res := e.extract(ctx, pdfData)
	res.Duration = e.now().Sub(start)
	if res.Err != nil {
		telemetry.Warn("extract.failed", map[string]any{
			"engine":      res.Engine,
			"bytes":       len(pdfData),
			"duration_ms": float64(res.Duration.Microseconds()) / 1000.0,
			"err":         res.Err,
		})
	}
	return res
}

func (e *Extractor) extract(ctx context.Context, pdfData []byte) Result {
	if len(pdfData) == 0 {
		return Result{Err: ErrEmptyInput}
	}
	if !looksLikePDF(pdfData) {
		return Result{Err: ErrNotPDF}
	}

	text, err := e.pdftotext(ctx, pdfData)
	if err == nil {
		return Result{Text: text, Engine: EnginePDFToText}
	}
	if !e.opts.Fallback || ctx.Err() != nil {
		return Result{Engine: EnginePDFToText, Err: err}
	}

	telemetry.Info("extract.fallback", map[string]any{"err": err})
	fbText, fbErr := e.fallbackText(pdfData)
	if fbErr != nil {
		return Result{Engine: EngineFallback, Err: fmt.Errorf("%v; fallback: %w", err, fbErr)}
	}
	return Result{Text: fbText, Engine: EngineFallback}
}

func (e *Extractor) pdftotext(ctx context.Context, pdfData []byte) (string, error) {
	dir, err := os.MkdirTemp(e.opts.TempDir, "kyc-extract-*")
	if err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "in.pdf")
	out := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(in, pdfData, 0o600); err != nil {
		return "", fmt.Errorf("write input: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	output, err := e.run(runCtx, e.opts.Binary, "-layout", "-nopgbrk", in, out)
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("pdftotext timed out after %s", e.opts.Timeout)
		}
		return "", fmt.Errorf("pdftotext: %w (output: %s)", err, strings.TrimSpace(string(output)))
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		return "", fmt.Errorf("read output: %w", err)
	}
	cleaned := Clean(string(raw))
	if cleaned == "" {
		return "", errors.New("pdftotext produced no text")
	}
	return cleaned, nil
}

func (e *Extractor) fallbackText(pdfData []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("pdf reader panic: %v", rec)
		}
	}()
	raw, err := e.fallback(pdfData)
	if err != nil {
		return "", err
	}
	cleaned := Clean(raw)
	if cleaned == "" {
		return "", errors.New("pdf reader produced no text")
	}
	return cleaned, nil
}

// Clean replaces non-breaking spaces, collapses runs of spaces and trims.
func Clean(raw string) string {
	s := strings.ReplaceAll(raw, "\u00a0", " ")
	s = spaceRunRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func looksLikePDF(data []byte) bool {
	window := data
	if len(window) > headerWindow {
		window = window[:headerWindow]
	}
	return bytes.Contains(window, pdfMagic)
}

func runCommand(ctx context.Context, bin string, args ...string) ([]byte, error) {
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.WaitDelay = 2 * time.Second
	return cmd.CombinedOutput()
}

func readPlainText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
