package ocr

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"claimdesk-backend/internal/shared/telemetry"
)

func (e *Extractor) extractPDF(ctx context.Context, path string) (string, error) {
	if text := embeddedText(path); len(strings.TrimSpace(text)) >= minEmbeddedTextLen {
		return strings.Join(strings.Fields(text), " "), nil
	}

	if _, err := e.lookPath(e.renderBinary); err != nil {
		return "", ErrPDFRenderUnavailable
	}
	return e.rasterizeAndRecognize(ctx, path)
}

// embeddedText pulls the text layer out of a digitally produced PDF. Scanned
// PDFs have no text layer and return "". The pdf library panics on some
// malformed files, which is treated the same as no text.
func embeddedText(path string) (text string) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return ""
	}
	var sb strings.Builder
	if _, err := io.Copy(&sb, plain); err != nil {
		return ""
	}
	return sb.String()
}

// rasterizeAndRecognize renders every page to a scratch directory and runs
// each through the image pipeline. The directory is removed before returning.
func (e *Extractor) rasterizeAndRecognize(ctx context.Context, path string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "claimdesk-pages-*")
	if err != nil {
		return "", fmt.Errorf("ocr: scratch dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.renderBinary, "-r", strconv.Itoa(e.dpi), "-png", path, prefix)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %s", e.renderBinary, err, truncate(string(errb), 512))
	}

	pages, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(pages)
	if len(pages) == 0 {
		return "", fmt.Errorf("%s produced no pages", e.renderBinary)
	}

	var parts []string
	for _, page := range pages {
		text, err := e.extractImage(ctx, page)
		if err != nil {
			telemetry.Warn("page recognition failed", map[string]any{
				"file":  filepath.Base(path),
				"page":  filepath.Base(page),
				"error": err.Error(),
			})
			continue
		}
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}
