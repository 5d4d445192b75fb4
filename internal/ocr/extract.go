// Package ocr turns stored claim files into plain text. Images go through a
// normalization pass and tesseract; PDFs use embedded text when present and
// are otherwise rasterized page by page with pdftoppm before recognition.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"claimdesk-backend/internal/imaging"
	"claimdesk-backend/internal/shared/config"
	"claimdesk-backend/internal/shared/telemetry"
)

// ErrPDFRenderUnavailable is returned for scanned PDFs when the page
// rasterizer binary is not installed.
var ErrPDFRenderUnavailable = errors.New("pdf rendering unavailable")

// minEmbeddedTextLen is the trimmed length below which embedded PDF text is
// considered junk and the scanned-page path is used instead.
const minEmbeddedTextLen = 50

// Extractor recognizes text in uploaded claim files.
type Extractor struct {
	runner       Runner
	ocrBinary    string
	renderBinary string
	languages    string
	dpi          int
	lookPath     func(string) (string, error)
}

// NewExtractor builds an Extractor from service configuration.
func NewExtractor(cfg config.Config) *Extractor {
	return &Extractor{
		runner:       execRunner{},
		ocrBinary:    cfg.OCRBinary,
		renderBinary: cfg.PDFRenderBinary,
		languages:    cfg.OCRLanguages,
		dpi:          cfg.OCRDPI,
		lookPath:     exec.LookPath,
	}
}

// ExtractText writes the payload to a scratch file and recognizes it. The
// scratch file is removed before returning, on every path.
func (e *Extractor) ExtractText(ctx context.Context, r io.Reader, fileName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	tmp, err := os.CreateTemp("", "claimdesk-upload-*"+ext)
	if err != nil {
		return "", fmt.Errorf("ocr: scratch file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("ocr: buffer payload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("ocr: buffer payload: %w", err)
	}

	return e.ExtractFile(ctx, tmp.Name())
}

// ExtractFile recognizes text in a file on disk. An empty string with a nil
// error means recognition ran but found nothing usable.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return e.extractPDF(ctx, path)
	}
	return e.extractImage(ctx, path)
}

// extractImage tries an enhanced pass first: decode, normalize for
// recognition, recognize the normalized copy. If the file cannot be decoded
// or the enhanced pass yields nothing, the original file is recognized as-is.
func (e *Extractor) extractImage(ctx context.Context, path string) (string, error) {
	if text, err := e.enhancedRecognize(ctx, path); err == nil && text != "" {
		return text, nil
	} else if err != nil {
		telemetry.Warn("enhanced recognition failed, retrying raw", map[string]any{
			"file":  filepath.Base(path),
			"error": err.Error(),
		})
	}

	frags, err := e.recognize(ctx, path)
	if err != nil {
		return "", err
	}
	return strings.Join(frags, " "), nil
}

func (e *Extractor) enhancedRecognize(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}

	normalized := imaging.Normalize(img)

	tmp, err := os.CreateTemp("", "claimdesk-enhanced-*.png")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, normalized); err != nil {
		tmp.Close()
		return "", fmt.Errorf("encode normalized: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	frags, err := e.recognize(ctx, tmp.Name())
	if err != nil {
		return "", err
	}
	return strings.Join(frags, " "), nil
}

// recognize runs the OCR engine on one image and returns its text fragments
// in reading order, each collapsed to single-spaced words.
func (e *Extractor) recognize(ctx context.Context, imagePath string) ([]string, error) {
	// tesseract <file> stdout -l eng+hin --psm 6
	out, errb, err := e.runner.Run(ctx, e.ocrBinary, imagePath, "stdout", "-l", e.languages, "--psm", "6")
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", e.ocrBinary, err, truncate(string(errb), 512))
	}
	return splitFragments(string(out)), nil
}

// splitFragments breaks engine output into paragraph-level fragments.
func splitFragments(out string) []string {
	var frags []string
	for _, block := range strings.Split(out, "\n\n") {
		if words := strings.Fields(block); len(words) > 0 {
			frags = append(frags, strings.Join(words, " "))
		}
	}
	return frags
}
