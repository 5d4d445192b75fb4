package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/transform"
)

const (
	// minRecognitionWidth is the narrow-side size below which scans are upscaled.
	minRecognitionWidth = 1500

	contrastBoost    = 0.6
	medianFilterSize = 3
)

// Normalize prepares a scanned page for text recognition: grayscale, contrast
// and sharpness boost, median denoise, and a lanczos upscale for small scans.
// It never fails; if anything goes wrong the original image is returned as-is.
func Normalize(img image.Image) (out image.Image) {
	if img == nil {
		return img
	}
	out = img
	defer func() {
		if rec := recover(); rec != nil {
			out = img
		}
	}()

	enhanced := effect.Grayscale(img)
	enhanced = adjust.Contrast(enhanced, contrastBoost)
	enhanced = effect.Sharpen(enhanced)
	enhanced = effect.Median(enhanced, medianFilterSize)

	bounds := enhanced.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return img
	}

	narrow := width
	if height < narrow {
		narrow = height
	}
	if narrow < minRecognitionWidth {
		scale := float64(minRecognitionWidth) / float64(narrow)
		newW := int(float64(width) * scale)
		newH := int(float64(height) * scale)
		return transform.Resize(enhanced, newW, newH, transform.Lanczos)
	}

	return enhanced
}
