package utils

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
)

// SupportedImageExtensions lists supported file extensions for loading.
var SupportedImageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp"}

// IsSupportedImage reports whether the path has a supported image extension.
func IsSupportedImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedImageExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// ImageProcessingError represents errors that can occur during image processing.
type ImageProcessingError struct {
	Operation string
	Err       error
}

func (e *ImageProcessingError) Error() string {
	return fmt.Sprintf("image processing error in %s: %v", e.Operation, e.Err)
}

func (e *ImageProcessingError) Unwrap() error { return e.Err }

// LoadImage opens and decodes an image file.
func LoadImage(path string) (image.Image, error) {
	if path == "" {
		return nil, &ImageProcessingError{Operation: "load", Err: errors.New("empty path")}
	}
	if !IsSupportedImage(path) {
		return nil, &ImageProcessingError{
			Operation: "load",
			Err:       fmt.Errorf("unsupported format: %s", filepath.Ext(path)),
		}
	}

	f, err := os.Open(path) //nolint:gosec // G304: Reading user-provided image file path is expected
	if err != nil {
		return nil, &ImageProcessingError{Operation: "load", Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing image file: %v\n", err)
		}
	}()

	img, _, decErr := image.Decode(f)
	if decErr != nil {
		return nil, &ImageProcessingError{Operation: "decode", Err: decErr}
	}
	return img, nil
}

// SavePNG writes an image to disk as PNG.
func SavePNG(img image.Image, path string) error {
	if img == nil {
		return &ImageProcessingError{Operation: "save", Err: errors.New("nil image")}
	}
	f, err := os.Create(path) //nolint:gosec // G304: Writing to user-provided path is expected
	if err != nil {
		return &ImageProcessingError{Operation: "save", Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing output file: %v\n", err)
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return &ImageProcessingError{Operation: "encode", Err: err}
	}
	return nil
}

// ToNRGBA converts any image to a zero-origin NRGBA, returning the input
// unchanged when it already is one. Sub-images with a shifted origin are
// cloned so callers can index Pix from (0,0).
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}

// ResizeTo resamples an image to exactly width x height using Lanczos
// filtering. Aspect ratio is not preserved; callers resampling to the
// working canvas want the full frame.
func ResizeTo(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}
	return imaging.Resize(img, width, height, imaging.Lanczos)
}
