// Package mask implements the binary raster masks the engine operates on.
// A mask pixel is always exactly 0 or 255; anything crossing into this
// package is binarized at a fixed threshold first.
package mask

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// BinarizeThreshold is the fixed cutoff applied when converting grayscale or
// soft oracle output to a binary mask.
const BinarizeThreshold = 128

// ErrEmptyMask indicates a mask with no pixels above the binarize threshold.
var ErrEmptyMask = errors.New("mask has no pixels above threshold")

// ErrDimensionMismatch indicates two masks of different sizes were combined.
var ErrDimensionMismatch = errors.New("mask dimensions do not match")

// Mask is a width x height grid of {0,255} values.
type Mask struct {
	Width  int
	Height int
	Pix    []uint8
}

// New returns an all-zero mask of the given dimensions.
func New(width, height int) *Mask {
	return &Mask{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// FromImage binarizes an image into a mask using per-pixel luminance against
// BinarizeThreshold. Binarizing an already binary mask is a no-op.
func FromImage(img image.Image) *Mask {
	b := img.Bounds()
	m := New(b.Dx(), b.Dy())
	gray := imaging.Grayscale(img)
	for y := 0; y < m.Height; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+m.Width*4]
		for x := 0; x < m.Width; x++ {
			if row[x*4] >= BinarizeThreshold {
				m.Pix[y*m.Width+x] = 255
			}
		}
	}
	return m
}

// At reports whether the pixel at (x, y) is set. Out-of-range coordinates
// read as unset.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x] != 0
}

// Set sets or clears the pixel at (x, y). Out-of-range coordinates are ignored.
func (m *Mask) Set(x, y int, on bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	if on {
		m.Pix[y*m.Width+x] = 255
	} else {
		m.Pix[y*m.Width+x] = 0
	}
}

// Area returns the count of set pixels.
func (m *Mask) Area() int {
	n := 0
	for _, v := range m.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// AreaFraction returns set pixels as a fraction of total pixels.
func (m *Mask) AreaFraction() float64 {
	total := m.Width * m.Height
	if total == 0 {
		return 0
	}
	return float64(m.Area()) / float64(total)
}

// Bounds returns the bounding rectangle of set pixels. ok is false for an
// empty mask.
func (m *Mask) Bounds() (r image.Rectangle, ok bool) {
	minX, minY := m.Width, m.Height
	maxX, maxY := -1, -1
	for y := 0; y < m.Height; y++ {
		row := m.Pix[y*m.Width : (y+1)*m.Width]
		for x, v := range row {
			if v == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			maxY = y
		}
	}
	if maxX < 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// FillRect sets every pixel inside r, clipped to the mask.
func (m *Mask) FillRect(r image.Rectangle) {
	r = r.Intersect(image.Rect(0, 0, m.Width, m.Height))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := m.Pix[y*m.Width : (y+1)*m.Width]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = 255
		}
	}
}

// Union sets every pixel of m that is set in o. Masks must share dimensions.
func (m *Mask) Union(o *Mask) error {
	if m.Width != o.Width || m.Height != o.Height {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch, m.Width, m.Height, o.Width, o.Height)
	}
	for i, v := range o.Pix {
		if v != 0 {
			m.Pix[i] = 255
		}
	}
	return nil
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	c := New(m.Width, m.Height)
	copy(c.Pix, m.Pix)
	return c
}

// ToGray renders the mask as a single-channel image.
func (m *Mask) ToGray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		copy(g.Pix[y*g.Stride:y*g.Stride+m.Width], m.Pix[y*m.Width:(y+1)*m.Width])
	}
	return g
}

// Crop returns the portion of the mask inside r as a new mask.
func (m *Mask) Crop(r image.Rectangle) *Mask {
	r = r.Intersect(image.Rect(0, 0, m.Width, m.Height))
	c := New(r.Dx(), r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		copy(c.Pix[(y-r.Min.Y)*c.Width:(y-r.Min.Y+1)*c.Width], m.Pix[y*m.Width+r.Min.X:y*m.Width+r.Max.X])
	}
	return c
}

// Resize resamples the mask to width x height and rebinarizes, so the result
// is again strictly {0,255}.
func Resize(m *Mask, width, height int) *Mask {
	if m.Width == width && m.Height == height {
		return m.Clone()
	}
	resized := imaging.Resize(m.ToGray(), width, height, imaging.Lanczos)
	return FromImage(resized)
}

// Smooth applies a gaussian blur and rebinarizes, removing jagged edges from
// oracle output. Radius 0 or negative is a no-op clone.
func Smooth(m *Mask, radius float64) *Mask {
	if radius <= 0 {
		return m.Clone()
	}
	blurred := imaging.Blur(m.ToGray(), radius)
	return FromImage(blurred)
}
