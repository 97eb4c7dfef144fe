package mask

import (
	"image"

	"github.com/disintegration/imaging"
)

// Cutout is a masked crop of a source image: the color pixels inside the
// mask's padded bounding box, with the mask applied as the alpha channel.
type Cutout struct {
	Image *image.NRGBA
	Mask  *Mask
	Rect  image.Rectangle // location of the cutout within the source image
}

// Extract crops img to the mask's bounding box padded by pad pixels per side
// and applies the mask as alpha. The mask must share img's dimensions.
// Returns ErrEmptyMask when the mask has no set pixels.
func Extract(img image.Image, m *Mask, pad int) (*Cutout, error) {
	b := img.Bounds()
	if b.Dx() != m.Width || b.Dy() != m.Height {
		return nil, ErrDimensionMismatch
	}

	box, ok := m.Bounds()
	if !ok {
		return nil, ErrEmptyMask
	}
	if pad > 0 {
		box = box.Inset(-pad).Intersect(image.Rect(0, 0, m.Width, m.Height))
	}

	cropped := imaging.Crop(img, box.Add(b.Min))
	cm := m.Crop(box)
	out := imaging.Clone(cropped)
	for y := 0; y < cm.Height; y++ {
		row := out.Pix[y*out.Stride : y*out.Stride+cm.Width*4]
		for x := 0; x < cm.Width; x++ {
			if cm.Pix[y*cm.Width+x] == 0 {
				row[x*4+3] = 0
			}
		}
	}
	return &Cutout{Image: out, Mask: cm, Rect: box}, nil
}

// CutRect crops a plain rectangular region of img with full opacity. Used as
// the fallback when no segment could be associated with a product.
func CutRect(img image.Image, r image.Rectangle) *Cutout {
	b := img.Bounds()
	r = r.Intersect(image.Rect(0, 0, b.Dx(), b.Dy()))
	cropped := imaging.Clone(imaging.Crop(img, r.Add(b.Min)))
	cm := New(r.Dx(), r.Dy())
	cm.FillRect(image.Rect(0, 0, r.Dx(), r.Dy()))
	return &Cutout{Image: cropped, Mask: cm, Rect: r}
}
