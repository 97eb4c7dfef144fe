package segment

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// RenderOverlay blends each segment over the source image in a distinct hue,
// for troubleshooting decomposition and filtering. Hues are spaced evenly
// around the wheel so neighboring segments stay distinguishable. The input
// image is not modified.
func RenderOverlay(img image.Image, segs []Segment, alpha float64) *image.NRGBA {
	out := imaging.Clone(img)
	if len(segs) == 0 {
		return out
	}
	if alpha <= 0 || alpha > 1 {
		alpha = 0.5
	}

	step := 360.0 / float64(len(segs))
	for i, s := range segs {
		c := colorful.Hsv(float64(i)*step, 0.85, 0.95)
		tint := color.NRGBA{R: uint8(c.R * 255), G: uint8(c.G * 255), B: uint8(c.B * 255), A: 255}
		for y := 0; y < s.Mask.Height; y++ {
			for x := 0; x < s.Mask.Width; x++ {
				if !s.Mask.At(x, y) {
					continue
				}
				o := out.NRGBAAt(x, y)
				out.SetNRGBA(x, y, color.NRGBA{
					R: blend(o.R, tint.R, alpha),
					G: blend(o.G, tint.G, alpha),
					B: blend(o.B, tint.B, alpha),
					A: 255,
				})
			}
		}
	}
	return out
}

func blend(base, over uint8, alpha float64) uint8 {
	return uint8(float64(base)*(1-alpha) + float64(over)*alpha)
}
