// Package testutil generates synthetic room photographs and combined
// segmentation masks for tests.
package testutil

import (
	"image"
	"image/color"
	"image/draw"
)

// CanvasSize mirrors the default working canvas used across tests.
const CanvasSize = 512

// Region is one flat-color object in a synthetic combined mask.
type Region struct {
	Color color.NRGBA
	Rect  image.Rectangle
}

// CombinedMask renders regions as flat colors on a black background,
// mimicking the automatic segmentation oracle's combined output.
func CombinedMask(width, height int, regions []Region) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.NRGBA{A: 255}), image.Point{}, draw.Src)
	for _, r := range regions {
		draw.Draw(img, r.Rect, image.NewUniform(r.Color), image.Point{}, draw.Src)
	}
	return img
}

// RoomImage renders a flat two-tone room photograph: a wall over a floor
// with an optional solid furniture block.
func RoomImage(width, height int, furniture ...image.Rectangle) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	wall := color.NRGBA{R: 210, G: 205, B: 195, A: 255}
	floor := color.NRGBA{R: 150, G: 120, B: 90, A: 255}
	horizon := height * 6 / 10

	draw.Draw(img, image.Rect(0, 0, width, horizon), image.NewUniform(wall), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, horizon, width, height), image.NewUniform(floor), image.Point{}, draw.Src)

	couch := color.NRGBA{R: 60, G: 90, B: 140, A: 255}
	for _, r := range furniture {
		draw.Draw(img, r, image.NewUniform(couch), image.Point{}, draw.Src)
	}
	return img
}

// GrayMask renders a single-channel mask with the given rectangle set to
// value, mimicking soft oracle segmentation output.
func GrayMask(width, height int, r image.Rectangle, value uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, width, height))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			g.SetGray(x, y, color.Gray{Y: value})
		}
	}
	return g
}
