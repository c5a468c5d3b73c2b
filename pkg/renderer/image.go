package renderer

import (
	"fmt"
	"image"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ColorImage is a row-major grid of linear colors
type ColorImage struct {
	Width  int
	Height int
	Pixels []core.Color
}

// NewColorImage creates a black image of the given size
func NewColorImage(width, height int) *ColorImage {
	return &ColorImage{
		Width:  width,
		Height: height,
		Pixels: make([]core.Color, width*height),
	}
}

// At returns the color of pixel (x, y)
func (img *ColorImage) At(x, y int) core.Color {
	return img.Pixels[y*img.Width+x]
}

// Set sets the color of pixel (x, y)
func (img *ColorImage) Set(x, y int, c core.Color) {
	img.Pixels[y*img.Width+x] = c
}

// Row returns the pixels of row y. The slice aliases the image.
func (img *ColorImage) Row(y int) []core.Color {
	return img.Pixels[y*img.Width : (y+1)*img.Width]
}

// SetRow copies a full row of colors into row y
func (img *ColorImage) SetRow(y int, colors []core.Color) error {
	if y < 0 || y >= img.Height {
		return fmt.Errorf("row %d out of range [0, %d)", y, img.Height)
	}
	if len(colors) != img.Width {
		return fmt.Errorf("row %d has %d pixels, expected %d", y, len(colors), img.Width)
	}
	copy(img.Row(y), colors)
	return nil
}

// ToRGBA converts the image to 8-bit RGBA by clamping and rounding each channel
func (img *ColorImage) ToRGBA() *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			rgba.SetRGBA(x, y, img.At(x, y).RGBA())
		}
	}
	return rgba
}
