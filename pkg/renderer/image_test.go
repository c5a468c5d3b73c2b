package renderer

import (
	"image/color"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestColorImage_SetRow(t *testing.T) {
	img := NewColorImage(3, 2)
	row := []core.Color{core.White, core.NewColor(0.5, 0, 0), core.Black}

	if err := img.SetRow(1, row); err != nil {
		t.Fatalf("SetRow() error: %v", err)
	}
	if img.At(1, 1) != row[1] {
		t.Errorf("Expected %v at (1, 1), got %v", row[1], img.At(1, 1))
	}
	if !img.At(1, 0).IsBlack() {
		t.Errorf("Row 0 should be untouched, got %v", img.At(1, 0))
	}

	tests := []struct {
		name string
		y    int
		row  []core.Color
	}{
		{"negative row", -1, row},
		{"row past end", 2, row},
		{"short row", 0, row[:2]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := img.SetRow(tt.y, tt.row); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestColorImage_ToRGBA(t *testing.T) {
	img := NewColorImage(2, 1)
	img.Set(0, 0, core.NewColor(1.5, 0.5, -0.2))
	img.Set(1, 0, core.NewColor(0.2, 0.4, 0.6))

	rgba := img.ToRGBA()
	if rgba.Bounds().Dx() != 2 || rgba.Bounds().Dy() != 1 {
		t.Fatalf("Unexpected bounds %v", rgba.Bounds())
	}

	expected := []color.RGBA{
		{R: 255, G: 128, B: 0, A: 255},
		{R: 51, G: 102, B: 153, A: 255},
	}
	for x, want := range expected {
		if got := rgba.RGBAAt(x, 0); got != want {
			t.Errorf("pixel %d: expected %v, got %v", x, want, got)
		}
	}
}
