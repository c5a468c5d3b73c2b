package loaders

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

func testPattern() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(60 * x), G: uint8(100 * y), B: 200, A: 255})
		}
	}
	return img
}

func TestFormatFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		expected ImageFormat
		wantErr  bool
	}{
		{"out.png", FormatPNG, false},
		{"OUT.PNG", FormatPNG, false},
		{"render.bmp", FormatBMP, false},
		{"render.tif", FormatTIFF, false},
		{"render.tiff", FormatTIFF, false},
		{"render.jpg", "", true},
		{"render", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			format, err := FormatFromFilename(tt.filename)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatFromFilename(%q) error = %v, wantErr %t", tt.filename, err, tt.wantErr)
			}
			if format != tt.expected {
				t.Errorf("FormatFromFilename(%q) = %q, want %q", tt.filename, format, tt.expected)
			}
		})
	}
}

// TestSaveImage writes every format and verifies the pixels survive a reload
func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	src := testPattern()

	for _, name := range []string{"out.png", "out.bmp", "out.tiff"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := SaveImage(path, src); err != nil {
				t.Fatalf("SaveImage() error: %v", err)
			}

			loaded, err := LoadImage(path)
			if err != nil {
				t.Fatalf("LoadImage() error: %v", err)
			}
			if loaded.Bounds() != src.Bounds() {
				t.Fatalf("Expected bounds %v, got %v", src.Bounds(), loaded.Bounds())
			}
			for y := 0; y < 2; y++ {
				for x := 0; x < 4; x++ {
					r1, g1, b1, _ := src.At(x, y).RGBA()
					r2, g2, b2, _ := loaded.At(x, y).RGBA()
					if r1 != r2 || g1 != g2 || b1 != b2 {
						t.Errorf("pixel (%d, %d): expected %v, got %v", x, y, src.At(x, y), loaded.At(x, y))
					}
				}
			}
		})
	}
}

func TestSaveImage_UnsupportedExtension(t *testing.T) {
	if err := SaveImage(filepath.Join(t.TempDir(), "out.gif"), testPattern()); err == nil {
		t.Error("Expected error for .gif output")
	}
}

func TestEncodeImage_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeImage(&buf, testPattern(), ImageFormat("webp")); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestScaleImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 6))
	for i := range src.Pix {
		src.Pix[i] = 128
	}

	tests := []struct {
		factor         float64
		expectedWidth  int
		expectedHeight int
	}{
		{2, 20, 12},
		{0.5, 5, 3},
		{0.01, 1, 1},
	}

	for _, tt := range tests {
		scaled, err := ScaleImage(src, tt.factor)
		if err != nil {
			t.Fatalf("ScaleImage(%v) error: %v", tt.factor, err)
		}
		if scaled.Bounds().Dx() != tt.expectedWidth || scaled.Bounds().Dy() != tt.expectedHeight {
			t.Errorf("ScaleImage(%v): expected %dx%d, got %v", tt.factor, tt.expectedWidth, tt.expectedHeight, scaled.Bounds())
		}
	}

	// A flat image stays flat under interpolation
	scaled, _ := ScaleImage(src, 2)
	got := scaled.RGBAAt(7, 5)
	for _, channel := range []uint8{got.R, got.G, got.B, got.A} {
		if channel < 127 || channel > 129 {
			t.Errorf("Expected flat color to survive scaling, got %v", got)
			break
		}
	}

	for _, factor := range []float64{0, -1} {
		if _, err := ScaleImage(src, factor); err == nil {
			t.Errorf("Expected error for factor %v", factor)
		}
	}
}
