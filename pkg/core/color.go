package core

import (
	"image/color"
	"math"
)

// Color is a linear RGB color with float channels, nominally in [0, 1]
type Color struct {
	R, G, B float64
}

// Black is the zero color
var Black = Color{}

// White has every channel at full intensity
var White = Color{1, 1, 1}

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Add returns the channel-wise sum of two colors
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Multiply scales every channel by a scalar
func (c Color) Multiply(scalar float64) Color {
	return Color{c.R * scalar, c.G * scalar, c.B * scalar}
}

// MultiplyColor returns the channel-wise product of two colors
func (c Color) MultiplyColor(other Color) Color {
	return Color{c.R * other.R, c.G * other.G, c.B * other.B}
}

// Divide divides every channel by a scalar
func (c Color) Divide(scalar float64) Color {
	return Color{c.R / scalar, c.G / scalar, c.B / scalar}
}

// IsBlack reports whether all channels are exactly zero
func (c Color) IsBlack() bool {
	return c == Black
}

// Clamp returns the color with each channel clamped to [0, 1]
func (c Color) Clamp() Color {
	return Color{
		R: max(0, min(1, c.R)),
		G: max(0, min(1, c.G)),
		B: max(0, min(1, c.B)),
	}
}

// Bytes converts the color to 8-bit channels: clamp, scale by 255, round
func (c Color) Bytes() (r, g, b uint8) {
	clamped := c.Clamp()
	return uint8(math.Round(clamped.R * 255)),
		uint8(math.Round(clamped.G * 255)),
		uint8(math.Round(clamped.B * 255))
}

// RGBA converts the color to an opaque color.RGBA
func (c Color) RGBA() color.RGBA {
	r, g, b := c.Bytes()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
