// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tft

import (
	"fmt"
	"image/color"
)

// Color is a 24 bits pixel as sent to the controller. There is no alpha.
type Color struct {
	R, G, B uint8
}

// Common colors.
var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
	Red   = Color{255, 0, 0}
	Green = Color{0, 255, 0}
	Blue  = Color{0, 0, 255}
)

// Luma weights in ten-thousandths. They sum to 9999.
const (
	grayR = 2989
	grayG = 4870
	grayB = 2140
)

// Gray returns the grayscale projection of c: all three channels are replaced
// with the weighted sum of the channels, truncated and clamped to 255.
func (c Color) Gray() Color {
	l := (grayR*uint32(c.R) + grayG*uint32(c.G) + grayB*uint32(c.B)) / 10000
	if l > 255 {
		l = 255
	}
	v := uint8(l)
	return Color{v, v, v}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xFFFF
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ColorModel converts any color.Color to Color. Alpha is dropped, the color
// is used as if composited over black.
var ColorModel = color.ModelFunc(convert)

func convert(c color.Color) color.Color {
	return toColor(c)
}

func toColor(c color.Color) Color {
	if t, ok := c.(Color); ok {
		return t
	}
	r, g, b, _ := c.RGBA()
	return Color{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

// Pixels is a packed buffer of pixels, 3 bytes per pixel in R, G, B order.
//
// It is the wire format of the controller, so a Pixels buffer can be handed
// to the bus without conversion.
type Pixels []byte

// NewPixels returns a buffer of n black pixels.
func NewPixels(n int) Pixels {
	return make(Pixels, 3*n)
}

// Len returns the number of pixels in the buffer.
func (p Pixels) Len() int {
	return len(p) / 3
}

// At returns the i-th pixel.
func (p Pixels) At(i int) Color {
	return Color{p[3*i], p[3*i+1], p[3*i+2]}
}

// Set sets the i-th pixel.
func (p Pixels) Set(i int, c Color) {
	p[3*i] = c.R
	p[3*i+1] = c.G
	p[3*i+2] = c.B
}

// Fill sets every pixel to c.
func (p Pixels) Fill(c Color) {
	for i := 0; i+2 < len(p); i += 3 {
		p[i] = c.R
		p[i+1] = c.G
		p[i+2] = c.B
	}
}

// Gray converts every pixel to grayscale in place.
func (p Pixels) Gray() {
	for i := 0; i+2 < len(p); i += 3 {
		g := Color{p[i], p[i+1], p[i+2]}.Gray()
		p[i] = g.R
		p[i+1] = g.G
		p[i+2] = g.B
	}
}
