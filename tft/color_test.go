// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tft

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestColorGray(t *testing.T) {
	for _, tc := range []struct {
		c    Color
		want uint8
	}{
		{Black, 0},
		{White, 254},
		{Red, 76},
		{Green, 124},
		{Blue, 54},
		{Color{100, 150, 200}, 145},
		{Color{255, 255, 0}, 200},
		{Color{1, 1, 1}, 0},
	} {
		t.Run(tc.c.String(), func(t *testing.T) {
			got := tc.c.Gray()
			if got.R != got.G || got.G != got.B {
				t.Fatalf("Gray() = %s, channels differ", got)
			}
			if got.R != tc.want {
				t.Fatalf("Gray() = %d, want %d", got.R, tc.want)
			}
		})
	}
}

func TestColorRGBA(t *testing.T) {
	r, g, b, a := Color{0x12, 0x80, 0xFF}.RGBA()
	if r != 0x1212 || g != 0x8080 || b != 0xFFFF || a != 0xFFFF {
		t.Fatalf("RGBA() = %#x %#x %#x %#x", r, g, b, a)
	}
}

func TestColorModel(t *testing.T) {
	for _, tc := range []struct {
		name string
		c    color.Color
		want Color
	}{
		{"Color", Color{1, 2, 3}, Color{1, 2, 3}},
		{"NRGBA", color.NRGBA{10, 20, 30, 255}, Color{10, 20, 30}},
		{"RGBA", color.RGBA{0x40, 0x80, 0xC0, 0xFF}, Color{0x40, 0x80, 0xC0}},
		{"Gray", color.Gray{Y: 0x33}, Color{0x33, 0x33, 0x33}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := ColorModel.Convert(tc.c); got != tc.want {
				t.Fatalf("Convert() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPixels(t *testing.T) {
	p := NewPixels(4)
	if p.Len() != 4 {
		t.Fatalf("Len() = %d", p.Len())
	}
	p.Fill(Red)
	p.Set(2, Color{100, 150, 200})
	p.Gray()
	want := Pixels{76, 76, 76, 76, 76, 76, 141, 141, 141, 76, 76, 76}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Fatalf("Pixels mismatch (-want +got):\n%s", diff)
	}
	if got := p.At(2); got != (Color{141, 141, 141}) {
		t.Fatalf("At(2) = %s", got)
	}
}
