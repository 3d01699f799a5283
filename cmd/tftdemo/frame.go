// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

// renderer draws the demo frames.
type renderer struct {
	dc   *gg.Context
	face font.Face
}

func newRenderer(w, h int) *renderer {
	r := &renderer{dc: gg.NewContext(w, h), face: basicfont.Face7x13}
	if f, err := truetype.Parse(goregular.TTF); err == nil {
		r.face = truetype.NewFace(f, &truetype.Options{Size: float64(h) / 12})
	}
	r.dc.SetFontFace(r.face)
	return r
}

// frame returns frame i: a title, a frame counter and a ball bouncing along
// the bottom edge.
func (r *renderer) frame(i int) image.Image {
	dc := r.dc
	w, h := float64(dc.Width()), float64(dc.Height())
	dc.SetRGB(0, 0, 0.2)
	dc.Clear()

	const padding = 8.0
	text := "tftspi"
	tw, th := dc.MeasureString(text)
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(2)
	dc.DrawRoundedRectangle((w-tw)/2-padding, padding, tw+2*padding, th+2*padding, 6)
	dc.Stroke()
	dc.DrawStringAnchored(text, w/2, padding*2+th/2, 0.5, 0.5)

	dc.SetRGB(1, 0.8, 0)
	dc.DrawStringAnchored(fmt.Sprintf("frame %d", i), w/2, h/2, 0.5, 0.5)

	radius := h / 16
	x := radius + (w-2*radius)*(0.5+0.5*math.Sin(float64(i)/8))
	dc.SetRGB(0.9, 0.1, 0.1)
	dc.DrawCircle(x, h-radius-padding, radius)
	dc.Fill()
	return dc.Image()
}
