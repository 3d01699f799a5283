// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package emulator

import (
	"bytes"
	"image"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// TerminalOpts represents the options of a Terminal.
type TerminalOpts struct {
	// Columns is the width of the rendering in blocks. Defaults to 60.
	Columns int
	Palette *ansi256.Palette
	// W defaults to stdout.
	W io.Writer

	_ struct{}
}

// Terminal renders images to a terminal using ANSI color codes.
//
// Each block is the average color of a square of pixels, scaled so the image
// fits in the requested number of columns.
type Terminal struct {
	w       io.Writer
	cols    int
	palette ansi256.Palette

	buf bytes.Buffer
}

// NewTerminal returns a Terminal.
func NewTerminal(opts *TerminalOpts) *Terminal {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	cols := opts.Columns
	if cols <= 0 {
		cols = 60
	}
	return &Terminal{w: w, cols: cols, palette: *p}
}

func (t *Terminal) String() string {
	return "Terminal"
}

// Render writes img, moving the cursor back to the top left corner first so
// successive frames overwrite each other.
func (t *Terminal) Render(img image.Image) error {
	b := img.Bounds()
	step := (b.Dx() + t.cols - 1) / t.cols
	if step < 1 {
		step = 1
	}
	t.buf.Reset()
	_, _ = t.buf.WriteString("\033[H\033[0m")
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			c := average(img, image.Rect(x, y, x+step, y+step).Intersect(b))
			_, _ = io.WriteString(&t.buf, t.palette.Block(c))
		}
		_, _ = t.buf.WriteString("\033[0m\n")
	}
	_, err := t.buf.WriteTo(t.w)
	return err
}

// Halt implements conn.Resource.
//
// It resets the terminal colors.
func (t *Terminal) Halt() error {
	_, err := t.w.Write([]byte("\033[0m\n"))
	return err
}

// average returns the mean color of img over r.
func average(img image.Image, r image.Rectangle) color.NRGBA {
	var sr, sg, sb, n uint32
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			r16, g16, b16, _ := img.At(x, y).RGBA()
			sr += r16 >> 8
			sg += g16 >> 8
			sb += b16 >> 8
			n++
		}
	}
	if n == 0 {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{uint8(sr / n), uint8(sg / n), uint8(sb / n), 255}
}
