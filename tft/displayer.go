// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tft

import (
	"context"
	"image/color"
	"sync"

	"tinygo.org/x/drivers"
)

// Displayer returns an adapter implementing drivers.Displayer, so that the
// TinyGo drawing packages (tinyfont, tinydraw) can draw on the display.
//
// Pixels are written as they are set since the controller keeps the frame.
// Display reports the first error that occurred since the previous call.
func (d *Dev) Displayer() *Displayer {
	return &Displayer{d: d}
}

// Displayer adapts a Dev to drivers.Displayer.
type Displayer struct {
	d *Dev

	mu  sync.Mutex
	err error
}

// Size implements drivers.Displayer.
func (p *Displayer) Size() (x, y int16) {
	b := p.d.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

// SetPixel implements drivers.Displayer.
func (p *Displayer) SetPixel(x, y int16, c color.RGBA) {
	p.keep(p.d.SetPixel(int(x), int(y), toColor(c)))
}

// Display implements drivers.Displayer.
func (p *Displayer) Display() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.err
	p.err = nil
	return err
}

// FillRectangle fills a rectangle of width w and height h at (x, y), the
// way the TinyGo display drivers do.
func (p *Displayer) FillRectangle(x, y, w, h int16, c color.RGBA) error {
	if w <= 0 || h <= 0 {
		return ErrBounds
	}
	return p.d.FillRect(context.Background(), int(x), int(y), int(x+w-1), int(y+h-1), toColor(c))
}

// SetRotation maps a TinyGo rotation to the display orientation.
func (p *Displayer) SetRotation(r drivers.Rotation) error {
	return p.d.SetRotation(context.Background(), Rotation(r%4))
}

func (p *Displayer) keep(err error) {
	if err == nil {
		return
	}
	p.mu.Lock()
	if p.err == nil {
		p.err = err
	}
	p.mu.Unlock()
}

var _ drivers.Displayer = &Displayer{}
