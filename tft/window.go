// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tft

import (
	"context"
	"encoding/binary"
	"fmt"
)

// window is an inclusive rectangle in controller memory coordinates.
type window struct {
	x1, x2, y1, y2 int
}

// pixels returns the number of pixels in the window.
func (w window) pixels() int {
	return (w.x2 - w.x1 + 1) * (w.y2 - w.y1 + 1)
}

// window validates the inclusive rectangle (x1, y1)-(x2, y2) in display
// coordinates and maps it to controller memory.
func (d *Dev) window(x1, y1, x2, y2 int) (window, error) {
	if x1 < 0 || y1 < 0 || x1 > x2 || y1 > y2 || x2 >= d.w || y2 >= d.h {
		return window{}, fmt.Errorf("%w: (%d,%d)-(%d,%d) on %dx%d", ErrBounds, x1, y1, x2, y2, d.w, d.h)
	}
	ox, oy := d.opts.OffsetX, d.opts.OffsetY
	return window{x1 + ox, x2 + ox, y1 + oy, y2 + oy}, nil
}

// windowArgs stores the column and row ranges in the CASET and PASET
// argument transactions, big endian.
func (d *Dev) windowArgs(w window) {
	binary.BigEndian.PutUint16(d.tx.caArgs.Inline[0:], uint16(w.x1))
	binary.BigEndian.PutUint16(d.tx.caArgs.Inline[2:], uint16(w.x2))
	binary.BigEndian.PutUint16(d.tx.paArgs.Inline[0:], uint16(w.y1))
	binary.BigEndian.PutUint16(d.tx.paArgs.Inline[2:], uint16(w.y2))
}

// setWindowQueued queues the four transactions setting the address window.
// They are drained along with the rest of b.
func (d *Dev) setWindowQueued(ctx context.Context, b *batch, w window) error {
	d.windowArgs(w)
	for _, t := range []*Transaction{&d.tx.caSet, &d.tx.caArgs, &d.tx.paSet, &d.tx.paArgs} {
		if err := b.submit(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// setWindowSync sets the address window and waits for every transaction.
// Nothing may be queued.
func (d *Dev) setWindowSync(w window) error {
	if d.pending != nil {
		return ErrPending
	}
	d.windowArgs(w)
	for _, t := range []*Transaction{&d.tx.caSet, &d.tx.caArgs, &d.tx.paSet, &d.tx.paArgs} {
		if err := d.send(t); err != nil {
			return err
		}
	}
	return nil
}
