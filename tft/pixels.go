// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tft

import (
	"context"
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// smallFill is the largest fill sent as individual pixels instead of through
// the repeat buffer.
const smallFill = 10

// repeatBuffer is a block of identical pixels reused across fills.
//
// Either every pixel equals color, or valid is false and the buffer must be
// refilled before use.
type repeatBuffer struct {
	pix     Pixels
	color   Color
	valid   bool
	refills int
}

func newRepeatBuffer(n int) repeatBuffer {
	return repeatBuffer{pix: NewPixels(n)}
}

func (r *repeatBuffer) isValidFor(c Color) bool {
	return r.valid && r.color == c
}

func (r *repeatBuffer) refill(c Color) {
	r.pix.Fill(c)
	r.color = c
	r.valid = true
	r.refills++
}

// capacity is the size of the buffer in pixels.
func (r *repeatBuffer) capacity() int {
	return r.pix.Len()
}

// SetPixel sets the pixel at (x, y) to c.
//
// Each call programs the address window, so it is only meant for sparse
// writes.
func (d *Dev) SetPixel(x, y int, c Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		return ErrPending
	}
	w, err := d.window(x, y, x, y)
	if err != nil {
		return err
	}
	if d.gray {
		c = c.Gray()
	}
	return d.guarded(context.Background(), func() error {
		if err := d.setWindowSync(w); err != nil {
			return err
		}
		if err := d.cmd(ramWr); err != nil {
			return err
		}
		d.tx.pixel.Inline = [4]byte{c.R, c.G, c.B}
		return d.send(&d.tx.pixel)
	})
}

// FillRect fills the inclusive rectangle (x1, y1)-(x2, y2) with c.
func (d *Dev) FillRect(ctx context.Context, x1, y1, x2, y2 int, c Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fillRect(ctx, x1, y1, x2, y2, c)
}

// FillScreen fills the whole display with c.
func (d *Dev) FillScreen(ctx context.Context, c Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fillRect(ctx, 0, 0, d.w-1, d.h-1, c)
}

func (d *Dev) fillRect(ctx context.Context, x1, y1, x2, y2 int, c Color) error {
	if d.pending != nil {
		return ErrPending
	}
	w, err := d.window(x1, y1, x2, y2)
	if err != nil {
		return err
	}
	if err := d.acquire(ctx); err != nil {
		return err
	}
	defer d.t.Release()
	return d.fill(ctx, w, c, w.pixels())
}

// fill sends n pixels of color c to the window w.
//
// The window and the RAM write command are queued. Up to smallFill pixels
// are then sent one by one; larger fills queue the repeat buffer as many times
// as needed, followed by a partial buffer for the remainder.
func (d *Dev) fill(ctx context.Context, w window, c Color, n int) error {
	if d.gray {
		c = c.Gray()
	}
	b := &batch{t: d.t}
	if err := d.setWindowQueued(ctx, b, w); err != nil {
		return b.abort(err)
	}
	if err := b.submit(ctx, &d.tx.ramWr); err != nil {
		return b.abort(err)
	}

	if n <= smallFill {
		if err := b.drain(); err != nil {
			return err
		}
		d.tx.pixel.Inline = [4]byte{c.R, c.G, c.B}
		for i := 0; i < n; i++ {
			if err := d.send(&d.tx.pixel); err != nil {
				return err
			}
		}
		return nil
	}

	if !d.rep.isValidFor(c) {
		d.rep.refill(c)
	}
	size := d.rep.capacity()
	rest := n
	for ; rest >= size; rest -= size {
		if err := b.submit(ctx, &d.tx.full); err != nil {
			return b.abort(err)
		}
	}
	if rest > 0 {
		d.tx.partial.Buf = d.rep.pix[:3*rest]
		if err := b.submit(ctx, &d.tx.partial); err != nil {
			return b.abort(err)
		}
	}
	return b.drain()
}

// PushBufferBegin queues buf to be written to the inclusive rectangle
// (x1, y1)-(x2, y2) and returns without waiting.
//
// buf is converted to grayscale in place when grayscale is enabled. It must
// not be modified until PushBufferEnd returned. The bus stays owned by the
// Dev until then, and every other operation fails with ErrPending.
//
// Splitting the write in two calls lets the caller prepare the next buffer
// while the current one is sent.
func (d *Dev) PushBufferBegin(ctx context.Context, x1, y1, x2, y2 int, buf Pixels) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pushBegin(ctx, x1, y1, x2, y2, buf)
}

// PushBufferEnd waits for the transactions queued by PushBufferBegin.
func (d *Dev) PushBufferEnd() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending == nil {
		return nil
	}
	return d.pushEnd()
}

func (d *Dev) pushBegin(ctx context.Context, x1, y1, x2, y2 int, buf Pixels) error {
	if d.pending != nil {
		return ErrPending
	}
	w, err := d.window(x1, y1, x2, y2)
	if err != nil {
		return err
	}
	if n := buf.Len(); n == 0 || n > w.pixels() || len(buf)%3 != 0 {
		return fmt.Errorf("tft: invalid buffer of %d bytes for %d pixels", len(buf), w.pixels())
	}
	if err := d.acquire(ctx); err != nil {
		return err
	}
	b := &batch{t: d.t}
	if err := d.setWindowQueued(ctx, b, w); err != nil {
		return d.abortPush(b, err)
	}
	if d.gray {
		buf.Gray()
	}
	if err := b.submit(ctx, &d.tx.ramWr); err != nil {
		return d.abortPush(b, err)
	}
	d.tx.data = Transaction{DC: gpio.High, Buf: buf}
	if err := b.submit(ctx, &d.tx.data); err != nil {
		return d.abortPush(b, err)
	}
	d.pending = b
	return nil
}

// abortPush drains b and releases the bus taken by pushBegin.
func (d *Dev) abortPush(b *batch, err error) error {
	err = b.abort(err)
	d.t.Release()
	return err
}

func (d *Dev) pushEnd() error {
	b := d.pending
	d.pending = nil
	err := b.drain()
	d.t.Release()
	return err
}

// ReadPixel returns the color of the pixel at (x, y).
func (d *Dev) ReadPixel(ctx context.Context, x, y int) (Color, error) {
	var buf [3]byte
	if err := d.ReadRect(ctx, x, y, x, y, buf[:]); err != nil {
		return Color{}, err
	}
	return Pixels(buf[:]).At(0), nil
}

// ReadRect reads buf.Len() pixels from the inclusive rectangle
// (x1, y1)-(x2, y2), row by row.
//
// The whole read is a single receive of 3*buf.Len()+1 bytes. When the
// transport implements ReceiveLimiter, larger reads fail with an error
// matching ErrBounds before anything is sent; on spidev's default 4096 bytes
// limit that is 1365 pixels.
//
// The returned error matches ErrBusAcquire when the bus could not be
// acquired and ErrTransfer when the transfer failed; Status maps it to a
// status code.
func (d *Dev) ReadRect(ctx context.Context, x1, y1, x2, y2 int, buf Pixels) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		return ErrPending
	}
	w, err := d.window(x1, y1, x2, y2)
	if err != nil {
		return err
	}
	n := buf.Len()
	if n == 0 || n > w.pixels() {
		return fmt.Errorf("tft: invalid buffer of %d pixels for %d pixels", n, w.pixels())
	}
	if l, ok := d.t.(ReceiveLimiter); ok {
		if limit := l.MaxReceive(); limit > 0 && 3*n+1 > limit {
			return fmt.Errorf("%w: read of %d pixels exceeds the %d bytes receive limit", ErrBounds, n, limit)
		}
	}
	// TODO(hardware): lower the clock to opts.MaxReadClock around the read
	// once it is validated that the controllers need it at the write clock.
	if err := d.acquire(ctx); err != nil {
		return err
	}
	defer d.t.Release()
	if err := d.setWindowSync(w); err != nil {
		return err
	}
	if err := d.cmd(ramRd); err != nil {
		return err
	}
	// The controller sends one dummy byte before the pixels.
	if cap(d.rx) < 3*n+1 {
		d.rx = make([]byte, 3*n+1)
	}
	rx := Transaction{Dir: Receive, DC: gpio.High, Buf: d.rx[:3*n+1]}
	if err := d.send(&rx); err != nil {
		return err
	}
	copy(buf, rx.Buf[1:])
	return nil
}
