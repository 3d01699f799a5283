// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tft

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
)

// Dev is an open handle to the display controller.
//
// Its methods are safe for concurrent use; operations are serialized.
type Dev struct {
	t   Transport
	rst gpio.PinOut
	bl  gpio.PinOut
	log zerolog.Logger

	// sleep suspends the caller for the init script delays.
	sleep func(time.Duration)

	mu   sync.Mutex
	opts Opts
	// Logical size, after rotation.
	w, h int
	rot  Rotation
	gray bool

	rep repeatBuffer
	tx  transactions
	// pending is the batch started by PushBufferBegin.
	pending *batch
	// rx is the receive buffer of ReadRect, including the dummy byte.
	rx []byte
	// draw holds the two line blocks used by Draw.
	draw [2]Pixels
}

// transactions are the descriptors reused across operations. They are only
// modified when nothing is queued.
type transactions struct {
	caSet, caArgs Transaction
	paSet, paArgs Transaction
	ramWr         Transaction
	cmd, args     Transaction
	pixel         Transaction
	full, partial Transaction
	data          Transaction
}

func command(op byte) Transaction {
	return Transaction{DC: gpio.Low, Inline: [4]byte{op}, N: 1}
}

func data(n int) Transaction {
	return Transaction{DC: gpio.High, N: n}
}

// New returns a Dev that talks to the controller through t.
//
// rst and bl are the optional reset and backlight pins; use nil when they
// are not wired. New does not talk to the controller; call Init.
func New(t Transport, rst, bl gpio.PinOut, opts *Opts) (*Dev, error) {
	if rst == gpio.INVALID || bl == gpio.INVALID {
		return nil, fmt.Errorf("tft: use nil for pins not connected, do not use gpio.INVALID")
	}
	o := *opts
	if o.Variant.scripts() == nil {
		return nil, fmt.Errorf("tft: unknown controller %q", o.Variant)
	}
	nw, nh := o.Variant.size()
	if o.Width == 0 {
		o.Width = nw
	}
	if o.Height == 0 {
		o.Height = nh
	}
	if o.Width < 0 || o.Height < 0 || o.Width > 0xFFFF || o.Height > 0xFFFF {
		return nil, fmt.Errorf("%s: invalid size %dx%d", o.Variant, o.Width, o.Height)
	}
	if o.RepeatPixels <= 0 {
		o.RepeatPixels = DefaultRepeatPixels
	}
	l := zerolog.Nop()
	if o.Logger != nil {
		l = o.Logger.With().Str("tft", string(o.Variant)).Logger()
	}
	d := &Dev{
		t:     t,
		rst:   rst,
		bl:    bl,
		log:   l,
		sleep: time.Sleep,
		opts:  o,
		w:     o.Width,
		h:     o.Height,
		gray:  o.Gray,
		rep:   newRepeatBuffer(o.RepeatPixels),
		tx: transactions{
			caSet:  command(caSet),
			caArgs: data(4),
			paSet:  command(paSet),
			paArgs: data(4),
			ramWr:  command(ramWr),
			pixel:  data(3),
		},
	}
	d.tx.full = Transaction{DC: gpio.High, Buf: d.rep.pix}
	d.tx.partial = Transaction{DC: gpio.High}
	return d, nil
}

func (d *Dev) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fmt.Sprintf("%s.Dev{%v, %dx%d, %s}", d.opts.Variant, d.t, d.w, d.h, d.rot)
}

// Init resets the controller, runs its initialization scripts, sets the
// portrait orientation, clears the screen and turns the backlight on.
func (d *Dev) Init(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.reset(); err != nil {
		return err
	}
	if err := d.guarded(ctx, d.initScripts); err != nil {
		return err
	}
	if err := d.setRotation(ctx, Portrait); err != nil {
		return err
	}
	if err := d.fillRect(ctx, 0, 0, d.w-1, d.h-1, Black); err != nil {
		return err
	}
	if d.bl != nil {
		return d.bl.Out(gpio.High)
	}
	return nil
}

func (d *Dev) reset() error {
	if d.rst == nil {
		return nil
	}
	if err := d.rst.Out(gpio.Low); err != nil {
		return err
	}
	d.sleep(20 * time.Millisecond)
	if err := d.rst.Out(gpio.High); err != nil {
		return err
	}
	d.sleep(150 * time.Millisecond)
	return nil
}

func (d *Dev) initScripts() error {
	for _, s := range d.opts.Variant.scripts() {
		if err := d.runScript(s); err != nil {
			return err
		}
	}
	if d.opts.Variant == ST7735B {
		return d.cmdData(madCtl, []byte{0xC0})
	}
	return nil
}

// RunScript replays a vendor initialization table. It panics if s is
// malformed.
func (d *Dev) RunScript(ctx context.Context, s Script) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		return ErrPending
	}
	if err := d.acquire(ctx); err != nil {
		return err
	}
	defer d.t.Release()
	return d.runScript(s)
}

// SetRotation changes the orientation of the display. Width and height are
// swapped as needed.
func (d *Dev) SetRotation(ctx context.Context, r Rotation) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setRotation(ctx, r)
}

func (d *Dev) setRotation(ctx context.Context, r Rotation) error {
	if d.pending != nil {
		return ErrPending
	}
	r &= 3
	w, h := d.opts.Width, d.opts.Height
	if r&1 != 0 {
		w, h = h, w
	}
	if err := d.acquire(ctx); err != nil {
		return err
	}
	defer d.t.Release()
	if err := d.cmdData(madCtl, []byte{r.madctl(d.opts.BGR)}); err != nil {
		return err
	}
	d.rot, d.w, d.h = r, w, h
	d.log.Debug().Stringer("rotation", r).Int("w", w).Int("h", h).Msg("rotation")
	return nil
}

// Rotation returns the current orientation.
func (d *Dev) Rotation() Rotation {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rot
}

// SetGray enables or disables the grayscale conversion of colors.
func (d *Dev) SetGray(gray bool) {
	d.mu.Lock()
	d.gray = gray
	d.mu.Unlock()
}

// Invert the display colors.
func (d *Dev) Invert(on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	op := invOff
	if on {
		op = invOn
	}
	return d.guarded(context.Background(), func() error { return d.cmd(op) })
}

// Halt implements conn.Resource.
//
// It turns the display off. Sending any drawing command afterward does not
// turn it back on; call Init.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		if err := d.pushEnd(); err != nil {
			return err
		}
	}
	if d.bl != nil {
		if err := d.bl.Out(gpio.Low); err != nil {
			return err
		}
	}
	return d.guarded(context.Background(), func() error { return d.cmd(dispOff) })
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return ColorModel
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	d.mu.Lock()
	defer d.mu.Unlock()
	return image.Rect(0, 0, d.w, d.h)
}

// acquire takes the bus for a sequence of transactions.
func (d *Dev) acquire(ctx context.Context) error {
	if err := d.t.Acquire(ctx); err != nil {
		d.log.Debug().Err(err).Msg("acquire")
		return &BusError{Op: "acquire", Err: err}
	}
	return nil
}

// guarded runs fn while owning the bus.
func (d *Dev) guarded(ctx context.Context, fn func() error) error {
	if err := d.acquire(ctx); err != nil {
		return err
	}
	defer d.t.Release()
	return fn()
}

// send runs a blocking transaction.
func (d *Dev) send(t *Transaction) error {
	if err := d.t.Tx(t); err != nil {
		d.log.Debug().Err(err).Int("bits", t.Bits()).Msg("tx")
		return &BusError{Op: "tx", Err: err}
	}
	return nil
}

// cmd sends a single command byte and waits for it. Nothing may be queued.
func (d *Dev) cmd(op byte) error {
	if d.pending != nil {
		return ErrPending
	}
	d.tx.cmd = command(op)
	return d.send(&d.tx.cmd)
}

// cmdData sends a command followed by its arguments, if any, and waits for
// both.
func (d *Dev) cmdData(op byte, args []byte) error {
	if err := d.cmd(op); err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	d.tx.args = Transaction{DC: gpio.High, Buf: args}
	return d.send(&d.tx.args)
}

var _ display.Drawer = &Dev{}
