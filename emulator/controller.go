// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package emulator

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/GermanBionicSystems/tftspi/spiq"
	"github.com/GermanBionicSystems/tftspi/tft"
	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/gpio"
)

// Opcodes decoded by the controller.
const (
	swReset = 0x01
	invOff  = 0x20
	invOn   = 0x21
	dispOff = 0x28
	dispOn  = 0x29
)

// Opts is the configuration of a Controller.
type Opts struct {
	// Width and Height are the size of the panel in portrait orientation.
	Width, Height int
	// Depth is the number of transactions that can be queued.
	Depth int
	// Bus is the lock shared with other users of the bus. Defaults to a lock
	// private to the Controller.
	Bus *spiq.Bus
	// Logger receives the decoded commands at trace level.
	Logger *zerolog.Logger
}

// Stats are counters of the bus activity.
type Stats struct {
	// Transactions run, blocking and queued.
	Tx, Queued int
	// Commands received, by opcode.
	Commands map[byte]int
	// Bytes sent to and received from the controller.
	BytesOut, BytesIn int
	// Pixels written to and read from memory.
	PixelsWritten, PixelsRead int
}

// Controller emulates a display controller with its memory.
type Controller struct {
	bus *spiq.Bus
	log zerolog.Logger

	mu    sync.Mutex
	panel *image.RGBA
	stats Stats
	// slots holds one token per transaction queued and not yet returned by
	// Result.
	slots chan struct{}
	done  chan result

	// Controller state.
	madctl   byte
	on       bool
	inverted bool
	cmd      byte
	args     []byte
	// Window, in logical coordinates, and the write cursor.
	x1, x2, y1, y2 int
	x, y           int
	// Bytes of an incomplete pixel.
	partial []byte
}

type result struct {
	t   *tft.Transaction
	err error
}

// New returns a Controller with black memory.
func New(opts *Opts) (*Controller, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("emulator: invalid size %dx%d", opts.Width, opts.Height)
	}
	if opts.Depth <= 0 {
		return nil, fmt.Errorf("emulator: invalid depth %d", opts.Depth)
	}
	c := &Controller{
		bus:   opts.Bus,
		log:   zerolog.Nop(),
		panel: image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height)),
		slots: make(chan struct{}, opts.Depth),
		done:  make(chan result, opts.Depth),
		stats: Stats{Commands: map[byte]int{}},
	}
	if c.bus == nil {
		c.bus = spiq.NewBus()
	}
	if opts.Logger != nil {
		c.log = opts.Logger.With().Str("emulator", fmt.Sprintf("%dx%d", opts.Width, opts.Height)).Logger()
	}
	draw.Draw(c.panel, c.panel.Rect, image.Black, image.Point{}, draw.Src)
	c.reset()
	return c, nil
}

func (c *Controller) String() string {
	b := c.panel.Rect.Max
	return fmt.Sprintf("emulator.Controller{%dx%d}", b.X, b.Y)
}

// Tx implements tft.Transport.
func (c *Controller) Tx(t *tft.Transaction) error {
	if len(c.slots) != 0 {
		return errors.New("emulator: Tx with queued transactions")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Tx++
	return c.run(t)
}

// Queue implements tft.Transport.
//
// The transaction runs immediately; its completion waits for Result.
func (c *Controller) Queue(ctx context.Context, t *tft.Transaction) error {
	select {
	case c.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	c.mu.Lock()
	c.stats.Queued++
	err := c.run(t)
	c.mu.Unlock()
	c.done <- result{t: t, err: err}
	return nil
}

// Result implements tft.Transport.
func (c *Controller) Result(ctx context.Context) (*tft.Transaction, error) {
	select {
	case r := <-c.done:
		<-c.slots
		return r.t, r.err
	default:
		return nil, errors.New("emulator: Result without queued transactions")
	}
}

// Depth implements tft.Transport.
func (c *Controller) Depth() int {
	return cap(c.slots)
}

// Acquire implements tft.Transport.
func (c *Controller) Acquire(ctx context.Context) error {
	return c.bus.Lock(ctx)
}

// Release implements tft.Transport.
func (c *Controller) Release() {
	c.bus.Unlock()
}

// Stats returns a copy of the counters.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Commands = make(map[byte]int, len(c.stats.Commands))
	for k, v := range c.stats.Commands {
		s.Commands[k] = v
	}
	return s
}

// Pixel returns the color stored at (x, y) of the panel, as seen in portrait
// orientation.
func (c *Controller) Pixel(x, y int) tft.Color {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.panel.RGBAAt(x, y)
	return tft.Color{R: p.R, G: p.G, B: p.B}
}

// Snapshot returns what the panel shows, in portrait orientation.
//
// It is black when the display is off and inverted after INVON.
func (c *Controller) Snapshot() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	img := image.NewRGBA(c.panel.Rect)
	if !c.on {
		draw.Draw(img, img.Rect, image.Black, image.Point{}, draw.Src)
		return img
	}
	copy(img.Pix, c.panel.Pix)
	if c.inverted {
		for i := 0; i < len(img.Pix); i += 4 {
			img.Pix[i] = ^img.Pix[i]
			img.Pix[i+1] = ^img.Pix[i+1]
			img.Pix[i+2] = ^img.Pix[i+2]
		}
	}
	return img
}

// On reports whether the display was turned on.
func (c *Controller) On() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.on
}

// MADCTL returns the memory access control register.
func (c *Controller) MADCTL() byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.madctl
}

func (c *Controller) reset() {
	c.madctl = 0
	c.on = false
	c.inverted = false
	c.x1, c.y1 = 0, 0
	c.x2, c.y2 = c.panel.Rect.Dx()-1, c.panel.Rect.Dy()-1
}

// run executes t. c.mu must be held.
func (c *Controller) run(t *tft.Transaction) error {
	p := t.Payload()
	if t.DC == gpio.Low {
		if t.Dir != tft.Send || len(p) != 1 {
			return fmt.Errorf("emulator: invalid command transaction of %d bytes", len(p))
		}
		c.stats.BytesOut++
		c.command(p[0])
		return nil
	}
	if t.Dir == tft.Receive {
		c.stats.BytesIn += len(p)
		return c.read(p)
	}
	c.stats.BytesOut += len(p)
	switch c.cmd {
	case tft.CASET, tft.PASET:
		c.args = append(c.args, p...)
		if len(c.args) >= 4 {
			a := int(c.args[0])<<8 | int(c.args[1])
			b := int(c.args[2])<<8 | int(c.args[3])
			if c.cmd == tft.CASET {
				c.x1, c.x2 = a, b
			} else {
				c.y1, c.y2 = a, b
			}
		}
	case tft.MADCTL:
		if len(p) != 0 {
			c.madctl = p[0]
		}
	case tft.RAMWR:
		c.write(p)
	}
	return nil
}

func (c *Controller) command(op byte) {
	c.stats.Commands[op]++
	c.log.Trace().Hex("cmd", []byte{op}).Msg("command")
	c.cmd = op
	c.args = c.args[:0]
	c.partial = c.partial[:0]
	switch op {
	case swReset:
		c.reset()
	case invOff:
		c.inverted = false
	case invOn:
		c.inverted = true
	case dispOff:
		c.on = false
	case dispOn:
		c.on = true
	case tft.RAMWR, tft.RAMRD:
		c.x, c.y = c.x1, c.y1
	}
}

// write stores pixels at the cursor, keeping the bytes of an incomplete
// pixel for the next transaction.
func (c *Controller) write(p []byte) {
	if len(c.partial) != 0 {
		need := 3 - len(c.partial)
		if len(p) < need {
			c.partial = append(c.partial, p...)
			return
		}
		c.partial = append(c.partial, p[:need]...)
		c.store(c.partial[0], c.partial[1], c.partial[2])
		c.partial = c.partial[:0]
		p = p[need:]
	}
	for ; len(p) >= 3; p = p[3:] {
		c.store(p[0], p[1], p[2])
	}
	c.partial = append(c.partial, p...)
}

func (c *Controller) store(r, g, b byte) {
	if px, py, ok := c.panelAt(c.x, c.y); ok {
		c.panel.SetRGBA(px, py, color.RGBA{r, g, b, 0xFF})
	}
	c.stats.PixelsWritten++
	c.advance()
}

// read fills p with a dummy byte followed by pixels read at the cursor.
func (c *Controller) read(p []byte) error {
	if c.cmd != tft.RAMRD {
		return fmt.Errorf("emulator: receive after command 0x%02X", c.cmd)
	}
	if len(p) == 0 {
		return nil
	}
	p[0] = 0
	for p = p[1:]; len(p) >= 3; p = p[3:] {
		var v color.RGBA
		if px, py, ok := c.panelAt(c.x, c.y); ok {
			v = c.panel.RGBAAt(px, py)
		}
		p[0], p[1], p[2] = v.R, v.G, v.B
		c.stats.PixelsRead++
		c.advance()
	}
	return nil
}

// advance moves the cursor inside the window, wrapping at its end.
func (c *Controller) advance() {
	if c.x++; c.x > c.x2 {
		c.x = c.x1
		if c.y++; c.y > c.y2 {
			c.y = c.y1
		}
	}
}

// panelAt maps the memory address (x, y) to the panel as seen in portrait
// orientation, following MADCTL.
//
// The panel is mounted mirrored, so MX alone shows the memory upright.
func (c *Controller) panelAt(x, y int) (int, int, bool) {
	w, h := c.panel.Rect.Dx(), c.panel.Rect.Dy()
	col, row := x, y
	if c.madctl&tft.MadctlMV != 0 {
		col, row = y, x
	}
	if c.madctl&tft.MadctlMX != 0 {
		col = w - 1 - col
	}
	if c.madctl&tft.MadctlMY != 0 {
		row = h - 1 - row
	}
	px, py := w-1-col, row
	return px, py, px >= 0 && px < w && py >= 0 && py < h
}

var _ tft.Transport = &Controller{}
