// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tft

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// record is a transaction as seen on the bus.
type record struct {
	dc   gpio.Level
	dir  Direction
	data []byte
}

// fakeTransport is a Transport that records every transaction and emulates
// the memory of a controller, so pixels written can be read back.
type fakeTransport struct {
	depth int

	log []record
	// Number of blocking transactions, queued transactions and retrieved
	// completions.
	txs, submits, results int
	maxInFlight           int
	queue                 []*Transaction
	queueErr              []error

	owned    bool
	acquires int
	// acquireErr is returned by Acquire.
	acquireErr error
	// failAt makes the n-th transaction fail, 1 based.
	failAt int
	// maxReceive is returned by MaxReceive.
	maxReceive int

	// Emulated controller memory.
	w, h           int
	ram            []byte
	cmd            byte
	args           []byte
	x1, x2, y1, y2 int
	x, y           int
}

func newFakeTransport(w, h, depth int) *fakeTransport {
	return &fakeTransport{depth: depth, w: w, h: h, ram: make([]byte, 3*w*h)}
}

func (f *fakeTransport) String() string {
	return "fake"
}

func (f *fakeTransport) Tx(t *Transaction) error {
	if len(f.queue) != 0 {
		return errors.New("fake: Tx with queued transactions")
	}
	f.txs++
	return f.run(t)
}

func (f *fakeTransport) Queue(ctx context.Context, t *Transaction) error {
	if len(f.queue) >= f.depth {
		return errors.New("fake: queue overflow")
	}
	f.submits++
	f.queue = append(f.queue, t)
	f.queueErr = append(f.queueErr, f.run(t))
	if len(f.queue) > f.maxInFlight {
		f.maxInFlight = len(f.queue)
	}
	return nil
}

func (f *fakeTransport) Result(ctx context.Context) (*Transaction, error) {
	if len(f.queue) == 0 {
		return nil, errors.New("fake: nothing queued")
	}
	t, err := f.queue[0], f.queueErr[0]
	f.queue, f.queueErr = f.queue[1:], f.queueErr[1:]
	f.results++
	return t, err
}

func (f *fakeTransport) Depth() int {
	return f.depth
}

func (f *fakeTransport) Acquire(ctx context.Context) error {
	if f.acquireErr != nil {
		return f.acquireErr
	}
	if f.owned {
		return errors.New("fake: bus already acquired")
	}
	f.owned = true
	f.acquires++
	return nil
}

func (f *fakeTransport) Release() {
	f.owned = false
}

func (f *fakeTransport) MaxReceive() int {
	return f.maxReceive
}

// run executes t against the emulated memory.
func (f *fakeTransport) run(t *Transaction) error {
	r := record{dc: t.DC, dir: t.Dir}
	if t.Dir == Send {
		r.data = append([]byte(nil), t.Payload()...)
	}
	f.log = append(f.log, r)
	if f.failAt != 0 && len(f.log) == f.failAt {
		return errors.New("fake: injected failure")
	}
	if t.DC == gpio.Low {
		f.cmd = t.Payload()[0]
		f.args = f.args[:0]
		if f.cmd == ramWr || f.cmd == ramRd {
			f.x, f.y = f.x1, f.y1
		}
		return nil
	}
	switch f.cmd {
	case caSet, paSet:
		f.args = append(f.args, t.Payload()...)
		if len(f.args) == 4 {
			a := int(f.args[0])<<8 | int(f.args[1])
			b := int(f.args[2])<<8 | int(f.args[3])
			if f.cmd == caSet {
				f.x1, f.x2 = a, b
			} else {
				f.y1, f.y2 = a, b
			}
		}
	case ramWr:
		p := t.Payload()
		for i := 0; i+2 < len(p); i += 3 {
			copy(f.ram[f.next():], p[i:i+3])
		}
	case ramRd:
		if t.Dir != Receive {
			return errors.New("fake: RAMRD data must be received")
		}
		t.Buf[0] = 0xAA
		for i := 1; i+2 < len(t.Buf); i += 3 {
			copy(t.Buf[i:i+3], f.ram[f.next():])
		}
	}
	return nil
}

// next returns the memory offset of the cursor and advances it inside the
// window.
func (f *fakeTransport) next() int {
	off := 3 * (f.y*f.w + f.x)
	if f.x++; f.x > f.x2 {
		f.x = f.x1
		f.y++
	}
	return off
}

// pixel returns the color stored at (x, y) in controller memory.
func (f *fakeTransport) pixel(x, y int) Color {
	return Pixels(f.ram).At(y*f.w + x)
}

// pixelWrites returns the number of data transactions sent after RAMWR
// commands, by size in bytes.
func (f *fakeTransport) pixelWrites() map[int]int {
	out := map[int]int{}
	var cmd byte
	for _, r := range f.log {
		if r.dc == gpio.Low {
			cmd = r.data[0]
		} else if cmd == ramWr {
			out[len(r.data)]++
		}
	}
	return out
}

func (f *fakeTransport) reset() {
	f.log = nil
	f.txs, f.submits, f.results, f.maxInFlight = 0, 0, 0, 0
}

// checkBalanced fails the test if queued transactions were not drained or
// the bus is still owned.
func (f *fakeTransport) checkBalanced(t *testing.T) {
	t.Helper()
	if f.submits != f.results {
		t.Errorf("%d transactions queued but %d completions retrieved", f.submits, f.results)
	}
	if f.maxInFlight > f.depth {
		t.Errorf("%d transactions in flight, depth is %d", f.maxInFlight, f.depth)
	}
	if f.owned {
		t.Error("bus not released")
	}
}

// recordPin is a gpiotest.Pin keeping the levels it was set to.
type recordPin struct {
	*gpiotest.Pin
	mu     sync.Mutex
	levels []gpio.Level
}

func newRecordPin(name string) *recordPin {
	return &recordPin{Pin: &gpiotest.Pin{N: name}}
}

func (p *recordPin) Out(l gpio.Level) error {
	p.mu.Lock()
	p.levels = append(p.levels, l)
	p.mu.Unlock()
	return p.Pin.Out(l)
}

// newTestDev returns a Dev on a fake transport, with sleeps recorded instead
// of waited for.
func newTestDev(t *testing.T, opts *Opts, depth int) (*Dev, *fakeTransport, *[]time.Duration) {
	t.Helper()
	w, h := opts.Width+opts.OffsetX, opts.Height+opts.OffsetY
	if w < h {
		w = h
	}
	f := newFakeTransport(w, w, depth)
	d, err := New(f, nil, nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	var sleeps []time.Duration
	d.sleep = func(d time.Duration) {
		sleeps = append(sleeps, d)
	}
	return d, f, &sleeps
}

func (r record) String() string {
	return fmt.Sprintf("{%s %s % x}", r.dc, r.dir, r.data)
}
