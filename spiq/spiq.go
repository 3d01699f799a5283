// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package spiq

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/GermanBionicSystems/tftspi/tft"
	"github.com/rs/zerolog"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// ErrClosed is returned when using a Conn after Close.
var ErrClosed = errors.New("spiq: closed")

// Opts is the configuration of a Conn.
type Opts struct {
	// Depth is the number of transactions that can be queued before Queue
	// blocks.
	Depth int
	// OnStart is called by the worker at the start of each transaction.
	// Defaults to tft.SelectDC on the dc pin.
	OnStart func(t *tft.Transaction) error
	// Bus is the lock shared with the other users of the bus. Defaults to a
	// lock private to the Conn.
	Bus *Bus
	// Logger receives transfer failures. Defaults to a disabled logger.
	Logger *zerolog.Logger
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Depth: 8,
}

// Bus is the ownership lock of a shared bus.
//
// It is not reentrant.
type Bus struct {
	c chan struct{}
}

// NewBus returns an unlocked Bus.
func NewBus() *Bus {
	return &Bus{c: make(chan struct{}, 1)}
}

// Lock blocks until the bus is owned by the caller or ctx is done.
func (b *Bus) Lock(ctx context.Context) error {
	select {
	case b.c <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unlock releases the bus. It panics if the bus is not locked.
func (b *Bus) Unlock() {
	select {
	case <-b.c:
	default:
		panic("spiq: unlock of unlocked bus")
	}
}

// Connect opens a SPI connection on p, 8 bits per word, mode 0, and returns a
// Conn on it.
func Connect(p spi.Port, f physic.Frequency, dc gpio.PinOut, opts *Opts) (*Conn, error) {
	c, err := p.Connect(f, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("spiq: %w", err)
	}
	return New(c, dc, opts)
}

// New returns a Conn that runs the transactions on c, setting dc at the
// start of each one.
//
// dc may be nil if opts.OnStart is set.
func New(c conn.Conn, dc gpio.PinOut, opts *Opts) (*Conn, error) {
	if dc == gpio.INVALID {
		return nil, errors.New("spiq: use nil for dc with a custom OnStart, do not use gpio.INVALID")
	}
	o := *opts
	if o.Depth <= 0 {
		return nil, fmt.Errorf("spiq: invalid depth %d", o.Depth)
	}
	if o.OnStart == nil {
		if dc == nil {
			return nil, errors.New("spiq: dc is required without OnStart")
		}
		o.OnStart = tft.SelectDC(dc)
	}
	if o.Bus == nil {
		o.Bus = NewBus()
	}
	l := zerolog.Nop()
	if o.Logger != nil {
		l = o.Logger.With().Str("spiq", c.String()).Logger()
	}
	q := &Conn{
		c:       c,
		dc:      dc,
		onStart: o.OnStart,
		bus:     o.Bus,
		log:     l,
		slots:   make(chan struct{}, o.Depth),
		req:     make(chan *tft.Transaction, o.Depth),
		res:     make(chan result, o.Depth),
		done:    make(chan struct{}),
	}
	if lim, ok := c.(conn.Limits); ok {
		q.maxTx = lim.MaxTxSize()
	}
	go q.worker()
	return q, nil
}

// Conn is a tft.Transport on a SPI connection.
type Conn struct {
	c       conn.Conn
	dc      gpio.PinOut
	onStart func(t *tft.Transaction) error
	bus     *Bus
	log     zerolog.Logger
	maxTx   int

	// slots holds one token per transaction queued and not yet returned by
	// Result.
	slots chan struct{}
	req   chan *tft.Transaction
	res   chan result
	done  chan struct{}

	mu     sync.Mutex
	closed bool
	// zeros is sent while receiving. Only used by the worker.
	zeros []byte
}

type result struct {
	t   *tft.Transaction
	err error
}

func (q *Conn) String() string {
	return fmt.Sprintf("spiq.Conn{%s, %v}", q.c, q.dc)
}

// Tx implements tft.Transport.
func (q *Conn) Tx(t *tft.Transaction) error {
	if len(q.slots) != 0 {
		return errors.New("spiq: Tx with queued transactions")
	}
	ctx := context.Background()
	if err := q.Queue(ctx, t); err != nil {
		return err
	}
	_, err := q.Result(ctx)
	return err
}

// Queue implements tft.Transport.
func (q *Conn) Queue(ctx context.Context, t *tft.Transaction) error {
	select {
	case q.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		<-q.slots
		return ErrClosed
	}
	// Never blocks: there are as many slots as room in req.
	q.req <- t
	return nil
}

// Result implements tft.Transport.
func (q *Conn) Result(ctx context.Context) (*tft.Transaction, error) {
	if len(q.slots) == 0 {
		return nil, errors.New("spiq: Result without queued transactions")
	}
	select {
	case r := <-q.res:
		<-q.slots
		return r.t, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Depth implements tft.Transport.
func (q *Conn) Depth() int {
	return cap(q.slots)
}

// Acquire implements tft.Transport.
func (q *Conn) Acquire(ctx context.Context) error {
	return q.bus.Lock(ctx)
}

// Release implements tft.Transport.
func (q *Conn) Release() {
	q.bus.Unlock()
}

// MaxReceive implements tft.ReceiveLimiter. Sends are split to the
// connection limit, receives are not.
func (q *Conn) MaxReceive() int {
	return q.maxTx
}

// Close stops the worker once the queued transactions were executed. Their
// completions can still be retrieved with Result.
func (q *Conn) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.closed = true
	close(q.req)
	q.mu.Unlock()
	<-q.done
	return nil
}

func (q *Conn) worker() {
	defer close(q.done)
	for t := range q.req {
		err := q.run(t)
		if err != nil {
			q.log.Warn().Err(err).Stringer("dir", t.Dir).Int("bits", t.Bits()).Msg("transfer")
		}
		q.res <- result{t: t, err: err}
	}
}

// run executes a single transaction.
func (q *Conn) run(t *tft.Transaction) error {
	if err := q.onStart(t); err != nil {
		return fmt.Errorf("spiq: start: %w", err)
	}
	p := t.Payload()
	q.log.Trace().Stringer("dc", t.DC).Stringer("dir", t.Dir).Int("bytes", len(p)).Msg("tx")
	if t.Dir == tft.Receive {
		if q.maxTx > 0 && len(p) > q.maxTx {
			return fmt.Errorf("spiq: receive of %d bytes exceeds the %d bytes limit", len(p), q.maxTx)
		}
		if cap(q.zeros) < len(p) {
			q.zeros = make([]byte, len(p))
		}
		return q.c.Tx(q.zeros[:len(p)], p)
	}
	for len(p) != 0 {
		n := len(p)
		if q.maxTx > 0 && n > q.maxTx {
			n = q.maxTx
		}
		if err := q.c.Tx(p[:n], nil); err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

var _ tft.Transport = &Conn{}
var _ tft.ReceiveLimiter = &Conn{}
