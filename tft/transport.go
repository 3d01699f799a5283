// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tft

import (
	"context"

	"periph.io/x/conn/v3/gpio"
)

// Direction is the direction of a Transaction on the half-duplex bus.
type Direction uint8

// Possible directions.
const (
	Send    Direction = 0
	Receive Direction = 1
)

func (d Direction) String() string {
	if d == Receive {
		return "Receive"
	}
	return "Send"
}

// Transaction describes a single bus transfer.
//
// A Transaction handed to Transport.Queue, and the buffer it references, must
// not be modified until its completion was returned by Transport.Result.
type Transaction struct {
	// Dir is Send or Receive.
	Dir Direction
	// DC is the level of the data/command line during the transfer: gpio.Low
	// for a command, gpio.High for data.
	DC gpio.Level
	// Inline holds small payloads of up to 4 bytes; N is the number of bytes
	// used. It is ignored when Buf is not nil.
	Inline [4]byte
	N      int
	// Buf is the external buffer to send from or receive into.
	Buf []byte
}

// Payload returns the bytes to transfer: Buf if set, otherwise the inline
// bytes.
func (t *Transaction) Payload() []byte {
	if t.Buf != nil {
		return t.Buf
	}
	return t.Inline[:t.N]
}

// Bits returns the length of the transfer in bits.
func (t *Transaction) Bits() int {
	return 8 * len(t.Payload())
}

// Transport is the bus the controller is attached to.
//
// The bus is single master and half-duplex: only one transfer happens at a
// time. Queued transactions complete in submission order.
type Transport interface {
	// Tx runs t and returns once it completed. It must not be called while
	// queued transactions are outstanding.
	Tx(t *Transaction) error
	// Queue submits t and returns immediately. It blocks while the queue is
	// full.
	Queue(ctx context.Context, t *Transaction) error
	// Result blocks until the oldest queued transaction completed and returns
	// it, along with the error of the transfer.
	Result(ctx context.Context) (*Transaction, error)
	// Depth is the number of transactions that can be queued without
	// retrieving a result.
	Depth() int
	// Acquire blocks until the caller owns the bus. It is not reentrant.
	Acquire(ctx context.Context) error
	// Release returns the bus acquired with Acquire.
	Release()
}

// ReceiveLimiter is implemented by transports that cannot receive more than
// MaxReceive bytes in a single transaction. Zero means no limit.
//
// Memory reads cannot be split: the controller ends RAMRD when the chip
// select is released.
type ReceiveLimiter interface {
	MaxReceive() int
}

// SelectDC returns a transaction start hook that sets the data/command line
// to the level of the transaction.
//
// The hook is called by the transport at the start of each transaction. It
// does nothing else and does not allocate.
func SelectDC(dc gpio.PinOut) func(t *Transaction) error {
	return func(t *Transaction) error {
		return dc.Out(t.DC)
	}
}

// batch accounts for the transactions queued by one logical operation.
//
// Every submit is matched by exactly one completion retrieved by drain, or
// by submit itself when the transport queue is full.
type batch struct {
	t Transport
	n int
}

func (b *batch) submit(ctx context.Context, t *Transaction) error {
	if d := b.t.Depth(); d > 0 && b.n >= d {
		// Make room by retrieving the oldest completion. It is counted even
		// on failure since it left the queue.
		b.n--
		if _, err := b.t.Result(context.Background()); err != nil {
			return &BusError{Op: "transfer", Err: err}
		}
	}
	if err := b.t.Queue(ctx, t); err != nil {
		return &BusError{Op: "queue", Err: err}
	}
	b.n++
	return nil
}

// drain waits for every outstanding completion, even after a failure, and
// returns the first error.
func (b *batch) drain() error {
	var first error
	for ; b.n > 0; b.n-- {
		if _, err := b.t.Result(context.Background()); err != nil && first == nil {
			first = &BusError{Op: "transfer", Err: err}
		}
	}
	return first
}

// abort drains the batch after err interrupted it and returns err.
func (b *batch) abort(err error) error {
	_ = b.drain()
	return err
}
