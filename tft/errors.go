// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tft

import (
	"errors"
	"fmt"
)

var (
	// ErrBusAcquire is matched by errors returned when the bus could not be
	// acquired. No transaction was issued.
	ErrBusAcquire = errors.New("tft: could not acquire bus")
	// ErrTransfer is matched by errors returned when the transport failed a
	// transfer. The operation was aborted and is not retried.
	ErrTransfer = errors.New("tft: transfer failed")
	// ErrPending is returned when an operation is started while queued
	// transactions, from PushBufferBegin, have not been drained yet.
	ErrPending = errors.New("tft: queued transactions still pending")
	// ErrBounds is returned for rectangles outside the display area.
	ErrBounds = errors.New("tft: rectangle outside display area")
)

// BusError is a transport fault.
type BusError struct {
	// Op is "acquire", "queue", "transfer" or "tx".
	Op  string
	Err error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("tft: %s: %v", e.Op, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is match ErrBusAcquire or ErrTransfer depending on the
// failed operation.
func (e *BusError) Is(target error) bool {
	switch target {
	case ErrBusAcquire:
		return e.Op == "acquire"
	case ErrTransfer:
		return e.Op != "acquire"
	}
	return false
}

// Status codes returned by Status.
const (
	StatusOK       = 0
	StatusTransfer = -1
	StatusNoBus    = -2
)

// Status maps an error returned by ReadRect to a status code: StatusOK,
// StatusNoBus when the bus could not be acquired and StatusTransfer for any
// other failure.
func Status(err error) int {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrBusAcquire):
		return StatusNoBus
	default:
		return StatusTransfer
	}
}
