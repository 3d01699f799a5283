// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package spiq implements tft.Transport on top of a periph.io SPI connection
// and a GPIO pin for the data/command line.
//
// Queued transactions are executed in order by a single worker goroutine,
// which is the only one using the connection. The data/command line is set at
// the start of each transaction, from the worker, so a command is always sent
// with the line low and its data with the line high even when both are
// queued back to back.
//
// # Shared bus
//
// The controller often shares its bus with other devices, typically a touch
// controller. Create a Bus with NewBus and pass it to every user of the bus
// through Opts.Bus; Lock and Unlock bracket each sequence of transactions.
//
// # Limits
//
// Sends longer than the maximum transfer size of the connection, as reported
// by conn.Limits, are split. Receives are never split since deasserting the
// chip select line aborts a memory read on these controllers.
package spiq
