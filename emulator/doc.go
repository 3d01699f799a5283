// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package emulator implements an in-memory display controller, for
// developing and testing on a host without the hardware.
//
// Controller implements tft.Transport. It decodes the commands of the
// ILI9341 family that matter to the pixels: CASET, PASET, RAMWR, RAMRD,
// MADCTL, INVON, INVOFF, DISPON, DISPOFF and SWRESET. Other commands and
// their arguments are counted and ignored. Memory reads return one dummy
// byte followed by the pixels, like the hardware.
//
// The panel content can be rendered to a terminal with Terminal, or served
// as PNG or JPEG images over HTTP since Controller implements http.Handler.
package emulator
