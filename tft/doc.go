// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tft drives framebuffer-less TFT display controllers of the ILI9341,
// ILI9488, ST7789V and ST7735 family over a shared SPI bus.
//
// The controllers keep the whole frame in their own RAM, so the driver never
// holds a copy of the screen. Every drawing request is turned into a short
// sequence of bus transactions: an address window (CASET/PASET), a RAM write
// or read command and the pixel payload. Each transaction carries the level
// of the controller's D/C (data/command) line; the Transport sets the line at
// the start of the transaction, so commands and data can be queued back to
// back without the caller waiting in between.
//
// Pixels are sent as 24 bits (RGB888, the 18 bits per pixel interface format
// of the controllers). Large constant color fills reuse a repeat buffer that
// is only rebuilt when the fill color changes.
//
// # Transports
//
// Package spiq provides a queued Transport on top of a periph.io SPI
// connection. Package emulator provides an in-memory controller that can be
// used in place of the hardware.
//
// # Datasheets
//
//   - ILI9341: https://cdn-shop.adafruit.com/datasheets/ILI9341.pdf
//   - ILI9488: https://www.hpinfotech.ro/ILI9488.pdf
//   - ST7789V: https://www.newhavendisplay.com/appnotes/datasheets/LCDs/ST7789V.pdf
//   - ST7735: https://www.displayfuture.com/Display/datasheet/controller/ST7735.pdf
package tft
