// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tftspi drives SPI TFT display controllers of the ILI9341, ILI9488,
// ST7789V and ST7735 families.
//
// The driver lives in package tft. Package spiq queues its transactions on a
// periph.io SPI port and package emulator runs them against an in-memory
// controller. cmd/tftdemo draws on either.
package tftspi
