// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tft

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/physic"
)

// Variant is a supported display controller.
type Variant string

// Supported controllers.
const (
	ILI9341 Variant = "ILI9341"
	ILI9488 Variant = "ILI9488"
	ST7789V Variant = "ST7789V"
	ST7735  Variant = "ST7735"
	// ST7735R is the ST7735R with a green tab.
	ST7735R Variant = "ST7735R"
	// ST7735B is the ST7735R with a red tab.
	ST7735B Variant = "ST7735B"
)

// ParseVariant returns the Variant named s, ignoring case.
func ParseVariant(s string) (Variant, error) {
	for _, v := range []Variant{ILI9341, ILI9488, ST7789V, ST7735, ST7735R, ST7735B} {
		if strings.EqualFold(string(v), s) {
			return v, nil
		}
	}
	return "", fmt.Errorf("tft: unknown controller %q", s)
}

// scripts returns the initialization tables of the controller, in order.
func (v Variant) scripts() []Script {
	switch v {
	case ILI9341:
		return []Script{ILI9341Script}
	case ILI9488:
		return []Script{ILI9488Script}
	case ST7789V:
		return []Script{ST7789VScript}
	case ST7735:
		return []Script{ST7735Script}
	case ST7735R:
		return []Script{ST7735R1Script, ST7735R2GreenScript, ST7735R3Script}
	case ST7735B:
		return []Script{ST7735R1Script, ST7735R2RedScript, ST7735R3Script}
	}
	return nil
}

// Rotation is the orientation of the display.
type Rotation uint8

// Possible rotations.
const (
	Portrait      Rotation = 0
	Landscape     Rotation = 1
	PortraitFlip  Rotation = 2
	LandscapeFlip Rotation = 3
)

func (r Rotation) String() string {
	switch r & 3 {
	case Landscape:
		return "Landscape"
	case PortraitFlip:
		return "PortraitFlip"
	case LandscapeFlip:
		return "LandscapeFlip"
	}
	return "Portrait"
}

// madctl returns the memory access control value for r.
func (r Rotation) madctl(bgr bool) byte {
	var m byte
	switch r & 3 {
	case Portrait:
		m = MadctlMX
	case Landscape:
		m = MadctlMV
	case PortraitFlip:
		m = MadctlMY
	case LandscapeFlip:
		m = MadctlMX | MadctlMY | MadctlMV
	}
	if bgr {
		m |= MadctlBGR
	}
	return m
}

// DefaultRepeatPixels is the default size of the fill repeat buffer.
const DefaultRepeatPixels = 1024

// Opts is the configuration of a display session.
type Opts struct {
	// Variant is the display controller.
	Variant Variant
	// Width and Height are the panel size in portrait orientation. Zero uses
	// the controller's native size.
	Width  int
	Height int
	// OffsetX and OffsetY are added to the address window, for panels
	// smaller than the controller RAM.
	OffsetX int
	OffsetY int
	// BGR must be set for panels with a BGR color filter.
	BGR bool
	// Gray converts every color to grayscale before it is sent.
	Gray bool
	// MaxReadClock is the maximum SPI clock for reading the display memory.
	// Reads are slower than writes on these controllers.
	MaxReadClock physic.Frequency
	// RepeatPixels is the size of the fill repeat buffer in pixels.
	RepeatPixels int
	// Logger receives debug events. Defaults to a disabled logger.
	Logger *zerolog.Logger
}

// DefaultOpts returns the recommended options for the controller v.
func DefaultOpts(v Variant) Opts {
	w, h := v.size()
	return Opts{
		Variant:      v,
		Width:        w,
		Height:       h,
		BGR:          true,
		MaxReadClock: 8 * physic.MegaHertz,
		RepeatPixels: DefaultRepeatPixels,
	}
}

// size returns the native portrait size of the controller.
func (v Variant) size() (int, int) {
	switch v {
	case ILI9488:
		return 320, 480
	case ST7735, ST7735R, ST7735B:
		return 128, 160
	}
	return 240, 320
}
