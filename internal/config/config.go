// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config loads the YAML configuration of a display session.
package config

import (
	"fmt"
	"os"

	"github.com/GermanBionicSystems/tftspi/tft"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"
)

// Panel describes the display.
type Panel struct {
	Variant string `yaml:"variant"`
	// Width and Height default to the native size of the controller.
	Width    int  `yaml:"width,omitempty"`
	Height   int  `yaml:"height,omitempty"`
	OffsetX  int  `yaml:"offset_x,omitempty"`
	OffsetY  int  `yaml:"offset_y,omitempty"`
	Rotation int  `yaml:"rotation"` // 0..3, multiples of 90°
	BGR      bool `yaml:"bgr"`
	Gray     bool `yaml:"gray,omitempty"`
	Repeat   int  `yaml:"repeat_pixels,omitempty"`
}

// SPI describes the bus the display is attached to.
type SPI struct {
	Port    string `yaml:"port"`     // e.g. /dev/spidev0.0, empty for the first one
	SpeedHz int64  `yaml:"speed_hz"` // e.g. 40000000
	ReadHz  int64  `yaml:"read_hz,omitempty"`
	Depth   int    `yaml:"depth"`
}

// Pins names the GPIOs, as known by gpioreg. RST and BL are optional.
type Pins struct {
	DC  string `yaml:"dc"`
	RST string `yaml:"rst,omitempty"`
	BL  string `yaml:"bl,omitempty"`
}

// Config is a display session.
type Config struct {
	Panel Panel `yaml:"panel"`
	SPI   SPI   `yaml:"spi"`
	Pins  Pins  `yaml:"pins"`

	// Emulate uses the in-memory controller instead of the hardware.
	Emulate bool `yaml:"emulate,omitempty"`
	// HTTP is the listen address of the emulator snapshots, e.g. ":8080".
	HTTP string `yaml:"http,omitempty"`
	// Columns is the width of the emulator terminal rendering.
	Columns int `yaml:"columns,omitempty"`
}

// Default returns the configuration of an ILI9341 on the first SPI port of a
// Raspberry Pi.
func Default() *Config {
	o := tft.DefaultOpts(tft.ILI9341)
	return &Config{
		Panel: Panel{
			Variant: string(o.Variant),
			BGR:     o.BGR,
			Repeat:  o.RepeatPixels,
		},
		SPI: SPI{
			SpeedHz: 40000000,
			ReadHz:  int64(o.MaxReadClock / physic.Hertz),
			Depth:   8,
		},
		Pins:    Pins{DC: "GPIO24", RST: "GPIO25"},
		Columns: 60,
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Save writes c to path.
func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate reports the first invalid value.
func (c *Config) Validate() error {
	if _, err := tft.ParseVariant(c.Panel.Variant); err != nil {
		return err
	}
	if c.Panel.Width < 0 || c.Panel.Height < 0 {
		return fmt.Errorf("invalid size %dx%d", c.Panel.Width, c.Panel.Height)
	}
	if c.Panel.Rotation < 0 || c.Panel.Rotation > 3 {
		return fmt.Errorf("invalid rotation %d", c.Panel.Rotation)
	}
	if c.SPI.SpeedHz <= 0 {
		return fmt.Errorf("invalid SPI speed %d", c.SPI.SpeedHz)
	}
	if c.SPI.Depth <= 0 {
		return fmt.Errorf("invalid queue depth %d", c.SPI.Depth)
	}
	if !c.Emulate && c.Pins.DC == "" {
		return fmt.Errorf("the DC pin is required")
	}
	return nil
}

// Opts returns the driver options.
func (c *Config) Opts() (tft.Opts, error) {
	v, err := tft.ParseVariant(c.Panel.Variant)
	if err != nil {
		return tft.Opts{}, err
	}
	o := tft.DefaultOpts(v)
	if c.Panel.Width != 0 {
		o.Width = c.Panel.Width
	}
	if c.Panel.Height != 0 {
		o.Height = c.Panel.Height
	}
	o.OffsetX = c.Panel.OffsetX
	o.OffsetY = c.Panel.OffsetY
	o.BGR = c.Panel.BGR
	o.Gray = c.Panel.Gray
	if c.Panel.Repeat != 0 {
		o.RepeatPixels = c.Panel.Repeat
	}
	if c.SPI.ReadHz != 0 {
		o.MaxReadClock = physic.Frequency(c.SPI.ReadHz) * physic.Hertz
	}
	return o, nil
}

// Speed returns the SPI clock.
func (c *Config) Speed() physic.Frequency {
	return physic.Frequency(c.SPI.SpeedHz) * physic.Hertz
}

// Rotation returns the panel orientation.
func (c *Config) Rotation() tft.Rotation {
	return tft.Rotation(c.Panel.Rotation)
}
