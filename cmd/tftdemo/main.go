// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// tftdemo draws on a SPI TFT display, or on an emulated one when no SPI port
// is available.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/GermanBionicSystems/tftspi/emulator"
	"github.com/GermanBionicSystems/tftspi/internal/config"
	"github.com/GermanBionicSystems/tftspi/spiq"
	"github.com/GermanBionicSystems/tftspi/tft"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// session is an open display.
type session struct {
	t       tft.Transport
	rst, bl gpio.PinOut
	// emu is set when the display is emulated.
	emu    *emulator.Controller
	closer func() error
}

func (s *session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// open connects to the display described by cfg, falling back to the
// emulator when the SPI port cannot be opened.
func open(cfg *config.Config, o *tft.Opts) (*session, error) {
	if !cfg.Emulate {
		if _, err := host.Init(); err != nil {
			return nil, err
		}
		p, err := spireg.Open(cfg.SPI.Port)
		if err == nil {
			return openSPI(cfg, p)
		}
		log.Warn().Err(err).Str("port", cfg.SPI.Port).Msg("no SPI port; using the emulator")
	}
	c, err := emulator.New(&emulator.Opts{Width: o.Width, Height: o.Height, Depth: cfg.SPI.Depth, Logger: &log.Logger})
	if err != nil {
		return nil, err
	}
	return &session{t: c, emu: c}, nil
}

func openSPI(cfg *config.Config, p spi.PortCloser) (*session, error) {
	dc, err := pin(cfg.Pins.DC)
	if err == nil && dc == nil {
		err = errors.New("the DC pin is required")
	}
	if err != nil {
		p.Close()
		return nil, err
	}
	s := &session{}
	if s.rst, err = pin(cfg.Pins.RST); err != nil {
		p.Close()
		return nil, err
	}
	if s.bl, err = pin(cfg.Pins.BL); err != nil {
		p.Close()
		return nil, err
	}
	q, err := spiq.Connect(p, cfg.Speed(), dc, &spiq.Opts{Depth: cfg.SPI.Depth, Logger: &log.Logger})
	if err != nil {
		p.Close()
		return nil, err
	}
	s.t = q
	s.closer = func() error {
		err := q.Close()
		if err2 := p.Close(); err == nil {
			err = err2
		}
		return err
	}
	return s, nil
}

// pin returns the GPIO named name, or nil when name is empty.
func pin(name string) (gpio.PinOut, error) {
	if name == "" {
		return nil, nil
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("unknown pin %q", name)
	}
	return p, nil
}

func run(ctx context.Context, cfg *config.Config, frames int, interval time.Duration) error {
	o, err := cfg.Opts()
	if err != nil {
		return err
	}
	o.Logger = &log.Logger
	s, err := open(cfg, &o)
	if err != nil {
		return err
	}
	defer s.Close()
	dev, err := tft.New(s.t, s.rst, s.bl, &o)
	if err != nil {
		return err
	}
	start := time.Now()
	if err := dev.Init(ctx); err != nil {
		return err
	}
	if err := dev.SetRotation(ctx, cfg.Rotation()); err != nil {
		return err
	}
	log.Info().Stringer("dev", dev).Dur("init", time.Since(start)).Msg("ready")

	var term *emulator.Terminal
	if s.emu != nil {
		if cfg.HTTP != "" {
			srv := &http.Server{Addr: cfg.HTTP, Handler: s.emu}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Str("addr", cfg.HTTP).Msg("http")
				}
			}()
			defer srv.Close()
			log.Info().Str("addr", cfg.HTTP).Msg("serving snapshots")
		}
		if cfg.Columns > 0 {
			term = emulator.NewTerminal(&emulator.TerminalOpts{Columns: cfg.Columns})
			defer term.Halt()
		}
	}

	if err := colorBars(ctx, dev); err != nil {
		return err
	}
	if c, err := dev.ReadPixel(ctx, 0, 0); err != nil {
		log.Warn().Err(err).Msg("read back")
	} else {
		log.Info().Stringer("color", c).Msg("read back")
	}
	if term != nil {
		if err := term.Render(s.emu.Snapshot()); err != nil {
			return err
		}
	}

	r := newRenderer(dev.Bounds().Dx(), dev.Bounds().Dy())
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for i := 0; frames <= 0 || i < frames; i++ {
		start := time.Now()
		if err := dev.Draw(dev.Bounds(), r.frame(i), image.Point{}); err != nil {
			return err
		}
		log.Debug().Int("frame", i).Dur("draw", time.Since(start)).Msg("frame")
		if term != nil {
			if err := term.Render(s.emu.Snapshot()); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return dev.Halt()
		case <-tick.C:
		}
	}
	if s.emu != nil && cfg.HTTP != "" {
		// Keep serving the last frame.
		<-ctx.Done()
	}
	return dev.Halt()
}

// colorBars fills the screen with vertical bars of the primary colors.
func colorBars(ctx context.Context, dev *tft.Dev) error {
	colors := []tft.Color{tft.Red, tft.Green, tft.Blue, tft.White, tft.Black}
	b := dev.Bounds()
	w := b.Dx() / len(colors)
	for i, c := range colors {
		x2 := (i+1)*w - 1
		if i == len(colors)-1 {
			x2 = b.Dx() - 1
		}
		if err := dev.FillRect(ctx, i*w, 0, x2, b.Dy()-1, c); err != nil {
			return err
		}
	}
	return nil
}

func mainImpl() error {
	configPath := flag.String("config", "", "path to a YAML configuration")
	variant := flag.String("variant", "", "display controller, overrides the configuration")
	emulate := flag.Bool("emulate", false, "use the emulator instead of the hardware")
	addr := flag.String("http", "", "serve emulator snapshots on this address")
	rotation := flag.Int("rotation", -1, "rotation 0..3, overrides the configuration")
	gray := flag.Bool("gray", false, "convert colors to grayscale")
	frames := flag.Int("frames", 100, "number of frames to draw, 0 for infinite")
	interval := flag.Duration("interval", 50*time.Millisecond, "delay between frames")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	cfg := config.Default()
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = c
	}
	if *variant != "" {
		cfg.Panel.Variant = *variant
		cfg.Panel.Width, cfg.Panel.Height = 0, 0
	}
	if *emulate {
		cfg.Emulate = true
	}
	if *addr != "" {
		cfg.HTTP = *addr
	}
	if *rotation >= 0 {
		cfg.Panel.Rotation = *rotation
	}
	if *gray {
		cfg.Panel.Gray = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return run(ctx, cfg, *frames, *interval)
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "tftdemo: %s.\n", err)
		os.Exit(1)
	}
}
