// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package spiq_test

import (
	"context"
	"log"

	"github.com/GermanBionicSystems/tftspi/spiq"
	"github.com/GermanBionicSystems/tftspi/tft"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	// Use spireg SPI port registry to find the first available SPI bus.
	p, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()
	dc := gpioreg.ByName("GPIO24")
	if dc == nil {
		log.Fatal("no DC pin")
	}
	q, err := spiq.Connect(p, 40*physic.MegaHertz, dc, &spiq.DefaultOpts)
	if err != nil {
		log.Fatal(err)
	}
	defer q.Close()

	opts := tft.DefaultOpts(tft.ILI9341)
	dev, err := tft.New(q, gpioreg.ByName("GPIO25"), nil, &opts)
	if err != nil {
		log.Fatal(err)
	}
	if err := dev.Init(context.Background()); err != nil {
		log.Fatal(err)
	}
	if err := dev.FillRect(context.Background(), 10, 10, 99, 99, tft.Red); err != nil {
		log.Fatal(err)
	}
}
