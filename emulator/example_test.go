// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package emulator_test

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/GermanBionicSystems/tftspi/emulator"
	"github.com/GermanBionicSystems/tftspi/tft"
)

func Example() {
	opts := tft.DefaultOpts(tft.ST7735R)
	c, err := emulator.New(&emulator.Opts{Width: opts.Width, Height: opts.Height, Depth: 8})
	if err != nil {
		log.Fatal(err)
	}
	dev, err := tft.New(c, nil, nil, &opts)
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()
	if err := dev.Init(ctx); err != nil {
		log.Fatal(err)
	}
	if err := dev.FillRect(ctx, 0, 0, 9, 9, tft.Blue); err != nil {
		log.Fatal(err)
	}
	fmt.Println(c.Pixel(5, 5))
	fmt.Println(c.Stats().PixelsWritten)
	// Output:
	// #0000ff
	// 20580
}

func ExampleController_ServeHTTP() {
	c, err := emulator.New(&emulator.Opts{Width: 240, Height: 320, Depth: 8})
	if err != nil {
		log.Fatal(err)
	}
	// Each request returns a snapshot of the panel.
	http.Handle("/panel", c)
	log.Fatal(http.ListenAndServe(":8080", nil))
}
