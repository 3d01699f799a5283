// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package emulator

import (
	"context"
	"image"
	"testing"

	"github.com/GermanBionicSystems/tftspi/tft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
)

func newDev(t *testing.T, v tft.Variant) (*tft.Dev, *Controller) {
	t.Helper()
	o := tft.DefaultOpts(v)
	c, err := New(&Opts{Width: o.Width, Height: o.Height, Depth: 4})
	require.NoError(t, err)
	d, err := tft.New(c, nil, nil, &o)
	require.NoError(t, err)
	require.NoError(t, d.Init(context.Background()))
	return d, c
}

func TestNew(t *testing.T) {
	_, err := New(&Opts{Width: 0, Height: 10, Depth: 1})
	assert.Error(t, err)
	_, err = New(&Opts{Width: 10, Height: 10})
	assert.Error(t, err)
	c, err := New(&Opts{Width: 10, Height: 20, Depth: 1})
	require.NoError(t, err)
	assert.Equal(t, "emulator.Controller{10x20}", c.String())
	assert.Equal(t, 1, c.Depth())
	assert.False(t, c.On())
}

func TestInit(t *testing.T) {
	for _, v := range []tft.Variant{tft.ILI9341, tft.ILI9488, tft.ST7789V, tft.ST7735, tft.ST7735R, tft.ST7735B} {
		t.Run(string(v), func(t *testing.T) {
			d, c := newDev(t, v)
			assert.True(t, c.On())
			assert.Equal(t, tft.MadctlMX|tft.MadctlBGR, c.MADCTL())
			b := d.Bounds()
			s := c.Stats()
			assert.Equal(t, b.Dx()*b.Dy(), s.PixelsWritten)
			assert.Equal(t, 1, s.Commands[tft.RAMWR])
			assert.Equal(t, 1, s.Commands[dispOn])
			assert.Zero(t, s.BytesIn)
		})
	}
}

func TestFillReadBack(t *testing.T) {
	d, c := newDev(t, tft.ILI9341)
	ctx := context.Background()
	require.NoError(t, d.FillRect(ctx, 0, 0, 9, 9, tft.Red))
	got, err := d.ReadPixel(ctx, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, tft.Red, got)
	assert.Equal(t, tft.Red, c.Pixel(9, 9))
	assert.Equal(t, tft.Black, c.Pixel(10, 9))

	buf := tft.NewPixels(4)
	require.NoError(t, d.ReadRect(ctx, 8, 9, 11, 9, buf))
	assert.Equal(t, []tft.Color{tft.Red, tft.Red, tft.Black, tft.Black}, []tft.Color{buf.At(0), buf.At(1), buf.At(2), buf.At(3)})
}

func TestRotation(t *testing.T) {
	for _, tc := range []struct {
		r    tft.Rotation
		x, y int
		want image.Point
	}{
		{tft.Portrait, 0, 0, image.Pt(0, 0)},
		{tft.Portrait, 10, 20, image.Pt(10, 20)},
		{tft.Landscape, 0, 0, image.Pt(239, 0)},
		{tft.Landscape, 10, 20, image.Pt(219, 10)},
		{tft.PortraitFlip, 0, 0, image.Pt(239, 319)},
		{tft.PortraitFlip, 10, 20, image.Pt(229, 299)},
		{tft.LandscapeFlip, 0, 0, image.Pt(0, 319)},
		{tft.LandscapeFlip, 10, 20, image.Pt(20, 309)},
	} {
		t.Run(tc.r.String(), func(t *testing.T) {
			d, c := newDev(t, tft.ILI9341)
			ctx := context.Background()
			require.NoError(t, d.SetRotation(ctx, tc.r))
			require.NoError(t, d.SetPixel(tc.x, tc.y, tft.Green))
			assert.Equal(t, tft.Green, c.Pixel(tc.want.X, tc.want.Y))
			got, err := d.ReadPixel(ctx, tc.x, tc.y)
			require.NoError(t, err)
			assert.Equal(t, tft.Green, got)
		})
	}
}

func TestSnapshot(t *testing.T) {
	d, c := newDev(t, tft.ST7735R)
	ctx := context.Background()
	require.NoError(t, d.FillRect(ctx, 0, 0, 0, 0, tft.Color{R: 0x10, G: 0x20, B: 0x30}))
	img := c.Snapshot()
	assert.Equal(t, image.Rect(0, 0, 128, 160), img.Bounds())
	assert.Equal(t, []uint8{0x10, 0x20, 0x30, 0xFF}, img.Pix[:4])

	require.NoError(t, d.Invert(true))
	img = c.Snapshot()
	assert.Equal(t, []uint8{0xEF, 0xDF, 0xCF, 0xFF}, img.Pix[:4])

	require.NoError(t, d.Halt())
	img = c.Snapshot()
	assert.Equal(t, []uint8{0, 0, 0, 0xFF}, img.Pix[:4])
	assert.False(t, c.On())
	// Memory is kept while the display is off.
	assert.Equal(t, tft.Color{R: 0x10, G: 0x20, B: 0x30}, c.Pixel(0, 0))
}

func TestPartialPixels(t *testing.T) {
	c, err := New(&Opts{Width: 4, Height: 4, Depth: 2})
	require.NoError(t, err)
	require.NoError(t, c.Tx(&tft.Transaction{DC: gpio.Low, Inline: [4]byte{tft.MADCTL}, N: 1}))
	require.NoError(t, c.Tx(&tft.Transaction{DC: gpio.High, Inline: [4]byte{tft.MadctlMX}, N: 1}))
	require.NoError(t, c.Tx(&tft.Transaction{DC: gpio.Low, Inline: [4]byte{tft.RAMWR}, N: 1}))
	require.NoError(t, c.Tx(&tft.Transaction{DC: gpio.High, Buf: []byte{1, 2}}))
	require.NoError(t, c.Tx(&tft.Transaction{DC: gpio.High, Buf: []byte{3, 4, 5, 6, 7}}))
	assert.Equal(t, tft.Color{R: 1, G: 2, B: 3}, c.Pixel(0, 0))
	assert.Equal(t, tft.Color{R: 4, G: 5, B: 6}, c.Pixel(1, 0))
	assert.Equal(t, tft.Black, c.Pixel(2, 0))
	assert.Equal(t, 2, c.Stats().PixelsWritten)

	require.NoError(t, c.Tx(&tft.Transaction{DC: gpio.Low, Inline: [4]byte{tft.RAMRD}, N: 1}))
	rx := &tft.Transaction{Dir: tft.Receive, DC: gpio.High, Buf: make([]byte, 7)}
	require.NoError(t, c.Tx(rx))
	assert.Equal(t, []byte{0, 1, 2, 3, 4, 5, 6}, rx.Buf)
}

func TestTransport(t *testing.T) {
	c, err := New(&Opts{Width: 4, Height: 4, Depth: 1})
	require.NoError(t, err)
	ctx := context.Background()
	_, err = c.Result(ctx)
	assert.Error(t, err, "nothing queued")

	tx := &tft.Transaction{DC: gpio.Low, Inline: [4]byte{tft.RAMWR}, N: 1}
	require.NoError(t, c.Queue(ctx, tx))
	assert.Error(t, c.Tx(tx), "Tx with queued transactions")
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, c.Queue(cancelled, tx), context.Canceled)
	got, err := c.Result(ctx)
	require.NoError(t, err)
	assert.Same(t, tx, got)

	assert.Error(t, c.Tx(&tft.Transaction{DC: gpio.Low, Buf: []byte{1, 2}}))
	assert.Error(t, c.Tx(&tft.Transaction{Dir: tft.Receive, DC: gpio.High, Buf: make([]byte, 4)}))

	require.NoError(t, c.Acquire(ctx))
	assert.ErrorIs(t, c.Acquire(cancelled), context.Canceled)
	c.Release()
}
