// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"image"
	"testing"
)

func TestFrame(t *testing.T) {
	r := newRenderer(128, 160)
	img := r.frame(0)
	if got, want := img.Bounds(), image.Rect(0, 0, 128, 160); got != want {
		t.Fatalf("Bounds() = %v, want %v", got, want)
	}
	// Background in a corner.
	if r, g, b, _ := img.At(0, 0).RGBA(); r != 0 || g != 0 || b>>8 != 51 {
		t.Errorf("corner = %d,%d,%d", r>>8, g>>8, b>>8)
	}
	// The ball starts centered on the bottom edge.
	if r, g, b, _ := img.At(64, 160-10-8).RGBA(); r>>8 < 200 || g>>8 > 50 || b>>8 > 50 {
		t.Errorf("ball = %d,%d,%d", r>>8, g>>8, b>>8)
	}
}
