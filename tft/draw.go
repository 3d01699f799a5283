// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tft

import (
	"context"
	"image"
)

// drawBlockPixels is the size of the blocks of lines sent by Draw.
const drawBlockPixels = 4096

// Draw implements display.Drawer.
//
// The part of r inside the display is sent in blocks of whole lines. The next
// block is converted while the previous one is on the bus.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		return ErrPending
	}
	r, sp = clip(image.Rect(0, 0, d.w, d.h), r, src.Bounds(), sp)
	if r.Empty() {
		return nil
	}
	w := r.Dx()
	lines := drawBlockPixels / w
	if lines == 0 {
		lines = 1
	}
	for i := range d.draw {
		if d.draw[i].Len() < lines*w {
			d.draw[i] = NewPixels(lines * w)
		}
	}

	ctx := context.Background()
	cur := 0
	for y := r.Min.Y; y < r.Max.Y; y += lines {
		n := min(lines, r.Max.Y-y)
		buf := d.draw[cur][:3*n*w]
		convertLines(buf, src, image.Pt(sp.X, sp.Y+y-r.Min.Y), w, n)
		if d.pending != nil {
			if err := d.pushEnd(); err != nil {
				return err
			}
		}
		if err := d.pushBegin(ctx, r.Min.X, y, r.Max.X-1, y+n-1, buf); err != nil {
			return err
		}
		cur ^= 1
	}
	return d.pushEnd()
}

// clip restricts r to dst and to the source rectangle aligned with sp, and
// moves sp accordingly.
func clip(dst, r, src image.Rectangle, sp image.Point) (image.Rectangle, image.Point) {
	orig := r.Min
	r = r.Intersect(dst)
	r = r.Intersect(src.Add(orig.Sub(sp)))
	return r, sp.Add(r.Min.Sub(orig))
}

// convertLines converts n lines of w pixels of src starting at sp into dst.
func convertLines(dst Pixels, src image.Image, sp image.Point, w, n int) {
	switch img := src.(type) {
	case *image.RGBA:
		for y := 0; y < n; y++ {
			off := img.PixOffset(sp.X, sp.Y+y)
			row := img.Pix[off : off+4*w]
			out := dst[3*y*w : 3*(y+1)*w]
			for x := 0; x < w; x++ {
				out[3*x] = row[4*x]
				out[3*x+1] = row[4*x+1]
				out[3*x+2] = row[4*x+2]
			}
		}
	default:
		i := 0
		for y := 0; y < n; y++ {
			for x := 0; x < w; x++ {
				dst.Set(i, toColor(src.At(sp.X+x, sp.Y+y)))
				i++
			}
		}
	}
}
