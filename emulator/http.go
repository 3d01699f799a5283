// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package emulator

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"
	"net/http"
	"strconv"
)

// ImageFormat is the encoding of the snapshots served over HTTP.
type ImageFormat int

// Supported formats.
const (
	PNG ImageFormat = iota
	JPEG
)

func (f ImageFormat) String() string {
	switch f {
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	default:
		return strconv.Itoa(int(f))
	}
}

func (f ImageFormat) mimeType() string {
	if f == JPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// ParseImageFormat returns the format named value.
func ParseImageFormat(value string) (ImageFormat, error) {
	switch value {
	case "", "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	}
	return PNG, fmt.Errorf("emulator: unrecognized image format %q", value)
}

var pngEncoder = png.Encoder{CompressionLevel: png.BestSpeed}

// ServeHTTP handles HTTP GET requests with a snapshot of the panel. Clients
// can request PNG, the default, or JPEG images using the "format" parameter
// ("?format=png", "?format=jpeg").
func (c *Controller) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}
	format, err := ParseImageFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	img := c.Snapshot()
	var buf bytes.Buffer
	switch format {
	case JPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	default:
		err = pngEncoder.Encode(&buf, img)
	}
	if err != nil {
		c.log.Error().Err(err).Stringer("format", format).Msg("encode")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", format.mimeType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	if r.Method == http.MethodHead {
		return
	}
	_, _ = buf.WriteTo(w)
}

var _ http.Handler = &Controller{}
