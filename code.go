// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/unixdj/qrencode/coding"
)

var (
	ErrArgs       = errors.New("qr: invalid arguments")
	ErrLargeImage = errors.New("qr: image too large")
)

// Default rendering parameters.
const (
	DefaultScale  = 8 // image pixels per QR pixel
	DefaultBorder = 4 // quiet zone width in QR pixels
)

// A Code is a square pixel grid.
// It implements image.Image and direct PNG encoding.
type Code struct {
	Bitmap []byte // 1 is black, 0 is white
	Size   int    // number of pixels on a side
	Stride int    // number of bytes per row

	Version coding.Version // QR version
	Level   Level          // error correction level
	Mask    int            // mask pattern
	Penalty int            // mask penalty score

	Scale   int             // number of image pixels per QR pixel
	Border  int             // quiet zone width in QR pixels
	Reverse bool            // reverse colours
	Palette *[2]color.Color // background and foreground colours
}

func newCode(c *coding.Code) *Code {
	return &Code{
		Bitmap:  c.Bitmap,
		Size:    c.Size,
		Stride:  c.Stride,
		Version: c.Version,
		Level:   Level(c.Level),
		Mask:    c.Mask,
		Penalty: c.Penalty(),
		Scale:   DefaultScale,
		Border:  DefaultBorder,
	}
}

// Black returns true if the pixel at (x,y) is black.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x/8]&(1<<uint(7-x&7)) != 0
}

// ink reports whether the pixel at (x,y) is drawn in the foreground
// colour, taking c.Reverse into account.
func (c *Code) ink(x, y int) bool { return c.Black(x, y) != c.Reverse }

func (c *Code) isValid() bool {
	return c.Size > 0 && c.Stride == (c.Size+7)>>3 &&
		len(c.Bitmap) == c.Size*c.Stride &&
		c.Scale > 0 && c.Border >= 0
}

// dim returns the image size in pixels.
func (c *Code) dim() (int, error) {
	if !c.isValid() {
		return 0, ErrArgs
	}
	pix := c.Size + 2*c.Border
	if pix > 1<<16/c.Scale {
		return 0, ErrLargeImage
	}
	return pix * c.Scale, nil
}

// colors returns the background and foreground colours.
func (c *Code) colors() [2]color.Color {
	if c.Palette != nil {
		return *c.Palette
	}
	return [2]color.Color{color.Gray{0xFF}, color.Gray{0x00}}
}

// Image returns an Image displaying the code.
func (c *Code) Image() image.Image {
	d, err := c.dim()
	if err != nil {
		return image.NewPaletted(image.Rectangle{}, nil)
	}
	pal := c.colors()
	img := image.NewPaletted(image.Rect(0, 0, d, d), pal[:])
	pix := c.Size + 2*c.Border
	for y := 0; y < pix; y++ {
		row := img.Pix[y*c.Scale*img.Stride:][:d]
		for x := 0; x < pix; x++ {
			if c.ink(x-c.Border, y-c.Border) {
				for i := range row[x*c.Scale : (x+1)*c.Scale] {
					row[x*c.Scale+i] = 1
				}
			}
		}
		for i := 1; i < c.Scale; i++ {
			copy(img.Pix[(y*c.Scale+i)*img.Stride:], row)
		}
	}
	return img
}

// PNG returns a PNG image displaying the code, or nil if the code
// cannot be rendered.
func (c *Code) PNG() []byte {
	var b bytes.Buffer
	if err := c.EncodePNG(&b); err != nil {
		return nil
	}
	return b.Bytes()
}

// EncodePNG writes a PNG image displaying the code to w.
func (c *Code) EncodePNG(w io.Writer) error {
	if w == nil {
		return ErrArgs
	}
	if _, err := c.dim(); err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, c.Image())
}
