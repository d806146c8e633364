// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strings"
)

// String returns the code drawn with Unicode half block characters,
// two rows per line, black pixels as ink.  With c.Reverse white
// pixels are drawn as ink, for dark terminals.
func (c *Code) String() string {
	if !c.isValid() {
		return ""
	}
	blocks := [4]string{" ", "▀", "▄", "█"}
	bord := c.Border
	var b strings.Builder
	for y := -bord; y < c.Size+bord; y += 2 {
		for x := -bord; x < c.Size+bord; x++ {
			i := 0
			if c.ink(x, y) {
				i |= 1
			}
			if y+1 < c.Size+bord && c.ink(x, y+1) {
				i |= 2
			}
			b.WriteString(blocks[i])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// EncodeASCII writes the code to w drawn with two "#" characters per
// black pixel.
func (c *Code) EncodeASCII(w io.Writer) error {
	if !c.isValid() {
		return ErrArgs
	}
	siz := c.Size
	bord := c.Border
	pix := siz + 2*bord
	b := make([]byte, (pix*2+1)*pix)
	i := 0
	for y := -bord; y < siz+bord; y++ {
		for x := -bord; x < siz+bord; x++ {
			var p byte = ' '
			if c.ink(x, y) {
				p = '#'
			}
			_ = b[i+1]
			b[i], b[i+1] = p, p
			i += 2
		}
		b[i] = '\n'
		i++
	}
	_, err := w.Write(b)
	return err
}

// EncodeText writes the code to w as lines of 0 and 1, one line per
// row, 1 for black.  The quiet zone is not written.
func (c *Code) EncodeText(w io.Writer) error {
	if !c.isValid() {
		return ErrArgs
	}
	line := make([]byte, c.Size+1)
	line[c.Size] = '\n'
	for y := 0; y < c.Size; y++ {
		for x := range line[:c.Size] {
			line[x] = '0'
			if c.Black(x, y) {
				line[x] = '1'
			}
		}
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}

func svgColor(col color.Color) (string, float64) {
	n := color.NRGBAModel.Convert(col).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B), float64(n.A) / 0xff
}

// EncodeSVG writes an SVG image displaying the code to w.  Each run
// of ink pixels in a row becomes one rectangle.
func (c *Code) EncodeSVG(w io.Writer) error {
	d, err := c.dim()
	if err != nil {
		return err
	}
	pal := c.colors()
	bg, bgA := svgColor(pal[0])
	fg, fgA := svgColor(pal[1])
	pix := c.Size + 2*c.Border
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" version="1.1" `+
		`width="%d" height="%d" viewBox="0 0 %d %d" `+
		`shape-rendering="crispEdges">
<rect width="%d" height="%d" fill="%s" fill-opacity="%.3g"/>
<g fill="%s" fill-opacity="%.3g">
`, d, d, pix, pix, pix, pix, bg, bgA, fg, fgA)
	for y := -c.Border; y < c.Size+c.Border; y++ {
		for x := -c.Border; x < c.Size+c.Border; {
			for x < c.Size+c.Border && !c.ink(x, y) {
				x++
			}
			start := x
			for x < c.Size+c.Border && c.ink(x, y) {
				x++
			}
			if x > start {
				fmt.Fprintf(b, "<rect x=\"%d\" y=\"%d\" "+
					"width=\"%d\" height=\"1\"/>\n",
					start+c.Border, y+c.Border, x-start)
			}
		}
	}
	b.WriteString("</g>\n</svg>\n")
	return b.Flush()
}
