// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// A Filler walks the data modules of a Frame in placement order.
//
// Placement starts at the bottom right and proceeds in two-module
// wide columns, alternately upwards and downwards, right module
// first.  The vertical timing strip is skipped as a whole, and
// reserved modules are stepped over.
type Filler struct {
	f    *Frame
	x, y int
	dir  int // -1 up, 1 down
	bit  int // -1 before start, 0 right, 1 left
	done bool
}

// NewFiller returns a Filler positioned before the first module of f.
func NewFiller(f *Frame) *Filler {
	return &Filler{
		f:   f,
		x:   f.Width - 1,
		y:   f.Width - 1,
		dir: -1,
		bit: -1,
	}
}

// Next returns the coordinates of the next data module.
// ok is false when the frame is exhausted, and stays false.
func (p *Filler) Next() (x, y int, ok bool) {
	if p.done {
		return 0, 0, false
	}
	if p.bit == -1 {
		p.bit = 0
		return p.x, p.y, true
	}
	w := p.f.Width
	for {
		x, y = p.x, p.y
		if p.bit == 0 {
			x--
			p.bit = 1
		} else {
			x++
			y += p.dir
			p.bit = 0
		}

		if p.dir < 0 {
			if y < 0 {
				y = 0
				x -= 2
				p.dir = 1
				if x == 6 {
					x--
					y = 9
				}
			}
		} else if y == w {
			y = w - 1
			x -= 2
			p.dir = -1
			if x == 6 {
				x--
				y -= 8
			}
		}
		if x < 0 || y < 0 {
			p.done = true
			return 0, 0, false
		}

		p.x, p.y = x, y
		if !p.f.At(x, y).IsReserved() {
			return x, y, true
		}
	}
}

// Place writes the bits of stream to the data modules of f, most
// significant bit first, followed by remainder light modules.
// Place panics if f has too few data modules.
func Place(f *Frame, stream []byte, remainder int) {
	p := NewFiller(f)
	next := func() (int, int) {
		x, y, ok := p.Next()
		if !ok {
			panic("qr: frame exhausted")
		}
		return x, y
	}
	for _, b := range stream {
		for bit := byte(0x80); bit != 0; bit >>= 1 {
			x, y := next()
			f.SetData(x, y, b&bit != 0)
		}
	}
	for i := 0; i < remainder; i++ {
		x, y := next()
		f.SetData(x, y, false)
	}
}
