// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// A Code is a square pixel grid.
type Code struct {
	Bitmap []byte // 1 is black, 0 is white
	Size   int    // number of pixels on a side
	Stride int    // number of bytes per row

	Version Version // QR version
	Level   Level   // error correction level
	Mask    int     // mask pattern
}

// NewCode returns a Code with the pixels of f.
func NewCode(f *Frame, l Level, mask int) *Code {
	siz := f.Width
	stride := (siz + 7) >> 3
	c := &Code{
		Bitmap:  make([]byte, siz*stride),
		Size:    siz,
		Stride:  stride,
		Version: f.Version,
		Level:   l,
		Mask:    mask,
	}
	for y := 0; y < siz; y++ {
		for x, m := range f.Cells[y*siz : (y+1)*siz] {
			if m.IsDark() {
				c.Bitmap[y*stride+x>>3] |= 0x80 >> (x & 7)
			}
		}
	}
	return c
}

// Black reports whether the pixel at x, y is black.  Pixels outside
// the code are white.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x/8]&(1<<uint(7&^x)) != 0
}

// Penalty returns the mask penalty of c.
func (c *Code) Penalty() int { return penalty(c.Size, c.Black) }

// Penalty returns the mask penalty of the modules of f.  Encoders use
// it to choose the mask with the lowest value.
func (f *Frame) Penalty() int {
	return penalty(f.Width, func(x, y int) bool {
		return f.At(x, y).IsDark()
	})
}

// Penalty points.
const (
	minRun   = 5  // shortest penalised run
	runDelta = -2 // added to the length of a run
	boxPP    = 3  // per 2x2 box of one colour
	finderPP = 40 // per finder-like pattern
	balPP    = 10 // per 5% deviation from half dark
)

// Finder-like patterns are matched against the last 12 modules of a
// line, the most recent one in bit 0.  Modules beyond either end of
// the line count as light.
const (
	winMask      = 1<<12 - 1
	finderLeft   = 0b0000_1011101_0 // light area before
	finderRight  = 0b0_1011101_0000 // light area after
	inverseLeft  = ^finderLeft & winMask
	inverseRight = ^finderRight & winMask
)

// penalty scores a w×w symbol whose dark modules are reported by dark:
// runs of five or more modules of one colour in a row or column,
// 2x2 boxes of one colour, finder-like patterns in rows and columns,
// and the deviation of the share of dark modules from one half.
func penalty(w int, dark func(x, y int) bool) int {
	p, n := 0, 0
	for i := 0; i < w; i++ {
		p += linePenalty(w, func(j int) bool { return dark(j, i) })
		p += linePenalty(w, func(j int) bool { return dark(i, j) })
		for j := 0; j < w; j++ {
			d := dark(j, i)
			if d {
				n++
			}
			if i > 0 && j > 0 && d == dark(j-1, i) &&
				d == dark(j, i-1) && d == dark(j-1, i-1) {
				p += boxPP
			}
		}
	}

	// Fold n below one half and round away from 50%: exactly 40% or
	// 60% dark scores like 41%.  w is odd, so n is never exactly half.
	sq := w * w
	if n > sq/2 {
		n = sq - n
	}
	return p + (9-n*20/sq)*balPP
}

// linePenalty returns the run and finder pattern penalties of a line
// of w modules.
func linePenalty(w int, dark func(i int) bool) int {
	var (
		p    int
		run  int
		prev bool
		win  uint16
	)
	// Windows end up to 4 modules past the line, matching finders
	// followed by light area.
	for i := 0; i < w+4; i++ {
		d := i < w && dark(i)
		win = (win<<1)&winMask | b2u(d)
		switch win {
		case finderLeft, finderRight, inverseLeft, inverseRight:
			p += finderPP
		}
		if i >= w {
			continue
		}
		if i > 0 && d == prev {
			run++
		} else {
			if run >= minRun {
				p += run + runDelta
			}
			run = 1
		}
		prev = d
	}
	if run >= minRun {
		p += run + runDelta
	}
	return p
}

func b2u(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}
