// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "sync"

// A Module is a cell of a Frame.
//
// Function pattern modules have Reserved set, along with a bit
// naming the pattern.  Modules written by data placement have Data
// set.  Dark is the module colour.
type Module byte

// Module bits.
const (
	Dark        Module = 0x01 // dark module
	Data        Module = 0x02 // written by data placement
	Format      Module = 0x04 // format information
	VersionInfo Module = 0x08 // version information
	Timing      Module = 0x10 // timing pattern
	Alignment   Module = 0x20 // alignment pattern
	Finder      Module = 0x40 // finder pattern or separator
	Reserved    Module = 0x80 // function pattern
)

// IsReserved reports whether m belongs to a function pattern.
func (m Module) IsReserved() bool { return m&Reserved != 0 }

// IsDark reports whether m is dark.
func (m Module) IsDark() bool { return m&Dark != 0 }

// IsData reports whether m was written by data placement.
func (m Module) IsData() bool { return m&Data != 0 }

// A Frame is a square matrix of modules, stored row by row.
type Frame struct {
	Version Version
	Width   int
	Cells   []Module
}

// At returns the module at (x, y).
func (f *Frame) At(x, y int) Module { return f.Cells[y*f.Width+x] }

// Set sets the module at (x, y).
func (f *Frame) Set(x, y int, m Module) { f.Cells[y*f.Width+x] = m }

// SetData marks the module at (x, y) as data with the given colour.
func (f *Frame) SetData(x, y int, dark bool) {
	m := Data
	if dark {
		m |= Dark
	}
	f.Set(x, y, m)
}

// Clone returns a copy of f.
func (f *Frame) Clone() *Frame {
	ff := *f
	ff.Cells = append([]Module(nil), f.Cells...)
	return &ff
}

// Reserved returns the number of reserved modules.
func (f *Frame) Reserved() int {
	n := 0
	for _, m := range f.Cells {
		if m.IsReserved() {
			n++
		}
	}
	return n
}

// Empty frame templates, created the first time a version is used.
var frames [MaxVersion + 1]struct {
	once sync.Once
	f    *Frame
}

// NewFrame returns an empty frame for version v with all function
// patterns in place.  Format information modules are reserved and
// light.  NewFrame panics if v is invalid.
func NewFrame(v Version) *Frame {
	if !v.IsValid() {
		panic("qr: invalid version")
	}
	p := &frames[v]
	p.once.Do(func() { p.f = newFrame(v) })
	return p.f.Clone()
}

const (
	finderPat    = 0x7f_41_5d_5d_5d_41_7f // 7x7, row by row
	alignmentPat = 0x1f_11_15_11_1f       // 5x5, row by row
)

// pattern draws a square pattern of n×n modules at upper left x, y.
// Each byte of pat is a row, first row in the most significant byte.
func (f *Frame) pattern(x, y, n int, pat uint64, kind Module) {
	for j := 0; j < n; j++ {
		row := pat >> (8 * (n - 1 - j))
		for i := 0; i < n; i++ {
			f.Set(x+i, y+j, Reserved|kind|Module(row>>(n-1-i)&1))
		}
	}
}

func newFrame(v Version) *Frame {
	w := v.Width()
	f := &Frame{Version: v, Width: w, Cells: make([]Module, w*w)}
	const sep = Reserved | Finder

	// Finder patterns and separators.
	f.pattern(0, 0, 7, finderPat, Finder)
	f.pattern(w-7, 0, 7, finderPat, Finder)
	f.pattern(0, w-7, 7, finderPat, Finder)
	for i := 0; i < 8; i++ {
		f.Set(7, i, sep)     // top left
		f.Set(i, 7, sep)     //
		f.Set(w-8, i, sep)   // top right
		f.Set(w-1-i, 7, sep) //
		f.Set(7, w-1-i, sep) // bottom left
		f.Set(i, w-8, sep)   //
	}

	// Format information area.
	for i := 0; i < 9; i++ {
		f.Set(i, 8, Reserved|Format)
		f.Set(8, i, Reserved|Format)
	}
	for i := 0; i < 8; i++ {
		f.Set(w-1-i, 8, Reserved|Format)
		f.Set(8, w-1-i, Reserved|Format)
	}

	// Timing patterns.
	for i := 8; i < w-8; i++ {
		m := Reserved | Timing | Module(^i&1)
		f.Set(i, 6, m)
		f.Set(6, i, m)
	}

	// Alignment patterns, except where they would overlap finders.
	pos := v.alignment()
	last := len(pos) - 1
	for i, y := range pos {
		for j, x := range pos {
			if i == 0 && (j == 0 || j == last) || j == 0 && i == last {
				continue
			}
			f.pattern(x-2, y-2, 5, alignmentPat, Alignment)
		}
	}

	// Version information: 6x3 at bottom left, 3x6 at top right.
	if vp := vtab[v].pattern; vp != 0 {
		for i := 0; i < 18; i++ {
			m := Reserved | VersionInfo | Module(vp>>i&1)
			f.Set(i/3, w-11+i%3, m)
			f.Set(w-11+i%3, i/3, m)
		}
	}

	// One lonely black pixel.
	f.Set(8, w-8, Reserved|Format|Dark)
	return f
}
