// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func drawVersion(t *rapid.T) Version {
	return Version(rapid.IntRange(int(MinVersion), int(MaxVersion)).Draw(t, "version"))
}

func TestFrameCapacity(t *testing.T) {
	for v := MinVersion; v <= MaxVersion; v++ {
		f := NewFrame(v)
		w := v.Width()
		require.Equal(t, w, f.Width)
		require.Len(t, f.Cells, w*w)
		free := w*w - f.Reserved()
		assert.Equal(t, 8*v.Codewords()+v.Remainder(), free, "version %v", v)
	}
}

func TestFrameLayout(t *testing.T) {
	f := NewFrame(7)
	w := f.Width
	for _, c := range [][2]int{{0, 0}, {6, 6}, {w - 1, 0}, {0, w - 1}, {2, 2}} {
		m := f.At(c[0], c[1])
		assert.True(t, m.IsReserved() && m.IsDark() && m&Finder != 0,
			"finder at %v: %#x", c, m)
	}
	for _, c := range [][2]int{{7, 7}, {w - 8, 7}, {7, w - 8}, {1, 1}} {
		m := f.At(c[0], c[1])
		assert.True(t, m.IsReserved() && !m.IsDark(), "light at %v: %#x", c, m)
	}
	assert.Equal(t, Reserved|Format|Dark, f.At(8, w-8), "dark module")
	assert.Equal(t, Reserved|Timing|Dark, f.At(8, 6))
	assert.Equal(t, Reserved|Timing, f.At(9, 6))
	assert.Equal(t, Reserved|Timing|Dark, f.At(6, 10))
	assert.Equal(t, Reserved|Alignment|Dark, f.At(22, 22), "alignment centre")
	assert.Equal(t, Reserved|Alignment, f.At(21, 22))
	assert.Equal(t, Reserved|Alignment|Dark, f.At(22, 6), "alignment on timing")
	assert.NotEqual(t, Alignment, f.At(6, 6)&Alignment, "no alignment over finder")
	assert.NotZero(t, f.At(0, w-11)&VersionInfo)
	assert.NotZero(t, f.At(w-11, 0)&VersionInfo)
	assert.Zero(t, NewFrame(6).At(0, 6*4+17-11)&VersionInfo)
}

func TestFrameTemplateShared(t *testing.T) {
	f := NewFrame(3)
	f.SetData(10, 10, true)
	assert.Equal(t, Data|Dark, f.At(10, 10))
	assert.Zero(t, NewFrame(3).At(10, 10), "template modified")
	assert.Panics(t, func() { NewFrame(0) })
	assert.Panics(t, func() { NewFrame(41) })
}

func TestFillerCoverage(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := drawVersion(t)
		f := NewFrame(v)
		seen := make([]bool, len(f.Cells))
		p := NewFiller(f)
		n := 0
		for {
			x, y, ok := p.Next()
			if !ok {
				break
			}
			i := y*f.Width + x
			require.False(t, f.Cells[i].IsReserved(), "reserved (%d,%d)", x, y)
			require.False(t, seen[i], "(%d,%d) visited twice", x, y)
			seen[i] = true
			n++
		}
		assert.Equal(t, f.Width*f.Width-f.Reserved(), n)
		for i := 0; i < 8; i++ {
			x, y, ok := p.Next()
			require.False(t, ok, "filler restarted at (%d,%d)", x, y)
		}
	})
}

func TestFillerOrder(t *testing.T) {
	f := NewFrame(1)
	p := NewFiller(f)
	want := [][2]int{{20, 20}, {19, 20}, {20, 19}, {19, 19}, {20, 18}}
	for _, c := range want {
		x, y, ok := p.Next()
		require.True(t, ok)
		assert.Equal(t, c, [2]int{x, y})
	}
	// The first column pair turns at the format area.
	for i := 0; i < 2*12-len(want); i++ {
		p.Next()
	}
	x, y, _ := p.Next()
	assert.Equal(t, [2]int{18, 9}, [2]int{x, y})
}

func TestPlace(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := drawVersion(t)
		stream := rapid.SliceOfN(rapid.Byte(), v.Codewords(), v.Codewords()).
			Draw(t, "stream")
		f := NewFrame(v)
		Place(f, stream, v.Remainder())

		// Read the stream back in placement order.
		p := NewFiller(f)
		for i, b := range stream {
			var got byte
			for j := 0; j < 8; j++ {
				x, y, ok := p.Next()
				require.True(t, ok)
				m := f.At(x, y)
				require.True(t, m.IsData())
				got = got<<1 | byte(m&Dark)
			}
			require.Equal(t, b, got, "byte %d", i)
		}
		for i := 0; i < v.Remainder(); i++ {
			x, y, ok := p.Next()
			require.True(t, ok)
			assert.Equal(t, Data, f.At(x, y), "remainder bit %d", i)
		}
		_, _, ok := p.Next()
		assert.False(t, ok)
	})
}

func TestPlaceExhausted(t *testing.T) {
	f := NewFrame(1)
	stream := make([]byte, Version(1).Codewords())
	assert.NotPanics(t, func() { Place(f.Clone(), stream, 0) })
	assert.PanicsWithValue(t, "qr: frame exhausted", func() {
		Place(f.Clone(), append(stream, 0), 0)
	})
	assert.PanicsWithValue(t, "qr: frame exhausted", func() {
		Place(NewFrame(2), make([]byte, Version(2).Codewords()), 8)
	})
}

func TestFillerStaysExhausted(t *testing.T) {
	for v := MinVersion; v <= MaxVersion; v++ {
		p := NewFiller(NewFrame(v))
		for _, _, ok := p.Next(); ok; _, _, ok = p.Next() {
		}
		for i := 0; i < 4; i++ {
			x, y, ok := p.Next()
			require.False(t, ok, "version %d: (%d,%d) after end", v, x, y)
		}
	}
}
