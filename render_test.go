// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCode(t *testing.T) *Code {
	c, err := Encode("HELLO WORLD", Q)
	require.NoError(t, err)
	return c
}

func TestImage(t *testing.T) {
	c := testCode(t)
	c.Scale, c.Border = 3, 2
	img := c.Image()
	d := (21 + 4) * 3
	require.Equal(t, d, img.Bounds().Dx())
	require.Equal(t, d, img.Bounds().Dy())
	black := color.GrayModel.Convert(color.Black)
	white := color.GrayModel.Convert(color.White)
	for y := 0; y < d; y++ {
		for x := 0; x < d; x++ {
			want := white
			if c.Black(x/3-2, y/3-2) {
				want = black
			}
			require.Equal(t, want, color.GrayModel.Convert(img.At(x, y)),
				"(%d,%d)", x, y)
		}
	}

	c.Reverse = true
	assert.Equal(t, white, color.GrayModel.Convert(c.Image().At(6, 6)))
	c.Reverse = false
	red := color.RGBA{0xff, 0, 0, 0xff}
	c.Palette = &[2]color.Color{color.White, red}
	assert.Equal(t, red, color.RGBAModel.Convert(c.Image().At(6, 6)))
}

func TestEncodePNG(t *testing.T) {
	c := testCode(t)
	var b bytes.Buffer
	require.NoError(t, c.EncodePNG(&b))
	assert.Equal(t, b.Bytes(), c.PNG())
	img, err := png.Decode(&b)
	require.NoError(t, err)
	want := c.Image()
	require.Equal(t, want.Bounds(), img.Bounds())
	for y := 0; y < img.Bounds().Dy(); y += c.Scale {
		for x := 0; x < img.Bounds().Dx(); x += c.Scale {
			r0, g0, b0, _ := want.At(x, y).RGBA()
			r1, g1, b1, _ := img.At(x, y).RGBA()
			require.Equal(t, [3]uint32{r0, g0, b0}, [3]uint32{r1, g1, b1})
		}
	}

	assert.ErrorIs(t, c.EncodePNG(nil), ErrArgs)
	assert.ErrorIs(t, (&Code{}).EncodePNG(&b), ErrArgs)
	assert.Nil(t, (&Code{}).PNG())
	c.Scale = 1 << 12
	assert.ErrorIs(t, c.EncodePNG(&b), ErrLargeImage)
}

func TestEncodePBM(t *testing.T) {
	c := testCode(t)
	c.Scale, c.Border = 2, 1
	var b bytes.Buffer
	require.NoError(t, c.EncodePBM(&b))
	d := (21 + 2) * 2
	header := fmt.Sprintf("P4\n%d %d\n", d, d)
	require.True(t, strings.HasPrefix(b.String(), header))
	stride := (d + 7) / 8
	data := b.Bytes()[len(header):]
	require.Len(t, data, stride*d)
	for y := 0; y < d; y++ {
		for x := 0; x < d; x++ {
			bit := data[y*stride+x/8]>>(7-x%8)&1 != 0
			require.Equal(t, c.Black(x/2-1, y/2-1), bit, "(%d,%d)", x, y)
		}
	}
	c.Reverse = true
	b.Reset()
	require.NoError(t, c.EncodePBM(&b))
	assert.Equal(t, byte(0xff), b.Bytes()[len(header)], "reversed border")
}

func TestEncodeText(t *testing.T) {
	c := testCode(t)
	var b strings.Builder
	require.NoError(t, c.EncodeText(&b))
	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	require.Len(t, lines, 21)
	for y, line := range lines {
		require.Len(t, line, 21)
		for x, ch := range line {
			assert.Equal(t, c.Black(x, y), ch == '1')
		}
	}
	assert.True(t, strings.HasPrefix(lines[0], "1111111"))
}

func TestEncodeASCII(t *testing.T) {
	c := testCode(t)
	c.Border = 1
	var b strings.Builder
	require.NoError(t, c.EncodeASCII(&b))
	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	require.Len(t, lines, 23)
	assert.Equal(t, strings.Repeat(" ", 46), lines[0])
	assert.Equal(t, "  ##############", lines[1][:16])
}

func TestString(t *testing.T) {
	c := testCode(t)
	s := c.String()
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	require.Len(t, lines, (21+2*DefaultBorder+1)/2)
	for _, l := range lines {
		assert.Equal(t, 21+2*DefaultBorder, len([]rune(l)))
	}
	// Finder rows 0 and 1 share line 2, starting at column 4.
	assert.Equal(t, "█▀▀▀▀▀█", string([]rune(lines[2])[4:11]))
	assert.Empty(t, (&Code{}).String())
}

func TestEncodeSVG(t *testing.T) {
	c := testCode(t)
	var b strings.Builder
	require.NoError(t, c.EncodeSVG(&b))
	s := b.String()
	assert.Contains(t, s, `viewBox="0 0 29 29"`)
	assert.Contains(t, s, `width="232"`)
	assert.Contains(t, s, `fill="#000000"`)
	runs := 0
	for y := 0; y < c.Size; y++ {
		for x := 0; x < c.Size; x++ {
			if c.Black(x, y) && !c.Black(x-1, y) {
				runs++
			}
		}
	}
	assert.Equal(t, runs+1, strings.Count(s, "<rect"))
	assert.Contains(t, s, `<rect x="4" y="4" width="7" height="1"/>`)

	c.Palette = &[2]color.Color{color.Transparent, color.RGBA{0, 0, 0xff, 0xff}}
	b.Reset()
	require.NoError(t, c.EncodeSVG(&b))
	assert.Contains(t, b.String(), `fill="#0000ff"`)
	assert.Contains(t, b.String(), `fill-opacity="0"`)
}
