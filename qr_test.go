// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/unixdj/qrencode/coding"
)

func TestPlan(t *testing.T) {
	for _, tt := range []struct {
		text string
		l    coding.Level
		v    coding.Version
		segs []coding.Segment
	}{
		{"", coding.L, 1, []coding.Segment{}},
		{"HELLO WORLD", coding.M, 1, []coding.Segment{
			{Text: "HELLO WORLD", Mode: coding.Alphanumeric},
		}},
		{"01234567", coding.H, 1, []coding.Segment{
			{Text: "01234567", Mode: coding.Numeric},
		}},
		{"a1234567890123456789", coding.L, 1, []coding.Segment{
			{Text: "a", Mode: coding.Byte},
			{Text: "1234567890123456789", Mode: coding.Numeric},
		}},
		{"ABC1", coding.L, 1, []coding.Segment{
			{Text: "ABC1", Mode: coding.Alphanumeric},
		}},
		{"漢字", coding.L, 1, []coding.Segment{
			{Text: "漢字", Mode: coding.Kanji},
		}},
		{"hello, 世界", coding.L, 1, []coding.Segment{
			{Text: "hello, ", Mode: coding.Byte},
			{Text: "世界", Mode: coding.Kanji},
		}},
		{strings.Repeat("9", 100), coding.L, 3, []coding.Segment{
			{Text: strings.Repeat("9", 100), Mode: coding.Numeric},
		}},
	} {
		v, segs, err := plan(tt.text, 0, tt.l)
		require.NoError(t, err, tt.text)
		assert.Equal(t, tt.v, v, tt.text)
		if diff := cmp.Diff(tt.segs, segs); diff != "" {
			t.Errorf("%q: segments (-want +got):\n%s", tt.text, diff)
		}
	}
}

func TestPlanFits(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringOf(rapid.SampledFrom([]rune(
			"0123456789ABCZ $%*+-./:abcxyzé漢字点茗日本"))).Draw(t, "text")
		l := coding.Level(rapid.IntRange(0, 3).Draw(t, "level"))
		v, segs, err := plan(text, 0, l)
		require.NoError(t, err)
		var b strings.Builder
		n := 0
		for _, s := range segs {
			require.True(t, s.IsValid(), "%v %q", s.Mode, s.Text)
			b.WriteString(s.Text)
			n += s.EncodedLength(v.SizeClass())
		}
		assert.Equal(t, text, b.String())
		assert.LessOrEqual(t, n, v.DataBits(l))
		if v > 1 {
			// the previous version must not suffice
			pv := v - 1
			_, _, err := plan(text, pv, l)
			assert.ErrorIs(t, err, ErrTooLong)
		}
		// no single-mode encoding is shorter
		if text != "" {
			seg := coding.Segment{Text: text, Mode: coding.Byte}
			assert.LessOrEqual(t, n, seg.EncodedLength(v.SizeClass()))
		}
	})
}

func TestEncode(t *testing.T) {
	c, err := Encode("HELLO WORLD", M)
	require.NoError(t, err)
	assert.Equal(t, coding.Version(1), c.Version)
	assert.Equal(t, M, c.Level)
	assert.Equal(t, 21, c.Size)
	assert.Equal(t, 3, c.Stride)
	assert.Equal(t, DefaultScale, c.Scale)
	assert.Equal(t, DefaultBorder, c.Border)
	for _, p := range [][2]int{{0, 0}, {20, 0}, {0, 20}, {8, 13}} {
		assert.True(t, c.Black(p[0], p[1]), "%v", p)
	}
	assert.False(t, c.Black(-1, 0))
	assert.False(t, c.Black(21, 0))

	c, err = Encode("", L)
	require.NoError(t, err)
	assert.Equal(t, 21, c.Size)
}

func TestEncodeConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Version = 5
	cfg.Mask = coding.FixedMask(6)
	c, err := EncodeConfig("HELLO", cfg)
	require.NoError(t, err)
	assert.Equal(t, coding.Version(5), c.Version)
	assert.Equal(t, 6, c.Mask)

	cfg.Version = 1
	cfg.Level = H
	_, err = EncodeConfig(strings.Repeat("A", 20), cfg)
	assert.ErrorIs(t, err, ErrTooLong)

	cfg.Version = 41
	_, err = EncodeConfig("A", cfg)
	assert.ErrorIs(t, err, coding.ErrVersion)

	cfg = DefaultConfig()
	cfg.Level = 7
	_, err = EncodeConfig("A", cfg)
	assert.ErrorIs(t, err, coding.ErrLevel)

	_, err = Encode(strings.Repeat("a", 3000), L)
	assert.ErrorIs(t, err, ErrTooLong)
	c, err = Encode(strings.Repeat("a", 2953), L)
	require.NoError(t, err)
	assert.Equal(t, coding.Version(40), c.Version)

	// Random masks are reproducible with the same seed.
	cfg = DefaultConfig()
	cfg.Mask = coding.RandomMask(3, 0)
	cfg.Seed = 1234
	a, err := EncodeConfig("SEED", cfg)
	require.NoError(t, err)
	b, err := EncodeConfig("SEED", cfg)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	ms, _ := coding.RandomMask(3, 1234).Masks()
	assert.Contains(t, ms, a.Mask)
}

func TestEncodeBytes(t *testing.T) {
	cfg := DefaultConfig()
	c, err := EncodeBytes(make([]byte, 17), cfg)
	require.NoError(t, err)
	assert.Equal(t, coding.Version(1), c.Version)
	c, err = EncodeBytes(make([]byte, 18), cfg)
	require.NoError(t, err)
	assert.Equal(t, coding.Version(2), c.Version)
	_, err = EncodeBytes(make([]byte, 2954), cfg)
	assert.ErrorIs(t, err, ErrTooLong)

	cfg.Version = 1
	_, err = EncodeBytes(make([]byte, 18), cfg)
	assert.ErrorIs(t, err, ErrTooLong)
	cfg.Version = 50
	_, err = EncodeBytes(nil, cfg)
	assert.ErrorIs(t, err, coding.ErrVersion)

	// Digits in byte mode need a larger code than in numeric mode.
	digits := strings.Repeat("1", 40)
	a, err := EncodeBytes([]byte(digits), DefaultConfig())
	require.NoError(t, err)
	b, err := Encode(digits, L)
	require.NoError(t, err)
	assert.Greater(t, a.Version, b.Version)
}

func TestEncodeAll(t *testing.T) {
	texts := []string{"ONE", "2", "three", "漢字", strings.Repeat("5", 500)}
	cfg := DefaultConfig()
	cc, err := EncodeAll(context.Background(), texts, cfg)
	require.NoError(t, err)
	require.Len(t, cc, len(texts))
	for i, text := range texts {
		c, err := EncodeConfig(text, cfg)
		require.NoError(t, err)
		if diff := cmp.Diff(c, cc[i]); diff != "" {
			t.Errorf("%q (-want +got):\n%s", text, diff)
		}
	}

	_, err = EncodeAll(context.Background(),
		[]string{"A", strings.Repeat("x", 5000)}, cfg)
	assert.ErrorIs(t, err, ErrTooLong)
	assert.ErrorContains(t, err, "text 2")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = EncodeAll(ctx, texts, cfg)
	assert.ErrorIs(t, err, context.Canceled)

	cc, err = EncodeAll(context.Background(), nil, cfg)
	assert.NoError(t, err)
	assert.Empty(t, cc)
}
