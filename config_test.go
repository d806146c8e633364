// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unixdj/qrencode/coding"
)

func TestLoadConfig(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want Config
	}{
		{"", DefaultConfig()},
		{"level: Q\n", Config{Level: Q}},
		{"level: h\nversion: 5\nmask: 3\n",
			Config{Level: H, Version: 5, Mask: coding.FixedMask(3)}},
		{"mask: random:4\nseed: 42\n",
			Config{Mask: coding.RandomMask(4, 0), Seed: 42}},
		{"mask: auto\n", DefaultConfig()},
	} {
		cfg, err := LoadConfig(strings.NewReader(tt.in))
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, cfg, tt.in)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	for _, in := range []string{
		"colour: red\n",
		"level: X\n",
		"level: [L]\n",
		"version: 41\n",
		"version: -1\n",
		"mask: 8\n",
		"mask: random:9\n",
		"seed: x\n",
		"- L\n",
	} {
		_, err := LoadConfig(strings.NewReader(in))
		assert.Error(t, err, in)
	}
}

func TestLevelText(t *testing.T) {
	b, err := M.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "M", string(b))
	assert.Equal(t, "H", H.String())
	var l Level
	require.NoError(t, l.UnmarshalText([]byte("q")))
	assert.Equal(t, Q, l)
	assert.ErrorIs(t, l.UnmarshalText([]byte("Z")), coding.ErrLevel)
	assert.Equal(t, Q, l)
}
