// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"fmt"
	"sync"

	"github.com/unixdj/qrencode/gf256"
)

// Reed-Solomon codecs, keyed by check and data block lengths.
var codecs struct {
	sync.Mutex
	m map[[2]int]*gf256.Codec
}

// qrCodec returns the shared codec for blocks of ndata data bytes
// and nroots check bytes.
func qrCodec(nroots, ndata int) (*gf256.Codec, error) {
	key := [2]int{nroots, ndata}
	codecs.Lock()
	defer codecs.Unlock()
	if c := codecs.m[key]; c != nil {
		return c, nil
	}
	c, err := gf256.NewCodec(gf256.QR(nroots, ndata))
	if err != nil {
		return nil, err
	}
	if codecs.m == nil {
		codecs.m = make(map[[2]int]*gf256.Codec)
	}
	codecs.m[key] = c
	return c, nil
}

// A RawCode holds the Reed-Solomon blocks of a QR code before
// placement.
type RawCode struct {
	Version Version
	Level   Level
	Blocks  []gf256.Block
}

// NewRawCode splits data into blocks for the given version and level
// and computes their check bytes.  data must be padded to exactly
// v.DataBytes(l) bytes.
func NewRawCode(v Version, l Level, data []byte) (*RawCode, error) {
	if err := check(v, l); err != nil {
		return nil, err
	}
	if n := v.DataBytes(l); len(data) != n {
		return nil, fmt.Errorf("qr: %d data bytes for version %v-%v, "+
			"need %d", len(data), v, l, n)
	}
	r := &RawCode{Version: v, Level: l}
	for _, spec := range v.Blocks(l) {
		c, err := qrCodec(spec.Check, spec.Data)
		if err != nil {
			return nil, err
		}
		for i := 0; i < spec.Count; i++ {
			r.Blocks = append(r.Blocks, gf256.NewBlock(c, data[:spec.Data]))
			data = data[spec.Data:]
		}
	}
	return r, nil
}

// Stream returns the codewords in transmission order: data bytes of
// all blocks column by column, then check bytes likewise.  Longer
// blocks contribute their extra data byte after the shorter ones run
// out.
func (r *RawCode) Stream() []byte {
	s := make([]byte, 0, r.Version.Codewords())
	maxData, maxCheck := 0, 0
	for _, b := range r.Blocks {
		maxData = max(maxData, b.DataLen())
		maxCheck = max(maxCheck, b.ECCLen())
	}
	for i := 0; i < maxData; i++ {
		for _, b := range r.Blocks {
			if i < b.DataLen() {
				s = append(s, b.Data[i])
			}
		}
	}
	for i := 0; i < maxCheck; i++ {
		for _, b := range r.Blocks {
			if i < b.ECCLen() {
				s = append(s, b.ECC[i])
			}
		}
	}
	return s
}
