// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gf256

import "fmt"

// Params describes a Reed-Solomon code.
type Params struct {
	SymbolSize int // bits per symbol, 1..8
	Poly       int // field generator polynomial
	FCR        int // first consecutive root, index form
	Prim       int // primitive element to generate roots, index form
	NRoots     int // generator roots, number of parity symbols
	Pad        int // padding symbols in a shortened block
}

// QR returns Params for the QR code: GF(256) with polynomial 0x11d,
// roots α^0 to α^(nroots-1), shortened to ndata data symbols.
func QR(nroots, ndata int) Params {
	return Params{
		SymbolSize: 8,
		Poly:       0x11d,
		FCR:        0,
		Prim:       1,
		NRoots:     nroots,
		Pad:        255 - nroots - ndata,
	}
}

// A Codec is a Reed-Solomon encoder.  It is immutable and may be
// used concurrently.
type Codec struct {
	f       *Field
	fcr     int
	prim    int
	iprim   int    // prim-th root of 1, index form
	nroots  int    // number of parity symbols
	pad     int    // padding symbols
	genpoly []byte // generator polynomial, index form
}

// NewCodec returns a Codec for the given parameters.
func NewCodec(p Params) (*Codec, error) {
	if p.SymbolSize < 1 || p.SymbolSize > 8 {
		return nil, fmt.Errorf("%w: symbol size %d", ErrParams,
			p.SymbolSize)
	}
	size := 1 << p.SymbolSize
	switch {
	case p.FCR < 0 || p.FCR >= size:
		return nil, fmt.Errorf("%w: first root %d", ErrParams, p.FCR)
	case p.Prim <= 0 || p.Prim >= size:
		return nil, fmt.Errorf("%w: primitive element %d",
			ErrParams, p.Prim)
	case p.NRoots < 0 || p.NRoots >= size:
		// can't have more roots than symbol values
		return nil, fmt.Errorf("%w: %d roots", ErrParams, p.NRoots)
	case p.Pad < 0 || p.Pad >= size-1-p.NRoots:
		return nil, fmt.Errorf("%w: padding %d", ErrParams, p.Pad)
	}
	f, err := NewField(p.SymbolSize, p.Poly)
	if err != nil {
		return nil, err
	}
	c := &Codec{
		f:      f,
		fcr:    p.FCR,
		prim:   p.Prim,
		nroots: p.NRoots,
		pad:    p.Pad,
	}

	iprim := 1
	for iprim%p.Prim != 0 {
		iprim += f.nn
	}
	c.iprim = iprim / p.Prim

	// Multiply (x + α^root) for each root, coefficient of x^i in
	// genpoly[i].
	g := make([]byte, p.NRoots+1)
	g[0] = 1
	root := p.FCR * p.Prim
	for i := 0; i < p.NRoots; i, root = i+1, root+p.Prim {
		g[i+1] = 1
		for j := i; j > 0; j-- {
			if g[j] != 0 {
				g[j] = g[j-1] ^
					f.exp[f.modnn(int(f.log[g[j]])+root)]
			} else {
				g[j] = g[j-1]
			}
		}
		// g[0] can never be zero
		g[0] = f.exp[f.modnn(int(f.log[g[0]])+root)]
	}
	for i, v := range g {
		g[i] = f.log[v]
	}
	if g[p.NRoots] != 0 {
		return nil, fmt.Errorf("%w: generator is not monic", ErrParams)
	}
	c.genpoly = g
	return c, nil
}

// Field returns the field of c.
func (c *Codec) Field() *Field { return c.f }

// NRoots returns the number of parity symbols.
func (c *Codec) NRoots() int { return c.nroots }

// Pad returns the number of padding symbols in a shortened block.
func (c *Codec) Pad() int { return c.pad }

// DataLen returns the number of data symbols in a block.
func (c *Codec) DataLen() int { return c.f.nn - c.nroots - c.pad }

// IPrim returns the prim-th root of 1 in index form.
func (c *Codec) IPrim() int { return c.iprim }

// Generator returns the generator polynomial in index form,
// coefficient of x^i at index i.
func (c *Codec) Generator() []byte {
	return append([]byte(nil), c.genpoly...)
}

// Encode returns the parity symbols for data, which must be
// DataLen symbols long.
func (c *Codec) Encode(data []byte) []byte {
	if len(data) != c.DataLen() {
		panic(fmt.Sprintf("gf256: data length %d, want %d",
			len(data), c.DataLen()))
	}
	f, g, nroots := c.f, c.genpoly, c.nroots
	a0 := f.LogZero()
	parity := make([]byte, nroots)
	if nroots == 0 {
		return parity
	}
	for _, d := range data {
		feedback := int(f.log[d^parity[0]])
		if feedback != a0 {
			// g[nroots] is 1, log 0; kept for generality
			feedback = f.modnn(f.nn - int(g[nroots]) + feedback)
			for j := 1; j < nroots; j++ {
				parity[j] ^= f.exp[f.modnn(feedback+int(g[nroots-j]))]
			}
		}
		copy(parity, parity[1:])
		if feedback != a0 {
			parity[nroots-1] = f.exp[f.modnn(feedback+int(g[0]))]
		} else {
			parity[nroots-1] = 0
		}
	}
	return parity
}

// Syndromes returns the codeword evaluated at the generator roots.
// The codeword is data followed by parity, DataLen+NRoots symbols.
// All syndromes of a valid codeword are zero.
func (c *Codec) Syndromes(codeword []byte) []byte {
	if len(codeword) != c.f.nn-c.pad {
		panic(fmt.Sprintf("gf256: codeword length %d, want %d",
			len(codeword), c.f.nn-c.pad))
	}
	f := c.f
	s := make([]byte, c.nroots)
	for i := range s {
		root := (c.fcr + i) * c.prim
		v := byte(0)
		for _, d := range codeword {
			if v == 0 {
				v = d
			} else {
				v = d ^ f.exp[f.modnn(int(f.log[v])+root)]
			}
		}
		s[i] = v
	}
	return s
}

// Check reports whether codeword is a valid codeword.
func (c *Codec) Check(codeword []byte) bool {
	for _, v := range c.Syndromes(codeword) {
		if v != 0 {
			return false
		}
	}
	return true
}

// A Block is a data block and its parity.
type Block struct {
	Data []byte // data symbols
	ECC  []byte // parity symbols
}

// NewBlock returns a Block holding a copy of data and its parity
// computed by c.
func NewBlock(c *Codec, data []byte) Block {
	return Block{
		Data: append([]byte(nil), data...),
		ECC:  c.Encode(data),
	}
}

// DataLen returns the number of data symbols.
func (b Block) DataLen() int { return len(b.Data) }

// ECCLen returns the number of parity symbols.
func (b Block) ECCLen() int { return len(b.ECC) }

// Codeword returns data followed by parity.
func (b Block) Codeword() []byte {
	return append(append(make([]byte, 0, len(b.Data)+len(b.ECC)),
		b.Data...), b.ECC...)
}
