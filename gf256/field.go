// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package gf256 implements arithmetic in Galois fields GF(2^m), m ≤ 8,
and systematic Reed-Solomon encoding over them.

Field elements are stored in bytes.  Multiplication is done with
log/antilog tables: the product of a and b is Exp(Log(a)+Log(b)),
the sum reduced modulo the field size by modnn.  Zero has no
logarithm; its log is the sentinel LogZero, which equals the field
size, and Exp(LogZero) is 0.
*/
package gf256 // import "github.com/unixdj/qrencode/gf256"

import (
	"errors"
	"fmt"
)

// ErrParams is wrapped by errors returned for invalid field or codec
// parameters.
var ErrParams = errors.New("gf256: invalid parameters")

// A Field is the field GF(2^m) generated by a primitive polynomial.
type Field struct {
	m    uint   // bits per symbol
	nn   int    // symbols per block, 2^m-1
	poly int    // field generator polynomial
	log  []byte // log[e], log[0] == nn
	exp  []byte // exp[i], exp[nn] == 0
}

// NewField returns the field GF(2^m) generated by poly.
// The polynomial includes the x^m term, e.g. 0x11d for GF(256).
// NewField fails if m is not in 1..8 or poly is not primitive.
func NewField(m, poly int) (*Field, error) {
	if m < 1 || m > 8 {
		return nil, fmt.Errorf("%w: symbol size %d", ErrParams, m)
	}
	nn := 1<<m - 1
	f := &Field{
		m:    uint(m),
		nn:   nn,
		poly: poly,
		log:  make([]byte, nn+1),
		exp:  make([]byte, nn+1),
	}
	f.log[0] = byte(nn) // log(0) = -inf
	f.exp[nn] = 0       // alpha**-inf = 0
	sr := 1
	for i := 0; i < nn; i++ {
		f.log[sr] = byte(i)
		f.exp[i] = byte(sr)
		sr <<= 1
		if sr&(1<<m) != 0 {
			sr ^= poly
		}
		sr &= nn
		if sr == 1 && i < nn-1 {
			sr = 0 // α has order i+1 < nn
			break
		}
	}
	if sr != 1 {
		return nil, fmt.Errorf("%w: polynomial %#x is not primitive",
			ErrParams, poly)
	}
	return f, nil
}

// Bits returns the number of bits per symbol.
func (f *Field) Bits() int { return int(f.m) }

// Size returns the number of nonzero elements, 2^m-1.
func (f *Field) Size() int { return f.nn }

// Poly returns the field generator polynomial.
func (f *Field) Poly() int { return f.poly }

// LogZero returns the index standing for the logarithm of zero.
func (f *Field) LogZero() int { return f.nn }

// Exp returns α^i for 0 ≤ i < Size, and 0 for i == LogZero.
func (f *Field) Exp(i int) byte { return f.exp[i] }

// Log returns the discrete logarithm of e, or LogZero if e is 0.
func (f *Field) Log(e byte) int { return int(f.log[e]) }

// modnn reduces x modulo the field size without division.
func (f *Field) modnn(x int) int {
	for x >= f.nn {
		x -= f.nn
		x = x>>f.m + x&f.nn
	}
	return x
}

// Mul returns the product of a and b.
func (f *Field) Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return f.exp[f.modnn(int(f.log[a])+int(f.log[b]))]
}

// Inv returns the multiplicative inverse of e.  It panics if e is 0.
func (f *Field) Inv(e byte) byte {
	if e == 0 {
		panic("gf256: zero has no inverse")
	}
	return f.exp[f.modnn(f.nn-int(f.log[e]))]
}
