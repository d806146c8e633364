// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
)

// NumMasks is the number of QR mask patterns.
const NumMasks = 8

// ErrMask is returned for invalid mask patterns and policies.
var ErrMask = errors.New("qr: invalid mask")

// Mask predicates.  A data module at column x, row y is inverted
// where the predicate is true.
var masks = [NumMasks]func(x, y int) bool{
	func(x, y int) bool { return (x+y)&1 == 0 },
	func(x, y int) bool { return y&1 == 0 },
	func(x, y int) bool { return x%3 == 0 },
	func(x, y int) bool { return (x+y)%3 == 0 },
	func(x, y int) bool { return (y/2+x/3)&1 == 0 },
	func(x, y int) bool { return (x*y)&1+(x*y)%3 == 0 },
	func(x, y int) bool { return ((x*y)&1+(x*y)%3)&1 == 0 },
	func(x, y int) bool { return ((x*y)%3+(x+y)&1)&1 == 0 },
}

// calcFormat appends the BCH(15,5) check bits to 5 bits of format
// information in fb<<10.
func calcFormat(fb uint16) uint16 {
	const formatPoly = 0x537
	rem := fb
	for i := 4; i >= 0; i-- {
		if rem&((1<<10)<<i) != 0 {
			rem ^= formatPoly << i
		}
	}
	return fb | rem
}

// QR Code format bits.
var ftab [4][NumMasks]uint16

func init() {
	for l := range ftab {
		for m := range ftab[l] {
			fb := uint16(l^1) << 13 // L=01, M=00, Q=11, H=10
			fb |= uint16(m) << 10   // mask
			ftab[l][m] = calcFormat(fb) ^ 0x5412
		}
	}
}

// FormatBits returns the 15 bit format information for level l and
// the mask, or 0 if either is invalid.
func FormatBits(l Level, mask int) uint16 {
	if l < L || l > H || mask < 0 || mask >= NumMasks {
		return 0
	}
	return ftab[l][mask]
}

// writeFormat writes both copies of the format information to f,
// least significant bit first.
func (f *Frame) writeFormat(format uint16) {
	w := f.Width
	for i := 0; i < 15; i++ {
		m := Reserved | Format | Module(format>>i&1)
		switch {
		case i < 6:
			f.Set(8, i, m)
		case i < 8:
			f.Set(8, i+1, m)
		case i == 8:
			f.Set(7, 8, m)
		default:
			f.Set(14-i, 8, m)
		}
		if i < 8 {
			f.Set(w-1-i, 8, m)
		} else {
			f.Set(8, w-15+i, m)
		}
	}
}

// ApplyMask returns a copy of f with the data modules inverted
// according to the mask pattern and the format information for level
// l and the mask written.  ApplyMask panics if mask or l is invalid.
func ApplyMask(f *Frame, mask int, l Level) *Frame {
	format := FormatBits(l, mask)
	if format == 0 {
		panic("qr: invalid mask or level")
	}
	pred := masks[mask]
	m := f.Clone()
	for y := 0; y < m.Width; y++ {
		row := m.Cells[y*m.Width : (y+1)*m.Width]
		for x, c := range row {
			if !c.IsReserved() && pred(x, y) {
				row[x] = c ^ Dark
			}
		}
	}
	m.writeFormat(format)
	return m
}

// MaskSelect determines how a MaskPolicy chooses the mask.
type MaskSelect int

const (
	MaskBest   MaskSelect = iota // evaluate all masks
	MaskFixed                    // use MaskPolicy.Mask
	MaskRandom                   // evaluate MaskPolicy.Count random masks
)

// A MaskPolicy selects the mask patterns evaluated by the encoder.
// Of the evaluated masks, the one with the lowest penalty wins, ties
// going to the lowest mask number.  The zero MaskPolicy evaluates all
// masks.
type MaskPolicy struct {
	Select MaskSelect
	Mask   int    // mask for MaskFixed
	Count  int    // number of masks for MaskRandom
	Seed   uint64 // random source seed for MaskRandom
}

// BestMask returns a policy evaluating all masks.
func BestMask() MaskPolicy { return MaskPolicy{} }

// FixedMask returns a policy using the given mask.
func FixedMask(mask int) MaskPolicy {
	return MaskPolicy{Select: MaskFixed, Mask: mask}
}

// RandomMask returns a policy evaluating n distinct masks chosen
// using a random source seeded with seed.
func RandomMask(n int, seed uint64) MaskPolicy {
	return MaskPolicy{Select: MaskRandom, Count: n, Seed: seed}
}

// Validate returns an error if p is invalid.
func (p MaskPolicy) Validate() error {
	switch p.Select {
	case MaskBest:
		return nil
	case MaskFixed:
		if 0 <= p.Mask && p.Mask < NumMasks {
			return nil
		}
		return fmt.Errorf("%w %d", ErrMask, p.Mask)
	case MaskRandom:
		if 1 <= p.Count && p.Count <= NumMasks {
			return nil
		}
		return fmt.Errorf("%w count %d", ErrMask, p.Count)
	}
	return fmt.Errorf("%w selection %d", ErrMask, p.Select)
}

// Masks returns the masks to evaluate in ascending order.
func (p MaskPolicy) Masks() ([]int, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	switch p.Select {
	case MaskFixed:
		return []int{p.Mask}, nil
	case MaskRandom:
		r := rand.New(rand.NewPCG(p.Seed, p.Seed^0x9e3779b97f4a7c15))
		m := r.Perm(NumMasks)[:p.Count]
		slices.Sort(m)
		return m, nil
	}
	m := make([]int, NumMasks)
	for i := range m {
		m[i] = i
	}
	return m, nil
}

// String returns the policy as "auto", a mask number or "random:N".
func (p MaskPolicy) String() string {
	switch p.Select {
	case MaskBest:
		return "auto"
	case MaskFixed:
		return strconv.Itoa(p.Mask)
	case MaskRandom:
		return "random:" + strconv.Itoa(p.Count)
	}
	return "invalid"
}

// ParseMaskPolicy parses the format returned by String.  The seed of
// a random policy is left zero.
func ParseMaskPolicy(s string) (MaskPolicy, error) {
	var p MaskPolicy
	ls := strings.ToLower(s)
	switch n, ok := strings.CutPrefix(ls, "random:"); {
	case ls == "auto" || ls == "":
	case ok:
		c, err := strconv.Atoi(n)
		if err != nil {
			return p, fmt.Errorf("%w %q", ErrMask, s)
		}
		p = RandomMask(c, 0)
	default:
		m, err := strconv.Atoi(s)
		if err != nil {
			return p, fmt.Errorf("%w %q", ErrMask, s)
		}
		p = FixedMask(m)
	}
	return p, p.Validate()
}

func (p MaskPolicy) MarshalText() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return []byte(p.String()), nil
}

// UnmarshalText parses text as ParseMaskPolicy does, keeping the seed.
func (p *MaskPolicy) UnmarshalText(text []byte) error {
	pp, err := ParseMaskPolicy(string(text))
	if err != nil {
		return err
	}
	pp.Seed = p.Seed
	*p = pp
	return nil
}
