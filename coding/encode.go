// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "fmt"

// Encoder encodes a QR code.
type Encoder struct {
	v Version
	l Level
	b *Bits
}

// NewEncoder returns an Encoder for the given version and level.
func NewEncoder(v Version, l Level) (*Encoder, error) {
	if err := check(v, l); err != nil {
		return nil, err
	}
	return &Encoder{v: v, l: l, b: NewBits(v)}, nil
}

// Write adds segments to e.
func (e *Encoder) Write(text ...Segment) error {
	class := e.v.SizeClass()
	for _, t := range text {
		if err := t.Encode(e.b, class); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) Reset() { e.b.Reset() }

// Frame returns the unmasked frame containing data written to e,
// padded and followed by check bytes.
func (e *Encoder) Frame() (*Frame, error) {
	n := e.v.DataBits(e.l)
	if e.b.Bits() > n {
		return nil, fmt.Errorf("qr: cannot encode %d bits into %d-bit code",
			e.b.Bits(), n)
	}
	b := *e.b
	b.b = append([]byte(nil), e.b.b...)
	b.PadTo(4, n)
	raw, err := NewRawCode(e.v, e.l, b.Bytes())
	if err != nil {
		return nil, err
	}
	f := NewFrame(e.v)
	Place(f, raw.Stream(), e.v.Remainder())
	return f, nil
}

// Code returns a QR code containing data written to e, masked
// according to policy.
func (e *Encoder) Code(policy MaskPolicy) (*Code, error) {
	ms, err := policy.Masks()
	if err != nil {
		return nil, err
	}
	f, err := e.Frame()
	if err != nil {
		return nil, err
	}
	// Score each masked frame and keep the one with the smallest
	// penalty.
	var best *Frame
	mask, pen := 0, 1<<30 // largest penalty is < 1<<20
	for _, m := range ms {
		mf := ApplyMask(f, m, e.l)
		if len(ms) == 1 {
			return NewCode(mf, e.l, m), nil
		}
		if p := mf.Penalty(); p < pen {
			best, mask, pen = mf, m, p
		}
	}
	return NewCode(best, e.l, mask), nil
}

// Encode is a wrapper around Write and Code.
func (e *Encoder) Encode(policy MaskPolicy, text ...Segment) (*Code, error) {
	if err := e.Write(text...); err != nil {
		return nil, err
	}
	return e.Code(policy)
}

// Encode encodes segments into a QR code of the given version and
// level.
func Encode(v Version, l Level, policy MaskPolicy, text ...Segment) (*Code, error) {
	e, err := NewEncoder(v, l)
	if err != nil {
		return nil, err
	}
	return e.Encode(policy, text...)
}
