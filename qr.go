// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package qr encodes QR codes.

Text is split into numeric, alphanumeric, kanji and byte mode segments
so as to minimise the encoded length, and the smallest QR version that
holds the result at the requested error correction level is chosen.
The returned Code can be rendered as an image, PNG, PBM, SVG or text.
*/
package qr // import "github.com/unixdj/qrencode"

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/unixdj/qrencode/coding"
)

// ErrTooLong is returned when the data does not fit in a QR code.
var ErrTooLong = errors.New("qr: data too long to encode as QR")

var sizeClass = [3]struct {
	min, max coding.Version
}{
	{1, 9}, {10, 26}, {27, 40},
}

const (
	numMode    = iota // numeric
	alphaMode         // alphanumeric
	kanjiMode         // kanji
	stringMode        // byte
	modes             // total number of modes

	numModes    = 1<<numMode | 1<<alphaMode | 1<<stringMode
	alphaModes  = 1<<alphaMode | 1<<stringMode
	kanjiModes  = 1<<stringMode | 1<<kanjiMode
	stringModes = 1 << stringMode
)

// segment encoders for each mode
var modeOf = [modes]coding.Mode{
	coding.Numeric, coding.Alphanumeric, coding.Kanji, coding.Byte,
}

// bits returns segment size in bits for a string of n bytes, k kanji
// at QR version size class class encoded in mode m.
func bits(m byte, n, k, class int) int {
	return modeOf[m].Length(n, k, class)
}

type (
	// segment describes a segment encoded in a certain mode.
	segment struct {
		next   *segment // link to next segment in the chain
		start  int      // start of string
		slen   int      // length of string in bytes
		klen   int      // length of string in kanji
		weight int      // encoded size of all segments in the chain
		mode   byte     // encoding mode
	}

	// span describes a span of bytes encodable in the same modes.
	span struct {
		start int            // start of string
		slen  int            // length of string in bytes
		klen  int            // length of string in kanji
		modes byte           // bit field of valid encoding modes
		seg   [modes]segment // segments
	}
)

// classify splits text into spans of bytes encodable in the same modes.
func classify(text string) []span {
	if text == "" {
		return nil
	}

	// Scan the string, detect valid encoding modes for each byte
	modes := make([]byte, len(text))
	common := ^byte(0) // bit field of modes common to all spans
	n := 0
	m := byte(0)
	for i, r := range text {
		old := m
		switch {
		case coding.Is(r, coding.Numeric):
			m = numModes
		case coding.IsAlphanumeric(r):
			m = alphaModes
		case coding.IsKanji(r):
			m = kanjiModes
		default:
			m = stringModes
		}
		modes[i] = m
		if m != old {
			common &= m
			n++
		}
	}

	mask := ^common | -common // Mask common modes except the lowest

	// Set spans
	sp := make([]span, n)
	old, n := byte(0), 0
	for i, v := range modes {
		if v != 0 && v != old {
			if i != 0 {
				sp[n].slen = i - sp[n].start
				n++
			}
			sp[n].start = i
			sp[n].modes = v & mask
			old = v
		}
		if v == kanjiModes {
			sp[n].klen++
		}
	}
	sp[n].slen = len(modes) - sp[n].start
	return sp
}

/*
split returns the optimal split for the string described by sp at
the given QR version size class.

For last span, for each valid mode j:
  - Create a segment sp[len(sp)-1].seg[j] describing the span
    encoded in mode j.  Calculate the weight (encoded length in
    bits).

Then walk backwards through the rest of the spans.
For each span i, for each valid mode j:
  - For each mode k valid for span i+1, create a segment linking
    to next=sp[i+1].seg[k].  If k==j, merge the segments by
    adding the length of next and linking to next.next instead.
    Calculate the weight of the segment.  If next is not nil, add
    the weight of next to get the combined weight of the chain.
  - From those segments choose the one with the smallest weight.
    Assign it to sp[i].seg[j].

Return the address of the segment in sp[0].seg with the smallest
weight.
*/
func split(sp []span, class int) *segment {
	const Inf = 1 << 30
	// Process last span.  Create a segment for each valid mode.
	i := len(sp) - 1
	if i < 0 {
		return nil
	}
	for j := byte(0); j < modes; j++ {
		seg := &sp[i].seg[j]
		*seg = segment{weight: Inf}
		if sp[i].modes>>j&1 != 0 {
			*seg = segment{
				start:  sp[i].start,
				slen:   sp[i].slen,
				klen:   sp[i].klen,
				weight: bits(j, sp[i].slen, sp[i].klen, class),
				mode:   j,
			}
		}
	}

	// Process the rest of the spans.
	for i--; i >= 0; i-- {
		v := &sp[i]
		for j := byte(0); j < modes; j++ {
			seg := &v.seg[j]
			*seg = segment{weight: Inf}
			if v.modes>>j&1 == 0 {
				continue
			}
			weight := bits(j, v.slen, v.klen, class)
			ns := &sp[i+1].seg
			for k := byte(0); k < modes; k++ {
				next := &ns[k]
				if next.weight == Inf {
					continue
				}
				c := segment{
					next:   next,
					start:  v.start,
					slen:   v.slen,
					klen:   v.klen,
					weight: weight,
					mode:   j,
				}
				if k == j {
					c.slen += next.slen
					c.klen += next.klen
					c.next = next.next
					c.weight = bits(j, c.slen, c.klen, class)
				}
				if c.next != nil {
					c.weight += c.next.weight
				}
				if c.weight < seg.weight {
					*seg = c
				}
			}
		}
	}

	// Choose the first segment with the smallest weight
	seg := &sp[0].seg[0]
	for j := 1; j < modes; j++ {
		if sp[0].seg[j].weight < seg.weight {
			seg = &sp[0].seg[j]
		}
	}
	return seg
}

// segments returns the segments of text in the chain starting at seg.
func segments(text string, seg *segment) []coding.Segment {
	n := 0
	for s := seg; s != nil; s = s.next {
		n++
	}
	segs := make([]coding.Segment, 0, n)
	for ; seg != nil; seg = seg.next {
		segs = append(segs, coding.Segment{
			Text: text[seg.start : seg.start+seg.slen],
			Mode: modeOf[seg.mode],
		})
	}
	return segs
}

// capacity returns the number of data bits of the largest version in
// the size class.
func capacity(class int, l coding.Level) int {
	return sizeClass[class].max.DataBits(l)
}

// fit returns the smallest version in the size class holding weight
// bits.
func fit(class int, l coding.Level, weight int) coding.Version {
	v := sizeClass[class].min
	for max := sizeClass[class].max; v < max; {
		if mid := (v + max) / 2; mid.DataBits(l) < weight {
			v = mid + 1
		} else {
			max = mid
		}
	}
	return v
}

// plan splits text into segments and chooses the version, or uses
// version v if it is not 0.
func plan(text string, v coding.Version, l coding.Level) (coding.Version, []coding.Segment, error) {
	// Split string into spans.
	sp := classify(text)
	if v != 0 {
		if !v.IsValid() {
			return 0, nil, fmt.Errorf("%w %d", coding.ErrVersion, v)
		}
		seg := split(sp, v.SizeClass())
		if seg != nil && seg.weight > v.DataBits(l) {
			return 0, nil, fmt.Errorf("%w: %d bits in version %v-%v",
				ErrTooLong, seg.weight, v, l)
		}
		return v, segments(text, seg), nil
	}

	// Estimate minimum QR version size class in a crude manner.
	class := 0
	weight := bits(numMode, len(text), 0, class)
	for class < 2 && capacity(class, l) < weight {
		class++
	}
	// Split string into segments for the size class.
	seg := split(sp, class)
	if seg != nil { // seg is nil if text == ""
		weight = seg.weight
	}
	// If string is too big for the size class, increment class
	// and resplit.  The weight will change, hence the loop.
	for capacity(class, l) < weight {
		class++
		for class < 3 && capacity(class, l) < weight {
			class++
		}
		if class == 3 {
			return 0, nil, ErrTooLong
		}
		seg = split(sp, class)
		weight = seg.weight
	}
	return fit(class, l, weight), segments(text, seg), nil
}

// Encode returns an encoding of text at the given error correction
// level, choosing the mask with the lowest penalty.
func Encode(text string, level Level) (*Code, error) {
	cfg := DefaultConfig()
	cfg.Level = level
	return EncodeConfig(text, cfg)
}

// EncodeConfig returns an encoding of text according to cfg.
func EncodeConfig(text string, cfg Config) (*Code, error) {
	l := coding.Level(cfg.Level)
	if l < coding.L || l > coding.H {
		return nil, fmt.Errorf("%w %d", coding.ErrLevel, l)
	}
	v, segs, err := plan(text, cfg.Version, l)
	if err != nil {
		return nil, err
	}
	cc, err := coding.Encode(v, l, cfg.policy(), segs...)
	if err != nil {
		return nil, err
	}
	return newCode(cc), nil
}

// EncodeBytes returns an encoding of data in a single byte mode
// segment according to cfg.
func EncodeBytes(data []byte, cfg Config) (*Code, error) {
	l := coding.Level(cfg.Level)
	if l < coding.L || l > coding.H {
		return nil, fmt.Errorf("%w %d", coding.ErrLevel, l)
	}
	seg := coding.Segment{Text: string(data), Mode: coding.Byte}
	v := cfg.Version
	if v == 0 {
		for v = coding.MinVersion; ; v++ {
			if v > coding.MaxVersion {
				return nil, ErrTooLong
			}
			if seg.EncodedLength(v.SizeClass()) <= v.DataBits(l) {
				break
			}
		}
	} else if !v.IsValid() {
		return nil, fmt.Errorf("%w %d", coding.ErrVersion, v)
	} else if n := seg.EncodedLength(v.SizeClass()); n > v.DataBits(l) {
		return nil, fmt.Errorf("%w: %d bits in version %v-%v",
			ErrTooLong, n, v, l)
	}
	cc, err := coding.Encode(v, l, cfg.policy(), seg)
	if err != nil {
		return nil, err
	}
	return newCode(cc), nil
}

// EncodeAll encodes each of texts according to cfg concurrently.
// It returns the first error encountered, or ctx.Err() if ctx is
// cancelled before all texts are encoded.
func EncodeAll(ctx context.Context, texts []string, cfg Config) ([]*Code, error) {
	codes := make([]*Code, len(texts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, text := range texts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := EncodeConfig(text, cfg)
			if err != nil {
				return fmt.Errorf("text %d: %w", i+1, err)
			}
			codes[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return codes, nil
}
