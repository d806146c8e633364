// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
)

// Predefined encoding modes.
const (
	Numeric       Mode = iota // numeric mode, ASCII-compatible text
	Alphanumeric              // alphanumeric mode, ASCII-compatible text
	Byte                      // byte mode, any data
	Kanji                     // kanji mode, UTF-8 text
	Latin1                    // byte mode, UTF-8 text encoded as ISO 8859-1
	ShiftJISKanji             // kanji mode, Shift JIS text
)

// A Mode is a QR segment encoder.
type Mode int16

// ModeEncoder implements a QR segment encoding.
//
// The segment is validated using either Valid or CutRune and Accepts.
// Text mode encoders other than Numeric, Alphanumeric, Byte and
// ShiftJISKanji must have a Transform function returning a segment of
// one of those modes.  The encoder calls it after validation and
// validates the returned segment before encoding.
//
// Name, Indicator and CountLength must be set.
type ModeEncoder struct {
	Name      string // Name for error reporting
	Indicator byte   // 4 bit mode indicator

	// CountLength lists lengths of the character count field in
	// three QR version size classes.
	CountLength [3]byte

	// EncodedLength returns the encoded data length in bits of a valid
	// string of the given length in bytes and runes.
	EncodedLength func(bytes, runes int) int

	// Valid reports whether the string is valid for the encoding mode.
	// If nil, the string is validated using CutRune and Accepts.
	Valid func(string) bool

	// CutRune returns the first rune in the string and its width in
	// bytes.  If nil, utf8.DecodeRuneInString is used.
	CutRune func(string) (rune, int)

	// Accepts reports whether the encoding mode accepts the rune.
	// If nil, any rune is accepted.
	Accepts func(rune) bool

	// Transform returns a segment of another Mode with the string
	// transformed for encoding and a boolean indicating whether the
	// transform was successful.  The target Mode must have Transform
	// unset.  If nil, the original segment is used.
	Transform func(string) (Segment, bool)

	// Count returns the character count of the transformed string.
	// If nil, the length of the string in bytes is used.
	Count func(string) int

	// Encode3, Encode2 and Encode1 return the encoding of the bytes
	// and its length in bits.  The encoder calls a non-nil Encode{N}
	// repeatedly as long as N source bytes are available, in
	// descending order of N.  If all are nil, each byte is encoded as
	// 8 bits.  The encoder panics if not all bytes are consumed.
	Encode3 func([3]byte) (uint32, int)
	Encode2 func([2]byte) (uint32, int)
	Encode1 func(byte) (uint32, int)
}

const alphamask uint64 = 0x07fffffe_07ffec31 // SPACE $% *+ -./ [0-9] : [A-Z]

// Alphanumeric encoding table.  Used after validation.
// "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"
var alpha = [64]byte{
	00, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, // 0x40
	25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 00, 00, 00, 00, 00, // 0x50
	36, 00, 00, 00, 37, 38, 00, 00, 00, 00, 39, 40, 00, 41, 42, 43, // 0x20
	00, 01, 02, 03, 04, 05, 06, 07, 010, 9, 44, 00, 00, 00, 00, 00, // 0x30
}

// IsAlphanumeric reports whether r is in the QR alphanumeric set.
func IsAlphanumeric(r rune) bool {
	return alphamask>>(uint32(r)-' ')&1 != 0
}

// IsKanji reports whether the Unicode rune r has a Shift JIS encoding
// in the QR Kanji ranges 0x8140-0x9ffc and 0xe040-0xebbf.
func IsKanji(r rune) bool {
	if r < 0x80 {
		return false
	}
	s, err := japanese.ShiftJIS.NewEncoder().String(string(r))
	if err != nil || len(s) != 2 {
		return false
	}
	c := uint16(s[0])<<8 | uint16(s[1])
	return 0x8140 <= c && c <= 0x9ffc || 0xe040 <= c && c <= 0xebbf
}

// isShiftJISKanji reports whether a big endian Shift JIS character
// is encodable in kanji mode.
func isShiftJISKanji(r rune) bool {
	lo := r & 0xff
	return lo >= 0x40 && lo != 0x7f && lo <= 0xfc &&
		(0x8140 <= r && r <= 0x9ffc || 0xe040 <= r && r <= 0xebbf)
}

var _stdmodes = []ModeEncoder{
	Numeric: {
		Name:          "numeric",
		Indicator:     1,
		CountLength:   [3]byte{10, 12, 14},
		EncodedLength: func(b, r int) int { return (10*b + 2) / 3 },
		Accepts:       func(r rune) bool { return uint32(r-'0') < 10 },
		Encode1: func(b byte) (uint32, int) {
			return uint32(b - '0'), 4
		},
		Encode2: func(b [2]byte) (uint32, int) {
			return uint32(b[0]-'0')*10 + uint32(b[1]-'0'), 7
		},
		Encode3: func(b [3]byte) (uint32, int) {
			return uint32(b[0]-'0')*100 + uint32(b[1]-'0')*10 +
				uint32(b[2]-'0'), 10
		},
	},
	Alphanumeric: {
		Name:          "alphanumeric",
		Indicator:     2,
		CountLength:   [3]byte{9, 11, 13},
		EncodedLength: func(b, r int) int { return (11*b + 1) / 2 },
		Accepts:       IsAlphanumeric,
		Encode1: func(b byte) (uint32, int) {
			return uint32(alpha[b&0x3f]), 6
		},
		Encode2: func(b [2]byte) (uint32, int) {
			return uint32(alpha[b[0]&0x3f])*45 +
				uint32(alpha[b[1]&0x3f]), 11
		},
	},
	Byte: {
		Name:        "byte",
		Indicator:   4,
		CountLength: [3]byte{8, 16, 16},
	},
	Kanji: {
		Name:          "kanji",
		Indicator:     8,
		CountLength:   [3]byte{8, 10, 12},
		EncodedLength: func(b, r int) int { return r * 13 },
		Accepts:       IsKanji,
		Transform: func(s string) (Segment, bool) {
			t, err := japanese.ShiftJIS.NewEncoder().String(s)
			return Segment{t, ShiftJISKanji}, err == nil
		},
	},
	Latin1: {
		Name:          "latin-1",
		Indicator:     4,
		CountLength:   [3]byte{8, 16, 16},
		EncodedLength: func(b, r int) int { return r * 8 },
		Accepts:       func(r rune) bool { return uint32(r) < 0x100 },
		Transform: func(s string) (Segment, bool) {
			t, err := charmap.ISO8859_1.NewEncoder().String(s)
			return Segment{t, Byte}, err == nil
		},
	},
	ShiftJISKanji: {
		Name:          "shift-jis-kanji",
		Indicator:     8,
		CountLength:   [3]byte{8, 10, 12},
		EncodedLength: func(b, r int) int { return b >> 1 * 13 },
		Count:         func(s string) int { return len(s) >> 1 },
		CutRune: func(s string) (rune, int) {
			if len(s) > 1 {
				return rune(s[0])<<8 | rune(s[1]), 2
			}
			return rune(s[0]), 1
		},
		Accepts: isShiftJISKanji,
		Encode2: func(b [2]byte) (uint32, int) {
			c := uint32(b[0])<<8 | uint32(b[1])
			if c >= 0xe040 {
				c -= 0xc140
			} else {
				c -= 0x8140
			}
			return c>>8*0xc0 + c&0xff, 13
		},
	},
}

var (
	modep    atomic.Pointer[[]ModeEncoder] // modes
	modeLock sync.Mutex                    // write lock
)

func init() { modep.Store(&_stdmodes) }

func getMode(mode Mode) *ModeEncoder {
	if modes := *modep.Load(); mode >= 0 && int(mode) < len(modes) {
		return &modes[mode]
	}
	return nil
}

func (mode Mode) String() string {
	if m := getMode(mode); m != nil {
		return m.Name
	}
	return strconv.Itoa(int(mode))
}

// GetMode returns a copy of ModeEncoder for the mode.  It can be used
// to base the implementation of a new mode on an existing one.
func GetMode(mode Mode) *ModeEncoder {
	if m := getMode(mode); m != nil {
		mm := *m
		return &mm
	}
	return nil
}

// AddMode registers an encoding mode, returning its number on success
// or -1 on failure.  The number of modes is limited to 32768.
func AddMode(m *ModeEncoder) Mode {
	var mode Mode = -1
	modeLock.Lock()
	if modes := *modep.Load(); len(modes) < 0x8000 {
		mode = Mode(len(modes))
		modes = append(modes[:len(modes):len(modes)], *m)
		modep.Store(&modes)
	}
	modeLock.Unlock()
	return mode
}

// length returns the length in bits of a valid string of the given
// length in bytes and runes encoded in mode at the given QR version
// size class, including the header.
func (m *ModeEncoder) length(bytes, runes, class int) int {
	n := 4 + int(m.CountLength[class])
	if f := m.EncodedLength; f != nil {
		n += f(bytes, runes)
	} else {
		n += bytes * 8
	}
	return n
}

// Length returns the length in bits of a valid string of the given
// length in bytes and runes encoded in mode at the given QR version
// size class, including the header.  Length returns 0 if and only if
// mode is invalid.
func (mode Mode) Length(bytes, runes int, class int) int {
	n := 0
	if m := getMode(mode); m != nil {
		n = m.length(bytes, runes, class)
	}
	return n
}

// Is reports whether r is encodable in mode.
func Is(r rune, mode Mode) bool {
	m := getMode(mode)
	return m != nil && (m.Accepts == nil || m.Accepts(r))
}

// A Segment describes a QR code segment.
type Segment struct {
	Text string // data to encode
	Mode Mode   // encoding mode
}

// SegmentError represents an invalid Segment.
type SegmentError Segment

func (e SegmentError) Error() string {
	if m := getMode(e.Mode); m != nil {
		return fmt.Sprintf("qr: non-%s string %#q", m.Name, e.Text)
	}
	return fmt.Sprintf("qr: invalid mode %d", e.Mode)
}

// ModeError represents an invalid Mode number or ModeEncoder.
type ModeError Mode

func (e ModeError) Error() string {
	return fmt.Sprintf("qr: invalid mode %s", Mode(e))
}

// isValid reports whether seg is encodable.
func (m *ModeEncoder) isValid(seg Segment) bool {
	if f := m.Valid; f != nil {
		return f(seg.Text)
	} else if is := m.Accepts; is != nil {
		if seg.Mode < Byte {
			for i := 0; i < len(seg.Text); i++ {
				if !is(rune(seg.Text[i])) {
					return false
				}
			}
		} else if cut := m.CutRune; cut != nil {
			for s := seg.Text; s != ""; {
				r, sz := cut(s)
				s = s[sz:]
				if !is(r) {
					return false
				}
			}
		} else {
			for _, r := range seg.Text {
				if !is(r) {
					return false
				}
			}
		}
	}
	return true
}

// IsValid reports whether seg is encodable.
func (seg Segment) IsValid() bool {
	if m := getMode(seg.Mode); m != nil {
		return m.isValid(seg)
	}
	return false
}

// EncodedLength returns the encoded length in bits of seg in the
// given QR version size class.  EncodedLength returns 0 if and only
// if mode is invalid.  The segment is not validated.
func (seg Segment) EncodedLength(class int) int {
	var rlen int
	m := getMode(seg.Mode)
	if m == nil {
		return 0
	} else if el := m.EncodedLength; el == nil || el(0, 0x100) == 0 {
	} else if cut := m.CutRune; cut != nil {
		for s := seg.Text; s != ""; rlen++ {
			_, sz := cut(s)
			s = s[sz:]
		}
	} else {
		rlen = utf8.RuneCountInString(seg.Text)
	}
	return m.length(len(seg.Text), rlen, class)
}

// transform transforms seg for encoding.  The transformed segment is
// not validated.
func (seg Segment) transform() (Segment, *ModeEncoder, error) {
	if m := getMode(seg.Mode); m == nil {
		return Segment{}, nil, ModeError(seg.Mode)
	} else if m.Transform == nil {
		return seg, m, nil
	} else if !m.isValid(seg) {
		return Segment{}, nil, SegmentError(seg)
	} else if ts, ok := m.Transform(seg.Text); !ok {
		return Segment{}, nil, SegmentError(seg)
	} else if m = getMode(ts.Mode); m == nil || m.Transform != nil {
		return Segment{}, nil, ModeError(seg.Mode)
	} else {
		return ts, m, nil
	}
}

// Encode writes seg encoded for the given QR version size class to b.
func (seg Segment) Encode(b *Bits, class int) error {
	ts, m, err := seg.transform()
	if err != nil {
		return err
	} else if !m.isValid(ts) {
		return SegmentError(seg)
	}
	// write header
	s := ts.Text
	b.Write(uint32(m.Indicator), 4)
	w := len(s)
	if m.Count != nil {
		w = m.Count(s)
	}
	if w >= 1<<m.CountLength[class] {
		return fmt.Errorf("qr: %s segment too long: %d", m.Name, w)
	}
	b.Write(uint32(w), int(m.CountLength[class]))
	// encode the string
	enc3, enc2, enc1 := m.Encode3, m.Encode2, m.Encode1
	if enc3 == nil && enc2 == nil && enc1 == nil {
		for i := 0; i < len(s); i++ {
			b.Write(uint32(s[i]), 8)
		}
		return nil
	}
	if enc3 != nil {
		for len(s) >= 3 {
			b.Write(enc3([3]byte{s[0], s[1], s[2]}))
			s = s[3:]
		}
	}
	if enc2 != nil {
		for len(s) >= 2 {
			b.Write(enc2([2]byte{s[0], s[1]}))
			s = s[2:]
		}
	}
	if enc1 != nil {
		for len(s) >= 1 {
			b.Write(enc1(s[0]))
			s = s[1:]
		}
	}
	if s != "" {
		panic("qr: " + m.Name + " mode internal error")
	}
	return nil
}
