// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level QR coding details: version
// tables, segment encoding, Reed-Solomon blocks, module placement and
// masking.
package coding // import "github.com/unixdj/qrencode/coding"

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrLevel   = errors.New("qr: invalid level")
	ErrVersion = errors.New("qr: invalid version")
)

// A Version represents a QR version.
// The version specifies the size of the QR code:
// a QR code with version v has 4v+17 pixels on a side.
// Versions run from 1 to 40: the larger the version, the more
// information the code can store.
type Version int

const (
	MinVersion Version = 1  // Minimum QR version
	MaxVersion Version = 40 // Maximum QR version
)

func (v Version) String() string { return strconv.Itoa(int(v)) }

// IsValid reports whether v is in the range 1 to 40.
func (v Version) IsValid() bool { return MinVersion <= v && v <= MaxVersion }

// QR version size classes.  The size class determines the length of
// segment character count fields.
const (
	Class0 = iota // QR versions 1 to 9
	Class1        // QR versions 10 to 26
	Class2        // QR versions 27 to 40
)

// SizeClass returns the size class of v, as documented under Class0.
func (v Version) SizeClass() int {
	if v <= 9 {
		return Class0
	}
	if v <= 26 {
		return Class1
	}
	return Class2
}

// Width returns the number of pixels on a side.
func (v Version) Width() int { return int(v)*4 + 17 }

// Codewords returns the total number of data and check bytes.
func (v Version) Codewords() int { return vtab[v].words }

// Remainder returns the number of remainder bits, pixels left over
// after placing all codewords.
func (v Version) Remainder() int { return vtab[v].remainder }

// DataBytes returns the number of data bytes that can be
// stored in a QR code with the given version and level.
func (v Version) DataBytes(l Level) int {
	vt := &vtab[v]
	return vt.words - vt.ecc[l]
}

// DataBits returns the number of data bits that can be
// stored in a QR code with the given version and level.
func (v Version) DataBits(l Level) int { return v.DataBytes(l) * 8 }

// A BlockSpec describes a group of Reed-Solomon blocks of equal size.
type BlockSpec struct {
	Count int // number of blocks
	Data  int // data bytes per block
	Check int // check bytes per block
}

// Blocks returns the block structure for the given version and level:
// one or two groups, the second with one more data byte per block.
func (v Version) Blocks(l Level) []BlockSpec {
	vt := &vtab[v]
	b1, b2 := vt.blocks[l][0], vt.blocks[l][1]
	data, check := v.DataBytes(l), vt.ecc[l]
	n := b1 + b2
	spec := []BlockSpec{{b1, data / n, check / n}}
	if b2 != 0 {
		spec = append(spec, BlockSpec{b2, data/n + 1, check / n})
	}
	return spec
}

// alignment returns the row and column coordinates of alignment
// pattern centres, including the timing strip.
func (v Version) alignment() []int {
	first, second := vtab[v].align[0], vtab[v].align[1]
	if first == 0 {
		return nil
	}
	pos := []int{6, first}
	if second == 0 {
		return pos
	}
	for p, d := second, second-first; p <= v.Width()-7; p += d {
		pos = append(pos, p)
	}
	return pos
}

// A Level represents a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 20% redundant
	M              // 38% redundant
	Q              // 55% redundant
	H              // 65% redundant
)

func (l Level) String() string {
	if L <= l && l <= H {
		return "LMQH"[l : l+1]
	}
	return strconv.Itoa(int(l))
}

// ParseLevel parses a level name, one of L, M, Q, H in either case.
func ParseLevel(s string) (Level, error) {
	if len(s) == 1 {
		for i, c := range "LMQH" {
			if s[0]&^0x20 == byte(c) {
				return Level(i), nil
			}
		}
	}
	return 0, fmt.Errorf("%w %q", ErrLevel, s)
}

func (l Level) MarshalText() ([]byte, error) {
	if l < L || l > H {
		return nil, fmt.Errorf("%w %d", ErrLevel, l)
	}
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	ll, err := ParseLevel(string(text))
	if err == nil {
		*l = ll
	}
	return err
}

func check(v Version, l Level) error {
	if !v.IsValid() {
		return fmt.Errorf("%w %d", ErrVersion, v)
	}
	if l < L || l > H {
		return fmt.Errorf("%w %d", ErrLevel, l)
	}
	return nil
}

// A version describes metadata associated with a version.
type version struct {
	words     int       // total codewords
	remainder int       // remainder bits
	ecc       [4]int    // check bytes per level
	blocks    [4][2]int // blocks in groups 1 and 2 per level
	align     [2]int    // 2nd and 3rd alignment coordinates
	pattern   int       // version information
}

// Version table, from qrencode-3.1.1/qrspec.c.
var vtab = [MaxVersion + 1]version{
	{},
	{26, 0, [4]int{7, 10, 13, 17}, [4][2]int{{1, 0}, {1, 0}, {1, 0}, {1, 0}}, [2]int{0, 0}, 0},                          // 1
	{44, 7, [4]int{10, 16, 22, 28}, [4][2]int{{1, 0}, {1, 0}, {1, 0}, {1, 0}}, [2]int{18, 0}, 0},                        // 2
	{70, 7, [4]int{15, 26, 36, 44}, [4][2]int{{1, 0}, {1, 0}, {2, 0}, {2, 0}}, [2]int{22, 0}, 0},                        // 3
	{100, 7, [4]int{20, 36, 52, 64}, [4][2]int{{1, 0}, {2, 0}, {2, 0}, {4, 0}}, [2]int{26, 0}, 0},                       // 4
	{134, 7, [4]int{26, 48, 72, 88}, [4][2]int{{1, 0}, {2, 0}, {2, 2}, {2, 2}}, [2]int{30, 0}, 0},                       // 5
	{172, 7, [4]int{36, 64, 96, 112}, [4][2]int{{2, 0}, {4, 0}, {4, 0}, {4, 0}}, [2]int{34, 0}, 0},                      // 6
	{196, 0, [4]int{40, 72, 108, 130}, [4][2]int{{2, 0}, {4, 0}, {2, 4}, {4, 1}}, [2]int{22, 38}, 0x07c94},              // 7
	{242, 0, [4]int{48, 88, 132, 156}, [4][2]int{{2, 0}, {2, 2}, {4, 2}, {4, 2}}, [2]int{24, 42}, 0x085bc},              // 8
	{292, 0, [4]int{60, 110, 160, 192}, [4][2]int{{2, 0}, {3, 2}, {4, 4}, {4, 4}}, [2]int{26, 46}, 0x09a99},             // 9
	{346, 0, [4]int{72, 130, 192, 224}, [4][2]int{{2, 2}, {4, 1}, {6, 2}, {6, 2}}, [2]int{28, 50}, 0x0a4d3},             // 10
	{404, 0, [4]int{80, 150, 224, 264}, [4][2]int{{4, 0}, {1, 4}, {4, 4}, {3, 8}}, [2]int{30, 54}, 0x0bbf6},             // 11
	{466, 0, [4]int{96, 176, 260, 308}, [4][2]int{{2, 2}, {6, 2}, {4, 6}, {7, 4}}, [2]int{32, 58}, 0x0c762},             // 12
	{532, 0, [4]int{104, 198, 288, 352}, [4][2]int{{4, 0}, {8, 1}, {8, 4}, {12, 4}}, [2]int{34, 62}, 0x0d847},           // 13
	{581, 3, [4]int{120, 216, 320, 384}, [4][2]int{{3, 1}, {4, 5}, {11, 5}, {11, 5}}, [2]int{26, 46}, 0x0e60d},          // 14
	{655, 3, [4]int{132, 240, 360, 432}, [4][2]int{{5, 1}, {5, 5}, {5, 7}, {11, 7}}, [2]int{26, 48}, 0x0f928},           // 15
	{733, 3, [4]int{144, 280, 408, 480}, [4][2]int{{5, 1}, {7, 3}, {15, 2}, {3, 13}}, [2]int{26, 50}, 0x10b78},          // 16
	{815, 3, [4]int{168, 308, 448, 532}, [4][2]int{{1, 5}, {10, 1}, {1, 15}, {2, 17}}, [2]int{30, 54}, 0x1145d},         // 17
	{901, 3, [4]int{180, 338, 504, 588}, [4][2]int{{5, 1}, {9, 4}, {17, 1}, {2, 19}}, [2]int{30, 56}, 0x12a17},          // 18
	{991, 3, [4]int{196, 364, 546, 650}, [4][2]int{{3, 4}, {3, 11}, {17, 4}, {9, 16}}, [2]int{30, 58}, 0x13532},         // 19
	{1085, 3, [4]int{224, 416, 600, 700}, [4][2]int{{3, 5}, {3, 13}, {15, 5}, {15, 10}}, [2]int{34, 62}, 0x149a6},       // 20
	{1156, 4, [4]int{224, 442, 644, 750}, [4][2]int{{4, 4}, {17, 0}, {17, 6}, {19, 6}}, [2]int{28, 50}, 0x15683},        // 21
	{1258, 4, [4]int{252, 476, 690, 816}, [4][2]int{{2, 7}, {17, 0}, {7, 16}, {34, 0}}, [2]int{26, 50}, 0x168c9},        // 22
	{1364, 4, [4]int{270, 504, 750, 900}, [4][2]int{{4, 5}, {4, 14}, {11, 14}, {16, 14}}, [2]int{30, 54}, 0x177ec},      // 23
	{1474, 4, [4]int{300, 560, 810, 960}, [4][2]int{{6, 4}, {6, 14}, {11, 16}, {30, 2}}, [2]int{28, 54}, 0x18ec4},       // 24
	{1588, 4, [4]int{312, 588, 870, 1050}, [4][2]int{{8, 4}, {8, 13}, {7, 22}, {22, 13}}, [2]int{32, 58}, 0x191e1},      // 25
	{1706, 4, [4]int{336, 644, 952, 1110}, [4][2]int{{10, 2}, {19, 4}, {28, 6}, {33, 4}}, [2]int{30, 58}, 0x1afab},      // 26
	{1828, 4, [4]int{360, 700, 1020, 1200}, [4][2]int{{8, 4}, {22, 3}, {8, 26}, {12, 28}}, [2]int{34, 62}, 0x1b08e},     // 27
	{1921, 3, [4]int{390, 728, 1050, 1260}, [4][2]int{{3, 10}, {3, 23}, {4, 31}, {11, 31}}, [2]int{26, 50}, 0x1cc1a},    // 28
	{2051, 3, [4]int{420, 784, 1140, 1350}, [4][2]int{{7, 7}, {21, 7}, {1, 37}, {19, 26}}, [2]int{30, 54}, 0x1d33f},     // 29
	{2185, 3, [4]int{450, 812, 1200, 1440}, [4][2]int{{5, 10}, {19, 10}, {15, 25}, {23, 25}}, [2]int{26, 52}, 0x1ed75},  // 30
	{2323, 3, [4]int{480, 868, 1290, 1530}, [4][2]int{{13, 3}, {2, 29}, {42, 1}, {23, 28}}, [2]int{30, 56}, 0x1f250},    // 31
	{2465, 3, [4]int{510, 924, 1350, 1620}, [4][2]int{{17, 0}, {10, 23}, {10, 35}, {19, 35}}, [2]int{34, 60}, 0x209d5},  // 32
	{2611, 3, [4]int{540, 980, 1440, 1710}, [4][2]int{{17, 1}, {14, 21}, {29, 19}, {11, 46}}, [2]int{30, 58}, 0x216f0},  // 33
	{2761, 3, [4]int{570, 1036, 1530, 1800}, [4][2]int{{13, 6}, {14, 23}, {44, 7}, {59, 1}}, [2]int{34, 62}, 0x228ba},   // 34
	{2876, 0, [4]int{570, 1064, 1590, 1890}, [4][2]int{{12, 7}, {12, 26}, {39, 14}, {22, 41}}, [2]int{30, 54}, 0x2379f}, // 35
	{3034, 0, [4]int{600, 1120, 1680, 1980}, [4][2]int{{6, 14}, {6, 34}, {46, 10}, {2, 64}}, [2]int{24, 50}, 0x24b0b},   // 36
	{3196, 0, [4]int{630, 1204, 1770, 2100}, [4][2]int{{17, 4}, {29, 14}, {49, 10}, {24, 46}}, [2]int{28, 54}, 0x2542e}, // 37
	{3362, 0, [4]int{660, 1260, 1860, 2220}, [4][2]int{{4, 18}, {13, 32}, {48, 14}, {42, 32}}, [2]int{32, 58}, 0x26a64}, // 38
	{3532, 0, [4]int{720, 1316, 1950, 2310}, [4][2]int{{20, 4}, {40, 7}, {43, 22}, {10, 67}}, [2]int{26, 54}, 0x27541},  // 39
	{3706, 0, [4]int{750, 1372, 2040, 2430}, [4][2]int{{19, 6}, {18, 31}, {34, 34}, {20, 61}}, [2]int{30, 58}, 0x28c69}, // 40
}
