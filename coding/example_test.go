// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding_test

import (
	"fmt"
	"log"
	"strings"

	"github.com/unixdj/qrencode/coding"
)

// upperAlnum creates an alphanumeric mode encoder that accepts lower
// case letters and converts them to upper case.
func upperAlnum() coding.Mode {
	m := coding.GetMode(coding.Alphanumeric)
	// Use original CountLength, EncodedLength and Encode*.
	m.Name = "upper-" + m.Name
	m.Accepts = func(r rune) bool {
		return coding.IsAlphanumeric(r) || 'a' <= r && r <= 'z'
	}
	// Transform returns a segment of the original mode.
	m.Transform = func(s string) (coding.Segment, bool) {
		return coding.Segment{
			Text: strings.ToUpper(s),
			Mode: coding.Alphanumeric,
		}, true
	}
	return coding.AddMode(m)
}

func ExampleAddMode() {
	upper := upperAlnum()
	c, err := coding.Encode(1, coding.M, coding.FixedMask(2),
		coding.Segment{Text: "hello world", Mode: upper})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(upper, c.Version, c.Level, c.Mask, c.Size)
	// Output: upper-alphanumeric 1 M 2 21
}

func ExampleEncoder() {
	e, err := coding.NewEncoder(2, coding.Q)
	if err != nil {
		log.Fatal(err)
	}
	err = e.Write(
		coding.Segment{Text: "TEL:", Mode: coding.Alphanumeric},
		coding.Segment{Text: "0123456789", Mode: coding.Numeric},
	)
	if err != nil {
		log.Fatal(err)
	}
	c, err := e.Code(coding.BestMask())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(c.Size, c.Black(0, 0), c.Black(7, 7))
	// Output: 25 true false
}
