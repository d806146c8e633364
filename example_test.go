// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr_test

import (
	"fmt"
	"log"
	"strings"

	qr "github.com/unixdj/qrencode"
	"github.com/unixdj/qrencode/coding"
)

func ExampleEncode() {
	c, err := qr.Encode("HELLO WORLD", qr.Q)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(c.Version, c.Level, c.Size)
	// Output: 1 Q 21
}

func ExampleEncodeConfig() {
	cfg, err := qr.LoadConfig(strings.NewReader("level: M\nversion: 3\nmask: 5\n"))
	if err != nil {
		log.Fatal(err)
	}
	c, err := qr.EncodeConfig("https://example.com/", cfg)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(c.Version, c.Level, c.Mask, c.Size)
	// Output: 3 M 5 29
}

func ExampleCode_EncodeText() {
	cfg := qr.DefaultConfig()
	cfg.Mask = coding.FixedMask(0)
	c, err := qr.EncodeConfig("1", cfg)
	if err != nil {
		log.Fatal(err)
	}
	var b strings.Builder
	if err := c.EncodeText(&b); err != nil {
		log.Fatal(err)
	}
	fmt.Println(strings.SplitN(b.String(), "\n", 2)[0][:8])
	// Output: 11111110
}
