// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image/color"
	"io"
	"math/rand/v2"
	"os"
	"path"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"

	"github.com/unixdj/qrencode"
	"github.com/unixdj/qrencode/coding"
)

var g = struct {
	cfg     qr.Config       // encoding configuration
	scale   int             // scale
	border  int             // quiet zone
	palette *[2]color.Color // palette
	rev     bool            // reverse colours
	fn      string          // filename
	fext    string          // filename suffix
	format  int             // output file format
	batch   bool            // one code per input line
	bytes   bool            // byte mode only
	bg, fg  rgba            // colour
	colSet  bool            // colour set
}{
	bg: rgba{0xff, 0xff, 0xff, 0xff},
	fg: rgba{0x00, 0x00, 0x00, 0xff},
}

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "qr",
})

func printUsage(w io.Writer) {
	cl := getopt.CommandLine
	prog := cl.Program()
	fmt.Fprint(w, "QR code generator\nUsage: ", prog, " ",
		cl.UsageLine(), ` [string ...]
If no string is given, data is read from standard input and the final
newline is stripped.  With -b, each input line or argument is encoded
as a separate code.

`)
	var b bytes.Buffer
	cl.PrintOptions(&b)
	w.Write(b.Bytes())
}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

func usage() {
	printUsage(os.Stderr)
	os.Exit(2)
}

func help() {
	printUsage(os.Stdout)
	os.Exit(0)
}

func version() {
	fmt.Println(`qr version 0.9.0
Copyright (c) 2011 The Go Authors
Copyright (c) 2025 Vadim Vygonets`)
	os.Exit(0)
}

type rgba struct {
	R, G, B, A uint8
}

func (c *rgba) String() string {
	if *c == (rgba{0x00, 0x00, 0x00, 0xff}) {
		return "black"
	} else if *c == (rgba{0xff, 0xff, 0xff, 0xff}) {
		return "white"
	} else if c.A == 0xff {
		return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
	} else {
		return fmt.Sprintf("%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
}

func (c *rgba) Set(s string, _ getopt.Option) error {
	g.colSet = true
	switch strings.ToLower(s) {
	case "black":
		*c = rgba{0x00, 0x00, 0x00, 0xff}
		return nil
	case "white":
		*c = rgba{0xff, 0xff, 0xff, 0xff}
		return nil
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("%q: bad colour spec", s)
	}
	switch len(s) {
	case 3:
		n = n<<4 | 0xf
		fallthrough
	case 4:
		var nn uint64
		for i := 0; i < 4; i++ {
			nn <<= 8
			nn |= n >> 12 & 0xf * 0x11
			n <<= 4
		}
		n = nn
	case 6:
		n = n<<8 | 0xff
	case 8:
	default:
		return fmt.Errorf("%q: bad colour spec", s)
	}
	c.R, c.G, c.B, c.A = uint8(n>>24), uint8(n>>16), uint8(n>>8), uint8(n)
	return nil
}

var formats = []string{
	"png", "pngi", "pbm", "pbmi", "svg", "svgi",
	"utf8", "utf8i", "ascii", "asciii", "text",
}

var exts = []string{".png", ".pbm", ".svg", ".txt", ".txt", ".txt"}

var encoders = [...]func(*qr.Code, io.Writer) error{
	(*qr.Code).EncodePNG,
	(*qr.Code).EncodePBM,
	(*qr.Code).EncodeSVG,
	func(c *qr.Code, w io.Writer) error {
		_, err := fmt.Fprint(w, c)
		return err
	},
	(*qr.Code).EncodeASCII,
	(*qr.Code).EncodeText,
}

func parseFlags() {
	getopt.SetUsage(usage)
	getopt.Flag(opt(help), 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version and copyright").SetFlag()
	getopt.FlagLong(&g.bg, "background", 'B', `background colour; see -F`,
		"RGB[A]|name")
	getopt.FlagLong(&g.fg, "foreground", 'F', `foreground colour `+
		`as 3, 4, 6 or 8 hex digits, "black" or "white"; `+
		`only for types png[i] and svg[i]`, "RGB[A]|name")
	debug := getopt.Bool('d', "debug logging")
	cfgFile := getopt.String('c', "", "YAML configuration file "+
		"with keys level, version, mask and seed", "file")
	getopt.Flag(&g.batch, 'b', `batch mode: encode each line `+
		`concurrently; with -o, "-01", "-02" etc. is appended `+
		`to the filename before suffix`)
	getopt.Flag(&g.bytes, '8', "encode entire data in byte mode")
	border := getopt.Unsigned('m', qr.DefaultBorder,
		&getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 0, Max: 1 << 10},
		"quiet zone pixels", "margin")
	fno := getopt.Flag(&g.fn, 'o', `output file, or "-" for `+
		`standard output`, "file")
	ver := getopt.Unsigned('v', 0, &getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 0, Max: 40},
		"QR code version, 0 for smallest", "ver")
	lev := getopt.Enum('l',
		[]string{"l", "m", "q", "h", "L", "M", "Q", "H"}, "l",
		"error correction level, lowest to highest", "l|m|q|h")
	mask := getopt.String('k', "auto", `mask: "auto" for best of all, `+
		`0-7, or "random:N" for best of N random masks`, "mask")
	seed := getopt.Unsigned('S', 0, &getopt.UnsignedLimit{Base: 0, Bits: 64, Min: 0, Max: 0},
		"seed for random masks, 0 for a random seed", "seed")
	scale := getopt.Unsigned('s', qr.DefaultScale,
		&(getopt.UnsignedLimit{Base: 0, Bits: 28, Min: 1, Max: 1 << 12}),
		`image pixels per QR module ("pixel"); `+
			`ignored for text types`, "scale")
	ff := getopt.Enum('t', formats, "", `output format, one of: `+
		strings.Join(formats, ", ")+
		`; types with "i" appended have colours inverted; `+
		`if no -o is given and standard output is a TTY, `+
		`default is utf8, otherwise png`, "type")

	getopt.Parse()
	if *debug {
		logger.SetLevel(log.DebugLevel)
	}

	g.cfg = qr.DefaultConfig()
	if *cfgFile != "" {
		f, err := os.Open(*cfgFile)
		if err != nil {
			logger.Fatal("config", "err", err)
		}
		g.cfg, err = qr.LoadConfig(f)
		f.Close()
		if err != nil {
			logger.Fatal("config", "file", *cfgFile, "err", err)
		}
	}
	if getopt.IsSet('l') {
		g.cfg.Level = qr.Level(strings.Index("lmqhLMQH", *lev) & 3)
	}
	if getopt.IsSet('v') {
		g.cfg.Version = coding.Version(*ver)
	}
	if getopt.IsSet('k') {
		if err := g.cfg.Mask.UnmarshalText([]byte(*mask)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			usage()
		}
	}
	if getopt.IsSet('S') {
		g.cfg.Seed = uint64(*seed)
	}
	if g.cfg.Seed == 0 {
		g.cfg.Seed = rand.Uint64()
	}
	g.scale = int(*scale)
	g.border = int(*border)
	if *ff == "" {
		if !fno.Seen() && isatty.IsTerminal(uintptr(syscall.Stdout)) {
			*ff = "utf8"
		} else {
			*ff = "png"
		}
	}
	for i, v := range formats {
		if *ff == v {
			g.format = i >> 1
			g.rev = i&1 != 0
			break
		}
	}
	if g.fn == "-" {
		g.fn = ""
	}
	if g.colSet {
		g.palette = &[2]color.Color{color.RGBA(g.bg), color.RGBA(g.fg)}
	}
	logger.Debug("config", "level", g.cfg.Level, "version",
		g.cfg.Version, "mask", g.cfg.Mask, "seed", g.cfg.Seed,
		"type", *ff)
}

// input returns the strings to encode.
func input() []string {
	args := getopt.Args()
	if len(args) != 0 {
		if g.batch {
			return args
		}
		return []string{strings.Join(args, " ")}
	}
	if g.batch {
		var lines []string
		sc := bufio.NewScanner(os.Stdin)
		sc.Buffer(nil, 1<<20)
		for sc.Scan() {
			lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
		}
		if err := sc.Err(); err != nil {
			logger.Fatal("read", "err", err)
		}
		return lines
	}
	var b strings.Builder
	if _, err := io.Copy(&b, os.Stdin); err != nil {
		logger.Fatal("read", "err", err)
	}
	s, _ := strings.CutSuffix(
		strings.ReplaceAll(b.String(), "\r\n", "\n"), "\n")
	return []string{s}
}

func main() {
	parseFlags()
	texts := input()

	var cc []*qr.Code
	var err error
	switch {
	case g.batch && !g.bytes:
		cc, err = qr.EncodeAll(context.Background(), texts, g.cfg)
	default:
		cc = make([]*qr.Code, len(texts))
		for i, s := range texts {
			if g.bytes {
				cc[i], err = qr.EncodeBytes([]byte(s), g.cfg)
			} else {
				cc[i], err = qr.EncodeConfig(s, g.cfg)
			}
			if err != nil {
				break
			}
		}
	}
	if err != nil {
		logger.Fatal("encode", "err", err)
	}

	if g.batch {
		g.fext = path.Ext(g.fn)
		g.fn = g.fn[:len(g.fn)-len(g.fext)]
		if g.fn != "" && g.fext == "" {
			g.fext = exts[g.format]
		}
	}
	for i, c := range cc {
		logger.Debug("encoded", "n", i+1, "version", c.Version,
			"level", c.Level, "mask", c.Mask, "penalty", c.Penalty,
			"size", c.Size)
		if !g.batch {
			i = -1
		}
		write(i, c)
	}
}

func write(i int, c *qr.Code) {
	fn := g.fn
	open := fn != "" || g.fext != ""
	var w = os.Stdout
	if open {
		if i >= 0 {
			fn = fmt.Sprintf("%s-%02d%s", fn, i+1, g.fext)
		}
		var err error
		if w, err = os.OpenFile(fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			0666); err != nil {
			logger.Fatal("open", "err", err)
		}
	}
	c.Scale = g.scale
	c.Border = g.border
	c.Palette = g.palette
	c.Reverse = g.rev
	err := encoders[g.format](c, w)
	if open && err == nil {
		err = w.Close()
	}
	if err != nil {
		logger.Fatal("write", "file", fn, "err", err)
	}
}
