package commands

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/clockmatrix/idt8a3xxxx-go/pkg/regmap"
)

// RunDecode decodes register bytes. The contents kind comes from -kind or
// from -register, which names a register path or address.
//
//	cmx-regs decode -kind Word24 de 01 ce
//	cmx-regs decode -register TOD_READ_PRIMARY_0.TOD_READ_PRIMARY_VALUE 0000000000007776 5d0000
func RunDecode(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	var g globalFlags
	g.register(fs)
	kind := fs.String("kind", "", "Contents kind (Byte, Word, ..., Frequency, TimeOfDay)")
	reg := fs.String("register", "", "Register path or address that fixes the kind")
	fs.Usage = func() {}
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	e, err := g.resolve(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	c, name, err := contentsFor(e.table, *kind, *reg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	data, err := parseHex(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	p, err := regmap.FromSlice(c, data)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if len(data) > c.Size() {
		e.logger.Warn("ignoring trailing bytes", "kind", c.String(), "extra", len(data)-c.Size())
	}

	if name != "" {
		fmt.Fprintf(stdout, "%s: ", name)
	}
	fmt.Fprintf(stdout, "%s = %d\n", p, p.Value())
	if m, n, ok := p.Ratio(); ok {
		fmt.Fprintf(stdout, "  ratio: %d / %d\n", m, n)
	}
	return exitSuccess
}

// RunEncode encodes a value into register bytes.
//
//	cmx-regs encode -kind Frequency 25000000
func RunEncode(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	var g globalFlags
	g.register(fs)
	kind := fs.String("kind", "", "Contents kind (Byte, Word, ..., Frequency)")
	reg := fs.String("register", "", "Register path or address that fixes the kind")
	fs.Usage = func() {}
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: exactly one value required")
		return exitCommandError
	}

	e, err := g.resolve(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	c, _, err := contentsFor(e.table, *kind, *reg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	v, err := strconv.ParseUint(fs.Arg(0), 0, 64)
	if err != nil {
		fmt.Fprintf(stderr, "Error: invalid value %q\n", fs.Arg(0))
		return exitCommandError
	}

	buf := make([]byte, c.Size())
	p, err := regmap.IntoSlice(c, v, buf)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if p.Value() != v {
		e.logger.Warn("value truncated", "kind", c.String(), "value", v, "stored", p.Value())
	}
	fmt.Fprintf(stdout, "% x\n", p.Data)
	return exitSuccess
}

func contentsFor(table *regmap.Table, kind, reg string) (regmap.Contents, string, error) {
	switch {
	case kind != "" && reg != "":
		return 0, "", errors.New("-kind and -register are mutually exclusive")
	case kind != "":
		c, err := regmap.ParseContents(kind)
		return c, "", err
	case reg != "":
		loc, err := lookup(table, reg)
		if err != nil {
			return 0, "", err
		}
		return loc.Register.Contents, loc.Name(), nil
	default:
		return 0, "", errors.New("-kind or -register required")
	}
}

// parseHex joins args and decodes them as hex, ignoring spaces, colons and
// 0x prefixes.
func parseHex(args []string) ([]byte, error) {
	var sb strings.Builder
	for _, a := range args {
		for _, f := range strings.FieldsFunc(a, func(r rune) bool { return r == ' ' || r == ':' || r == ',' }) {
			sb.WriteString(strings.TrimPrefix(strings.ToLower(f), "0x"))
		}
	}
	if sb.Len() == 0 {
		return nil, errors.New("no bytes specified")
	}
	data, err := hex.DecodeString(sb.String())
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return data, nil
}
