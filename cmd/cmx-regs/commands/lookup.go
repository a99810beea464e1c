package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/clockmatrix/idt8a3xxxx-go/pkg/regmap"
)

// LookupOutput describes one register instance.
type LookupOutput struct {
	Query      string `json:"query"`
	Name       string `json:"name"`
	Module     string `json:"module"`
	Instance   int    `json:"instance"`
	Address    string `json:"address"`
	End        string `json:"end"`
	Contents   string `json:"contents"`
	Size       int    `json:"size"`
	Page       string `json:"page"`
	Offset     string `json:"offset"`
	PageSelect string `json:"page_select"`
}

type lookupOptions struct {
	globalFlags
	json    bool
	queries []string
}

// RunLookup resolves register paths (DPLL[0].DPLL_MODE) or addresses
// (0xc3e7) and prints where the register lives and how to reach it.
func RunLookup(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	opts := lookupOptions{}
	opts.register(fs)
	fs.BoolVar(&opts.json, "json", false, "Output as JSON")
	fs.Usage = func() {}
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	opts.queries = fs.Args()
	if len(opts.queries) == 0 {
		fmt.Fprintln(stderr, "Error: no register path or address specified")
		return exitCommandError
	}

	e, err := opts.resolve(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	var results []LookupOutput
	code := exitSuccess
	for _, q := range opts.queries {
		loc, err := lookup(e.table, q)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %s: %v\n", q, err)
			code = exitCommandError
			continue
		}
		span := loc.Span()
		results = append(results, LookupOutput{
			Query:      q,
			Name:       loc.Name(),
			Module:     loc.Module,
			Instance:   loc.Instance,
			Address:    fmt.Sprintf("0x%04x", span.Start),
			End:        fmt.Sprintf("0x%04x", span.End-1),
			Contents:   loc.Register.Contents.String(),
			Size:       loc.Register.Size(),
			Page:       fmt.Sprintf("0x%02x", regmap.Page(loc.Address)),
			Offset:     fmt.Sprintf("0x%02x", regmap.Offset(loc.Address)),
			PageSelect: e.cfg.PageMode.Select(loc.Address).String(),
		})
	}

	if opts.json {
		out, _ := json.MarshalIndent(results, "", "  ")
		fmt.Fprintln(stdout, string(out))
		return code
	}
	for _, r := range results {
		fmt.Fprintf(stdout, "%s\n", r.Name)
		fmt.Fprintf(stdout, "  Address:  %s - %s (%s, %d bytes)\n", r.Address, r.End, r.Contents, r.Size)
		fmt.Fprintf(stdout, "  Page:     %s  Offset: %s\n", r.Page, r.Offset)
		fmt.Fprintf(stdout, "  Select:   %s\n", r.PageSelect)
	}
	return code
}

// lookup resolves q as an address when it starts with a digit, otherwise as
// a register path.
func lookup(table *regmap.Table, q string) (regmap.Location, error) {
	if q != "" && q[0] >= '0' && q[0] <= '9' {
		addr, err := parseAddress(q)
		if err != nil {
			return regmap.Location{}, err
		}
		loc, ok := table.At(addr)
		if !ok {
			return regmap.Location{}, fmt.Errorf("%w: no register at 0x%04x", regmap.ErrNotFound, addr)
		}
		return loc, nil
	}
	return table.Resolve(q)
}

// RunPage prints the page-select write for each address.
func RunPage(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("page", flag.ContinueOnError)
	var g globalFlags
	g.register(fs)
	fs.Usage = func() {}
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "Error: no address specified")
		return exitCommandError
	}
	e, err := g.resolve(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	for _, a := range fs.Args() {
		addr, err := parseAddress(a)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitCommandError
		}
		sel := e.cfg.PageMode.Select(addr)
		fmt.Fprintf(stdout, "0x%04x: %s; offset 0x%02x (%s)\n",
			addr, sel, regmap.Offset(addr), e.cfg.PageMode)
	}
	return exitSuccess
}
