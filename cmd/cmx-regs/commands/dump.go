package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
)

// DumpOptions configures the dump command.
type DumpOptions struct {
	globalFlags
	Module string
	JSON   bool
}

// DumpEntry is one line of the address map.
type DumpEntry struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Name     string `json:"name"`
	Contents string `json:"contents"`
}

// RunDump prints the address map of every register instance.
func RunDump(args []string, stdout, stderr io.Writer) int {
	opts, err := parseDumpArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	e, err := opts.resolve(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	var entries []DumpEntry
	for _, loc := range e.table.Instances() {
		if opts.Module != "" && loc.Module != opts.Module {
			continue
		}
		span := loc.Span()
		entries = append(entries, DumpEntry{
			Start:    fmt.Sprintf("0x%04x", span.Start),
			End:      fmt.Sprintf("0x%04x", span.End-1),
			Name:     loc.Name(),
			Contents: loc.Register.Contents.String(),
		})
	}
	if opts.Module != "" && len(entries) == 0 {
		fmt.Fprintf(stderr, "Error: unknown module %s\n", opts.Module)
		return exitCommandError
	}

	if opts.JSON {
		out, _ := json.MarshalIndent(entries, "", "  ")
		fmt.Fprintln(stdout, string(out))
		return exitSuccess
	}
	for _, d := range entries {
		fmt.Fprintf(stdout, "%s - %s %-40s %s\n", d.Start, d.End, d.Name, d.Contents)
	}
	return exitSuccess
}

func parseDumpArgs(args []string) (DumpOptions, error) {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	opts := DumpOptions{}
	opts.register(fs)
	fs.StringVar(&opts.Module, "module", "", "Only dump the named module")
	fs.BoolVar(&opts.JSON, "json", false, "Output as JSON")
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}
