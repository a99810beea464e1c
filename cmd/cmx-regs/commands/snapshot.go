package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/clockmatrix/idt8a3xxxx-go/pkg/snapshot"
)

// SnapshotValue is one decoded snapshot entry.
type SnapshotValue struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Contents string `json:"contents"`
	Data     string `json:"data"`
	Value    uint64 `json:"value"`
	Display  string `json:"display"`
}

// SnapshotOutput is the decoded form of a snapshot file.
type SnapshotOutput struct {
	ID      string          `json:"id"`
	Created string          `json:"created"`
	Family  string          `json:"family,omitempty"`
	Values  []SnapshotValue `json:"values"`
}

// RunSnapshot decodes a snapshot file against the register table.
// Entries that cannot be decoded are reported on stderr and exit with
// status 2.
func RunSnapshot(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	var g globalFlags
	g.register(fs)
	asJSON := fs.Bool("json", false, "Output as JSON")
	module := fs.String("module", "", "Only show the named module")
	fs.Usage = func() {}
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: snapshot file path required")
		return exitCommandError
	}

	e, err := g.resolve(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	snap, err := snapshot.Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if snap.Family != "" && snap.Family != e.table.Family() {
		e.logger.Warn("snapshot family differs from register table",
			"snapshot", snap.Family, "table", e.table.Family())
	}

	values, decodeErr := snap.Decode(e.table)

	out := SnapshotOutput{
		ID:      snap.ID.String(),
		Created: snap.Created.UTC().Format("2006-01-02T15:04:05Z"),
		Family:  snap.Family,
		Values:  []SnapshotValue{},
	}
	for _, v := range values {
		if *module != "" && v.Location.Module != *module {
			continue
		}
		out.Values = append(out.Values, SnapshotValue{
			Name:     v.Location.Name(),
			Address:  fmt.Sprintf("0x%04x", v.Location.Address),
			Contents: v.Location.Register.Contents.String(),
			Data:     fmt.Sprintf("% x", v.Payload.Data),
			Value:    v.Value,
			Display:  v.Payload.String(),
		})
	}

	if *asJSON {
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Fprintln(stdout, string(data))
	} else {
		fmt.Fprintf(stdout, "Snapshot %s (%s, %s)\n", out.ID, out.Family, out.Created)
		for _, v := range out.Values {
			fmt.Fprintf(stdout, "  %s %-40s %s\n", v.Address, v.Name, v.Display)
		}
	}

	if decodeErr != nil {
		fmt.Fprintf(stderr, "Error: %v\n", decodeErr)
		return exitValidation
	}
	return exitSuccess
}
