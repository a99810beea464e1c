// Command cmx-regmapgen renders a register description YAML as a Go source
// file holding a static module table.
//
//	cmx-regmapgen -input registers.yaml -package clockmatrix -output regs_gen.go
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/tools/imports"

	"github.com/clockmatrix/idt8a3xxxx-go/pkg/regmap"
)

func main() {
	input := flag.String("input", "", "Register description YAML")
	pkg := flag.String("package", "", "Package name of the generated file")
	output := flag.String("output", "", "Output Go file")
	flag.Parse()

	if *input == "" || *pkg == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "Usage: cmx-regmapgen -input <yaml> -package <name> -output <file.go>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(*input, *pkg, *output); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(input, pkg, output string) error {
	table, err := regmap.LoadFile(input)
	if err != nil {
		return fmt.Errorf("loading %s: %w", input, err)
	}

	code, err := Generate(table, pkg, filepath.Base(input))
	if err != nil {
		return fmt.Errorf("generating: %w", err)
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	if err := writeFormatted(output, code); err != nil {
		return err
	}
	fmt.Printf("  generated %s (%d modules, %d register instances)\n",
		output, len(table.Modules()), table.Len())
	return nil
}

// writeFormatted formats Go source code with goimports and writes it to a file.
func writeFormatted(path string, code string) error {
	formatted, err := imports.Process(path, []byte(code), nil)
	if err != nil {
		// Keep the raw output around for debugging the templates.
		_ = os.WriteFile(path+".broken", []byte(code), 0o644)
		return fmt.Errorf("goimports %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, formatted, 0o644)
}
