package main

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/clockmatrix/idt8a3xxxx-go/pkg/regmap"
)

const testDescription = `version: "1.0"
family: 8A3xxxx
modules:
  OUT:
    base: [0x0200, 0x0210]
    registers:
      - [0x0, OUT_DIV, Word32]
      - [0x4, OUT_CTRL, Byte]
  STATUS:
    base: [0x0100]
    registers:
      - [0x0, BOOT, Word]
      - [0x8, XO_FREQ, Frequency]
`

func testTable(t *testing.T) *regmap.Table {
	t.Helper()
	table, err := regmap.Load([]byte(testDescription))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return table
}

func mustContain(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Errorf("output missing %q\n--- output ---\n%s", want, output)
	}
}

func TestGenerateHeader(t *testing.T) {
	output, err := Generate(testTable(t), "clockmatrix", "board.yaml")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	mustContain(t, output, "// Code generated by cmx-regmapgen from board.yaml. DO NOT EDIT.")
	mustContain(t, output, "package clockmatrix")
	mustContain(t, output, `const Family = "8A3xxxx"`)
	mustContain(t, output, "const InstanceCount = 6")
}

func TestGenerateModules(t *testing.T) {
	output, err := Generate(testTable(t), "clockmatrix", "board.yaml")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	mustContain(t, output, "// OUT: 2 instances.")
	mustContain(t, output, "// STATUS: 1 instance.")
	mustContain(t, output, "Base: []uint16{0x0200, 0x0210},")
	mustContain(t, output, `{Name: "OUT_DIV", Offset: 0x0000, Contents: regmap.Word32},`)
	mustContain(t, output, `{Name: "XO_FREQ", Offset: 0x0008, Contents: regmap.Frequency},`)

	// Modules come out ordered by lowest base.
	if strings.Index(output, `Name: "STATUS"`) > strings.Index(output, `Name: "OUT"`) {
		t.Error("STATUS should precede OUT")
	}
}

func TestGenerateParses(t *testing.T) {
	output, err := Generate(regmap.Default(), "clockmatrix", "registers.yaml")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := parser.ParseFile(token.NewFileSet(), "regs_gen.go", output, parser.AllErrors); err != nil {
		t.Fatalf("generated code does not parse: %v", err)
	}
	mustContain(t, output, `Name: "DPLL"`)
	mustContain(t, output, `{Name: "DPLL_MODE", Offset: 0x0037, Contents: regmap.Byte},`)
}

func TestGenerateInvalidPackage(t *testing.T) {
	for _, pkg := range []string{"", "clock-matrix", "1regs"} {
		if _, err := Generate(testTable(t), pkg, "board.yaml"); err == nil {
			t.Errorf("package %q accepted", pkg)
		}
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "board.yaml")
	if err := os.WriteFile(input, []byte(testDescription), 0o644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "gen", "regs_gen.go")

	if err := run(input, "board", output); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	mustContain(t, string(data), "package board")
	mustContain(t, string(data), "func Table() (*regmap.Table, error) {")
	if _, err := os.Stat(output + ".broken"); !os.IsNotExist(err) {
		t.Error("unexpected .broken file")
	}
}

func TestRunInvalidDescription(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "board.yaml")
	overlapping := strings.Replace(testDescription, "[0x0200, 0x0210]", "[0x0200, 0x0202]", 1)
	if err := os.WriteFile(input, []byte(overlapping), 0o644); err != nil {
		t.Fatal(err)
	}

	output := filepath.Join(dir, "regs_gen.go")
	if err := run(input, "board", output); err == nil {
		t.Fatal("expected error for overlapping description")
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("output written for invalid description")
	}
}
