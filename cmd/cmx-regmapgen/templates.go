package main

import (
	"fmt"
	"strings"
	"text/template"
)

var funcMap = template.FuncMap{
	"hex16":  func(v uint16) string { return fmt.Sprintf("0x%04x", v) },
	"quote":  func(s string) string { return fmt.Sprintf("%q", s) },
	"bases":  formatBases,
	"plural": plural,
}

var templates = template.Must(template.New("").Funcs(funcMap).Parse(fileTmpl + moduleTmpl))

// renderTemplate executes a named template into the builder.
func renderTemplate(b *strings.Builder, name string, data any) {
	if err := templates.ExecuteTemplate(b, name, data); err != nil {
		panic(fmt.Sprintf("template %s: %v", name, err))
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func formatBases(bases []uint16) string {
	parts := make([]string, len(bases))
	for i, b := range bases {
		parts[i] = fmt.Sprintf("0x%04x", b)
	}
	return strings.Join(parts, ", ")
}

// fileData holds the data for the file template.
type fileData struct {
	Source    string
	Package   string
	Family    string
	Instances int
	Modules   []moduleData
}

type moduleData struct {
	Name      string
	Base      []uint16
	Registers []registerData
}

type registerData struct {
	Name     string
	Offset   uint16
	Contents string
}

const fileTmpl = `{{define "file"}}// Code generated by cmx-regmapgen from {{.Source}}. DO NOT EDIT.

package {{.Package}}

import "github.com/clockmatrix/idt8a3xxxx-go/pkg/regmap"

// Family is the device family the register table describes.
const Family = {{quote .Family}}

// InstanceCount is the number of register instances in the table.
const InstanceCount = {{.Instances}}

// Modules returns the register modules ordered by lowest base address.
func Modules() []regmap.Module {
return []regmap.Module{
{{- range .Modules}}
{{template "module" .}}
{{- end}}
}
}

// Table returns the modules as a validated register table.
func Table() (*regmap.Table, error) {
return regmap.NewTable(Family, Modules())
}
{{end}}`

const moduleTmpl = `{{define "module"}}
// {{.Name}}: {{len .Base}} instance{{plural (len .Base)}}.
{
Name: {{quote .Name}},
Base: []uint16{ {{- bases .Base -}} },
Registers: []regmap.Register{
{{- range .Registers}}
{Name: {{quote .Name}}, Offset: {{hex16 .Offset}}, Contents: regmap.{{.Contents}}},
{{- end}}
},
},
{{- end}}`
