package main

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/clockmatrix/idt8a3xxxx-go/pkg/regmap"
)

// Generate renders the table as Go source in package pkg. source names the
// description the table was loaded from and appears in the header.
func Generate(table *regmap.Table, pkg, source string) (string, error) {
	if !token.IsIdentifier(pkg) {
		return "", fmt.Errorf("invalid package name %q", pkg)
	}

	data := fileData{
		Source:    source,
		Package:   pkg,
		Family:    table.Family(),
		Instances: table.Len(),
	}
	for _, m := range table.Modules() {
		md := moduleData{Name: m.Name, Base: m.Base}
		for _, r := range m.Registers {
			if !r.Contents.Valid() {
				return "", fmt.Errorf("%s.%s: %w", m.Name, r.Name, regmap.ErrUnknownContents)
			}
			md.Registers = append(md.Registers, registerData{
				Name:     r.Name,
				Offset:   r.Offset,
				Contents: r.Contents.String(),
			})
		}
		data.Modules = append(data.Modules, md)
	}

	var b strings.Builder
	renderTemplate(&b, "file", data)
	return b.String(), nil
}
