package regmap

import (
	_ "embed"
	"fmt"
	"sync"
)

//go:embed registers.yaml
var defaultDescription []byte

// DefaultDescription returns the embedded register description document.
func DefaultDescription() []byte {
	out := make([]byte, len(defaultDescription))
	copy(out, defaultDescription)
	return out
}

var defaultTable = sync.OnceValue(func() *Table {
	t, err := Load(defaultDescription)
	if err != nil {
		panic(fmt.Sprintf("regmap: embedded register table: %v", err))
	}
	return t
})

// Default returns the register table of the 8A3xxxx family. It is built on
// first use and shared by all callers.
func Default() *Table {
	return defaultTable()
}

// Modules returns every module of the default table, ordered by lowest base
// address.
func Modules() []Module {
	return Default().Modules()
}
