package regmap

import (
	"errors"
	"fmt"
	"sort"
)

// Validation error codes.
const (
	CodeEmptyBase         = "EMPTY_BASE"
	CodeEmptyName         = "EMPTY_NAME"
	CodeDuplicateModule   = "DUPLICATE_MODULE"
	CodeDuplicateRegister = "DUPLICATE_REGISTER"
	CodeOverlap           = "OVERLAP"
	CodeAddressRange      = "ADDRESS_RANGE"
	CodeUnknownContents   = "UNKNOWN_CONTENTS"
)

// ValidationError is one integrity violation found in a table.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ValidationResult contains the results of table validation.
type ValidationResult struct {
	// Valid is true if the table passed all checks.
	Valid bool

	// Errors contains every violation found.
	Errors []ValidationError

	// Registers is the number of register instances scanned.
	Registers int
}

// AddError adds a validation error.
func (r *ValidationResult) AddError(code, message string) {
	r.Errors = append(r.Errors, ValidationError{Code: code, Message: message})
	r.Valid = false
}

// Has returns true if an error with the given code was recorded.
func (r *ValidationResult) Has(code string) bool {
	for _, e := range r.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

// Err returns nil for a valid table, otherwise ErrInvalidTable joined with
// every violation.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	errs := make([]error, 0, len(r.Errors)+1)
	errs = append(errs, ErrInvalidTable)
	for _, e := range r.Errors {
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}

// Validate checks the integrity of a register table.
//
// Modules are scanned in ascending order of their lowest base address. For
// each module every instance is visited in declared base order and every
// register in declared order; each register must start at or after the end
// of the previous one. This enforces a flat, non-overlapping address space
// provided registers are declared in offset order and instances of
// different modules do not interleave. Register names must be unique across
// the whole table, not just within a module.
func Validate(modules []Module) *ValidationResult {
	result := &ValidationResult{Valid: true}

	checkNames(modules, result)
	checkAddresses(modules, result)

	return result
}

// checkNames verifies module and register names are present and unique.
func checkNames(modules []Module, result *ValidationResult) {
	moduleNames := make(map[string]struct{}, len(modules))
	registerNames := make(map[string]string)

	for _, m := range modules {
		if m.Name == "" {
			result.AddError(CodeEmptyName, fmt.Sprintf("module at 0x%04x has no name", m.LowestBase()))
		} else if _, dup := moduleNames[m.Name]; dup {
			result.AddError(CodeDuplicateModule, fmt.Sprintf("duplicate module %s", m.Name))
		}
		moduleNames[m.Name] = struct{}{}

		for _, r := range m.Registers {
			if r.Name == "" {
				result.AddError(CodeEmptyName, fmt.Sprintf("%s: register at offset 0x%04x has no name", m.Name, r.Offset))
				continue
			}
			if owner, dup := registerNames[r.Name]; dup {
				result.AddError(CodeDuplicateRegister, fmt.Sprintf("duplicate register %s in %s (first defined in %s)", r.Name, m.Name, owner))
				continue
			}
			registerNames[r.Name] = m.Name
		}
	}
}

// checkAddresses runs the high-water scan over every register instance.
func checkAddresses(modules []Module, result *ValidationResult) {
	order := make([]int, 0, len(modules))
	for i, m := range modules {
		if len(m.Base) == 0 {
			result.AddError(CodeEmptyBase, fmt.Sprintf("module %s has no base address", m.Name))
			continue
		}
		order = append(order, i)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return modules[order[a]].LowestBase() < modules[order[b]].LowestBase()
	})

	var seen uint32
	var last string

	for _, idx := range order {
		m := &modules[idx]
		for i, base := range m.Base {
			instance := m.InstanceName(i)
			for _, r := range m.Registers {
				name := instance + "." + r.Name
				if !r.Contents.Valid() {
					result.AddError(CodeUnknownContents, fmt.Sprintf("%s has unknown contents kind %d", name, uint8(r.Contents)))
					continue
				}
				result.Registers++

				span := r.Span(base)
				if span.End > AddressSpace {
					result.AddError(CodeAddressRange, fmt.Sprintf("%s at %s extends beyond the 16-bit address space", name, span))
				}
				if span.Start < seen {
					result.AddError(CodeOverlap, fmt.Sprintf("%s at %s starts below 0x%04x, the end of %s", name, span, seen, last))
				}
				if span.End > seen {
					seen = span.End
					last = name
				}
			}
		}
	}
}
