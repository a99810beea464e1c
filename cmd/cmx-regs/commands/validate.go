package commands

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/clockmatrix/idt8a3xxxx-go/pkg/regdesc"
	"github.com/clockmatrix/idt8a3xxxx-go/pkg/regmap"
)

// ValidateOptions configures the validate command.
type ValidateOptions struct {
	JSON    bool
	Verbose bool
	Files   []string
}

// ValidationOutput represents the validation result for one description.
type ValidationOutput struct {
	Valid     bool          `json:"valid"`
	Family    string        `json:"family,omitempty"`
	Modules   int           `json:"modules,omitempty"`
	Registers int           `json:"registers,omitempty"`
	Errors    []IssueOutput `json:"errors,omitempty"`
}

// IssueOutput represents a validation issue.
type IssueOutput struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const builtinName = "(built-in)"

// RunValidate checks register descriptions for overlapping registers and
// duplicate names. With no files it checks the built-in table.
func RunValidate(args []string, stdout, stderr io.Writer) int {
	opts, err := parseValidateArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	files := opts.Files
	if len(files) == 0 {
		files = []string{builtinName}
	}

	hasErrors := false
	results := make(map[string]*ValidationOutput)
	for _, file := range files {
		result := validateFile(file)
		results[file] = result
		if !result.Valid {
			hasErrors = true
		}
		if !opts.JSON {
			printValidationResult(stdout, file, result, opts.Verbose)
		}
	}

	if opts.JSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Fprintln(stdout, string(output))
	}

	if hasErrors {
		return exitValidation
	}
	return exitSuccess
}

func validateFile(path string) *ValidationOutput {
	output := &ValidationOutput{Valid: true}

	var modules []regmap.Module
	if path == builtinName {
		modules = regmap.Modules()
		output.Family = regmap.Default().Family()
	} else {
		desc, err := regdesc.Load(path)
		if err != nil {
			return parseFailure(output, err)
		}
		output.Family = desc.Family
		modules, err = regmap.FromDescription(desc)
		if err != nil {
			return parseFailure(output, err)
		}
	}

	result := regmap.Validate(modules)
	output.Valid = result.Valid
	output.Modules = len(modules)
	output.Registers = result.Registers
	for _, e := range result.Errors {
		output.Errors = append(output.Errors, IssueOutput{Code: e.Code, Message: e.Message})
	}
	return output
}

func parseFailure(output *ValidationOutput, err error) *ValidationOutput {
	code := "PARSE"
	if errors.Is(err, regmap.ErrUnknownContents) {
		code = regmap.CodeUnknownContents
	}
	output.Valid = false
	output.Errors = append(output.Errors, IssueOutput{Code: code, Message: err.Error()})
	return output
}

func printValidationResult(w io.Writer, file string, result *ValidationOutput, verbose bool) {
	if result.Valid {
		fmt.Fprintf(w, "%s: OK (%d modules, %d register instances)\n", file, result.Modules, result.Registers)
		return
	}

	fmt.Fprintf(w, "%s: FAILED (%d errors)\n", file, len(result.Errors))
	for i, e := range result.Errors {
		if !verbose && i == 20 {
			fmt.Fprintf(w, "  ... %d more (use -v)\n", len(result.Errors)-i)
			break
		}
		fmt.Fprintf(w, "  ERROR %s: %s\n", e.Code, e.Message)
	}
}

func parseValidateArgs(args []string) (ValidateOptions, error) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	opts := ValidateOptions{}

	fs.BoolVar(&opts.JSON, "json", false, "Output results as JSON")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Show every error")
	fs.BoolVar(&opts.Verbose, "v", false, "Show every error (shorthand)")
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.Files = fs.Args()
	return opts, nil
}
