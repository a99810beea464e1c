// cmx-regs inspects the register map of 8A3xxxx ClockMatrix clock
// generators: it prints the address map, resolves register paths, decodes
// and encodes register bytes, and shows snapshot and trace files.
package main

import (
	"fmt"
	"os"

	"github.com/clockmatrix/idt8a3xxxx-go/cmd/cmx-regs/commands"
	"github.com/clockmatrix/idt8a3xxxx-go/pkg/version"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitCommandError)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var exitCode int
	switch cmd {
	case "dump":
		exitCode = commands.RunDump(args, os.Stdout, os.Stderr)
	case "validate":
		exitCode = commands.RunValidate(args, os.Stdout, os.Stderr)
	case "lookup":
		exitCode = commands.RunLookup(args, os.Stdout, os.Stderr)
	case "decode":
		exitCode = commands.RunDecode(args, os.Stdout, os.Stderr)
	case "encode":
		exitCode = commands.RunEncode(args, os.Stdout, os.Stderr)
	case "page":
		exitCode = commands.RunPage(args, os.Stdout, os.Stderr)
	case "snapshot":
		exitCode = commands.RunSnapshot(args, os.Stdout, os.Stderr)
	case "trace":
		exitCode = commands.RunTrace(args, os.Stdout, os.Stderr)
	case "shell":
		exitCode = commands.RunShell(args, os.Stdout, os.Stderr)
	case "help", "-h", "--help":
		printUsage()
		exitCode = exitSuccess
	case "version", "-v", "--version":
		fmt.Printf("cmx-regs version 0.1.0 (description format %s)\n", version.Current)
		exitCode = exitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		exitCode = exitCommandError
	}

	os.Exit(exitCode)
}

func printUsage() {
	fmt.Println(`cmx-regs - ClockMatrix register map tool

Usage:
  cmx-regs <command> [options] [args...]

Commands:
  dump       Print the address map of every register instance
  validate   Check register descriptions for overlaps and duplicate names
  lookup     Locate registers by path (DPLL[0].DPLL_MODE) or address (0xc3e7)
  decode     Decode register bytes (-kind Word24 de 01 ce)
  encode     Encode a value into register bytes (-kind Frequency 25000000)
  page       Show the page-select write for an address
  snapshot   Decode a snapshot file
  trace      Show a register trace file
  shell      Interactive shell

Global options (all commands except validate and trace):
  -config FILE        YAML config (pageMode, description, logLevel)
  -description FILE   Register description instead of the built-in table
  -page-mode MODE     single (I2C 1B, default) or wide
  -log-level LEVEL    debug, info, warn, error

Examples:
  cmx-regs dump -module DPLL
  cmx-regs lookup TOD_WRITE[1].TOD_WRITE_VALUE 0xc3e7
  cmx-regs page -page-mode wide 0xc1b0
  cmx-regs trace -direction write -register DPLL_MODE board.ctrace`)
}
