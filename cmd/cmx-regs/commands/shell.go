package commands

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

type shellCommand struct {
	name string
	run  func(args []string, stdout, stderr io.Writer) int
	// global is set for commands that accept the global flags.
	global bool
	help   string
}

var shellCommands = []shellCommand{
	{"dump", RunDump, true, "dump [-module M] [-json]        Print the register address map"},
	{"lookup", RunLookup, true, "lookup <path|addr>...           Locate registers"},
	{"decode", RunDecode, true, "decode -kind K|-register R <hex> Decode register bytes"},
	{"encode", RunEncode, true, "encode -kind K|-register R <v>  Encode a value"},
	{"page", RunPage, true, "page <addr>...                  Show the page-select write"},
	{"snapshot", RunSnapshot, true, "snapshot <file>                 Show a snapshot file"},
	{"trace", RunTrace, false, "trace [filters] <file>          Show a trace file"},
	{"validate", RunValidate, false, "validate [files...]             Check register descriptions"},
}

// Shell runs commands read interactively. Global flags given when the shell
// was started apply to every command.
type Shell struct {
	base   []string
	stdout io.Writer
	stderr io.Writer
}

// NewShell creates a Shell; base holds the global flags to prepend.
func NewShell(base []string, stdout, stderr io.Writer) *Shell {
	return &Shell{base: base, stdout: stdout, stderr: stderr}
}

// Exec runs one input line and reports whether the shell should exit.
func (s *Shell) Exec(line string) (code int, quit bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return exitSuccess, false
	}
	name := strings.ToLower(parts[0])
	args := parts[1:]

	switch name {
	case "quit", "exit", "q":
		return exitSuccess, true
	case "help", "?":
		s.printHelp()
		return exitSuccess, false
	}

	for _, c := range shellCommands {
		if c.name != name {
			continue
		}
		if c.global {
			args = append(append([]string(nil), s.base...), args...)
		}
		return c.run(args, s.stdout, s.stderr), false
	}
	fmt.Fprintf(s.stderr, "Unknown command: %s (type 'help')\n", name)
	return exitCommandError, false
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.stdout, "Commands:")
	for _, c := range shellCommands {
		fmt.Fprintf(s.stdout, "  %s\n", c.help)
	}
	fmt.Fprintln(s.stdout, "  help                            Show this help")
	fmt.Fprintln(s.stdout, "  quit                            Leave the shell")
}

// RunShell starts an interactive readline loop.
func RunShell(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("shell", flag.ContinueOnError)
	var g globalFlags
	g.register(fs)
	fs.Usage = func() {}
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	// Fail early on a bad config rather than on every command.
	if _, err := g.resolve(stderr); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "cmx> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          stdout,
		Stderr:          stderr,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create readline: %v\n", err)
		return exitCommandError
	}
	defer rl.Close()

	sh := NewShell(g.args(), rl.Stdout(), rl.Stderr())
	sh.printHelp()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return exitSuccess
		}
		if _, quit := sh.Exec(line); quit {
			return exitSuccess
		}
	}
}

// args returns the flags as command-line arguments.
func (g *globalFlags) args() []string {
	var out []string
	add := func(name, v string) {
		if v != "" {
			out = append(out, "-"+name, v)
		}
	}
	add("config", g.config)
	add("description", g.description)
	add("page-mode", g.pageMode)
	add("log-level", g.logLevel)
	return out
}
