package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"nickandperla.net/minipas/internal/ast"
	"nickandperla.net/minipas/pkg/minipas"
)

func printBanner(w io.Writer) {
	fmt.Fprintln(w, "minipas REPL (Ctrl+D to exit)")
	fmt.Fprintln(w, "Each line is one program: BEGIN x = 1 END.")
	fmt.Fprintln(w, "End a line with \\ to continue it on the next.")
	fmt.Fprintln(w)
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// runREPL runs each entered program against the runtime's store, so
// later lines see earlier bindings. Prompts are only shown on a terminal.
// Failures are reported after errPrefix, as in one-shot mode.
func runREPL(runtime *minipas.Runtime, stdin io.Reader, stdout, stderr io.Writer, errPrefix string) {
	interactive := isTerminal(stdin)
	if interactive {
		printBanner(stdout)
	}

	reader := bufio.NewReader(stdin)
	var multiline strings.Builder
	inMultiline := false

	for {
		if interactive {
			if inMultiline {
				fmt.Fprint(stdout, "... ")
			} else {
				fmt.Fprint(stdout, ">>> ")
			}
		}

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			if interactive {
				fmt.Fprintln(stdout)
			}
			return
		}
		line = strings.TrimRight(line, "\r\n")

		if strings.HasSuffix(line, "\\") {
			multiline.WriteString(strings.TrimSuffix(line, "\\"))
			multiline.WriteString("\n")
			inMultiline = true
			continue
		}

		var input string
		if inMultiline {
			multiline.WriteString(line)
			input = multiline.String()
			multiline.Reset()
			inMultiline = false
		} else {
			input = line
		}

		if strings.TrimSpace(input) == "" {
			continue
		}
		evalLine(runtime, input, stdout, stderr, errPrefix)
	}
}

// evalLine interprets one REPL entry and echoes the variables it assigned.
func evalLine(runtime *minipas.Runtime, input string, stdout, stderr io.Writer, errPrefix string) {
	if err := runtime.Interpret(input); err != nil {
		fmt.Fprintf(stderr, "%s %v\n", errPrefix, err)
		return
	}
	b, err := minipas.Parse(input)
	if err != nil {
		return
	}
	for _, name := range ast.AssignedNames(b) {
		v, ok, err := runtime.Lookup(name)
		if err != nil || !ok {
			continue
		}
		fmt.Fprintf(stdout, "%s = %s\n", name, formatValue(v))
	}
}
