// Command minipas is the minipas interpreter CLI.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"nickandperla.net/minipas/internal/ast"
	"nickandperla.net/minipas/internal/scanner"
	"nickandperla.net/minipas/pkg/minipas"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is main without the process exit, so tests can drive it in-process.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("minipas", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		evalStr     = fs.String("e", "", "Evaluate minipas program string")
		file        = fs.String("f", "", "Execute minipas file")
		dbPath      = fs.String("db", "", "SQLite database path (default: in-memory)")
		prelude     = fs.String("prelude", "", "Program file to run before the main program")
		vars        = fs.String("vars", "x,y", "Comma-separated variables to print")
		all         = fs.Bool("all", false, "Print every assigned variable")
		format      = fs.String("format", "text", "Output format: text, json or yaml")
		emitTokens  = fs.Bool("emit-tokens", false, "Print the token stream and exit")
		emitAST     = fs.Bool("emit-ast", false, "Print the syntax tree and exit")
		astFormat   = fs.String("ast-format", "text", "AST output format: text or json")
		history     = fs.String("history", "", "Print the version history of a variable")
		historyN    = fs.Int("history-limit", 0, "Maximum -history or -runs entries (0 = all)")
		runs        = fs.Bool("runs", false, "Print the run log of the -db store")
		interactive = fs.Bool("i", false, "Start a REPL")
		trace       = fs.Bool("trace", false, "Print each assignment as it executes")
		noColor     = fs.Bool("no-color", false, "Disable colored output")
		check       = fs.Bool("check", false, "Syntax-check the files given as arguments")
	)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *noColor {
		color.NoColor = true
	}
	errPrefix := color.New(color.FgRed, color.Bold).Sprint("Error:")
	fail := func(err error) int {
		fmt.Fprintf(stderr, "%s %v\n", errPrefix, err)
		return 1
	}

	switch *format {
	case "text", "json", "yaml":
	default:
		fmt.Fprintf(stderr, "Unknown format: %s (use text, json or yaml)\n", *format)
		return 2
	}

	if *check {
		return checkFiles(stdout, fs.Args())
	}

	if *emitTokens || *emitAST {
		src, err := readSource(*evalStr, *file, stdin)
		if err != nil {
			return fail(err)
		}
		if *emitTokens {
			err = printTokens(stdout, src)
		} else {
			err = printAST(stdout, src, *astFormat)
		}
		if err != nil {
			return fail(err)
		}
		return 0
	}

	// Build options
	var opts []minipas.Option
	if *dbPath != "" {
		opts = append(opts, minipas.WithSQLiteStore(*dbPath))
	}
	if *prelude != "" {
		data, err := os.ReadFile(*prelude)
		if err != nil {
			return fail(fmt.Errorf("reading %s: %w", *prelude, err))
		}
		opts = append(opts, minipas.WithPrelude(string(data)))
	}
	if *trace {
		opts = append(opts, minipas.WithTrace(func(name string, v float32) {
			fmt.Fprintf(stderr, "trace: %s = %s\n", name, formatValue(v))
		}))
	}

	runtime, err := minipas.New(opts...)
	if err != nil {
		return fail(err)
	}
	defer runtime.Close()

	if *interactive {
		runREPL(runtime, stdin, stdout, stderr, errPrefix)
		return 0
	}

	// -history and -runs alone only query the store.
	program := (*history == "" && !*runs) || *evalStr != "" || *file != ""

	var names []string
	if program {
		src, err := readSource(*evalStr, *file, stdin)
		if err != nil {
			return fail(err)
		}
		if err := runtime.Interpret(src); err != nil {
			return fail(err)
		}
		if *all {
			b, err := minipas.Parse(src)
			if err != nil {
				return fail(err)
			}
			names = ast.AssignedNames(b)
		} else {
			names = splitNames(*vars)
		}
	}

	if *history != "" {
		entries, err := runtime.History(*history, *historyN)
		if err != nil {
			return fail(err)
		}
		for _, e := range entries {
			fmt.Fprintf(stdout, "v%d\t%s\t%s\n", e.Version, formatValue(e.Value), e.Ts)
		}
	}

	if *runs {
		runLog, err := runtime.Runs(*historyN)
		if err != nil {
			return fail(err)
		}
		for _, r := range runLog {
			fmt.Fprintf(stdout, "%d\t%s\t%s\t%s\n", r.ID, r.Digest, r.Status, r.Ts)
		}
	}

	if !program {
		return 0
	}

	if err := printBindings(stdout, runtime, names, *format); err != nil {
		return fail(err)
	}
	return 0
}

// readSource returns the program from -e, -f, or the first line of stdin.
func readSource(evalStr, file string, stdin io.Reader) (string, error) {
	switch {
	case evalStr != "":
		return evalStr, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
		return string(data), nil
	}
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func splitNames(s string) []string {
	var names []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

func printTokens(w io.Writer, src string) error {
	toks, err := scanner.Tokenize(src)
	for _, tok := range toks {
		fmt.Fprintf(w, "%s\t%s\n", tok.Pos, tok)
	}
	return err
}

func printAST(w io.Writer, src, format string) error {
	b, err := minipas.Parse(src)
	if err != nil {
		return err
	}
	switch format {
	case "text":
		ast.Fprint(w, b)
		return nil
	case "json":
		return ast.FprintJSON(w, b)
	}
	return fmt.Errorf("unknown AST format: %s (use text or json)", format)
}

// printBindings writes the requested variables in order. Unbound variables
// print as null.
func printBindings(w io.Writer, runtime *minipas.Runtime, names []string, format string) error {
	type binding struct {
		name  string
		value float32
		bound bool
	}
	bs := make([]binding, 0, len(names))
	for _, name := range names {
		v, ok, err := runtime.Lookup(name)
		if err != nil {
			return err
		}
		bs = append(bs, binding{name, v, ok})
	}

	switch format {
	case "json":
		out := make(map[string]any, len(bs))
		for _, b := range bs {
			out[b.name] = jsonValue(b.value, b.bound)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)

	case "yaml":
		doc := &yaml.Node{Kind: yaml.MappingNode}
		for _, b := range bs {
			doc.Content = append(doc.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: b.name},
				yamlValue(b.value, b.bound),
			)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}

	for _, b := range bs {
		v := "null"
		if b.bound {
			v = formatValue(b.value)
		}
		fmt.Fprintf(w, "%s = %s\n", b.name, v)
	}
	return nil
}

// formatValue renders v in shortest float32 form, keeping a trailing ".0"
// on integral values. Magnitudes outside [1e-3, 1e7) use an exponent with
// a fractional mantissa and a bare exponent: 1.0E7, 1.5E-4.
func formatValue(v float32) string {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if a := math.Abs(f); a != 0 && (a < 1e-3 || a >= 1e7) {
		return formatExponent(f)
	}
	s := strconv.FormatFloat(f, 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatExponent(f float64) string {
	mant, exp, _ := strings.Cut(strconv.FormatFloat(f, 'E', -1, 32), "E")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	// 'E' always writes a signed exponent of at least two digits.
	n, err := strconv.Atoi(exp)
	if err != nil {
		return mant + "E" + exp
	}
	return mant + "E" + strconv.Itoa(n)
}

func jsonValue(v float32, bound bool) any {
	if !bound {
		return nil
	}
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return formatValue(v)
	}
	return json.Number(strconv.FormatFloat(f, 'g', -1, 32))
}

func yamlValue(v float32, bound bool) *yaml.Node {
	if !bound {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	f := float64(v)
	s := strconv.FormatFloat(f, 'g', -1, 32)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	switch {
	case math.IsNaN(f):
		s = ".nan"
	case math.IsInf(f, 1):
		s = ".inf"
	case math.IsInf(f, -1):
		s = "-.inf"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: s}
}
