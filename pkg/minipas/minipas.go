package minipas

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"nickandperla.net/minipas/internal/ast"
	"nickandperla.net/minipas/internal/eval"
	"nickandperla.net/minipas/internal/parser"
	"nickandperla.net/minipas/internal/store"
)

var (
	// ErrNoHistory is returned by History when the store keeps no versions.
	ErrNoHistory = errors.New("store does not keep history")
	// ErrNoRuns is returned by Runs when the store keeps no run log.
	ErrNoRuns = errors.New("store does not record runs")
)

// Parse parses src into a syntax tree without running it.
func Parse(src string) (*ast.Block, error) {
	return parser.Parse(src)
}

// Interpret parses src and executes it against s. On failure, assignments
// that ran before the error remain in s.
func Interpret(src string, s Store) error {
	b, err := parser.Parse(src)
	if err != nil {
		return err
	}
	return eval.New(s).Exec(b)
}

// Runtime is the minipas interpreter runtime. It owns one store that
// persists across runs.
type Runtime struct {
	store   BackingStore
	vars    map[string]float32
	prelude string
	trace   func(name string, v float32)
	err     error
}

// New creates a new minipas runtime with the given options.
func New(opts ...Option) (*Runtime, error) {
	r := &Runtime{vars: make(map[string]float32)}

	for _, opt := range opts {
		opt(r)
	}
	if r.err != nil {
		if r.store != nil {
			r.store.Close()
		}
		return nil, r.err
	}
	if r.store == nil {
		r.store = store.NewMemory()
	}

	for name, v := range r.vars {
		if err := r.store.Put(name, v); err != nil {
			r.store.Close()
			return nil, err
		}
	}

	if r.prelude != "" {
		if err := r.run(r.prelude); err != nil {
			r.store.Close()
			return nil, fmt.Errorf("prelude: %w", err)
		}
	}
	return r, nil
}

// Interpret runs one program against the runtime's store.
func (r *Runtime) Interpret(src string) error {
	err := r.run(src)
	if rec, ok := r.store.(store.RunRecorder); ok {
		if recErr := rec.RecordRun(src, err); recErr != nil && err == nil {
			return recErr
		}
	}
	return err
}

func (r *Runtime) run(src string) error {
	b, err := parser.Parse(src)
	if err != nil {
		return err
	}
	var opts []eval.Option
	if r.trace != nil {
		opts = append(opts, eval.WithTrace(r.trace))
	}
	return eval.New(r.store, opts...).Exec(b)
}

// InterpretReader runs the program read from reader.
func (r *Runtime) InterpretReader(reader io.Reader) error {
	var sb strings.Builder
	if _, err := io.Copy(&sb, reader); err != nil {
		return err
	}
	return r.Interpret(sb.String())
}

// InterpretFile runs a minipas file.
func (r *Runtime) InterpretFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.InterpretReader(f)
}

// Lookup returns the current value of name.
func (r *Runtime) Lookup(name string) (float32, bool, error) {
	return r.store.Get(name)
}

// Bindings returns a snapshot of every bound variable.
func (r *Runtime) Bindings() (map[string]float32, error) {
	return r.store.Bindings()
}

// History returns the versions of name, newest first. A limit <= 0
// returns all of them.
func (r *Runtime) History(name string, limit int) ([]VersionEntry, error) {
	h, ok := r.store.(store.HistoryStore)
	if !ok {
		return nil, ErrNoHistory
	}
	return h.GetHistory(name, limit)
}

// Runs returns the logged interpretations, newest first. A limit <= 0
// returns all of them.
func (r *Runtime) Runs(limit int) ([]Run, error) {
	rec, ok := r.store.(store.RunRecorder)
	if !ok {
		return nil, ErrNoRuns
	}
	return rec.Runs(limit)
}

// Close releases resources.
func (r *Runtime) Close() error {
	return r.store.Close()
}
