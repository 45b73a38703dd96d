// Package minipas provides the public API for the minipas interpreter.
package minipas

import (
	"fmt"

	"nickandperla.net/minipas/internal/eval"
	"nickandperla.net/minipas/internal/parser"
	"nickandperla.net/minipas/internal/scanner"
	"nickandperla.net/minipas/internal/store"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithSQLiteStore configures SQLite persistence at the given path.
func WithSQLiteStore(path string) Option {
	return func(r *Runtime) {
		s, err := store.NewSQLite(path)
		if err != nil {
			r.err = fmt.Errorf("open store %s: %w", path, err)
			return
		}
		r.setStore(s)
	}
}

// WithMemoryStore configures an in-memory store that keeps version history.
// This is the default.
func WithMemoryStore() Option {
	return func(r *Runtime) {
		r.setStore(store.NewMemory())
	}
}

// WithStore configures a caller-supplied store. The Runtime closes it.
func WithStore(s BackingStore) Option {
	return func(r *Runtime) {
		r.setStore(s)
	}
}

// setStore installs s, closing any store an earlier option opened. The
// last store option wins.
func (r *Runtime) setStore(s BackingStore) {
	if r.store != nil {
		if err := r.store.Close(); err != nil && r.err == nil {
			r.err = fmt.Errorf("close replaced store: %w", err)
		}
	}
	r.store = s
}

// WithVars pre-seeds the store before the first run.
func WithVars(vars map[string]float32) Option {
	return func(r *Runtime) {
		for k, v := range vars {
			r.vars[k] = v
		}
	}
}

// WithPrelude sets a program to run once when the runtime is created,
// after WithVars seeding.
func WithPrelude(source string) Option {
	return func(r *Runtime) {
		r.prelude = source
	}
}

// WithTrace sets a callback invoked after every executed assignment.
func WithTrace(fn func(name string, v float32)) Option {
	return func(r *Runtime) {
		r.trace = fn
	}
}

// Store is the minimal variable store Interpret needs.
type Store = eval.Store

// BackingStore is a store a Runtime can own.
type BackingStore = store.Store

// Map is a plain unsynchronized store.
type Map = store.Map

// VersionEntry is one assigned value in a variable's history.
type VersionEntry = store.VersionEntry

// Run is one logged interpretation.
type Run = store.Run

// Error types.
type (
	LexError             = scanner.LexError
	ParseError           = parser.ParseError
	UnknownVariableError = eval.UnknownVariableError
	InternalError        = eval.InternalError
)

// Sentinel errors for use with errors.Is.
var (
	ErrLex             = scanner.ErrLex
	ErrParse           = parser.ErrParse
	ErrUnknownVariable = eval.ErrUnknownVariable
	ErrInternal        = eval.ErrInternal
)
