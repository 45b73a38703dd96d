// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package eval implements the minipas tree-walking evaluator.
package eval

import (
	"errors"
	"fmt"

	"nickandperla.net/minipas/internal/ast"
	"nickandperla.net/minipas/internal/token"
)

var (
	// ErrUnknownVariable is wrapped by every UnknownVariableError.
	ErrUnknownVariable = errors.New("unknown variable")

	// ErrInternal is wrapped by every InternalError.
	ErrInternal = errors.New("internal evaluator error")
)

// UnknownVariableError reports a read of a name the store does not hold.
type UnknownVariableError struct {
	Name string
	Pos  token.Pos
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable %q at %s", e.Name, e.Pos)
}

func (e *UnknownVariableError) Unwrap() error { return ErrUnknownVariable }

// InternalError reports a tree the parser should never have produced.
type InternalError struct {
	Node ast.Node
	Msg  string
}

func (e *InternalError) Error() string {
	pos := token.Pos{}
	if e.Node != nil {
		pos = e.Node.Pos()
	}
	return fmt.Sprintf("internal evaluator error at %s: %s", pos, e.Msg)
}

func (e *InternalError) Unwrap() error { return ErrInternal }

// Store is the variable store an Evaluator reads and writes.
type Store interface {
	// Get returns the value bound to name and whether it is bound.
	Get(name string) (float32, bool, error)
	// Put binds name to v, overwriting any earlier value.
	Put(name string, v float32) error
}

// Tracer observes each executed assignment.
type Tracer func(name string, v float32)

// Evaluator executes syntax trees against one Store.
type Evaluator struct {
	store Store
	trace Tracer
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithTrace sets the assignment tracer.
func WithTrace(fn Tracer) Option {
	return func(e *Evaluator) { e.trace = fn }
}

// New creates an Evaluator bound to s.
func New(s Store, opts ...Option) *Evaluator {
	e := &Evaluator{store: s}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Exec runs the statements of b in order. The first failure stops the block;
// assignments made before it stay in the store.
func (e *Evaluator) Exec(b *ast.Block) error {
	if b == nil {
		return &InternalError{Msg: "nil block"}
	}
	for _, s := range b.Stmts {
		switch s := s.(type) {
		case *ast.Assignment:
			if err := e.assign(s); err != nil {
				return err
			}
		case *ast.Sentinel:
			return nil
		default:
			return &InternalError{Node: s, Msg: fmt.Sprintf("unexpected statement %T", s)}
		}
	}
	return nil
}

func (e *Evaluator) assign(a *ast.Assignment) error {
	v, err := e.Eval(a.Value)
	if err != nil {
		return err
	}
	if err := e.store.Put(a.Name, v); err != nil {
		return err
	}
	if e.trace != nil {
		e.trace(a.Name, v)
	}
	return nil
}

// Eval computes the value of x with float32 arithmetic. Division by zero
// yields an IEEE infinity or NaN.
func (e *Evaluator) Eval(x ast.Expr) (float32, error) {
	switch x := x.(type) {
	case *ast.NumberLiteral:
		return x.Value, nil

	case *ast.VariableRef:
		v, ok, err := e.store.Get(x.Name)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, &UnknownVariableError{Name: x.Name, Pos: x.NamePos}
		}
		return v, nil

	case *ast.UnaryOp:
		v, err := e.Eval(x.X)
		if err != nil {
			return 0, err
		}
		switch x.Op {
		case ast.Pos:
			return v, nil
		case ast.Neg:
			return -v, nil
		}
		return 0, &InternalError{Node: x, Msg: fmt.Sprintf("unknown unary operator %s", x.Op)}

	case *ast.BinaryOp:
		l, err := e.Eval(x.X)
		if err != nil {
			return 0, err
		}
		r, err := e.Eval(x.Y)
		if err != nil {
			return 0, err
		}
		switch x.Op {
		case ast.Add:
			return l + r, nil
		case ast.Sub:
			return l - r, nil
		case ast.Mul:
			return l * r, nil
		case ast.Div:
			return l / r, nil
		}
		return 0, &InternalError{Node: x, Msg: fmt.Sprintf("unknown binary operator %s", x.Op)}

	case *ast.Sentinel:
		return 0, &InternalError{Node: x, Msg: "block sentinel in expression position"}

	case nil:
		return 0, &InternalError{Msg: "missing expression"}
	}
	return 0, &InternalError{Node: x, Msg: fmt.Sprintf("unexpected expression %T", x)}
}
