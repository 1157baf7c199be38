// Package evaluator runs expr-lang expressions against a document.
//
// The document is exposed as doc, a plain tree of maps, slices and
// scalars, together with pointer helpers:
//
//	get(ptr)  the value at ptr, or nil when absent
//	kind(ptr) the classification name of the value at ptr, or "" when absent
//	has(ptr)  whether ptr addresses a value
//
// Results are read the way encoding/json would write them, so a date()
// result is an RFC 3339 string and a duration() result its nanoseconds.
package evaluator

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/mcncl/jsontrait/adapter/reflected"
	"github.com/mcncl/jsontrait/internal/debug"
	"github.com/mcncl/jsontrait/internal/document"
	"github.com/mcncl/jsontrait/value"
)

// Expander rewrites a pointer argument before it is resolved, typically
// to look up aliases.
type Expander func(arg string) (string, error)

// Evaluator evaluates expressions against one document
type Evaluator struct {
	root   document.Node
	expand Expander
	env    map[string]any
}

// NewEvaluator creates an Evaluator for root. A nil expand leaves pointer
// arguments unchanged.
func NewEvaluator(root document.Node, expand Expander) *Evaluator {
	if expand == nil {
		expand = func(arg string) (string, error) { return arg, nil }
	}
	return &Evaluator{
		root:   root,
		expand: expand,
		env:    map[string]any{"doc": root.Canonical().Interface()},
	}
}

// Evaluate compiles and runs input, returning its result as a canonical
// value.
func (e *Evaluator) Evaluate(input string) (value.Value, error) {
	program, err := expr.Compile(input, append(e.options(), expr.Env(e.env))...)
	if err != nil {
		return value.Value{}, fmt.Errorf("compiling expression: %w", err)
	}
	res, err := expr.Run(program, e.env)
	if err != nil {
		return value.Value{}, fmt.Errorf("running expression: %w", err)
	}
	debug.Dump("expression result", res)
	return value.From(reflected.Of(res)), nil
}

func (e *Evaluator) options() []expr.Option {
	return []expr.Option{
		expr.Function("get", func(params ...any) (any, error) {
			node, ok, err := e.lookup(params[0].(string))
			if err != nil || !ok {
				return nil, err
			}
			return node.Canonical().Interface(), nil
		},
			new(func(string) any)),
		expr.Function("kind", func(params ...any) (any, error) {
			node, ok, err := e.lookup(params[0].(string))
			if err != nil || !ok {
				return "", err
			}
			return node.Kind().String(), nil
		},
			new(func(string) string)),
		expr.Function("has", func(params ...any) (any, error) {
			_, ok, err := e.lookup(params[0].(string))
			return ok, err
		},
			new(func(string) bool)),
	}
}

func (e *Evaluator) lookup(arg string) (document.Node, bool, error) {
	ptr, err := e.expand(arg)
	if err != nil {
		return nil, false, err
	}
	node, ok := e.root.Resolve(ptr)
	return node, ok, nil
}
