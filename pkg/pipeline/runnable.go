// Package pipeline provides a combinator algebra for building directed
// data-flow graphs out of reusable transformation stages: sequential
// chaining via Pipe and parallel fan-out/merge via Join.
//
// Runnables carry no per-call mutable state; all call-scoped data flows
// through the input and output values, so a composed pipeline is safe for
// concurrent Invoke calls.
package pipeline

import "context"

// Runnable is a composable unit mapping an input to an output, potentially
// suspending on external I/O. Implementations must be safe for concurrent
// use.
type Runnable interface {
	// Invoke runs the stage. Errors propagate unmodified apart from stage
	// labeling; no stage swallows them.
	Invoke(ctx context.Context, in any) (any, error)

	// Label reports the node label used for graph introspection.
	Label() string
}

// Typed is optionally implemented by Runnables that declare their input and
// output shapes. BuildGraph copies the shapes onto the stage's node; they
// have no effect on Invoke semantics.
type Typed interface {
	InputShape() string
	OutputShape() string
}

// Bundle is the keyed result of a Join: one entry per declared branch name,
// holding that branch's output for the shared input.
type Bundle map[string]any

type identity struct{}

// Identity returns a Runnable that returns its input unchanged.
func Identity() Runnable { return identity{} }

func (identity) Invoke(_ context.Context, in any) (any, error) { return in, nil }
func (identity) Label() string                                 { return "identity" }

type lambda struct {
	label string
	fn    func(ctx context.Context, in any) (any, error)
}

// Lambda wraps a function as a Runnable. The label names the node in graph
// output. The returned value is a pointer so Runnables built from functions
// stay comparable; an interface holding a func-bearing struct value would
// panic on ==.
func Lambda(label string, fn func(ctx context.Context, in any) (any, error)) Runnable {
	return &lambda{label: label, fn: fn}
}

func (l *lambda) Invoke(ctx context.Context, in any) (any, error) { return l.fn(ctx, in) }
func (l *lambda) Label() string                                   { return l.label }

type typedLambda struct {
	lambda
	in  string
	out string
}

// TypedLambda is Lambda with declared input and output shapes for graph
// introspection.
func TypedLambda(label, in, out string, fn func(ctx context.Context, in any) (any, error)) Runnable {
	return &typedLambda{lambda: lambda{label: label, fn: fn}, in: in, out: out}
}

func (l *typedLambda) InputShape() string  { return l.in }
func (l *typedLambda) OutputShape() string { return l.out }
