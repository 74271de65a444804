package pipeline

import (
	"context"
	"fmt"
)

type seq struct {
	stages []Runnable
}

// Pipe composes stages sequentially: the output of each stage feeds the
// next. A stage failure short-circuits the remainder. Composition is
// associative: Pipe(Pipe(a, b), c) and Pipe(a, Pipe(b, c)) behave
// identically, and nested pipes are flattened so both also introspect to
// the same graph.
func Pipe(stages ...Runnable) Runnable {
	flat := make([]Runnable, 0, len(stages))
	for _, s := range stages {
		if inner, ok := s.(*seq); ok {
			flat = append(flat, inner.stages...)
			continue
		}
		flat = append(flat, s)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &seq{stages: flat}
}

func (s *seq) Invoke(ctx context.Context, in any) (any, error) {
	v := in
	for _, stage := range s.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := stage.Invoke(ctx, v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", stage.Label(), err)
		}
		v = out
	}
	return v, nil
}

func (s *seq) Label() string { return "sequence" }
