package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type join struct {
	names      []string // sorted branch names, fixed at composition time
	branches   map[string]Runnable
	sequential bool
}

// JoinOption configures a Join.
type JoinOption func(*join)

// Sequential makes the join run branches one after another instead of
// concurrently. Output is equivalent for pure branches; the sequential mode
// exists for debugging and for callers that must bound goroutine use.
func Sequential() JoinOption {
	return func(j *join) { j.sequential = true }
}

// Join composes branches in parallel: every branch receives the same input,
// and the outputs merge into a Bundle keyed by the declared branch names.
// Bundle assembly is deterministic regardless of branch completion order.
//
// If any branch fails the join fails with that branch's error; sibling
// branches are cancelled cooperatively through the context, and the join
// returns only after every branch has settled. When several branches fail,
// the error of the first failing branch in name order is returned so the
// outcome does not depend on scheduling.
func Join(branches map[string]Runnable, opts ...JoinOption) Runnable {
	names := make([]string, 0, len(branches))
	for name := range branches {
		names = append(names, name)
	}
	sort.Strings(names)

	held := make(map[string]Runnable, len(branches))
	for name, r := range branches {
		held[name] = r
	}

	j := &join{names: names, branches: held}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *join) Invoke(ctx context.Context, in any) (any, error) {
	if j.sequential {
		return j.invokeSequential(ctx, in)
	}
	return j.invokeConcurrent(ctx, in)
}

func (j *join) invokeSequential(ctx context.Context, in any) (any, error) {
	out := make(Bundle, len(j.names))
	for _, name := range j.names {
		v, err := j.branches[name].Invoke(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("branch %s: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

func (j *join) invokeConcurrent(ctx context.Context, in any) (any, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		values  = make(Bundle, len(j.names))
		errs    = make(map[string]error, len(j.names))
	)

	for _, name := range j.names {
		wg.Add(1)
		go func(name string, r Runnable) {
			defer wg.Done()
			v, err := r.Invoke(ctx, in)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[name] = err
				// Give up on siblings; partial results are discarded.
				cancel()
				return
			}
			values[name] = v
		}(name, j.branches[name])
	}
	wg.Wait()

	if len(errs) > 0 {
		for _, name := range j.names {
			if err, ok := errs[name]; ok {
				return nil, fmt.Errorf("branch %s: %w", name, err)
			}
		}
	}
	return values, nil
}

func (j *join) Label() string { return "parallel" }
