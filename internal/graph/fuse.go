package graph

import (
	"context"

	"github.com/go-strata/strata"
)

// Fuse returns a graph in which single-consumer linear chains are merged
// into one task each. Fusing is purely a graph-size optimization: the Values
// produced for targets are unchanged, and target keys are never fused away.
func (g *graphImpl) Fuse(targets []strata.TaskKey) strata.Graph {
	g.lock.RLock()
	defer g.lock.RUnlock()

	targetSet := make(map[strata.TaskKey]bool, len(targets))
	for _, k := range targets {
		targetSet[k] = true
	}
	dependents := make(map[strata.TaskKey]int)
	for _, k := range g.order {
		for _, input := range g.tasks[k].inputs {
			dependents[input]++
		}
	}

	// a task is absorbed into its consumer when it is that consumer's only
	// input, it has no other consumers, and it is not itself a target
	absorbed := make(map[strata.TaskKey]bool)
	for _, k := range g.order {
		t := g.tasks[k]
		if len(t.inputs) != 1 {
			continue
		}
		input := t.inputs[0]
		if _, ok := g.tasks[input]; ok && !targetSet[input] && dependents[input] == 1 {
			absorbed[input] = true
		}
	}

	fused := createGraphImpl()
	for _, k := range g.order {
		if absorbed[k] {
			continue
		}
		// walk down the chain ending at k, top to bottom
		chain := []*taskImpl{g.tasks[k]}
		for {
			cur := chain[len(chain)-1]
			if len(cur.inputs) == 1 && absorbed[cur.inputs[0]] {
				chain = append(chain, g.tasks[cur.inputs[0]])
				continue
			}
			break
		}
		if len(chain) == 1 {
			fused.AddTask(k, g.tasks[k].inputs, g.tasks[k].fn)
			continue
		}
		bottom := chain[len(chain)-1]
		fns := make([]strata.TaskFn, len(chain))
		for i, t := range chain {
			fns[len(chain)-1-i] = t.fn // bottom-to-top execution order
		}
		fused.AddTask(k, bottom.inputs, composeChain(fns))
	}
	return fused
}

// composeChain produces a TaskFn which runs a fused chain bottom-to-top,
// feeding each task's Value into the next
func composeChain(fns []strata.TaskFn) strata.TaskFn {
	return func(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
		value, err := fns[0](ctx, inputs)
		if err != nil {
			return nil, err
		}
		for _, fn := range fns[1:] {
			value, err = fn(ctx, []strata.Value{value})
			if err != nil {
				return nil, err
			}
		}
		return value, nil
	}
}
