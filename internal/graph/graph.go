package graph

import (
	"context"
	"fmt"
	"sync"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/go-strata/strata"
	"github.com/go-strata/strata/errors"
)

// taskImpl is a single deferred computation within a graphImpl
type taskImpl struct {
	key    strata.TaskKey
	inputs []strata.TaskKey
	fn     strata.TaskFn
}

// Key returns the TaskKey of this Task
func (t *taskImpl) Key() strata.TaskKey {
	return t.key
}

// Inputs returns the upstream TaskKeys this Task consumes, in order
func (t *taskImpl) Inputs() []strata.TaskKey {
	inputs := make([]strata.TaskKey, len(t.inputs))
	copy(inputs, t.inputs)
	return inputs
}

// Run executes this Task against materialized inputs
func (t *taskImpl) Run(ctx context.Context, inputs []strata.Value) (strata.Value, error) {
	return t.fn(ctx, inputs)
}

// graphImpl is Strata's internal implementation of Graph. Construction is
// append-only: published tasks are never mutated or removed, which allows
// multiple Collection handles to share one graph safely.
type graphImpl struct {
	lock  sync.RWMutex
	tasks map[strata.TaskKey]*taskImpl
	order []strata.TaskKey
}

func createGraphImpl() *graphImpl {
	return &graphImpl{
		tasks: make(map[strata.TaskKey]*taskImpl),
		order: make([]strata.TaskKey, 0),
	}
}

// CreateGraph is a factory for Graphs
func CreateGraph() strata.Graph {
	return createGraphImpl()
}

// TaskName produces the deterministic content-based fingerprint naming all
// partition-tasks of one operation: identical operation tags, parameters and
// upstream names yield an identical name, while any difference changes it.
func TaskName(op string, params []string, upstream ...string) string {
	h := xxhash.New()
	h.WriteString(op)
	h.Write([]byte{0})
	for _, p := range params {
		h.WriteString(p)
		h.Write([]byte{0})
	}
	h.Write([]byte{1})
	for _, u := range upstream {
		h.WriteString(u)
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%s-%016x", op, h.Sum64())
}

// AddTask appends a task to the graph. Keys are content-addressed, so adding
// an existing key is a no-op, which is what deduplicates shared subgraphs.
func (g *graphImpl) AddTask(key strata.TaskKey, inputs []strata.TaskKey, fn strata.TaskFn) {
	g.lock.Lock()
	defer g.lock.Unlock()
	if _, ok := g.tasks[key]; ok {
		return
	}
	copied := make([]strata.TaskKey, len(inputs))
	copy(copied, inputs)
	g.tasks[key] = &taskImpl{key: key, inputs: copied, fn: fn}
	g.order = append(g.order, key)
}

// HasTask returns true iff the graph contains a producer for key
func (g *graphImpl) HasTask(key strata.TaskKey) bool {
	g.lock.RLock()
	defer g.lock.RUnlock()
	_, ok := g.tasks[key]
	return ok
}

// GetTask returns the producer for key
func (g *graphImpl) GetTask(key strata.TaskKey) (strata.Task, error) {
	g.lock.RLock()
	defer g.lock.RUnlock()
	t, ok := g.tasks[key]
	if !ok {
		return nil, fmt.Errorf("Graph does not contain task %s", key)
	}
	return t, nil
}

// NumTasks returns the number of tasks in the graph
func (g *graphImpl) NumTasks() int {
	g.lock.RLock()
	defer g.lock.RUnlock()
	return len(g.tasks)
}

// Keys returns all task keys in insertion order
func (g *graphImpl) Keys() []strata.TaskKey {
	g.lock.RLock()
	defer g.lock.RUnlock()
	keys := make([]strata.TaskKey, len(g.order))
	copy(keys, g.order)
	return keys
}

// Validate fails if any referenced key has no producer in the graph.
// Dangling references are a fatal construction error, caught here before
// any task is scheduled.
func (g *graphImpl) Validate() error {
	g.lock.RLock()
	defer g.lock.RUnlock()
	for _, key := range g.order {
		for _, input := range g.tasks[key].inputs {
			if _, ok := g.tasks[input]; !ok {
				return errors.DanglingKeyError{Key: input.String(), Referencer: key.String()}
			}
		}
	}
	return nil
}
