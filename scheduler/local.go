// Package scheduler provides a local, in-process Scheduler for Strata task
// graphs. The core library only ever expresses parallelism declaratively as
// graph edges; this package is the collaborator which actually runs tasks.
package scheduler

import (
	"context"
	"runtime"
	"sync"

	"github.com/go-strata/strata"
	"github.com/go-strata/strata/errors"
	"github.com/go-strata/strata/internal/pcache"
	"github.com/go-strata/strata/logging"
	"golang.org/x/sync/errgroup"
)

// LocalOptions configures a Local Scheduler
type LocalOptions struct {
	NumWorkers int                    // number of concurrent task runners. Defaults to the number of CPUs.
	Fuse       bool                   // fuse single-consumer task chains before executing
	Cache      pcache.PartitionCache  // optional key-addressed result cache
	Logger     *logging.Logger        // defaults to the package-wide default Logger
}

// Local is a Scheduler which executes task graphs within the calling process,
// running independent tasks in parallel across a bounded worker pool
type Local struct {
	numWorkers int
	fuse       bool
	cache      pcache.PartitionCache
	logger     *logging.Logger
}

// CreateLocal produces a Local Scheduler
func CreateLocal(opts *LocalOptions) *Local {
	if opts == nil {
		opts = &LocalOptions{}
	}
	numWorkers := opts.NumWorkers
	if numWorkers < 1 {
		numWorkers = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.GetDefaultLogger()
	}
	return &Local{
		numWorkers: numWorkers,
		fuse:       opts.Fuse,
		cache:      opts.Cache,
		logger:     logger,
	}
}

// runState tracks the progress of a single Run call. Local itself is
// stateless across Runs, so a failed or cancelled Run leaves the Scheduler
// reusable.
type runState struct {
	lock       sync.Mutex
	results    map[strata.TaskKey]strata.Value
	waiting    map[strata.TaskKey]int
	dependents map[strata.TaskKey][]strata.TaskKey
	remaining  int
	ready      chan strata.TaskKey
}

// Run executes the tasks required to materialize targets, returning a Value
// per target key. Validation errors are returned before any task runs.
func (s *Local) Run(ctx context.Context, graph strata.Graph, targets []strata.TaskKey) (map[strata.TaskKey]strata.Value, error) {
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	if s.fuse {
		graph = graph.Fuse(targets)
	}
	needed, err := requiredSubgraph(graph, targets)
	if err != nil {
		return nil, err
	}

	state := &runState{
		results:    make(map[strata.TaskKey]strata.Value, len(needed)),
		waiting:    make(map[strata.TaskKey]int, len(needed)),
		dependents: make(map[strata.TaskKey][]strata.TaskKey, len(needed)),
		remaining:  len(needed),
		ready:      make(chan strata.TaskKey, len(needed)),
	}
	for _, key := range needed {
		task, err := graph.GetTask(key)
		if err != nil {
			return nil, err
		}
		inputs := task.Inputs()
		state.waiting[key] = len(inputs)
		for _, input := range inputs {
			state.dependents[input] = append(state.dependents[input], key)
		}
	}
	for _, key := range needed {
		if state.waiting[key] == 0 {
			state.ready <- key
		}
	}

	s.logger.Debugf("running %d of %d tasks across %d workers", len(needed), graph.NumTasks(), s.numWorkers)
	eg, gctx := errgroup.WithContext(ctx)
	for w := 0; w < s.numWorkers; w++ {
		eg.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case key, ok := <-state.ready:
					if !ok {
						return nil
					}
					if err := s.runTask(gctx, graph, key, state); err != nil {
						return err
					}
				}
			}
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := make(map[strata.TaskKey]strata.Value, len(targets))
	for _, key := range targets {
		value, ok := state.results[key]
		if !ok {
			return nil, errors.MissingKeyError{Key: key.String()}
		}
		out[key] = value
	}
	return out, nil
}

// runTask materializes a single task, consulting the result cache first, and
// releases any dependents whose inputs are now all available
func (s *Local) runTask(ctx context.Context, graph strata.Graph, key strata.TaskKey, state *runState) error {
	task, err := graph.GetTask(key)
	if err != nil {
		return err
	}

	var value strata.Value
	cached := false
	if s.cache != nil {
		if part, err := s.cache.Get(key.String()); err == nil {
			value = part
			cached = true
		}
	}
	if !cached {
		inputKeys := task.Inputs()
		inputs := make([]strata.Value, len(inputKeys))
		state.lock.Lock()
		for i, inputKey := range inputKeys {
			inputs[i] = state.results[inputKey]
		}
		state.lock.Unlock()
		value, err = task.Run(ctx, inputs)
		if err != nil {
			return err
		}
		if s.cache != nil {
			if part, ok := value.(strata.OperablePartition); ok {
				s.cache.Put(key.String(), part)
			}
		}
	}

	state.lock.Lock()
	defer state.lock.Unlock()
	state.results[key] = value
	state.remaining--
	for _, dependent := range state.dependents[key] {
		state.waiting[dependent]--
		if state.waiting[dependent] == 0 {
			state.ready <- dependent
		}
	}
	if state.remaining == 0 {
		close(state.ready)
	}
	return nil
}

// requiredSubgraph returns the closure of tasks needed to materialize targets
func requiredSubgraph(graph strata.Graph, targets []strata.TaskKey) ([]strata.TaskKey, error) {
	seen := make(map[strata.TaskKey]bool)
	needed := make([]strata.TaskKey, 0)
	stack := make([]strata.TaskKey, len(targets))
	copy(stack, targets)
	for len(stack) > 0 {
		key := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[key] {
			continue
		}
		seen[key] = true
		needed = append(needed, key)
		task, err := graph.GetTask(key)
		if err != nil {
			return nil, err
		}
		stack = append(stack, task.Inputs()...)
	}
	return needed, nil
}
