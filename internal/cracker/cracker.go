// Package cracker drives the search for plaintext: breadth-first expansion
// of decode attempts across a worker pool, bounded by depth and wall-clock
// budgets, with cycle pruning through a shared visited set.
package cracker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/z3rofork/Ares/internal/checker"
	"github.com/z3rofork/Ares/internal/decoder"
)

// Defaults applied by callers that do not configure their own budgets.
const (
	DefaultMaxDepth = 10
	DefaultTimeout  = 5 * time.Second
)

// Config holds the recognized search options. Empty Decoders/Checkers slices
// mean "all registered". It is validated before the search starts and
// immutable for its duration.
type Config struct {
	// MaxDepth bounds the decode path length. Must be at least 1.
	MaxDepth int
	// Timeout is the wall-clock budget. Zero disables the internal timer
	// (the caller's context may still carry a deadline).
	Timeout time.Duration
	// Decoders restricts the search to the named transformation units.
	Decoders []string
	// Checkers restricts the plaintext checkers consulted.
	Checkers []string
	// Workers sizes the per-level worker pool. Zero means one worker per
	// CPU. With Workers set to 1 the search is fully deterministic.
	Workers int
}

// Candidate is a text value reached from the root input, tagged with the
// decode path that produced it. Depth always equals len(Path). Candidates
// are immutable once created and consumed by exactly one expansion step.
type Candidate struct {
	Text  string
	Path  []string
	Depth int
}

// Cracker owns the read-only decoder registry and checker suite for the
// lifetime of the process. Crack may be called concurrently; every
// invocation gets its own visited set and budgets.
type Cracker struct {
	registry *decoder.Registry
	suite    *checker.Suite
}

func New(registry *decoder.Registry, suite *checker.Suite) *Cracker {
	return &Cracker{registry: registry, suite: suite}
}

// Crack searches for a plaintext decoding of input and returns a terminal
// Result unless the config is invalid or the caller cancels ctx; an expired
// time budget is an Exhausted result, a cancellation is an error. The root
// input is checked
// before any expansion, so plaintext input yields Success with an empty
// path. Levels are strict: no candidate at depth d+1 is considered before
// depth d has finished generating, which guarantees the shortest successful
// path wins across depths. Among same-depth successes the first verdict
// observed by the aggregator wins; with more than one worker this tie-break
// is deliberately non-deterministic.
func (c *Cracker) Crack(ctx context.Context, input string, cfg Config) (Result, error) {
	start := time.Now()

	workers, enabled, suite, err := c.prepare(cfg)
	if err != nil {
		return Result{}, err
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	// Derived so the first success can cancel in-flight work without
	// tearing down the caller's context.
	searchCtx, cancelSearch := context.WithCancel(ctx)
	defer cancelSearch()

	stats := &counters{}
	seen := newVisited()
	seen.Add(input)

	stats.checked.Add(1)
	if name, v := suite.Check(input); v.Match {
		return success(input, nil, name, v.Reason, stats.snapshot(0, start)), nil
	}

	frontier := []Candidate{{Text: input}}
	for depth := 1; depth <= cfg.MaxDepth; depth++ {
		if err := ctx.Err(); err != nil {
			return budgetResult(err, stats.snapshot(depth-1, start))
		}
		next, win := c.expandLevel(searchCtx, cancelSearch, frontier, seen, suite, enabled, workers, stats)
		if win != nil {
			return success(win.text, win.path, win.checker, win.reason, stats.snapshot(depth, start)), nil
		}
		if err := ctx.Err(); err != nil {
			return budgetResult(err, stats.snapshot(depth, start))
		}
		if len(next) == 0 {
			return exhausted(ExhaustedNoCandidates, stats.snapshot(depth, start)), nil
		}
		frontier = next
	}
	return exhausted(ExhaustedDepthLimit, stats.snapshot(cfg.MaxDepth, start)), nil
}

func (c *Cracker) prepare(cfg Config) (int, map[string]struct{}, *checker.Suite, error) {
	if cfg.MaxDepth < 1 {
		return 0, nil, nil, fmt.Errorf("max depth must be at least 1, got %d", cfg.MaxDepth)
	}
	if cfg.Timeout < 0 {
		return 0, nil, nil, fmt.Errorf("timeout cannot be negative, got %s", cfg.Timeout)
	}
	if cfg.Workers < 0 {
		return 0, nil, nil, fmt.Errorf("worker count cannot be negative, got %d", cfg.Workers)
	}
	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	var enabled map[string]struct{}
	if len(cfg.Decoders) > 0 {
		enabled = make(map[string]struct{}, len(cfg.Decoders))
		for _, name := range cfg.Decoders {
			if _, ok := c.registry.Get(name); !ok {
				return 0, nil, nil, fmt.Errorf("unknown decoder %q", name)
			}
			enabled[name] = struct{}{}
		}
	}

	suite, err := c.suite.Subset(cfg.Checkers)
	if err != nil {
		return 0, nil, nil, err
	}
	return workers, enabled, suite, nil
}

// winner carries the first positive verdict back to the aggregation point.
type winner struct {
	text    string
	path    []string
	checker string
	reason  string
}

// expandLevel partitions the frontier across the worker pool, joins the
// level, and returns either the next frontier or the first success observed.
func (c *Cracker) expandLevel(ctx context.Context, cancel context.CancelFunc, frontier []Candidate, seen *visited, suite *checker.Suite, enabled map[string]struct{}, workers int, stats *counters) ([]Candidate, *winner) {
	jobChan := make(chan Candidate, workers*2)
	collectChan := make(chan []Candidate, workers)
	winChan := make(chan *winner, 1)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cand := range jobChan {
				children := c.expand(ctx, cancel, cand, seen, suite, enabled, stats, winChan)
				if len(children) == 0 {
					continue
				}
				select {
				case collectChan <- children:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobChan)
		for _, cand := range frontier {
			select {
			case jobChan <- cand:
			case <-ctx.Done():
				return
			}
		}
	}()

	var next []Candidate
	done := make(chan struct{})
	go func() {
		defer close(done)
		for children := range collectChan {
			next = append(next, children...)
		}
	}()

	wg.Wait()
	close(collectChan)
	<-done

	select {
	case w := <-winChan:
		return nil, w
	default:
		return next, nil
	}
}

// expand applies every applicable enabled unit to one candidate. A positive
// checker verdict publishes the winner and cancels the level; the nil return
// ensures no partial results leak past the cancellation.
func (c *Cracker) expand(ctx context.Context, cancel context.CancelFunc, cand Candidate, seen *visited, suite *checker.Suite, enabled map[string]struct{}, stats *counters, winChan chan<- *winner) []Candidate {
	var children []Candidate
	for _, unit := range c.registry.Applicable(cand.Text) {
		if enabled != nil {
			if _, ok := enabled[unit.Name()]; !ok {
				continue
			}
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		for _, out := range unit.Decode(cand.Text) {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if !seen.Add(out) {
				stats.pruned.Add(1)
				continue
			}
			path := appendPath(cand.Path, unit.Name())
			stats.checked.Add(1)
			if name, v := suite.Check(out); v.Match {
				// Non-blocking: only the first success is observed.
				select {
				case winChan <- &winner{text: out, path: path, checker: name, reason: v.Reason}:
				default:
				}
				cancel()
				return nil
			}
			children = append(children, Candidate{Text: out, Path: path, Depth: cand.Depth + 1})
		}
	}
	return children
}

// budgetResult maps a context error at a level boundary to its terminal
// outcome. A deadline expiry is the time budget running out; a caller
// cancellation is not an exhaustion at all and surfaces as an error.
func budgetResult(err error, stats Stats) (Result, error) {
	if errors.Is(err, context.DeadlineExceeded) {
		return exhausted(ExhaustedTimeout, stats), nil
	}
	return Result{}, err
}

func appendPath(path []string, name string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = name
	return out
}

type counters struct {
	checked atomic.Int64
	pruned  atomic.Int64
}

func (c *counters) snapshot(depth int, start time.Time) Stats {
	return Stats{
		CandidatesChecked: int(c.checked.Load()),
		CandidatesPruned:  int(c.pruned.Load()),
		Depth:             depth,
		Elapsed:           time.Since(start),
	}
}
