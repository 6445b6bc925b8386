// Package search runs debounced, cancellable history searches off the caller's
// goroutine and delivers only results that are still current when they arrive.
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bnema/visited/internal/domain/entity"
	"github.com/bnema/visited/internal/logging"
	"golang.org/x/sync/semaphore"
)

// SearchFunc executes one search. Implementations are expected to honor
// context cancellation; the pipeline treats an error as an empty result set.
type SearchFunc func(ctx context.Context, query string) ([]entity.Suggestion, error)

// DeliverFunc receives results for the query they answer. It is called from a
// background goroutine, at most once per submitted query, and never after
// Close returns.
type DeliverFunc func(query string, results []entity.Suggestion)

// Options tunes one pipeline instance.
type Options struct {
	// Debounce is how long input must be quiet before a search runs.
	Debounce time.Duration
	// MinQueryLength short-circuits shorter queries to an immediate empty
	// delivery without touching the store.
	MinQueryLength int
	// MaxRendered caps how many results reach the deliver callback.
	MaxRendered int
}

// AutocompleteOptions returns the tuning for keystroke-driven omnibox
// completion: short debounce, small render cap.
func AutocompleteOptions() Options {
	return Options{
		Debounce:       150 * time.Millisecond,
		MinQueryLength: 1,
		MaxRendered:    10,
	}
}

// BrowserOptions returns the tuning for the history-browser view, where
// result sets are larger and a longer quiet period is acceptable.
func BrowserOptions() Options {
	return Options{
		Debounce:       300 * time.Millisecond,
		MinQueryLength: 1,
		MaxRendered:    100,
	}
}

// Pipeline coalesces rapid query submissions into one search per quiet
// period. Every submission advances a generation counter; a search checks its
// generation before delivering and drops its results silently when a newer
// query superseded it. At most one search runs at a time.
type Pipeline struct {
	search  SearchFunc
	deliver DeliverFunc
	opts    Options

	ctx    context.Context
	cancel context.CancelFunc
	sem    *semaphore.Weighted
	wg     sync.WaitGroup

	mu         sync.Mutex
	timer      *time.Timer
	lastQuery  string
	generation uint64
	closed     bool
}

// NewPipeline builds a pipeline over the given search and delivery functions.
// The context carries the logger and bounds every search this pipeline runs.
func NewPipeline(ctx context.Context, search SearchFunc, deliver DeliverFunc, opts Options) *Pipeline {
	if opts.Debounce <= 0 {
		opts.Debounce = AutocompleteOptions().Debounce
	}
	if opts.MaxRendered <= 0 {
		opts.MaxRendered = AutocompleteOptions().MaxRendered
	}

	pctx, cancel := context.WithCancel(logging.WithComponent(ctx, "search"))
	return &Pipeline{
		search:  search,
		deliver: deliver,
		opts:    opts,
		ctx:     pctx,
		cancel:  cancel,
		sem:     semaphore.NewWeighted(1),
	}
}

// Submit schedules a search for the query after the debounce period.
// Resubmitting the query currently shown is a no-op. Queries shorter than the
// minimum length cancel any pending search and deliver an empty result set
// immediately, so stale suggestions never linger after the input is cleared.
func (p *Pipeline) Submit(query string) {
	query = strings.TrimSpace(query)

	p.mu.Lock()
	if p.closed || query == p.lastQuery {
		p.mu.Unlock()
		return
	}
	p.lastQuery = query
	p.generation++
	gen := p.generation

	p.stopTimerLocked()

	if len(query) < p.opts.MinQueryLength {
		p.mu.Unlock()
		p.deliver(query, []entity.Suggestion{})
		return
	}

	// The wait-group slot is claimed here, under the lock, so Close can
	// never observe an Add racing its Wait. The slot transfers to the
	// goroutine run spawns, or is released by stopTimerLocked.
	p.wg.Add(1)
	p.timer = time.AfterFunc(p.opts.Debounce, func() {
		p.run(gen, query)
	})
	p.mu.Unlock()
}

// Flush runs any pending query immediately instead of waiting out the
// debounce period. Used when the user commits input (e.g. presses enter).
func (p *Pipeline) Flush() {
	p.mu.Lock()
	if p.closed || p.timer == nil {
		p.mu.Unlock()
		return
	}
	timer := p.timer
	p.timer = nil
	gen := p.generation
	query := p.lastQuery
	p.mu.Unlock()

	if !timer.Stop() {
		// The debounce expired concurrently; its callback owns the slot
		// and is already running this query.
		return
	}
	p.run(gen, query)
}

// Cancel drops any pending or in-flight search without delivering anything.
func (p *Pipeline) Cancel() {
	p.mu.Lock()
	p.generation++
	p.lastQuery = ""
	p.stopTimerLocked()
	p.mu.Unlock()
}

// Close cancels outstanding work and waits for the running search, if any, to
// observe the cancellation. Idempotent; Submit after Close is a no-op.
func (p *Pipeline) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.generation++
	p.stopTimerLocked()
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
}

// stopTimerLocked stops a pending debounce timer and releases its wait-group
// slot. When the timer already fired, its callback owns the slot and will
// release it itself.
func (p *Pipeline) stopTimerLocked() {
	if p.timer == nil {
		return
	}
	if p.timer.Stop() {
		p.wg.Done()
	}
	p.timer = nil
}

// run executes the search on its own goroutine, consuming the wait-group slot
// claimed when the timer was scheduled. The semaphore serializes searches so
// a slow one cannot pile up behind rapid typing; superseded searches drop out
// at the staleness checks.
func (p *Pipeline) run(gen uint64, query string) {
	go func() {
		defer p.wg.Done()

		if err := p.sem.Acquire(p.ctx, 1); err != nil {
			return
		}
		defer p.sem.Release(1)

		if p.stale(gen) {
			return
		}

		results, err := p.search(p.ctx, query)
		if err != nil {
			if p.ctx.Err() == nil {
				logging.FromContext(p.ctx).Error().Err(err).
					Str("query", query).Msg("history search failed")
			}
			results = nil
		}

		if p.stale(gen) {
			return
		}
		if len(results) > p.opts.MaxRendered {
			results = results[:p.opts.MaxRendered]
		}
		if results == nil {
			results = []entity.Suggestion{}
		}
		p.deliver(query, results)
	}()
}

func (p *Pipeline) stale(gen uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed || gen != p.generation
}
