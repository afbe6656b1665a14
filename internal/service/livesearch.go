package service

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period LiveSearch waits after the last
// keystroke before querying.
const DefaultDebounce = 300 * time.Millisecond

// Searcher is the query side LiveSearch drives.
type Searcher interface {
	Search(ctx context.Context, query string) SearchState
	ScopedSearch(ctx context.Context, subject, semester, query string) SearchState
}

// LiveSearchOption configures a LiveSearch.
type LiveSearchOption func(*LiveSearch)

// WithScope restricts the live search to one subject and semester.
func WithScope(subject, semester string) LiveSearchOption {
	return func(l *LiveSearch) {
		l.scoped = true
		l.subject = subject
		l.semester = semester
	}
}

// WithOnChange registers fn to receive every state change. fn runs with the
// LiveSearch locked and must not call back into it.
func WithOnChange(fn func(SearchState)) LiveSearchOption {
	return func(l *LiveSearch) { l.onChange = fn }
}

// LiveSearch runs a search after the input has been quiet for the debounce
// delay. Every query carries a sequence number; a response whose number is
// no longer the latest is dropped, so a slow earlier query can never
// overwrite the results of a later one.
type LiveSearch struct {
	searcher Searcher
	delay    time.Duration

	scoped            bool
	subject, semester string
	onChange          func(SearchState)

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	idle    *sync.Cond
	timer   *time.Timer
	queued  string
	pending int // debounced queries scheduled or running
	seq     uint64
	state   SearchState
	closed  bool
}

// NewLiveSearch creates a LiveSearch bound to ctx; queries started by the
// debounce timer use it. A non-positive delay selects DefaultDebounce.
func NewLiveSearch(ctx context.Context, s Searcher, delay time.Duration, opts ...LiveSearchOption) *LiveSearch {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	cctx, cancel := context.WithCancel(ctx)
	l := &LiveSearch{
		searcher: s,
		delay:    delay,
		ctx:      cctx,
		cancel:   cancel,
		state:    idleState(""),
	}
	l.idle = sync.NewCond(&l.mu)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Input records a keystroke. It restarts the debounce timer and invalidates
// any query still in flight. A blank input resets the state to idle without
// querying.
func (l *LiveSearch) Input(query string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}

	l.stopTimer()
	l.seq++
	id := l.seq

	if strings.TrimSpace(query) == "" {
		l.setState(idleState(query))
		return
	}

	l.state.Query = query
	l.queued = query
	l.pending++
	l.timer = time.AfterFunc(l.delay, func() {
		l.run(l.ctx, id, query)

		l.mu.Lock()
		l.pending--
		l.idle.Broadcast()
		l.mu.Unlock()
	})
}

// Submit queries immediately, bypassing the debounce, and returns the
// resulting state.
func (l *LiveSearch) Submit(ctx context.Context, query string) SearchState {
	l.mu.Lock()
	if l.closed {
		st := l.state
		l.mu.Unlock()
		return st
	}
	l.stopTimer()
	l.seq++
	id := l.seq
	if strings.TrimSpace(query) == "" {
		l.setState(idleState(query))
		st := l.state
		l.mu.Unlock()
		return st
	}
	l.mu.Unlock()

	l.run(ctx, id, query)
	return l.State()
}

// Flush runs a query still waiting out its debounce delay right away and
// waits until no debounced query is running, then returns the state.
func (l *LiveSearch) Flush(ctx context.Context) SearchState {
	l.mu.Lock()
	if !l.closed && l.timer != nil && l.timer.Stop() {
		l.timer = nil
		l.pending--
		id, query := l.seq, l.queued
		l.mu.Unlock()
		l.run(ctx, id, query)
		l.mu.Lock()
	}
	for l.pending > 0 && !l.closed {
		l.idle.Wait()
	}
	st := l.state
	l.mu.Unlock()
	return st
}

// State returns the current state.
func (l *LiveSearch) State() SearchState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Close stops the timer and drops any response still in flight.
func (l *LiveSearch) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	l.stopTimer()
	l.seq++
	l.cancel()
	l.idle.Broadcast()
}

func (l *LiveSearch) run(ctx context.Context, id uint64, query string) {
	l.mu.Lock()
	if id != l.seq {
		l.mu.Unlock()
		return
	}
	loading := l.state
	loading.Query = query
	loading.Loading = true
	l.setState(loading)
	l.mu.Unlock()

	var st SearchState
	if l.scoped {
		st = l.searcher.ScopedSearch(ctx, l.subject, l.semester, query)
	} else {
		st = l.searcher.Search(ctx, query)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if id != l.seq {
		return
	}
	st.Loading = false
	l.setState(st)
}

func (l *LiveSearch) stopTimer() {
	if l.timer != nil {
		if l.timer.Stop() {
			l.pending--
		}
		l.timer = nil
	}
}

// setState must be called with mu held.
func (l *LiveSearch) setState(st SearchState) {
	l.state = st
	if l.onChange != nil {
		l.onChange(st)
	}
}
