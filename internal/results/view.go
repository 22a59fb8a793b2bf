package results

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/meur/gamecatalog/internal/models"
)

// DefaultDelay is the loading affordance shown before results appear.
const DefaultDelay = 300 * time.Millisecond

// Searcher evaluates a query against the catalog.
type Searcher interface {
	Search(query string) []models.Game
}

// SearchFunc adapts a function to Searcher.
type SearchFunc func(query string) []models.Game

// Search implements Searcher.
func (f SearchFunc) Search(query string) []models.Game { return f(query) }

// View evaluates queries after a delay and publishes each state change.
// It is safe for concurrent use.
type View struct {
	searcher Searcher
	delay    time.Duration
	onChange func(Snapshot)
	logger   *zap.Logger

	mu      sync.Mutex
	machine Machine
	timer   *time.Timer
	closed  bool

	pubMu   sync.Mutex
	lastSeq uint64
}

// Option configures a View.
type Option func(*View)

// WithDelay sets the artificial loading delay. Zero evaluates on the next
// timer tick without changing results.
func WithDelay(d time.Duration) Option {
	return func(v *View) { v.delay = d }
}

// OnChange registers a callback for published snapshots. Calls are
// serialized and never go backwards in sequence.
func OnChange(fn func(Snapshot)) Option {
	return func(v *View) { v.onChange = fn }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(v *View) { v.logger = l }
}

// NewView creates a View over searcher.
func NewView(searcher Searcher, opts ...Option) *View {
	v := &View{
		searcher: searcher,
		delay:    DefaultDelay,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Submit enters Loading for query and schedules its evaluation. A pending
// evaluation for an earlier query is cancelled.
func (v *View) Submit(query string) Ticket {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return Ticket{}
	}
	if v.timer != nil {
		v.timer.Stop()
	}
	t := v.machine.Begin(query)
	snap := v.machine.Snapshot()
	v.timer = time.AfterFunc(v.delay, func() { v.complete(t) })
	v.mu.Unlock()

	v.publish(snap)
	return t
}

func (v *View) complete(t Ticket) {
	v.mu.Lock()
	if v.closed || !v.machine.Current(t) {
		v.mu.Unlock()
		v.logger.Debug("discarding stale search completion", zap.Uint64("seq", t.Seq), zap.String("query", t.Query))
		return
	}
	v.mu.Unlock()

	games := v.searcher.Search(t.Query)

	v.mu.Lock()
	if v.closed || !v.machine.Resolve(t, games) {
		v.mu.Unlock()
		v.logger.Debug("discarding stale search completion", zap.Uint64("seq", t.Seq), zap.String("query", t.Query))
		return
	}
	snap := v.machine.Snapshot()
	v.mu.Unlock()

	v.logger.Debug("search resolved",
		zap.String("query", t.Query),
		zap.Stringer("state", snap.State),
		zap.Int("results", len(snap.Games)),
	)
	v.publish(snap)
}

// publish delivers s unless a newer snapshot already went out. A Loading
// snapshot racing behind its own resolution is dropped too.
func (v *View) publish(s Snapshot) {
	if v.onChange == nil {
		return
	}
	v.pubMu.Lock()
	defer v.pubMu.Unlock()
	if s.Seq < v.lastSeq || (s.Seq == v.lastSeq && s.State == Loading) {
		return
	}
	v.lastSeq = s.Seq
	v.onChange(s)
}

// Snapshot returns the current state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.machine.Snapshot()
}

// Close cancels pending evaluation. Later Submits are ignored.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	if v.timer != nil {
		v.timer.Stop()
	}
}
