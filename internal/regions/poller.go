package regions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/poppyseed/coretime/internal/chain"
	"github.com/poppyseed/coretime/internal/model"
)

// ErrAlreadyStarted is returned by Start on a running poller.
var ErrAlreadyStarted = errors.New("region poller already started")

// State is the poller's position in its fetch cycle.
type State int32

const (
	StateIdle     State = iota // No snapshot served
	StateFetching              // Fetch in flight
	StateReady                 // Last fetch succeeded
	StateStale                 // Last fetch failed, previous snapshot retained
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateReady:
		return "ready"
	case StateStale:
		return "stale"
	default:
		return "idle"
	}
}

// Config holds poller configuration.
type Config struct {
	Interval     time.Duration // Poll interval (default: 5s)
	FetchTimeout time.Duration // Per-fetch timeout (default: 10s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:     5 * time.Second,
		FetchTimeout: 10 * time.Second,
	}
}

// served is the snapshot together with the generation that produced it.
type served struct {
	gen  uint64
	snap *model.Snapshot
}

// Poller keeps an in-memory snapshot of all broker regions.
type Poller struct {
	cfg     Config
	source  chain.RegionSource
	handler EventHandler
	logger  *slog.Logger

	current atomic.Pointer[served]
	nextGen atomic.Uint64
	state   atomic.Int32

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{} // closed when the running loop exits
}

// New creates a new Poller. handler may be nil.
func New(cfg Config, source chain.RegionSource, handler EventHandler, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = defaults.Interval
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaults.FetchTimeout
	}

	p := &Poller{
		cfg:     cfg,
		source:  source,
		handler: handler,
		logger:  logger,
	}
	p.current.Store(&served{})
	return p
}

// Start fetches immediately, then every Interval until Stop.
// It returns ErrAlreadyStarted while a previous loop is still running,
// including one whose Stop timed out.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return ErrAlreadyStarted
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	go p.run(runCtx, done)

	p.logger.Info("region poller started", "interval", p.cfg.Interval)
	return nil
}

// Stop cancels the scheduled refresh and releases the snapshot.
// It is safe to call more than once and before Start. If ctx expires before
// the loop exits, the snapshot is still released and a later Stop waits
// for the same loop again.
func (p *Poller) Stop(ctx context.Context) error {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	p.release()

	select {
	case <-done:
	case <-ctx.Done():
		p.logger.Warn("region poller stop timed out, loop still exiting", "error", ctx.Err())
		return ctx.Err()
	}

	p.mu.Lock()
	if p.done == done {
		p.cancel = nil
		p.done = nil
	}
	p.mu.Unlock()

	// A fetch that finished while the loop was exiting is stale too.
	p.release()

	p.logger.Info("region poller stopped")
	return nil
}

// release drops the served snapshot. Any fetch issued before this point
// becomes stale.
func (p *Poller) release() {
	p.current.Store(&served{gen: p.nextGen.Load()})
	p.state.Store(int32(StateIdle))
}

// Snapshot returns the snapshot currently served, nil before the first
// successful fetch. The returned value must not be modified.
func (p *Poller) Snapshot() *model.Snapshot {
	return p.current.Load().snap
}

// State returns the current poller state.
func (p *Poller) State() State {
	return State(p.state.Load())
}

// Query looks up a region in the current snapshot. See Query.
func (p *Poller) Query(core uint32, begin uint64, mask string) (model.Region, bool) {
	return Query(p.Snapshot(), core, begin, mask)
}

// Refresh performs one fetch now. A failure leaves the served snapshot
// untouched; the error is returned only to the caller of Refresh.
func (p *Poller) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	gen := p.nextGen.Add(1)
	cycle := uuid.New()
	start := time.Now()

	p.state.Store(int32(StateFetching))

	snap, err := p.fetch(ctx)
	if err != nil {
		p.fail(ctx, gen, cycle, time.Since(start), err)
		return err
	}

	if !p.apply(gen, snap) {
		if p.Snapshot() != nil {
			p.state.CompareAndSwap(int32(StateFetching), int32(StateReady))
		} else {
			p.restoreState()
		}
		p.emit(Event{
			Kind:       EventStaleDiscarded,
			CycleID:    cycle,
			Generation: gen,
			Regions:    p.Snapshot().Len(),
			Duration:   time.Since(start),
		})
		p.logger.Debug("discarded stale region snapshot",
			"cycle_id", cycle,
			"generation", gen,
		)
		return nil
	}

	p.state.Store(int32(StateReady))
	p.emit(Event{
		Kind:       EventSnapshotReplaced,
		CycleID:    cycle,
		Generation: gen,
		Regions:    snap.Len(),
		Duration:   time.Since(start),
	})
	p.logger.Debug("region snapshot replaced",
		"cycle_id", cycle,
		"generation", gen,
		"regions", snap.Len(),
		"duration", time.Since(start),
	)
	return nil
}

// run is the main polling loop.
func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Refresh(ctx)
		}
	}
}

// fetch pulls and decodes every region entry.
func (p *Poller) fetch(ctx context.Context) (*model.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.FetchTimeout)
	defer cancel()

	entries, err := p.source.RegionEntries(ctx)
	if err != nil {
		var fetchErr *chain.FetchError
		if errors.As(err, &fetchErr) {
			return nil, err
		}
		return nil, &chain.FetchError{Op: "region entries", Err: err}
	}

	regions := make([]model.Region, 0, len(entries))
	for i, entry := range entries {
		region, err := chain.DecodeRegion(entry)
		if err != nil {
			return nil, fmt.Errorf("region entry %d: %w", i, err)
		}
		regions = append(regions, region)
	}

	return &model.Snapshot{
		Regions:   regions,
		FetchedAt: time.Now().UnixMicro(),
	}, nil
}

// apply installs snap unless a newer generation is already served.
func (p *Poller) apply(gen uint64, snap *model.Snapshot) bool {
	next := &served{gen: gen, snap: snap}
	for {
		cur := p.current.Load()
		if cur.gen >= gen {
			return false
		}
		if p.current.CompareAndSwap(cur, next) {
			return true
		}
	}
}

func (p *Poller) fail(ctx context.Context, gen uint64, cycle uuid.UUID, elapsed time.Duration, err error) {
	p.restoreState()

	// Cancelled by the caller, typically Stop: not a fetch failure.
	if ctx.Err() != nil {
		p.logger.Debug("region fetch cancelled",
			"cycle_id", cycle,
			"generation", gen,
		)
		return
	}

	kind := EventFetchFailed
	var decErr *chain.DecodeError
	if errors.As(err, &decErr) {
		kind = EventDecodeFailed
	}

	p.emit(Event{
		Kind:       kind,
		CycleID:    cycle,
		Generation: gen,
		Regions:    p.Snapshot().Len(),
		Duration:   elapsed,
		Err:        err,
	})
	p.logger.Warn("region fetch failed, keeping previous snapshot",
		"cycle_id", cycle,
		"generation", gen,
		"kind", string(kind),
		"error", err,
	)
}

// restoreState leaves Fetching for Stale or Idle depending on whether a
// snapshot is still served.
func (p *Poller) restoreState() {
	if p.Snapshot() != nil {
		p.state.CompareAndSwap(int32(StateFetching), int32(StateStale))
		return
	}
	p.state.CompareAndSwap(int32(StateFetching), int32(StateIdle))
}

func (p *Poller) emit(e Event) {
	if p.handler != nil {
		p.handler.HandleEvent(e)
	}
}
