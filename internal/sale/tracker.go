package sale

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ErrTrackerStarted is returned by Start on a running tracker.
var ErrTrackerStarted = errors.New("sale tracker already started")

// Tracker keeps the latest Session loaded, reloading it every interval.
// A failed reload keeps serving the previous session.
type Tracker struct {
	interval time.Duration
	sources  Sources
	logger   *slog.Logger

	current atomic.Pointer[Session]
	lastErr atomic.Pointer[error]

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTracker creates a stopped tracker.
func NewTracker(interval time.Duration, src Sources, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Tracker{
		interval: interval,
		sources:  src,
		logger:   logger,
	}
}

// Start loads immediately, then every interval until Stop.
func (t *Tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		return ErrTrackerStarted
	}

	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.run(runCtx)

	t.logger.Info("sale tracker started", "interval", t.interval)
	return nil
}

// Stop halts reloading. The last session stays available.
func (t *Tracker) Stop(ctx context.Context) error {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("sale tracker stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Session returns the latest loaded session, nil before the first success.
func (t *Tracker) Session() *Session {
	return t.current.Load()
}

// Err returns the error of the most recent reload, nil if it succeeded.
func (t *Tracker) Err() error {
	if p := t.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

// Reload loads the session once. A constants provider whose last fetch
// failed is asked to retry first.
func (t *Tracker) Reload(ctx context.Context) error {
	if r, ok := t.sources.Constants.(ConstantsRetrier); ok && r.Retry() {
		t.logger.Info("retrying broker constants before sale reload")
	}

	s, err := Load(ctx, t.sources)
	if err != nil {
		t.lastErr.Store(&err)
		t.logger.Warn("sale reload failed", "error", err)
		return err
	}

	t.current.Store(s)
	t.lastErr.Store(nil)

	if s.Info != nil && s.Info.SaleStart != nil {
		t.logger.Debug("sale reloaded", "sale_start", *s.Info.SaleStart)
	}
	return nil
}

func (t *Tracker) run(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.Reload(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Reload(ctx)
		}
	}
}
