package constants

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/poppyseed/coretime/internal/chain"
	"github.com/poppyseed/coretime/internal/model"
)

// DefaultFetchTimeout bounds a single constants fetch.
const DefaultFetchTimeout = 30 * time.Second

// ErrUnbound is returned by Wait when no source is bound.
var ErrUnbound = errors.New("constants cache not bound to a source")

// Cache holds the broker constants of the currently bound source.
// Sources are compared by identity and must be comparable (typically pointers).
type Cache struct {
	timeout time.Duration
	logger  *slog.Logger
	group   singleflight.Group

	mu        sync.Mutex
	source    chain.ConstantsSource
	gen       uint64
	parent    context.Context
	ctx       context.Context
	cancel    context.CancelFunc
	constants *model.BrokerConstants
	err       error
	loading   bool
}

// New creates an unbound Cache. A zero timeout uses DefaultFetchTimeout.
func New(timeout time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Cache{
		timeout: timeout,
		logger:  logger,
		loading: true,
	}
}

// Bind starts fetching constants from src. Binding the source already bound
// is a no-op; binding a different one invalidates the cache. ctx bounds the
// lifetime of the binding.
func (c *Cache) Bind(ctx context.Context, src chain.ConstantsSource) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if src != nil && c.source == src {
		return
	}
	c.resetLocked()

	if src == nil {
		return
	}
	c.bindLocked(ctx, src)

	c.logger.Debug("constants cache bound", "generation", c.gen)
}

// Retry refetches from the bound source after its fetch failed. It reports
// whether a new fetch was started; a successful or in-flight fetch is left
// alone.
func (c *Cache) Retry() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.source == nil || c.loading || c.err == nil {
		return false
	}

	src, parent := c.source, c.parent
	c.resetLocked()
	c.bindLocked(parent, src)

	c.logger.Info("retrying broker constants fetch", "generation", c.gen)
	return true
}

func (c *Cache) bindLocked(ctx context.Context, src chain.ConstantsSource) {
	c.source = src
	c.parent = ctx
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.load(c.ctx, c.gen, src)
}

// Unbind cancels any in-flight fetch and empties the cache.
// It is safe to call repeatedly.
func (c *Cache) Unbind() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

// Get returns the cached constants. loading is true until the fetch for the
// bound source has finished; after a failed fetch it is false and the
// constants are nil.
func (c *Cache) Get() (constants *model.BrokerConstants, loading bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.constants == nil {
		return nil, c.loading
	}
	v := *c.constants
	return &v, c.loading
}

// Err returns the error of the last completed fetch, if any.
func (c *Cache) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Wait blocks until the bound source's fetch completes, joining the fetch
// already in flight rather than starting another one.
func (c *Cache) Wait(ctx context.Context) (*model.BrokerConstants, error) {
	c.mu.Lock()
	if !c.loading {
		defer c.mu.Unlock()
		if c.err != nil {
			return nil, c.err
		}
		if c.constants == nil {
			return nil, ErrUnbound
		}
		v := *c.constants
		return &v, nil
	}
	if c.source == nil {
		c.mu.Unlock()
		return nil, ErrUnbound
	}
	ch := c.load(c.ctx, c.gen, c.source)
	c.mu.Unlock()

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		v := res.Val.(model.BrokerConstants)
		return &v, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// load runs at most one fetch per generation. Must be called with mu held.
func (c *Cache) load(ctx context.Context, gen uint64, src chain.ConstantsSource) <-chan singleflight.Result {
	return c.group.DoChan(strconv.FormatUint(gen, 10), func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		consts, err := src.BrokerConstants(fetchCtx)
		c.store(gen, consts, err)
		return consts, err
	})
}

// store records a fetch result unless the binding changed meanwhile.
func (c *Cache) store(gen uint64, consts model.BrokerConstants, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		c.logger.Debug("discarding constants from previous binding", "generation", gen)
		return
	}

	c.loading = false
	if err != nil {
		c.err = err
		c.logger.Error("failed to fetch broker constants", "error", err)
		return
	}
	c.constants = &consts
	c.logger.Info("broker constants loaded",
		"timeslice_period", consts.TimeslicePeriod,
		"max_leased_cores", consts.MaxLeasedCores,
	)
}

func (c *Cache) resetLocked() {
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	c.source = nil
	c.parent = nil
	c.ctx = nil
	c.cancel = nil
	c.constants = nil
	c.err = nil
	c.loading = true
}
