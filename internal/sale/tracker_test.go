package sale

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poppyseed/coretime/internal/constants"
	"github.com/poppyseed/coretime/internal/model"
)

func TestTrackerReload(t *testing.T) {
	stub := newStub()
	tr := NewTracker(time.Hour, sourcesOf(stub), nil)

	assert.Nil(t, tr.Session())

	require.NoError(t, tr.Reload(context.Background()))
	first := tr.Session()
	require.NotNil(t, first)
	assert.NoError(t, tr.Err())

	stub.infoErr = errors.New("gateway down")
	err := tr.Reload(context.Background())
	require.Error(t, err)
	assert.Same(t, first, tr.Session(), "failed reload keeps previous session")
	assert.ErrorIs(t, tr.Err(), stub.infoErr)

	stub.infoErr = nil
	require.NoError(t, tr.Reload(context.Background()))
	assert.NotSame(t, first, tr.Session())
	assert.NoError(t, tr.Err())
}

func TestTrackerStartStop(t *testing.T) {
	stub := newStub()
	tr := NewTracker(time.Hour, sourcesOf(stub), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, tr.Start(ctx))
	assert.ErrorIs(t, tr.Start(ctx), ErrTrackerStarted)

	require.Eventually(t, func() bool { return tr.Session() != nil }, time.Second, 5*time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	require.NoError(t, tr.Stop(stopCtx))
	require.NoError(t, tr.Stop(stopCtx))

	assert.NotNil(t, tr.Session())
}

type flakyConstants struct {
	failures atomic.Int32
	calls    atomic.Int32
}

func (f *flakyConstants) BrokerConstants(ctx context.Context) (model.BrokerConstants, error) {
	f.calls.Add(1)
	if f.failures.Add(-1) >= 0 {
		return model.BrokerConstants{}, errors.New("gateway timeout")
	}
	return model.BrokerConstants{TimeslicePeriod: 1000}, nil
}

func TestTrackerRetriesFailedConstants(t *testing.T) {
	stub := newStub()
	src := &flakyConstants{}
	src.failures.Store(1)

	cache := constants.New(time.Second, nil)
	cache.Bind(context.Background(), src)
	defer cache.Unbind()

	_, err := cache.Wait(context.Background())
	require.Error(t, err, "first constants fetch fails")

	tr := NewTracker(time.Hour, Sources{Config: stub, Info: stub, Constants: cache}, nil)

	require.NoError(t, tr.Reload(context.Background()))
	require.NotNil(t, tr.Session())
	ends, ok := tr.Session().Ends()
	require.True(t, ok)
	assert.Equal(t, uint64(11_000), ends)
	assert.Equal(t, int32(2), src.calls.Load())

	// A healthy cache is not refetched.
	require.NoError(t, tr.Reload(context.Background()))
	assert.Equal(t, int32(2), src.calls.Load())
}
