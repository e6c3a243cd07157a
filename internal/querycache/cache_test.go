package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoCachesWithinTTL(t *testing.T) {
	cache := New(time.Minute)
	key := Key{Kind: "customers", Query: "search=acme"}

	var calls int32
	loader := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return "result", nil
	}

	for i := 0; i < 3; i++ {
		v, err := cache.Do(context.Background(), key, loader)
		require.NoError(t, err)
		assert.Equal(t, "result", v)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDoExpiredEntryReloads(t *testing.T) {
	cache := New(time.Nanosecond)
	key := Key{Kind: "parts", Query: ""}

	var calls int32
	loader := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return int(atomic.LoadInt32(&calls)), nil
	}

	_, err := cache.Do(context.Background(), key, loader)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	v, err := cache.Do(context.Background(), key, loader)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestDoDeduplicatesConcurrentLoads(t *testing.T) {
	cache := New(time.Minute)
	key := Key{Kind: "suppliers", Query: "page=1"}

	var calls int32
	release := make(chan struct{})
	loader := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "shared", nil
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make([]any, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = cache.Do(context.Background(), key, loader)
		}(i)
	}

	// Give every goroutine time to join the in-flight load.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "shared", results[i])
	}
}

func TestDoErrorsAreNotCached(t *testing.T) {
	cache := New(time.Minute)
	key := Key{Kind: "customers", Query: ""}

	boom := errors.New("backend down")
	var calls int32
	_, err := cache.Do(context.Background(), key, func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	v, err := cache.Do(context.Background(), key, func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

// A load issued before an invalidation must not land in the cache after the
// invalidation, even if its response arrives later.
func TestStaleLoadDoesNotOverwriteAfterInvalidate(t *testing.T) {
	cache := New(time.Minute)
	key := Key{Kind: "parts", Query: "search=widget"}

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		_, _ = cache.Do(context.Background(), key, func(ctx context.Context) (any, error) {
			close(started)
			<-release
			return "stale", nil
		})
	}()

	<-started
	cache.Invalidate("parts")
	close(release)
	<-done

	// The slow load returned to its caller but must not have populated the
	// cache; the next read goes to the loader again.
	v, err := cache.Do(context.Background(), key, func(ctx context.Context) (any, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
}

func TestInvalidateDropsOnlyMatchingKind(t *testing.T) {
	cache := New(time.Minute)
	partsKey := Key{Kind: "parts", Query: "page=1"}
	customersKey := Key{Kind: "customers", Query: "page=1"}

	var partsCalls, customerCalls int32
	loadParts := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&partsCalls, 1)
		return "parts", nil
	}
	loadCustomers := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&customerCalls, 1)
		return "customers", nil
	}

	_, err := cache.Do(context.Background(), partsKey, loadParts)
	require.NoError(t, err)
	_, err = cache.Do(context.Background(), customersKey, loadCustomers)
	require.NoError(t, err)

	cache.Invalidate("parts")

	_, err = cache.Do(context.Background(), partsKey, loadParts)
	require.NoError(t, err)
	_, err = cache.Do(context.Background(), customersKey, loadCustomers)
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&partsCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&customerCalls))
}

func TestTypedGet(t *testing.T) {
	cache := New(time.Minute)
	key := Key{Kind: "customers", Query: "typed"}

	type listPage struct {
		Total int
	}

	page, err := Get(context.Background(), cache, key, func(ctx context.Context) (listPage, error) {
		return listPage{Total: 7}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, page.Total)

	// Second read comes from cache with the same concrete type.
	page, err = Get(context.Background(), cache, key, func(ctx context.Context) (listPage, error) {
		t.Fatal("loader should not run for a cached key")
		return listPage{}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, page.Total)
}
