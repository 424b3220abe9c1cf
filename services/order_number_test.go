package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qr-restaurant/models"
)

type fakeNumberStore struct {
	mu    sync.Mutex
	last  map[string]string
	err   error
	calls int
}

func (f *fakeNumberStore) LastOrderNumber(_ context.Context, prefix string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.last[prefix], nil
}

func (f *fakeNumberStore) setLast(prefix, number string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.last == nil {
		f.last = map[string]string{}
	}
	f.last[prefix] = number
}

var noon = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func TestAllocateStartsAtOne(t *testing.T) {
	alloc := NewOrderNumberAllocator(&fakeNumberStore{})

	number, err := alloc.Allocate(context.Background(), noon)
	require.NoError(t, err)
	assert.Equal(t, "2503150001", number)
}

func TestAllocateSequential(t *testing.T) {
	alloc := NewOrderNumberAllocator(&fakeNumberStore{})

	for i := 1; i <= 5; i++ {
		number, err := alloc.Allocate(context.Background(), noon)
		require.NoError(t, err)
		assert.Equal(t, len("2503150001"), len(number))
		assert.Equal(t, "250315", number[:6])
	}

	number, err := alloc.Allocate(context.Background(), noon)
	require.NoError(t, err)
	assert.Equal(t, "2503150006", number)
}

func TestAllocateSeedsFromStore(t *testing.T) {
	store := &fakeNumberStore{}
	store.setLast("250315", "2503150042")
	alloc := NewOrderNumberAllocator(store)

	number, err := alloc.Allocate(context.Background(), noon)
	require.NoError(t, err)
	assert.Equal(t, "2503150043", number)
}

func TestAllocateSeedsOncePerPrefix(t *testing.T) {
	store := &fakeNumberStore{}
	alloc := NewOrderNumberAllocator(store)

	for i := 0; i < 10; i++ {
		_, err := alloc.Allocate(context.Background(), noon)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, store.calls)
}

func TestAllocateDayRollover(t *testing.T) {
	store := &fakeNumberStore{}
	store.setLast("250315", "2503159998")
	alloc := NewOrderNumberAllocator(store)

	number, err := alloc.Allocate(context.Background(), noon)
	require.NoError(t, err)
	assert.Equal(t, "2503159999", number)

	nextDay := noon.AddDate(0, 0, 1)
	number, err = alloc.Allocate(context.Background(), nextDay)
	require.NoError(t, err)
	assert.Equal(t, "2503160001", number)
}

func TestAllocateExhaustion(t *testing.T) {
	store := &fakeNumberStore{}
	store.setLast("250315", "2503159999")
	alloc := NewOrderNumberAllocator(store)

	_, err := alloc.Allocate(context.Background(), noon)
	assert.ErrorIs(t, err, models.ErrNumbersExhausted)
}

func TestAllocateIgnoresMalformedStoredNumber(t *testing.T) {
	store := &fakeNumberStore{}
	store.setLast("250315", "250315-42")
	alloc := NewOrderNumberAllocator(store)

	number, err := alloc.Allocate(context.Background(), noon)
	require.NoError(t, err)
	assert.Equal(t, "2503150001", number)
}

func TestAllocateSeedError(t *testing.T) {
	seedErr := errors.New("connection refused")
	alloc := NewOrderNumberAllocator(&fakeNumberStore{err: seedErr})

	_, err := alloc.Allocate(context.Background(), noon)
	assert.ErrorIs(t, err, seedErr)
}

func TestResyncRereadsStore(t *testing.T) {
	store := &fakeNumberStore{}
	alloc := NewOrderNumberAllocator(store)

	number, err := alloc.Allocate(context.Background(), noon)
	require.NoError(t, err)
	assert.Equal(t, "2503150001", number)

	// Another writer got there first; storage is ahead of our counter.
	store.setLast("250315", "2503150007")
	alloc.Resync()

	number, err = alloc.Allocate(context.Background(), noon)
	require.NoError(t, err)
	assert.Equal(t, "2503150008", number)
	assert.Equal(t, 2, store.calls)
}

func TestAllocateConcurrent(t *testing.T) {
	const workers = 50
	alloc := NewOrderNumberAllocator(&fakeNumberStore{})

	var (
		mu      sync.Mutex
		numbers []string
		wg      sync.WaitGroup
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := alloc.Allocate(context.Background(), noon)
			assert.NoError(t, err)
			mu.Lock()
			numbers = append(numbers, number)
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, numbers, workers)
	sort.Strings(numbers)
	for i, number := range numbers {
		if i > 0 {
			assert.NotEqual(t, numbers[i-1], number, "duplicate order number")
		}
	}
	// Serialized allocation leaves no gaps.
	assert.Equal(t, "2503150001", numbers[0])
	assert.Equal(t, "2503150050", numbers[workers-1])
}
