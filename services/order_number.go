package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"qr-restaurant/models"
)

const (
	orderNumberDateLayout = "060102"
	orderNumberSuffixLen  = 4
	maxDailySuffix        = 9999
)

// OrderNumberStore is the slice of storage the allocator needs: the
// numerically highest order number sharing a date prefix, or "" when
// no order exists for that prefix.
type OrderNumberStore interface {
	LastOrderNumber(ctx context.Context, prefix string) (string, error)
}

// OrderNumberAllocator hands out date-prefixed sequential order
// numbers (YYMMDD + 4-digit zero-padded suffix). Allocations are
// serialized; the counter is seeded from storage the first time a
// prefix is seen and re-seeded after Resync, so restarts and
// uniqueness conflicts recover from what is actually persisted.
type OrderNumberAllocator struct {
	mu    sync.Mutex
	store OrderNumberStore

	prefix string
	last   int
}

func NewOrderNumberAllocator(store OrderNumberStore) *OrderNumberAllocator {
	return &OrderNumberAllocator{store: store}
}

// Allocate returns the next order number for now's calendar day.
// Returns models.ErrNumbersExhausted once the 4-digit suffix space for
// the day is used up.
func (a *OrderNumberAllocator) Allocate(ctx context.Context, now time.Time) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	prefix := now.Format(orderNumberDateLayout)
	if prefix != a.prefix {
		if err := a.seedLocked(ctx, prefix); err != nil {
			return "", err
		}
	}

	if a.last >= maxDailySuffix {
		return "", models.ErrNumbersExhausted
	}

	a.last++
	return fmt.Sprintf("%s%0*d", prefix, orderNumberSuffixLen, a.last), nil
}

// Resync discards the cached counter so the next Allocate re-reads the
// highest persisted number. Called after a uniqueness conflict, which
// means another process allocated past us.
func (a *OrderNumberAllocator) Resync() {
	a.mu.Lock()
	a.prefix = ""
	a.mu.Unlock()
}

func (a *OrderNumberAllocator) seedLocked(ctx context.Context, prefix string) error {
	lastNumber, err := a.store.LastOrderNumber(ctx, prefix)
	if err != nil {
		return fmt.Errorf("seeding order number counter: %w", err)
	}

	a.prefix = prefix
	a.last = 0
	if len(lastNumber) == len(prefix)+orderNumberSuffixLen {
		if n, err := strconv.Atoi(lastNumber[len(prefix):]); err == nil {
			a.last = n
		}
	}
	return nil
}
