package service

import (
	"context"
	"errors"
	"testing"

	listingDomain "github.com/reshetovitsme/rent-alert-bot/internal/modules/listing/domain"
	"github.com/reshetovitsme/rent-alert-bot/internal/modules/subscriber/domain"
)

// memoryRepo is an in-memory Repository for service tests.
type memoryRepo struct {
	subscribers map[int64]*domain.Subscriber
	updates     int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{subscribers: make(map[int64]*domain.Subscriber)}
}

func (r *memoryRepo) ListInterested(_ context.Context, price listingDomain.Price) ([]*domain.Subscriber, error) {
	var interested []*domain.Subscriber
	for _, s := range r.subscribers {
		if s.InterestedIn(price) {
			interested = append(interested, s)
		}
	}
	return interested, nil
}

func (r *memoryRepo) GetOrCreate(_ context.Context, id int64) (*domain.Subscriber, error) {
	if s, ok := r.subscribers[id]; ok {
		clone := *s
		return &clone, nil
	}
	r.subscribers[id] = &domain.Subscriber{ID: id}
	clone := *r.subscribers[id]
	return &clone, nil
}

func (r *memoryRepo) Update(_ context.Context, subscriber *domain.Subscriber) error {
	clone := *subscriber
	r.subscribers[subscriber.ID] = &clone
	r.updates++
	return nil
}

func (r *memoryRepo) Close() error { return nil }

func mustPrice(t *testing.T, text string) listingDomain.Price {
	t.Helper()
	price, err := listingDomain.NewPrice(text)
	if err != nil {
		t.Fatalf("NewPrice(%q): %v", text, err)
	}
	return price
}

func TestSetMinPrice(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo)
	ctx := context.Background()

	subscriber, err := svc.SetMinPrice(ctx, 1, mustPrice(t, "700"))
	if err != nil {
		t.Fatalf("SetMinPrice: %v", err)
	}
	if subscriber.MinPrice == nil || subscriber.MinPrice.String() != "700" {
		t.Errorf("MinPrice = %v, want 700", subscriber.MinPrice)
	}
}

func TestSetMinPriceIdempotent(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo)
	ctx := context.Background()

	if _, err := svc.SetMinPrice(ctx, 1, mustPrice(t, "700")); err != nil {
		t.Fatalf("first SetMinPrice: %v", err)
	}
	first := *repo.subscribers[1]

	if _, err := svc.SetMinPrice(ctx, 1, mustPrice(t, "700")); err != nil {
		t.Fatalf("second SetMinPrice: %v", err)
	}
	second := *repo.subscribers[1]

	if !first.MinPrice.Equal(*second.MinPrice) || (first.MaxPrice == nil) != (second.MaxPrice == nil) {
		t.Errorf("repeated call changed stored state: %+v vs %+v", first, second)
	}
}

func TestSetMinPriceAboveMaxFails(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo)
	ctx := context.Background()

	if _, err := svc.SetMaxPrice(ctx, 1, mustPrice(t, "1000")); err != nil {
		t.Fatalf("SetMaxPrice: %v", err)
	}
	updatesBefore := repo.updates

	_, err := svc.SetMinPrice(ctx, 1, mustPrice(t, "1001"))
	if !errors.Is(err, ErrRangeConflict) {
		t.Fatalf("SetMinPrice(1001) error = %v, want ErrRangeConflict", err)
	}

	// The failing path must not write.
	if repo.updates != updatesBefore {
		t.Error("store was written on the failing path")
	}
	stored, _ := svc.Get(ctx, 1)
	if stored.MinPrice != nil {
		t.Errorf("MinPrice = %v after failed call, want unset", stored.MinPrice)
	}
}

func TestSetMaxPriceBelowMinFails(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo)
	ctx := context.Background()

	if _, err := svc.SetMinPrice(ctx, 1, mustPrice(t, "700")); err != nil {
		t.Fatalf("SetMinPrice: %v", err)
	}

	if _, err := svc.SetMaxPrice(ctx, 1, mustPrice(t, "699")); !errors.Is(err, ErrRangeConflict) {
		t.Fatalf("SetMaxPrice(699) error = %v, want ErrRangeConflict", err)
	}
}

func TestSetEqualBoundsAllowed(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo)
	ctx := context.Background()

	if _, err := svc.SetMinPrice(ctx, 1, mustPrice(t, "700")); err != nil {
		t.Fatalf("SetMinPrice: %v", err)
	}
	if _, err := svc.SetMaxPrice(ctx, 1, mustPrice(t, "700")); err != nil {
		t.Errorf("equal bounds rejected: %v", err)
	}
}

func TestSubscriberInterestedIn(t *testing.T) {
	minPrice := mustPrice(t, "700")
	maxPrice := mustPrice(t, "1000")
	subscriber := &domain.Subscriber{ID: 1, MinPrice: &minPrice, MaxPrice: &maxPrice}

	tests := []struct {
		price string
		want  bool
	}{
		{"699", false},
		{"700", true},
		{"1000", true},
		{"1001", false},
	}
	for _, tt := range tests {
		if got := subscriber.InterestedIn(mustPrice(t, tt.price)); got != tt.want {
			t.Errorf("InterestedIn(%s) = %v, want %v", tt.price, got, tt.want)
		}
	}
}
