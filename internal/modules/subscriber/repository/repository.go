package repository

import (
	"context"

	listingDomain "github.com/reshetovitsme/rent-alert-bot/internal/modules/listing/domain"
	"github.com/reshetovitsme/rent-alert-bot/internal/modules/subscriber/domain"
)

// Repository defines the interface for subscriber persistence.
type Repository interface {
	// ListInterested returns every subscriber whose price range covers price.
	ListInterested(ctx context.Context, price listingDomain.Price) ([]*domain.Subscriber, error)
	// GetOrCreate returns the subscriber for id, creating an unrestricted
	// record on first contact.
	GetOrCreate(ctx context.Context, id int64) (*domain.Subscriber, error)
	// Update persists the subscriber's price bounds.
	Update(ctx context.Context, subscriber *domain.Subscriber) error
	Close() error
}
