package service

import (
	"context"
	"errors"

	listingDomain "github.com/reshetovitsme/rent-alert-bot/internal/modules/listing/domain"
	"github.com/reshetovitsme/rent-alert-bot/internal/modules/subscriber/domain"
	"github.com/reshetovitsme/rent-alert-bot/internal/modules/subscriber/repository"
)

// ErrRangeConflict is returned when a new bound would cross the opposite one.
// Nothing is persisted on this path.
var ErrRangeConflict = errors.New("price range conflict")

// Service handles subscriber business logic
type Service struct {
	repo repository.Repository
}

// New creates a new subscriber service
func New(repo repository.Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// Register makes sure a subscriber record exists for the chat.
func (s *Service) Register(ctx context.Context, chatID int64) (*domain.Subscriber, error) {
	return s.repo.GetOrCreate(ctx, chatID)
}

// Get returns the subscriber record for the chat, creating it if missing.
func (s *Service) Get(ctx context.Context, chatID int64) (*domain.Subscriber, error) {
	return s.repo.GetOrCreate(ctx, chatID)
}

// SetMinPrice sets the lower bound of the subscriber's range. It fails with
// ErrRangeConflict when the new minimum exceeds a configured maximum.
func (s *Service) SetMinPrice(ctx context.Context, chatID int64, price listingDomain.Price) (*domain.Subscriber, error) {
	subscriber, err := s.repo.GetOrCreate(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if subscriber.MaxPrice != nil && price.GreaterThan(*subscriber.MaxPrice) {
		return nil, ErrRangeConflict
	}

	subscriber.MinPrice = &price
	if err := s.repo.Update(ctx, subscriber); err != nil {
		return nil, err
	}
	return subscriber, nil
}

// SetMaxPrice sets the upper bound of the subscriber's range. It fails with
// ErrRangeConflict when the new maximum is below a configured minimum.
func (s *Service) SetMaxPrice(ctx context.Context, chatID int64, price listingDomain.Price) (*domain.Subscriber, error) {
	subscriber, err := s.repo.GetOrCreate(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if subscriber.MinPrice != nil && price.LessThan(*subscriber.MinPrice) {
		return nil, ErrRangeConflict
	}

	subscriber.MaxPrice = &price
	if err := s.repo.Update(ctx, subscriber); err != nil {
		return nil, err
	}
	return subscriber, nil
}

// ListInterested returns all subscribers whose range covers price.
func (s *Service) ListInterested(ctx context.Context, price listingDomain.Price) ([]*domain.Subscriber, error) {
	return s.repo.ListInterested(ctx, price)
}
