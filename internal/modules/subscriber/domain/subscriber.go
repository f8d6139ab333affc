package domain

import (
	listingDomain "github.com/reshetovitsme/rent-alert-bot/internal/modules/listing/domain"
)

// Subscriber is a chat that receives listing notifications, optionally
// restricted to a price range.
type Subscriber struct {
	ID       int64                `json:"id"`
	MinPrice *listingDomain.Price `json:"min_price,omitempty"`
	MaxPrice *listingDomain.Price `json:"max_price,omitempty"`
}

// InterestedIn reports whether price falls inside the subscriber's range.
// Unset bounds are open; set bounds are inclusive.
func (s *Subscriber) InterestedIn(price listingDomain.Price) bool {
	if s.MinPrice != nil && price.LessThan(*s.MinPrice) {
		return false
	}
	if s.MaxPrice != nil && price.GreaterThan(*s.MaxPrice) {
		return false
	}
	return true
}
