package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/feeds"
	"github.com/reshetovitsme/rent-alert-bot/internal/modules/listing/domain"
)

// Service re-publishes recently discovered listings as an RSS feed. It keeps
// a bounded in-memory window, newest first; listings are not persisted.
type Service struct {
	mu      sync.RWMutex
	window  int
	recent  []domain.Listing
	updated time.Time
}

// New creates a feed service keeping at most window listings.
func New(window int) *Service {
	if window <= 0 {
		window = 50
	}
	return &Service{window: window}
}

// Record adds a discovered listing to the feed window.
func (s *Service) Record(listing domain.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recent = append([]domain.Listing{listing}, s.recent...)
	if len(s.recent) > s.window {
		s.recent = s.recent[:s.window]
	}
	s.updated = listing.DiscoveredAt
}

// Recent returns a copy of the current window, newest first.
func (s *Service) Recent() []domain.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recent := make([]domain.Listing, len(s.recent))
	copy(recent, s.recent)
	return recent
}

// GenerateFeed renders the window as an RSS feed
func (s *Service) GenerateFeed(baseURL string) *feeds.Feed {
	s.mu.RLock()
	defer s.mu.RUnlock()

	feed := &feeds.Feed{
		Title:       "Rent Alert - New Listings",
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/rss", baseURL)},
		Description: "Recently discovered rent advertisements",
		Updated:     s.updated,
	}

	var items []*feeds.Item
	for _, listing := range s.recent {
		items = append(items, &feeds.Item{
			Title:       listing.Title,
			Link:        &feeds.Link{Href: listing.URL},
			Description: fmt.Sprintf("%s for €%s", listing.Title, listing.Price),
			Created:     listing.DiscoveredAt,
			Id:          listing.URL,
		})
	}

	feed.Items = items
	return feed
}
