package domain

import (
	"fmt"
	"time"
)

// Listing represents one discovered rent advertisement.
type Listing struct {
	Title        string    `json:"title"`
	Price        Price     `json:"price"`
	URL          string    `json:"url"`
	DiscoveredAt time.Time `json:"discovered_at"`
}

// TelegramLink returns the instant-view deep link for the listing page.
func (l Listing) TelegramLink() string {
	return fmt.Sprintf("https://t.me/iv?url=%s/&rhash=7849b4bb7a02f2", l.URL)
}
