// Package extractor turns raw page content into listings. Each Parser knows
// the markup of one listing site; the mapping from configuration entries to
// parsers is built once at startup.
package extractor

import (
	"github.com/reshetovitsme/rent-alert-bot/internal/modules/listing/domain"
	"github.com/samber/oops"
)

// Parser extracts listings from raw page content.
type Parser interface {
	Parse(content string) ([]domain.Listing, error)
}

// Parser names accepted in source configuration entries.
const (
	ParserBazaraki = "bazaraki"
	ParserRSS      = "rss"
)

// Build returns the parser registered under name. Unknown names are a
// configuration error.
func Build(name string) (Parser, error) {
	switch name {
	case ParserBazaraki:
		return NewBazaraki()
	case ParserRSS:
		return NewRSSFeed(), nil
	default:
		return nil, oops.With("parser", name).New("unknown parser name")
	}
}
