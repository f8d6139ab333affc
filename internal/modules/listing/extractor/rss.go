package extractor

import (
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/reshetovitsme/rent-alert-bot/internal/modules/listing/domain"
	"github.com/samber/oops"
)

// priceRe matches a euro amount like "€700", "€ 1250.50" or "€1,200".
var priceRe = regexp.MustCompile(`€\s*([0-9][0-9.,]*[0-9]|[0-9])`)

// RSSFeed extracts listings from sites that publish their advertisements as
// an RSS/Atom feed with the price mentioned in the item title or summary.
type RSSFeed struct {
	parser *gofeed.Parser
}

// NewRSSFeed creates the RSS feed parser.
func NewRSSFeed() *RSSFeed {
	return &RSSFeed{parser: gofeed.NewParser()}
}

func (p *RSSFeed) Parse(content string) ([]domain.Listing, error) {
	feed, err := p.parser.ParseString(content)
	if err != nil {
		return nil, oops.With("context", "parsing feed").Wrap(err)
	}

	var listings []domain.Listing
	for _, item := range feed.Items {
		publishedAt := item.PublishedParsed
		if publishedAt == nil {
			publishedAt = item.UpdatedParsed
		}
		if publishedAt == nil || item.Link == "" {
			continue
		}

		price, ok := extractPrice(item.Title + " " + item.Description)
		if !ok {
			continue
		}

		listings = append(listings, domain.Listing{
			Title:        strings.TrimSpace(item.Title),
			Price:        price,
			URL:          item.Link,
			DiscoveredAt: publishedAt.UTC(),
		})
	}

	return listings, nil
}

func extractPrice(text string) (domain.Price, bool) {
	match := priceRe.FindStringSubmatch(text)
	if match == nil {
		return domain.Price{}, false
	}
	// Drop thousands separators; feeds format amounts like "1,200".
	amount := strings.ReplaceAll(match[1], ",", "")
	price, err := domain.NewPrice(amount)
	if err != nil {
		return domain.Price{}, false
	}
	return price, true
}
