package service

import (
	"context"
	"sort"
	"time"

	"github.com/reshetovitsme/rent-alert-bot/internal/modules/listing/domain"
	"github.com/reshetovitsme/rent-alert-bot/internal/modules/listing/extractor"
	"github.com/reshetovitsme/rent-alert-bot/internal/shared/webclient"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// recentlySeenLimit bounds the per-source duplicate window. The site's
// timestamps have minute resolution, so the watermark alone cannot tell two
// announcements posted in the same minute apart.
const recentlySeenLimit = 10

// Source pairs one listing page with its parser and tracks which
// announcements were already surfaced.
type Source struct {
	url    string
	parser extractor.Parser
	client *webclient.Client

	watermark    time.Time
	recentlySeen []string
}

// NewSource creates a source. Announcements older than the moment of
// creation are never surfaced, so a restart does not replay the backlog.
func NewSource(url string, parser extractor.Parser, client *webclient.Client) *Source {
	return &Source{
		url:       url,
		parser:    parser,
		client:    client,
		watermark: time.Now().UTC(),
	}
}

// URL returns the fetch target of this source.
func (s *Source) URL() string {
	return s.url
}

// FetchUpdates fetches the page and returns announcements not seen before,
// in the order the parser emitted them. On fetch or parse failure no state
// is touched, so the next cycle retries from the same position.
func (s *Source) FetchUpdates(ctx context.Context) ([]domain.Listing, error) {
	content, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, oops.With("url", s.url, "context", "fetching source").Wrap(err)
	}

	listings, err := s.parser.Parse(content)
	if err != nil {
		return nil, oops.With("url", s.url, "context", "extracting listings").Wrap(err)
	}

	fresh := lo.Filter(listings, func(l domain.Listing, _ int) bool {
		return l.DiscoveredAt.After(s.watermark) && !lo.Contains(s.recentlySeen, l.URL)
	})

	if len(fresh) > 0 {
		s.advance(fresh)
	}

	return fresh, nil
}

// advance moves the watermark to the newest accepted announcement and
// remembers accepted URLs, newest first. The watermark follows the accepted
// set only: a newer-but-duplicate entry must not push it forward.
func (s *Source) advance(accepted []domain.Listing) {
	newestFirst := make([]domain.Listing, len(accepted))
	copy(newestFirst, accepted)
	sort.SliceStable(newestFirst, func(i, j int) bool {
		return newestFirst[i].DiscoveredAt.After(newestFirst[j].DiscoveredAt)
	})

	for _, l := range accepted {
		if l.DiscoveredAt.After(s.watermark) {
			s.watermark = l.DiscoveredAt
		}
	}

	urls := lo.Map(newestFirst, func(l domain.Listing, _ int) string {
		return l.URL
	})
	s.recentlySeen = append(urls, s.recentlySeen...)
	if len(s.recentlySeen) > recentlySeenLimit {
		s.recentlySeen = s.recentlySeen[:recentlySeenLimit]
	}
}
