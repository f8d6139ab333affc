// Package pipeline wires the poll loop to subscriber matching and delivery.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	listingDomain "github.com/reshetovitsme/rent-alert-bot/internal/modules/listing/domain"
	subscriberDomain "github.com/reshetovitsme/rent-alert-bot/internal/modules/subscriber/domain"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// ListingStream yields newly discovered listings until ctx is cancelled.
type ListingStream interface {
	Poll(ctx context.Context) <-chan listingDomain.Listing
}

// SubscriberDirectory resolves which chats want a listing at a given price.
type SubscriberDirectory interface {
	ListInterested(ctx context.Context, price listingDomain.Price) ([]*subscriberDomain.Subscriber, error)
}

// Notifier delivers one text to a set of chats.
type Notifier interface {
	Broadcast(ctx context.Context, chatIDs []int64, text string) error
}

// Recorder observes every discovered listing (RSS re-publication).
type Recorder interface {
	Record(listing listingDomain.Listing)
}

// Pipeline connects poller output to subscriber lookup and delivery.
type Pipeline struct {
	stream      ListingStream
	subscribers SubscriberDirectory
	notifier    Notifier
	recorder    Recorder
}

// New creates a pipeline.
func New(stream ListingStream, subscribers SubscriberDirectory, notifier Notifier, recorder Recorder) *Pipeline {
	return &Pipeline{
		stream:      stream,
		subscribers: subscribers,
		notifier:    notifier,
		recorder:    recorder,
	}
}

// Run consumes the listing stream until ctx is cancelled. Store failures and
// unexpected delivery failures are returned; supervision is the caller's
// concern.
func (p *Pipeline) Run(ctx context.Context) error {
	for listing := range p.stream.Poll(ctx) {
		p.recorder.Record(listing)

		subscribers, err := p.subscribers.ListInterested(ctx, listing.Price)
		if err != nil {
			return oops.With("listing_url", listing.URL, "context", "listing interested subscribers").Wrap(err)
		}
		if len(subscribers) == 0 {
			continue
		}

		chatIDs := lo.Map(subscribers, func(s *subscriberDomain.Subscriber, _ int) int64 {
			return s.ID
		})

		slog.Info("Notifying subscribers about listing", "url", listing.URL, "price", listing.Price.String(), "recipients", len(chatIDs))

		if err := p.notifier.Broadcast(ctx, chatIDs, FormatNotification(listing)); err != nil {
			if ctx.Err() != nil {
				break
			}
			return oops.With("listing_url", listing.URL, "context", "broadcasting listing").Wrap(err)
		}
	}

	return nil
}

// FormatNotification renders the single Markdown line sent to subscribers.
func FormatNotification(listing listingDomain.Listing) string {
	return fmt.Sprintf("[%s €%s](%s)", listing.Title, listing.Price, listing.TelegramLink())
}
