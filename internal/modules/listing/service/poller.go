package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/reshetovitsme/rent-alert-bot/internal/modules/listing/domain"
)

// Poller drives all sources at a fixed interval and merges their updates
// into one stream.
type Poller struct {
	sources  []*Source
	interval time.Duration
}

// NewPoller creates a poller over the given sources.
func NewPoller(sources []*Source, interval time.Duration) *Poller {
	return &Poller{
		sources:  sources,
		interval: interval,
	}
}

// Poll returns a stream of new listings. Every cycle queries all sources
// concurrently, waits for the whole batch, and emits listings in source
// registration order, then parser emission order. The channel is closed
// when ctx is cancelled.
//
// A cycle completes before the next tick is observed, so no source has two
// fetches in flight at once.
func (p *Poller) Poll(ctx context.Context) <-chan domain.Listing {
	out := make(chan domain.Listing)

	go func() {
		defer close(out)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			p.cycle(ctx, out)

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return out
}

// cycle fans out one fetch per source and forwards the merged batch. A
// failing source contributes nothing this cycle; the others still go out.
func (p *Poller) cycle(ctx context.Context, out chan<- domain.Listing) {
	batches := make([][]domain.Listing, len(p.sources))

	var wg sync.WaitGroup
	for i, src := range p.sources {
		wg.Add(1)
		go func(i int, src *Source) {
			defer wg.Done()
			listings, err := src.FetchUpdates(ctx)
			if err != nil {
				slog.Error("Source update failed", "url", src.URL(), "error", err)
				return
			}
			batches[i] = listings
		}(i, src)
	}
	wg.Wait()

	for _, batch := range batches {
		for _, listing := range batch {
			select {
			case <-ctx.Done():
				return
			case out <- listing:
			}
		}
	}
}
