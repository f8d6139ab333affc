package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/reshetovitsme/rent-alert-bot/internal/modules/listing/domain"
	"github.com/reshetovitsme/rent-alert-bot/internal/shared/webclient"
)

func TestPollerMergesInRegistrationOrder(t *testing.T) {
	srv := okServer(t)
	t0 := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	first := NewSource(srv.URL, &stubParser{listings: []domain.Listing{
		listingAt("/first/a", t0.Add(2*time.Second)),
		listingAt("/first/b", t0.Add(time.Second)),
	}}, webclient.New(0))
	first.watermark = t0

	second := NewSource(srv.URL, &stubParser{listings: []domain.Listing{
		listingAt("/second/a", t0.Add(time.Second)),
	}}, webclient.New(0))
	second.watermark = t0

	poller := NewPoller([]*Source{first, second}, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := poller.Poll(ctx)

	var got []string
	for i := 0; i < 3; i++ {
		select {
		case listing := <-out:
			got = append(got, listing.URL)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for merged batch")
		}
	}

	want := []string{"/first/a", "/first/b", "/second/a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("merged order = %v, want %v", got, want)
		}
	}
}

func TestPollerSurvivesFailingSource(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer broken.Close()
	healthy := okServer(t)

	t0 := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	failing := NewSource(broken.URL, &stubParser{}, webclient.New(0))
	failing.watermark = t0

	working := NewSource(healthy.URL, &stubParser{listings: []domain.Listing{
		listingAt("/ok", t0.Add(time.Second)),
	}}, webclient.New(0))
	working.watermark = t0

	poller := NewPoller([]*Source{failing, working}, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	select {
	case listing := <-poller.Poll(ctx):
		if listing.URL != "/ok" {
			t.Errorf("got %q, want /ok", listing.URL)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("the healthy source's listing never arrived")
	}
}

func TestPollerStopsOnCancel(t *testing.T) {
	srv := okServer(t)
	src := NewSource(srv.URL, &stubParser{}, webclient.New(0))

	poller := NewPoller([]*Source{src}, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	out := poller.Poll(ctx)
	cancel()

	select {
	case _, open := <-out:
		if open {
			t.Error("expected closed channel after cancellation")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after cancellation")
	}
}
