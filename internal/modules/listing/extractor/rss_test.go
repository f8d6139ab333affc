package extractor

import (
	"testing"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Rentals</title>
  <item>
    <title>2 bed apartment €700</title>
    <link>https://example.com/adv/1</link>
    <pubDate>Tue, 25 Aug 2026 10:05:00 +0000</pubDate>
  </item>
  <item>
    <title>Villa with pool</title>
    <description>Large villa, € 1,200 per month</description>
    <link>https://example.com/adv/2</link>
    <pubDate>Wed, 26 Aug 2026 09:30:00 +0000</pubDate>
  </item>
  <item>
    <title>No price here</title>
    <link>https://example.com/adv/3</link>
    <pubDate>Wed, 26 Aug 2026 10:00:00 +0000</pubDate>
  </item>
  <item>
    <title>No date €500</title>
    <link>https://example.com/adv/4</link>
  </item>
</channel>
</rss>`

func TestRSSFeedParse(t *testing.T) {
	p := NewRSSFeed()

	listings, err := p.Parse(rssFixture)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	// Items without price or timestamp are skipped, not errors.
	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2", len(listings))
	}

	if listings[0].Price.String() != "700" {
		t.Errorf("first price = %s, want 700", listings[0].Price)
	}
	if listings[0].URL != "https://example.com/adv/1" {
		t.Errorf("first url = %q", listings[0].URL)
	}

	// Thousands separator stripped.
	if listings[1].Price.String() != "1200" {
		t.Errorf("second price = %s, want 1200", listings[1].Price)
	}
}

func TestRSSFeedParseInvalid(t *testing.T) {
	p := NewRSSFeed()
	if _, err := p.Parse("this is not xml"); err == nil {
		t.Error("expected error for malformed feed")
	}
}
