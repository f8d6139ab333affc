package extractor

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/reshetovitsme/rent-alert-bot/internal/modules/listing/domain"
	"github.com/samber/oops"
)

const (
	bazarakiBaseURL  = "https://www.bazaraki.com"
	bazarakiTimeZone = "Asia/Nicosia"
	bazarakiDateFmt  = "02.01.2006 15:04"
)

// Bazaraki extracts listings from bazaraki.com category pages.
type Bazaraki struct {
	base *url.URL
	loc  *time.Location
	now  func() time.Time
}

// NewBazaraki creates the bazaraki.com parser.
func NewBazaraki() (*Bazaraki, error) {
	base, err := url.Parse(bazarakiBaseURL)
	if err != nil {
		return nil, oops.With("url", bazarakiBaseURL).Wrap(err)
	}
	loc, err := time.LoadLocation(bazarakiTimeZone)
	if err != nil {
		return nil, oops.With("timezone", bazarakiTimeZone).Wrap(err)
	}
	return &Bazaraki{base: base, loc: loc, now: time.Now}, nil
}

func (p *Bazaraki) Parse(content string) ([]domain.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, oops.With("context", "parsing document").Wrap(err)
	}

	var listings []domain.Listing
	var parseErr error

	doc.Find("li.announcement-container").EachWithBreak(func(_ int, item *goquery.Selection) bool {
		listing, err := p.buildListing(item)
		if err != nil {
			parseErr = err
			return false
		}
		listings = append(listings, listing)
		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}
	return listings, nil
}

func (p *Bazaraki) buildListing(item *goquery.Selection) (domain.Listing, error) {
	titleLink := item.Find("a.announcement-block__title").First()
	title := strings.TrimSpace(titleLink.Text())
	if title == "" {
		return domain.Listing{}, oops.New("announcement without title")
	}

	href, ok := titleLink.Attr("href")
	if !ok || href == "" {
		return domain.Listing{}, oops.With("title", title).New("announcement without link")
	}
	absolute, err := p.absoluteURL(href)
	if err != nil {
		return domain.Listing{}, err
	}

	priceText, ok := item.Find("div.announcement-block__price meta[itemprop=price]").First().Attr("content")
	if !ok {
		return domain.Listing{}, oops.With("title", title).New("announcement without price")
	}
	price, err := domain.NewPrice(priceText)
	if err != nil {
		return domain.Listing{}, oops.With("title", title).Wrap(err)
	}

	dateText := item.Find("div.announcement-block__date").First().Text()
	discoveredAt, err := p.parsePostedAt(dateText)
	if err != nil {
		return domain.Listing{}, oops.With("title", title).Wrap(err)
	}

	return domain.Listing{
		Title:        title,
		Price:        price,
		URL:          absolute,
		DiscoveredAt: discoveredAt,
	}, nil
}

func (p *Bazaraki) absoluteURL(href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", oops.With("href", href).Wrap(err)
	}
	return p.base.ResolveReference(ref).String(), nil
}

// parsePostedAt parses the "dd.mm.yyyy hh:mm, <city>" date block. The site
// renders recent entries with "Today"/"Yesterday" in place of the date.
func (p *Bazaraki) parsePostedAt(text string) (time.Time, error) {
	dateText, _, _ := strings.Cut(text, ",")
	dateText = strings.TrimSpace(dateText)

	now := p.now().In(p.loc)
	if strings.Contains(dateText, "Today") {
		dateText = strings.Replace(dateText, "Today", now.Format("02.01.2006"), 1)
	}
	if strings.Contains(dateText, "Yesterday") {
		yesterday := now.AddDate(0, 0, -1)
		dateText = strings.Replace(dateText, "Yesterday", yesterday.Format("02.01.2006"), 1)
	}

	postedAt, err := time.ParseInLocation(bazarakiDateFmt, dateText, p.loc)
	if err != nil {
		return time.Time{}, oops.With("date", dateText).Wrap(err)
	}
	// Around midnight the site still shows "Today" for entries that now
	// belong to the previous day, which would land in the future here.
	if postedAt.After(now) {
		postedAt = postedAt.AddDate(0, 0, -1)
	}
	return postedAt.UTC(), nil
}
