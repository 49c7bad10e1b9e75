// Package lnm contains the scrapers for the LNMIIT public site, the
// Koha library OPAC and the DSpace paper repository.
package lnm

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lnmiit-dev/campusbot-go/internal/scraper"
)

const (
	// eventsURL is the college events listing page
	eventsURL = "https://lnmiit.ac.in/events/"

	// maxAnnouncements caps how many events a single reply lists
	maxAnnouncements = 5
)

// Announcement is one event from the college events page.
type Announcement struct {
	Title string
	Date  string
	Link  string
}

// Line formats an announcement as a single reply line.
func (a Announcement) Line() string {
	return fmt.Sprintf("%s - %s - %s", a.Title, a.Date, a.Link)
}

// LatestAnnouncements scrapes the newest events from the college site,
// capped at maxAnnouncements.
func LatestAnnouncements(ctx context.Context, client *scraper.Client) ([]Announcement, error) {
	doc, err := client.GetDocumentShared(ctx, eventsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events page: %w", err)
	}

	return parseAnnouncements(doc), nil
}

// parseAnnouncements extracts events from the listing page.
func parseAnnouncements(doc *goquery.Document) []Announcement {
	var out []Announcement

	doc.Find("div.em-view-container div.em-events-list div.em-event.em-item").
		EachWithBreak(func(i int, event *goquery.Selection) bool {
			if i >= maxAnnouncements {
				return false
			}

			titleTag := event.Find("h3.em-item-title").First()
			title := strings.TrimSpace(titleTag.Text())
			if title == "" {
				title = "No Title"
			}

			date := strings.TrimSpace(event.Find("div.em-event-date").First().Text())
			if date == "" {
				date = "No Date"
			}

			link, ok := titleTag.Find("a").First().Attr("href")
			if !ok {
				link = "No Link"
			}

			out = append(out, Announcement{Title: title, Date: date, Link: link})
			return true
		})

	return out
}

// FormatAnnouncements joins announcements into the reply body,
// one blank line between entries.
func FormatAnnouncements(items []Announcement) string {
	if len(items) == 0 {
		return "No events found."
	}
	lines := make([]string, len(items))
	for i, a := range items {
		lines[i] = a.Line()
	}
	return strings.Join(lines, "\n\n")
}
