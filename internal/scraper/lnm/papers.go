package lnm

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lnmiit-dev/campusbot-go/internal/scraper"
)

const (
	// paperBaseURL is the institutional DSpace repository.
	paperBaseURL = "http://172.22.2.20:8080/jspui"

	paperSearchPath = "/simple-search"

	// maxPapers caps how many papers a single reply carries.
	maxPapers = 10
)

// Paper is one repository entry from a paper search.
type Paper struct {
	Title       string
	Date        string
	Authors     string
	URL         string // Item landing page
	DownloadURL string // Direct bitstream link, may be empty
}

// SearchPapers queries the paper repository for a title.
func SearchPapers(ctx context.Context, client *scraper.Client, title string) ([]Paper, error) {
	searchURL := fmt.Sprintf("%s%s?query=%s", paperBaseURL, paperSearchPath, url.QueryEscape(strings.TrimSpace(title)))

	doc, err := client.GetDocumentShared(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("failed to search paper repository: %w", err)
	}

	return parsePapers(doc), nil
}

// parsePapers extracts repository entries from the search results table.
func parsePapers(doc *goquery.Document) []Paper {
	var papers []Paper

	doc.Find("table.table tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if len(papers) >= maxPapers {
			return false
		}

		cols := row.Find("td")
		if cols.Length() < 3 {
			return true // header or malformed row
		}

		titleLink := cols.Eq(1).Find("a").First()
		title := strings.TrimSpace(titleLink.Text())
		if title == "" {
			return true
		}

		href, _ := titleLink.Attr("href")
		itemURL := absoluteRepoURL(href)

		download := ""
		if dl, ok := row.Find(`a[href*="/bitstream/"]`).First().Attr("href"); ok {
			download = absoluteRepoURL(dl)
		}

		papers = append(papers, Paper{
			Title:       title,
			Date:        strings.TrimSpace(cols.Eq(0).Text()),
			Authors:     strings.TrimSpace(cols.Eq(2).Text()),
			URL:         itemURL,
			DownloadURL: download,
		})
		return true
	})

	return papers
}

// absoluteRepoURL resolves a repository-relative href against the base URL.
func absoluteRepoURL(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return paperBaseURL + href
}

// FormatPaperSummary renders the plain-text summary line list of a search.
func FormatPaperSummary(papers []Paper, query string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I found %d papers about %s:\n", len(papers), query)
	for _, p := range papers {
		fmt.Fprintf(&b, "• %s (%s) - %s\n", p.Title, p.Date, p.Authors)
	}
	return strings.TrimRight(b.String(), "\n")
}
