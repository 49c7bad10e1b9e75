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
	// opacBaseURL is the Koha OPAC for the college library.
	opacBaseURL = "https://lnmiit-opac.kohacloud.in"

	opacSearchPath = "/cgi-bin/koha/opac-search.pl"
	opacDetailPath = "/cgi-bin/koha/opac-detail.pl"
)

// BookResultKind tags the outcome of a catalog search so the dispatcher
// branches on structure instead of sniffing reply strings.
type BookResultKind int

const (
	// BookNone means the search returned no records.
	BookNone BookResultKind = iota
	// BookSingle means the OPAC resolved straight to one record page.
	BookSingle
	// BookMultiple means the OPAC returned a results listing.
	BookMultiple
)

// BookItem is one row of a multi-result catalog search.
type BookItem struct {
	Title        string
	Author       string
	BiblioNumber string // Catalog id used to disambiguate duplicate titles
}

// BookDetail is the full record page for a single book.
type BookDetail struct {
	Title      string
	Author     string
	ISBN       string
	CallNumber string
	Available  bool
}

// BookSearchResult is the tagged outcome of SearchBooks.
type BookSearchResult struct {
	Kind   BookResultKind
	Detail *BookDetail // set when Kind == BookSingle
	Items  []BookItem  // set when Kind == BookMultiple
}

// Catalog queries the library OPAC. The base URL is a field so tests
// can point the catalog at a local server.
type Catalog struct {
	client  *scraper.Client
	baseURL string
}

// NewCatalog creates an OPAC catalog client. An empty baseURL uses the
// college's hosted OPAC.
func NewCatalog(client *scraper.Client, baseURL string) *Catalog {
	if baseURL == "" {
		baseURL = opacBaseURL
	}
	return &Catalog{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SearchBooks queries the library OPAC for a title. The result is a
// tagged variant: a direct record page, a result listing, or nothing.
func (c *Catalog) SearchBooks(ctx context.Context, title string) (*BookSearchResult, error) {
	doc, err := c.searchPage(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("failed to search library catalog: %w", err)
	}
	return classifySearchPage(doc, title), nil
}

// BookByTitle resolves a book selected by title alone. The same tagged
// variants as SearchBooks apply: a duplicated title comes back as
// BookMultiple so the caller can ask for a catalog-id-qualified pick.
func (c *Catalog) BookByTitle(ctx context.Context, title string) (*BookSearchResult, error) {
	doc, err := c.searchPage(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch book record: %w", err)
	}
	return classifySearchPage(doc, title), nil
}

// BookByBiblioNumber fetches the record page for a book selected by its
// catalog id; used when the same title appears under multiple entries.
func (c *Catalog) BookByBiblioNumber(ctx context.Context, title, biblioNumber string) (*BookDetail, error) {
	detailURL := fmt.Sprintf("%s%s?biblionumber=%s&query_desc=kw%%2Cwrdl%%3A%s",
		c.baseURL, opacDetailPath, url.QueryEscape(biblioNumber), url.QueryEscape(title))

	doc, err := c.client.GetDocumentShared(ctx, detailURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch book record: %w", err)
	}

	if doc.Find("div.record").Length() == 0 {
		return nil, fmt.Errorf("no record page for biblionumber %s", biblioNumber)
	}
	return parseBookDetail(doc), nil
}

// searchPage fetches the OPAC search result page for a title query.
func (c *Catalog) searchPage(ctx context.Context, title string) (*goquery.Document, error) {
	searchURL := fmt.Sprintf("%s%s?idx=&q=%s&weight_search=1", c.baseURL, opacSearchPath, encodeTitle(title))
	return c.client.GetDocumentShared(ctx, searchURL)
}

// classifySearchPage tags an OPAC response: a record page is a single
// hit, a listing is a multi hit, anything else is no result.
func classifySearchPage(doc *goquery.Document, title string) *BookSearchResult {
	// A direct hit renders the record page instead of a listing.
	if doc.Find("div.record").Length() > 0 {
		return &BookSearchResult{Kind: BookSingle, Detail: parseBookDetail(doc)}
	}

	items := parseBookListing(doc)
	if len(items) == 0 {
		return &BookSearchResult{Kind: BookNone}
	}

	// Prefer rows whose title contains the query; fall back to all rows.
	if partial := filterByTitle(items, title); len(partial) > 0 {
		items = partial
	}

	return &BookSearchResult{Kind: BookMultiple, Items: items}
}

// encodeTitle prepares a title for the OPAC query string: trimmed,
// URL-escaped, spaces as plus signs (the OPAC's own convention).
func encodeTitle(title string) string {
	escaped := url.QueryEscape(strings.TrimSpace(title))
	// QueryEscape renders spaces as '+', matching the OPAC search form.
	return escaped
}

// parseBookListing extracts rows from the search results table.
func parseBookListing(doc *goquery.Document) []BookItem {
	var items []BookItem

	doc.Find("table.table-striped tr").Each(func(i int, row *goquery.Selection) {
		titleTag := row.Find("a.title").First()
		title := strings.TrimSpace(titleTag.Text())
		if title == "" {
			return
		}

		author := strings.TrimSpace(row.Find("ul.author").First().Text())
		if author == "" {
			author = "Unknown Author"
		}

		biblio, _ := row.Find("input.cb").First().Attr("value")

		items = append(items, BookItem{
			Title:        title,
			Author:       author,
			BiblioNumber: biblio,
		})
	})

	return items
}

// filterByTitle keeps items whose title contains the query, case-insensitive.
func filterByTitle(items []BookItem, query string) []BookItem {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []BookItem
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Title), q) {
			out = append(out, item)
		}
	}
	return out
}

// parseBookDetail extracts the fields of a single record page.
func parseBookDetail(doc *goquery.Document) *BookDetail {
	record := doc.Find("div.record").First()

	detail := &BookDetail{
		Title:      strings.TrimSpace(record.Find("h1.title").First().Text()),
		Author:     strings.TrimSpace(record.Find(`span[property="name"]`).First().Text()),
		ISBN:       strings.TrimSpace(record.Find(`span[property="isbn"]`).First().Text()),
		CallNumber: strings.TrimSpace(doc.Find("td.call_no").First().Text()),
	}
	if detail.Title == "" {
		detail.Title = "Unknown Title"
	}
	if detail.Author == "" {
		detail.Author = "Unknown Author"
	}
	if detail.ISBN == "" {
		detail.ISBN = "Unknown ISBN"
	}
	if detail.CallNumber == "" {
		detail.CallNumber = "Unknown Call Number"
	}

	// A record is available when any holdings row advertises InStock
	// or an available status span.
	doc.Find("table#holdingst tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i == 0 {
			return true // header row
		}
		if row.Find("span.item-status.available").Length() > 0 ||
			row.Find(`link[property="availability"][href="http://schema.org/InStock"]`).Length() > 0 {
			detail.Available = true
			return false
		}
		return true
	})

	return detail
}

// FormatBookDetail renders a record page as the reply body.
func FormatBookDetail(d *BookDetail) string {
	status := "Not available"
	if d.Available {
		status = "Available"
	}
	return fmt.Sprintf("Title: %s\nAuthor: %s\nISBN: %s\nCall Number: %s\nStatus: %s",
		d.Title, d.Author, d.ISBN, d.CallNumber, status)
}

// FormatBookList renders a results listing as a numbered reply body.
func FormatBookList(items []BookItem, header string) string {
	var b strings.Builder
	b.WriteString(header)
	for i, item := range items {
		b.WriteString(fmt.Sprintf("\n%d. %s by %s", i+1, item.Title, item.Author))
		if item.BiblioNumber != "" {
			b.WriteString(fmt.Sprintf(" (catalog #%s)", item.BiblioNumber))
		}
	}
	b.WriteString("\n\nReply with a book title, or a catalog number if the same title appears more than once.")
	return b.String()
}
