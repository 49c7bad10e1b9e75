package lnm

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lnmiit-dev/campusbot-go/internal/scraper"
)

// admissionURL is the college admissions landing page.
const admissionURL = "https://lnmiit.ac.in/admissions/"

// AdmissionSections is the fixed menu of browsable admission sections.
// Fuzzy matching in the admission sub-flow resolves user input against
// these names; order matters for first-seen tie-breaks.
var AdmissionSections = []string{
	"Admission Process",
	"Eligibility Criteria",
	"Fee Structure",
	"Scholarships",
	"Hostel Facilities",
	"Important Dates",
	"Contact Information",
}

// sectionAnchors maps a section name to the HTML anchor id on the
// admissions page.
var sectionAnchors = map[string]string{
	"Admission Process":    "admission-process",
	"Eligibility Criteria": "eligibility",
	"Fee Structure":        "fee-structure",
	"Scholarships":         "scholarships",
	"Hostel Facilities":    "hostel-facilities",
	"Important Dates":      "important-dates",
	"Contact Information":  "contact",
}

// AdmissionSection scrapes the text content of one admissions page section.
// The section name must be one of AdmissionSections.
func AdmissionSection(ctx context.Context, client *scraper.Client, section string) (string, error) {
	anchor, ok := sectionAnchors[section]
	if !ok {
		return "", fmt.Errorf("unknown admission section: %s", section)
	}

	doc, err := client.GetDocumentShared(ctx, admissionURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch admissions page: %w", err)
	}

	content := parseAdmissionSection(doc, anchor)
	if content == "" {
		return "", fmt.Errorf("admission section %s not found on page", section)
	}
	return content, nil
}

// parseAdmissionSection collects the paragraph and list-item text under a
// section container identified by its anchor id.
func parseAdmissionSection(doc *goquery.Document, anchor string) string {
	var parts []string

	container := doc.Find("div#" + anchor)
	if container.Length() == 0 {
		container = doc.Find("section#" + anchor)
	}

	container.Find("h3, h4, p, li").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		if goquery.NodeName(s) == "li" {
			text = "• " + text
		}
		parts = append(parts, text)
	})

	return strings.Join(parts, "\n")
}

// SectionMenu renders the full menu of valid section names for replies
// shown when no section matches confidently.
func SectionMenu() string {
	var b strings.Builder
	b.WriteString("Here are the admission topics I can help with:\n")
	for _, s := range AdmissionSections {
		b.WriteString("• ")
		b.WriteString(s)
		b.WriteString("\n")
	}
	b.WriteString("Say a topic name, or 'exit' to leave admission info.")
	return b.String()
}
