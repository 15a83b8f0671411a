package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/quaestorlabs/quaestor/backend/internal/contracts"
	"github.com/quaestorlabs/quaestor/backend/pkg/httputil"
	"github.com/quaestorlabs/quaestor/backend/pkg/logger"
)

// ProfileScraper pulls a minimal company profile from a public quote page
// when the data API has no profile for a symbol. It fills Name, Sector and
// Industry only; the API remains the primary source.
type ProfileScraper struct {
	httpClient *httputil.Client
	baseURL    string
	logger     *logger.Logger
}

// NewProfileScraper creates a scraper rooted at baseURL. The symbol is
// appended to the URL as a path segment.
func NewProfileScraper(httpClient *httputil.Client, baseURL string, log *logger.Logger) *ProfileScraper {
	return &ProfileScraper{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     log,
	}
}

// Scrape fetches and parses the profile page for one symbol.
func (s *ProfileScraper) Scrape(ctx context.Context, symbol string) (*contracts.CompanyProfile, error) {
	pageURL := fmt.Sprintf("%s/%s", s.baseURL, symbol)

	resp, err := s.httpClient.Get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse profile page: %w", err)
	}

	profile := &contracts.CompanyProfile{
		Name:     strings.TrimSpace(doc.Find("h1.company-name").First().Text()),
		Exchange: strings.TrimSpace(doc.Find("span.exchange").First().Text()),
	}

	doc.Find("div.company-meta dt").Each(func(_ int, dt *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(dt.Text()))
		value := strings.TrimSpace(dt.Next().Text())
		switch label {
		case "sector":
			profile.Sector = value
		case "industry":
			profile.Industry = value
		case "website":
			profile.Website = value
		}
	})

	if profile.Name == "" {
		return nil, fmt.Errorf("profile page for %s had no company name", symbol)
	}

	s.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"name":   profile.Name,
	}).Debug("Profile scraped from fallback source")

	return profile, nil
}
