// Package scraper implements job offer fetching, filtering and ingestion.
//
// Each site scraper is a narrow, independent, best-effort parser producing
// normalised job records; it needs no input beyond its own configuration.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"jobmatch/internal/model"
)

const httpTimeout = 15 * time.Second

// Browser-like User-Agent; some boards block default Go clients.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Scraper produces a batch of normalised job records from one site.
type Scraper interface {
	// Source names the origin site, stored on every record it produces.
	Source() string

	// Scrape fetches and parses the site's current listings.
	Scrape(ctx context.Context) ([]model.ScrapedJob, error)
}

// newHTTPClient builds the shared client used by all fetchers.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// getJSON fetches url and returns the response body, failing on non-200.
func getJSON(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %d", url, resp.StatusCode)
	}
	return body, nil
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTML removes markup from description fields. Best effort; scrapers
// only need readable text, not a faithful DOM.
func stripHTML(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	return strings.Join(strings.Fields(s), " ")
}
