package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"jobmatch/internal/model"
)

const remotiveAPIURL = "https://remotive.com/api/remote-jobs"

// Remotive fetches listings from the Remotive public API.
type Remotive struct {
	client *http.Client
}

// NewRemotive constructs the scraper.
func NewRemotive() *Remotive {
	return &Remotive{client: newHTTPClient()}
}

func (s *Remotive) Source() string { return "remotive" }

type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

type remotiveJob struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	Location    string `json:"candidate_required_location"`
	Description string `json:"description"`
}

// Scrape fetches and normalises the current Remotive listings.
func (s *Remotive) Scrape(ctx context.Context) ([]model.ScrapedJob, error) {
	body, err := getJSON(ctx, s.client, remotiveAPIURL)
	if err != nil {
		return nil, fmt.Errorf("remotive: %w", err)
	}

	var resp remotiveResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("remotive: json unmarshal: %w", err)
	}

	jobs := make([]model.ScrapedJob, 0, len(resp.Jobs))
	for _, j := range resp.Jobs {
		if j.Title == "" || j.URL == "" {
			continue
		}
		location := j.Location
		if location == "" {
			location = "Remote"
		}
		jobs = append(jobs, model.ScrapedJob{
			Source:      s.Source(),
			Title:       j.Title,
			Company:     j.CompanyName,
			Location:    location,
			Description: stripHTML(j.Description),
			URL:         j.URL,
		})
	}
	return jobs, nil
}
