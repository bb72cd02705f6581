package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"jobmatch/internal/model"
)

const remoteOKAPIURL = "https://remoteok.com/api"

// RemoteOK fetches listings from the RemoteOK API. The API returns a JSON
// array whose first element is a legal notice, not a job.
type RemoteOK struct {
	client *http.Client
}

// NewRemoteOK constructs the scraper.
func NewRemoteOK() *RemoteOK {
	return &RemoteOK{client: newHTTPClient()}
}

func (s *RemoteOK) Source() string { return "remoteok" }

type remoteOKJob struct {
	Position    string `json:"position"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Scrape fetches and normalises the current RemoteOK listings.
func (s *RemoteOK) Scrape(ctx context.Context) ([]model.ScrapedJob, error) {
	body, err := getJSON(ctx, s.client, remoteOKAPIURL)
	if err != nil {
		return nil, fmt.Errorf("remoteok: %w", err)
	}

	var entries []remoteOKJob
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("remoteok: json unmarshal: %w", err)
	}

	jobs := make([]model.ScrapedJob, 0, len(entries))
	for _, j := range entries {
		// Entries without a position are metadata, not listings.
		if j.Position == "" || j.URL == "" {
			continue
		}
		location := j.Location
		if location == "" {
			location = "Remote"
		}
		jobs = append(jobs, model.ScrapedJob{
			Source:      s.Source(),
			Title:       j.Position,
			Company:     j.Company,
			Location:    location,
			Description: stripHTML(j.Description),
			URL:         j.URL,
		})
	}
	return jobs, nil
}
