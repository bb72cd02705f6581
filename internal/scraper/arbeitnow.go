package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"jobmatch/internal/model"
)

const arbeitnowAPIURL = "https://www.arbeitnow.com/api/job-board-api"

// Arbeitnow fetches listings from the Arbeitnow job board API. Only remote
// offers are kept.
type Arbeitnow struct {
	client *http.Client
}

// NewArbeitnow constructs the scraper.
func NewArbeitnow() *Arbeitnow {
	return &Arbeitnow{client: newHTTPClient()}
}

func (s *Arbeitnow) Source() string { return "arbeitnow" }

type arbeitnowResponse struct {
	Data []arbeitnowJob `json:"data"`
}

type arbeitnowJob struct {
	Title       string   `json:"title"`
	CompanyName string   `json:"company_name"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Remote      bool     `json:"remote"`
	URL         string   `json:"url"`
}

// Scrape fetches and normalises the current Arbeitnow listings.
func (s *Arbeitnow) Scrape(ctx context.Context) ([]model.ScrapedJob, error) {
	body, err := getJSON(ctx, s.client, arbeitnowAPIURL)
	if err != nil {
		return nil, fmt.Errorf("arbeitnow: %w", err)
	}

	var resp arbeitnowResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("arbeitnow: json unmarshal: %w", err)
	}

	jobs := make([]model.ScrapedJob, 0, len(resp.Data))
	for _, j := range resp.Data {
		if j.Title == "" || j.URL == "" || !j.Remote {
			continue
		}
		description := stripHTML(j.Description)
		if description == "" && len(j.Tags) > 0 {
			description = strings.Join(j.Tags, ", ")
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
			Description: description,
			URL:         j.URL,
		})
	}
	return jobs, nil
}
