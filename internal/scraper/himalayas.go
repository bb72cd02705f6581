package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"jobmatch/internal/model"
)

const himalayasAPIURL = "https://himalayas.app/jobs/api"

// Himalayas fetches listings from the Himalayas remote-jobs API.
type Himalayas struct {
	client *http.Client
}

// NewHimalayas constructs the scraper.
func NewHimalayas() *Himalayas {
	return &Himalayas{client: newHTTPClient()}
}

func (s *Himalayas) Source() string { return "himalayas" }

type himalayasResponse struct {
	Jobs []himalayasJob `json:"jobs"`
}

type himalayasJob struct {
	Title                string   `json:"title"`
	CompanyName          string   `json:"companyName"`
	LocationRestrictions []string `json:"locationRestrictions"`
	Description          string   `json:"description"`
	ApplicationLink      string   `json:"applicationLink"`
}

// Scrape fetches and normalises the current Himalayas listings.
func (s *Himalayas) Scrape(ctx context.Context) ([]model.ScrapedJob, error) {
	body, err := getJSON(ctx, s.client, himalayasAPIURL)
	if err != nil {
		return nil, fmt.Errorf("himalayas: %w", err)
	}

	var resp himalayasResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("himalayas: json unmarshal: %w", err)
	}

	jobs := make([]model.ScrapedJob, 0, len(resp.Jobs))
	for _, j := range resp.Jobs {
		if j.Title == "" || j.ApplicationLink == "" {
			continue
		}
		location := "Remote"
		if len(j.LocationRestrictions) > 0 {
			location = strings.Join(j.LocationRestrictions, ", ")
		}
		jobs = append(jobs, model.ScrapedJob{
			Source:      s.Source(),
			Title:       j.Title,
			Company:     j.CompanyName,
			Location:    location,
			Description: stripHTML(j.Description),
			URL:         j.ApplicationLink,
		})
	}
	return jobs, nil
}
