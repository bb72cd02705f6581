package scraper

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "Backend engineer wanted", "Backend engineer wanted"},
		{"tags removed", "<p>We use <b>Go</b> and Postgres</p>", "We use Go and Postgres"},
		{"entities decoded", "Sales &amp; Marketing&nbsp;role", "Sales & Marketing role"},
		{"whitespace collapsed", "  too\n\n   many    spaces ", "too many spaces"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripHTML(tt.in); got != tt.want {
				t.Errorf("stripHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestContainsExcludedTerm(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		company     string
		description string
		terms       []string
		want        bool
	}{
		{"no terms", "Go Developer", "Acme", "backend work", nil, false},
		{"term in title", "Senior Crypto Engineer", "Acme", "", []string{"crypto"}, true},
		{"term in company", "Engineer", "CryptoCorp", "", []string{"crypto"}, true},
		{"term in description", "Engineer", "Acme", "blockchain and crypto", []string{"crypto"}, true},
		{"case insensitive", "GAMBLING platform dev", "Acme", "", []string{"gambling"}, true},
		{"no match", "Go Developer", "Acme", "backend work", []string{"crypto", "gambling"}, false},
		{"empty term skipped", "Go Developer", "Acme", "backend", []string{""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContainsExcludedTerm(tt.title, tt.company, tt.description, tt.terms)
			if got != tt.want {
				t.Errorf("ContainsExcludedTerm = %v, want %v", got, tt.want)
			}
		})
	}
}

// stubTransport serves a fixed body for every request.
type stubTransport struct {
	status int
	body   string
}

func (s stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: s.status,
		Body:       io.NopCloser(bytes.NewBufferString(s.body)),
		Header:     http.Header{},
		Request:    req,
	}, nil
}

func TestRemotiveScrape(t *testing.T) {
	body := `{"jobs": [
		{"url": "https://remotive.com/j/1", "title": "Go Developer", "company_name": "Acme",
		 "candidate_required_location": "Europe", "description": "<p>Build APIs</p>"},
		{"url": "https://remotive.com/j/2", "title": "Data Engineer", "company_name": "Beta",
		 "candidate_required_location": "", "description": "Pipelines"},
		{"url": "", "title": "No URL", "company_name": "Skip", "candidate_required_location": "", "description": ""}
	]}`

	s := &Remotive{client: &http.Client{Transport: stubTransport{status: http.StatusOK, body: body}}}

	jobs, err := s.Scrape(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2 (record without URL skipped)", len(jobs))
	}

	first := jobs[0]
	if first.Source != "remotive" || first.Title != "Go Developer" || first.Company != "Acme" {
		t.Errorf("unexpected first job: %+v", first)
	}
	if first.Description != "Build APIs" {
		t.Errorf("description = %q, want HTML stripped", first.Description)
	}
	if jobs[1].Location != "Remote" {
		t.Errorf("location = %q, want default Remote", jobs[1].Location)
	}
}

func TestRemotiveScrape_Non200(t *testing.T) {
	s := &Remotive{client: &http.Client{Transport: stubTransport{status: http.StatusBadGateway, body: "oops"}}}
	if _, err := s.Scrape(context.Background()); err == nil {
		t.Fatal("expected an error on a non-200 response")
	}
}
