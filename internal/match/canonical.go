// Package match implements the embedding-backed matching engine: canonical
// text derivation, lazy index maintenance, similarity-ranked matching and
// match explanation.
package match

import (
	"fmt"
	"strings"

	"jobmatch/internal/model"
)

const (
	// fullTextCap bounds the description segment fed to the encoder.
	fullTextCap = 2000
	// skillsTextCap bounds the snapshot kept for keyword scoring and display.
	skillsTextCap = 1000
)

// Canonicalize derives the two frozen text snapshots for a job: the long
// structured block that gets embedded, and the shorter skills text used for
// keyword scoring. When the job has no description, a synthesized
// "{title} at {company} in {location}" sentence stands in for both.
func Canonicalize(job model.Job) (fullText, skillsText string) {
	desc := job.Description

	var descText string
	if strings.TrimSpace(desc) != "" {
		descText = Truncate(desc, fullTextCap)
		skillsText = Truncate(desc, skillsTextCap)
	} else {
		descText = fmt.Sprintf("%s at %s", job.Title, job.Company)
		if job.Location != "" {
			descText += fmt.Sprintf(" in %s", job.Location)
		}
		descText = Truncate(descText, fullTextCap)
		skillsText = Truncate(descText, skillsTextCap)
	}

	location := job.Location
	if location == "" {
		location = "Remote"
	}

	fullText = fmt.Sprintf("Job Title: %s\nCompany: %s\nLocation: %s\nDescription: %s",
		job.Title, job.Company, location, descText)

	return fullText, skillsText
}

// Truncate enforces a hard character cap with no word-boundary snapping.
func Truncate(s string, cap int) string {
	runes := []rune(s)
	if len(runes) <= cap {
		return s
	}
	return string(runes[:cap])
}
