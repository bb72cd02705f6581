package scraper

import "strings"

// ContainsExcludedTerm returns true if any exclusion term appears
// (case-insensitive) anywhere in the combined title + company + description
// text. Checked before every insert; matching offers are silently discarded.
func ContainsExcludedTerm(title, company, description string, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	combined := strings.ToLower(title + " " + company + " " + description)
	for _, term := range terms {
		if term == "" {
			continue
		}
		if strings.Contains(combined, strings.ToLower(term)) {
			return true
		}
	}
	return false
}
