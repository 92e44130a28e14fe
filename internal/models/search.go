package models

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// SearchFilters is the typed form of the optional query parameters on
// the listing search endpoint. A zero-value string or nil slice means
// "no constraint"; all set filters combine with AND.
type SearchFilters struct {
	Search          string
	Category        string
	Location        string
	Skills          []string
	Tags            []string
	MinSalary       string
	MaxSalary       string
	JobType         string
	ExperienceLevel string

	// Owner is set only by the soft "mine" filter, from a verified
	// credential. It is a convenience filter, not an authorization
	// boundary.
	Owner string

	Page  int
	Limit int
}

// SearchResult is the paginated response envelope.
type SearchResult struct {
	Total   int       `json:"total"`
	Page    int       `json:"page"`
	Pages   int       `json:"pages"`
	Results []Listing `json:"results"`
}

// ParseSearchFilters builds SearchFilters from raw query values.
// subject is the verified caller identity, or empty when the request
// carried no valid credential; mine=true without a subject is ignored.
func ParseSearchFilters(values url.Values, subject string) SearchFilters {
	f := SearchFilters{
		Search:          strings.TrimSpace(values.Get("search")),
		Category:        values.Get("category"),
		Location:        strings.TrimSpace(values.Get("location")),
		Skills:          splitList(values.Get("skills")),
		Tags:            splitList(values.Get("tags")),
		MinSalary:       values.Get("minSalary"),
		MaxSalary:       values.Get("maxSalary"),
		JobType:         values.Get("jobType"),
		ExperienceLevel: values.Get("experienceLevel"),
		Page:            positiveInt(values.Get("page"), DefaultPage),
		Limit:           positiveInt(values.Get("limit"), DefaultLimit),
	}

	if values.Get("mine") == "true" && subject != "" {
		f.Owner = subject
	}

	return f
}

// Offset returns how many records the page window skips.
func (f SearchFilters) Offset() int {
	return (f.Page - 1) * f.Limit
}

// Pages returns the page count for a total under this limit.
func (f SearchFilters) Pages(total int) int {
	if total == 0 {
		return 0
	}
	return (total + f.Limit - 1) / f.Limit
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
