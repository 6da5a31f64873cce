package tool

import "strings"

// Category names used by the launcher sidebar
const (
	CategoryMedia        = "Media & Video"
	CategoryProductivity = "Productivity"
	CategoryUtilities    = "Utilities"
	CategoryNetworking   = "Networking"
	CategoryDevelopment  = "Development"
	CategorySystem       = "System Tools"
	CategoryOther        = "Other"
)

// Metadata describes a tool for display and search. ID is the registry key,
// everything else is descriptive.
type Metadata struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Icon        string   `json:"icon"`
	Keywords    []string `json:"keywords"`
	Version     string   `json:"version"`
	Author      string   `json:"author"`
}

// Normalize trims fields, falls back to CategoryOther and removes
// duplicate keywords (case-insensitive), keeping the first spelling.
func (m Metadata) Normalize() Metadata {
	m.ID = strings.TrimSpace(m.ID)
	m.Name = strings.TrimSpace(m.Name)
	m.Category = strings.TrimSpace(m.Category)
	if m.Category == "" {
		m.Category = CategoryOther
	}

	seen := make(map[string]struct{}, len(m.Keywords))
	keywords := make([]string, 0, len(m.Keywords))
	for _, kw := range m.Keywords {
		kw = strings.TrimSpace(kw)
		key := strings.ToLower(kw)
		if kw == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keywords = append(keywords, kw)
	}
	m.Keywords = keywords
	return m
}

// Matches reports whether the lower-cased query is a substring of the name,
// description, category or any keyword.
func (m Metadata) Matches(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(m.Name), q) ||
		strings.Contains(strings.ToLower(m.Description), q) ||
		strings.Contains(strings.ToLower(m.Category), q) {
		return true
	}
	for _, kw := range m.Keywords {
		if strings.Contains(strings.ToLower(kw), q) {
			return true
		}
	}
	return false
}
