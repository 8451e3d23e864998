package model

import "strings"

type Movie struct {
	Id          int    `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	ImageUrl    string `json:"imageUrl,omitempty"`
}

// DisplayTitle prefers the title field and falls back to the name, as some
// listings only fill one of them.
func (m Movie) DisplayTitle() string {
	if title := strings.TrimSpace(m.Title); title != "" {
		return title
	}
	return m.Name
}

// Matches reports whether query appears in the title, genre or description.
func (m Movie) Matches(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, field := range []string{m.DisplayTitle(), m.Genre, m.Description} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

type MovieInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Genre       string  `json:"genre"`
	ImageUrl    *string `json:"imageUrl"`
}
