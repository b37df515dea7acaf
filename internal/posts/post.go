// Package posts fetches read-only posts from a public REST API and tracks the
// state of the most recent fetch.
package posts

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Post is a single remote record.
type Post struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags,omitempty"`
	Reactions Reactions `json:"reactions"`
	Views     int       `json:"views,omitempty"`
}

// Reactions holds like counts. It decodes from {"likes":n,"dislikes":m} or
// from a bare integer, which is read as likes.
type Reactions struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Reactions) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] != '{' {
		var n int
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("reactions: %w", err)
		}
		*r = Reactions{Likes: n}
		return nil
	}
	type plain Reactions
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("reactions: %w", err)
	}
	*r = Reactions(p)
	return nil
}

// SearchFields returns the text fields matched by a search.
func SearchFields(p Post) []string {
	return []string{p.Title, p.Body}
}

// Tags returns the tags matched by a search.
func Tags(p Post) []string {
	return p.Tags
}
