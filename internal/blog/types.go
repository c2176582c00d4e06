package blog

import (
	"fmt"
	"time"
)

const sqliteTimestampLayout = "2006-01-02 15:04:05"

// Post mirrors the payload returned by /api/posts/{id} and each element of
// /api/posts.
type Post struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Department string `json:"department"`
	Author     string `json:"author"`
	CreatedAt  string `json:"created_at"`
}

// Health mirrors the /health payload of both services.
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Healthy reports whether the service declared itself healthy.
func (h Health) Healthy() bool {
	return h.Status == "healthy"
}

// OptionValue is the selector value for the post, matching the id as the
// browser dropdown carried it.
func (p Post) OptionValue() string {
	return fmt.Sprintf("%d", p.ID)
}

// OptionLabel is the selector text: "<title> (<department>)".
func (p Post) OptionLabel() string {
	return fmt.Sprintf("%s (%s)", p.Title, p.Department)
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp, or the zero time
// when it is missing or malformed.
func (p Post) ParsedCreatedAt() time.Time {
	return parseTime(p.CreatedAt)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(sqliteTimestampLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
