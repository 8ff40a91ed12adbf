package domain

import "time"

// Post is a single feed entry as delivered by the endpoint. The core only
// interprets ID and CreatedTime; everything else is passed through to the
// renderer untouched.
type Post struct {
	ID          string `json:"id"`
	CreatedTime string `json:"created_time"`
	Message     string `json:"message,omitempty"`
	Permalink   string `json:"permalink_url,omitempty"`
	FullPicture string `json:"full_picture,omitempty"`
}

// createdTimeLayouts covers the timestamp shapes seen in feed payloads.
var createdTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05",
}

// CreatedAt parses the post timestamp.
func (p Post) CreatedAt() (time.Time, error) {
	var firstErr error
	for _, layout := range createdTimeLayouts {
		t, err := time.Parse(layout, p.CreatedTime)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
