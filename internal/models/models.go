package models

import (
	"fmt"
	"time"
)

// RowKind discriminates the two acceptable import shapes.
type RowKind int

const (
	// RowByID resolves through a direct video id lookup.
	RowByID RowKind = iota
	// RowByQuery resolves through a free-text "title - author" search.
	RowByQuery
)

func (k RowKind) String() string {
	switch k {
	case RowByID:
		return "by-id"
	case RowByQuery:
		return "by-query"
	default:
		return "unknown"
	}
}

// Row is one imported record to be resolved into a Song.
//
// The discriminant is fixed once at import time: a record carrying an id is
// RowByID, one carrying a title and author name is RowByQuery, and anything
// else is rejected before it enters the pipeline. Fields preserves the full
// original record so its values can overlay the resolved Song.
type Row struct {
	Kind       RowKind
	ID         string
	Title      string
	AuthorName string
	Fields     map[string]string
}

// NewRow classifies record into one of the accepted row shapes.
func NewRow(record map[string]string) (Row, error) {
	if id := record["id"]; id != "" {
		return Row{Kind: RowByID, ID: id, Fields: record}, nil
	}

	title, author := record["title"], record["authorName"]
	if title != "" && author != "" {
		return Row{Kind: RowByQuery, Title: title, AuthorName: author, Fields: record}, nil
	}

	return Row{}, fmt.Errorf("record matches no accepted shape")
}

// Song is a normalized, resolved video record.
type Song struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Duration    int     `json:"duration"` // Seconds
	UploadDate  string  `json:"uploadDate"`
	ImageURL    string  `json:"imageUrl"`
	URL         string  `json:"url"`
	AlbumTitle  string  `json:"albumTitle,omitempty"`
	AuthorName  string  `json:"authorName"`
	AuthorURL   string  `json:"authorUrl"`
}

// Validate checks the Song against its schema.
//
// Required string fields must be non-empty, duration must be non-negative and
// the upload date must be an ISO-8601 timestamp with offset. Description and
// album title are optional.
func (s Song) Validate() error {
	required := map[string]string{
		"id":         s.ID,
		"title":      s.Title,
		"imageUrl":   s.ImageURL,
		"url":        s.URL,
		"authorName": s.AuthorName,
		"authorUrl":  s.AuthorURL,
	}
	for field, value := range required {
		if value == "" {
			return fmt.Errorf("song field %s must not be empty", field)
		}
	}

	if s.Duration < 0 {
		return fmt.Errorf("song duration must be non-negative, got %d", s.Duration)
	}

	if _, err := time.Parse(time.RFC3339, s.UploadDate); err != nil {
		return fmt.Errorf("song uploadDate %q is not an ISO-8601 timestamp with offset: %w", s.UploadDate, err)
	}

	return nil
}

// PersistedSong is a resolved Song cached in the local database.
type PersistedSong struct {
	RecordID   string    `json:"recordId"`
	BatchID    string    `json:"batchId"`
	RowIndex   int       `json:"rowIndex"`
	Song       Song      `json:"song"`
	MatchScore float64   `json:"matchScore"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Validate checks the persisted entity and its embedded Song.
func (p PersistedSong) Validate() error {
	if p.RecordID == "" {
		return fmt.Errorf("persisted song record id must not be empty")
	}
	if p.BatchID == "" {
		return fmt.Errorf("persisted song batch id must not be empty")
	}
	if p.RowIndex < 0 {
		return fmt.Errorf("persisted song row index must be non-negative, got %d", p.RowIndex)
	}
	return p.Song.Validate()
}
