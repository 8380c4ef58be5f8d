package models

import (
	"strings"
	"testing"
)

func TestNewRow(t *testing.T) {
	t.Run("IDRow", func(t *testing.T) {
		row, err := NewRow(map[string]string{"id": "abc123", "title": "ignored for kind"})
		if err != nil {
			t.Fatalf("expected valid row, got error: %v", err)
		}
		if row.Kind != RowByID {
			t.Errorf("expected RowByID, got %s", row.Kind)
		}
		if row.ID != "abc123" {
			t.Errorf("expected id abc123, got %s", row.ID)
		}
	})

	t.Run("QueryRow", func(t *testing.T) {
		row, err := NewRow(map[string]string{"title": "Test Song", "authorName": "Test Artist"})
		if err != nil {
			t.Fatalf("expected valid row, got error: %v", err)
		}
		if row.Kind != RowByQuery {
			t.Errorf("expected RowByQuery, got %s", row.Kind)
		}
		if row.Title != "Test Song" || row.AuthorName != "Test Artist" {
			t.Errorf("expected title and author preserved, got %q %q", row.Title, row.AuthorName)
		}
	})

	t.Run("IDWinsOverQuery", func(t *testing.T) {
		row, err := NewRow(map[string]string{"id": "abc123", "title": "Test Song", "authorName": "Test Artist"})
		if err != nil {
			t.Fatalf("expected valid row, got error: %v", err)
		}
		if row.Kind != RowByID {
			t.Errorf("expected id to take precedence, got %s", row.Kind)
		}
	})

	t.Run("TitleWithoutAuthorRejected", func(t *testing.T) {
		if _, err := NewRow(map[string]string{"title": "Test Song"}); err == nil {
			t.Error("expected title-only record to be rejected")
		}
	})

	t.Run("EmptyRecordRejected", func(t *testing.T) {
		if _, err := NewRow(map[string]string{}); err == nil {
			t.Error("expected empty record to be rejected")
		}
	})

	t.Run("FieldsPreserved", func(t *testing.T) {
		record := map[string]string{"id": "abc123", "albumTitle": "Test Album"}
		row, err := NewRow(record)
		if err != nil {
			t.Fatalf("expected valid row, got error: %v", err)
		}
		if row.Fields["albumTitle"] != "Test Album" {
			t.Errorf("expected original fields preserved, got %v", row.Fields)
		}
	})
}

func validSong() Song {
	return Song{
		ID:         "abc123",
		Title:      "Test Song",
		Duration:   215,
		UploadDate: "2023-06-01T12:00:00Z",
		ImageURL:   "https://img.example.com/abc123.jpg",
		URL:        "https://www.youtube.com/watch?v=abc123",
		AuthorName: "Test Artist",
		AuthorURL:  "https://www.youtube.com/channel/UCtest",
	}
}

func TestSongValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		if err := validSong().Validate(); err != nil {
			t.Errorf("expected valid song, got error: %v", err)
		}
	})

	t.Run("OptionalFieldsMayBeEmpty", func(t *testing.T) {
		song := validSong()
		song.Description = ""
		song.AlbumTitle = ""
		if err := song.Validate(); err != nil {
			t.Errorf("expected description and album title to be optional, got %v", err)
		}
	})

	t.Run("MissingRequiredField", func(t *testing.T) {
		song := validSong()
		song.AuthorURL = ""
		err := song.Validate()
		if err == nil {
			t.Fatal("expected missing authorUrl to fail validation")
		}
		if !strings.Contains(err.Error(), "authorUrl") {
			t.Errorf("expected error to name the field, got %v", err)
		}
	})

	t.Run("NegativeDuration", func(t *testing.T) {
		song := validSong()
		song.Duration = -1
		if err := song.Validate(); err == nil {
			t.Error("expected negative duration to fail validation")
		}
	})

	t.Run("BadUploadDate", func(t *testing.T) {
		song := validSong()
		song.UploadDate = "June 1st 2023"
		if err := song.Validate(); err == nil {
			t.Error("expected non-ISO upload date to fail validation")
		}
	})

	t.Run("UploadDateWithOffset", func(t *testing.T) {
		song := validSong()
		song.UploadDate = "2023-06-01T12:00:00+02:00"
		if err := song.Validate(); err != nil {
			t.Errorf("expected offset timestamp to validate, got %v", err)
		}
	})
}

func TestPersistedSongValidate(t *testing.T) {
	valid := PersistedSong{
		RecordID: "rec-1",
		BatchID:  "batch-1",
		RowIndex: 0,
		Song:     validSong(),
	}

	t.Run("Valid", func(t *testing.T) {
		if err := valid.Validate(); err != nil {
			t.Errorf("expected valid persisted song, got error: %v", err)
		}
	})

	t.Run("MissingBatchID", func(t *testing.T) {
		p := valid
		p.BatchID = ""
		if err := p.Validate(); err == nil {
			t.Error("expected missing batch id to fail validation")
		}
	})

	t.Run("NegativeRowIndex", func(t *testing.T) {
		p := valid
		p.RowIndex = -1
		if err := p.Validate(); err == nil {
			t.Error("expected negative row index to fail validation")
		}
	})

	t.Run("InvalidEmbeddedSong", func(t *testing.T) {
		p := valid
		p.Song.Title = ""
		if err := p.Validate(); err == nil {
			t.Error("expected invalid embedded song to fail validation")
		}
	})
}
