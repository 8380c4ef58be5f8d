// package testing contains shared testing utilities
package testing

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	"favtrax/internal/models"
	"favtrax/internal/search"
	"favtrax/internal/shared"
)

// StubSearcher is a test double for [search.Searcher] answering from a canned function.
type StubSearcher struct {
	Fn func(ctx context.Context, q search.Query) (*search.Response, error)
}

func (s *StubSearcher) Search(ctx context.Context, q search.Query) (*search.Response, error) {
	return s.Fn(ctx, q)
}

// StaticSearcher returns a StubSearcher that always answers with resp and err.
func StaticSearcher(resp *search.Response, err error) *StubSearcher {
	return &StubSearcher{Fn: func(context.Context, search.Query) (*search.Response, error) {
		return resp, err
	}}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error

	// Last request seen, for assertions on rewritten URLs
	Request *http.Request
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	m.Request = r
	return m.response, m.err
}

// MustOpenDB opens an in-memory database with migrations applied and closes
// it when the test finishes.
func MustOpenDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

// SampleVideo builds a complete search result for the given id.
func SampleVideo(id string) search.Video {
	return search.Video{
		ID:          id,
		Title:       "Test Song",
		Description: "A test video",
		Seconds:     215,
		Timestamp:   "3:35",
		UploadDate:  time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC),
		Thumbnail:   "https://img.example.com/" + id + ".jpg",
		URL:         "https://www.youtube.com/watch?v=" + id,
		Author: search.Author{
			Name: "Test Artist",
			URL:  "https://www.youtube.com/channel/UCtest",
		},
	}
}

// SampleSong builds a valid song for the given id.
func SampleSong(id string) models.Song {
	return models.Song{
		ID:         id,
		Title:      "Test Song",
		Duration:   215,
		UploadDate: "2023-06-01T12:00:00Z",
		ImageURL:   "https://img.example.com/" + id + ".jpg",
		URL:        "https://www.youtube.com/watch?v=" + id,
		AuthorName: "Test Artist",
		AuthorURL:  "https://www.youtube.com/channel/UCtest",
	}
}

// WaitFor polls cond until it holds or the timeout elapses.
func WaitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}

	t.Fatalf("Timed out waiting for condition: %s", msg)
}
