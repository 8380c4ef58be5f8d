package search

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/kkdai/youtube/v2"

	"favtrax/internal/shared"
)

func TestSanitizeVideo(t *testing.T) {
	source := &youtube.Video{
		ID:          "abc123",
		Title:       "Test Song",
		Description: "A test video",
		Author:      "Test Artist",
		ChannelID:   "UCtest",
		Duration:    3*time.Minute + 35*time.Second,
		PublishDate: time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC),
		Thumbnails: youtube.Thumbnails{
			{URL: "https://img.example.com/small.jpg", Width: 120},
			{URL: "https://img.example.com/large.jpg", Width: 480},
		},
	}

	video := SanitizeVideo(source)

	t.Run("Fields", func(t *testing.T) {
		if video.ID != "abc123" || video.Title != "Test Song" {
			t.Errorf("expected id and title carried over, got %+v", video)
		}
		if video.Seconds != 215 {
			t.Errorf("expected 215 seconds, got %d", video.Seconds)
		}
		if video.Timestamp != "3:35" {
			t.Errorf("expected timestamp 3:35, got %s", video.Timestamp)
		}
		if video.URL != "https://www.youtube.com/watch?v=abc123" {
			t.Errorf("expected canonical watch URL, got %s", video.URL)
		}
		if video.Author.Name != "Test Artist" {
			t.Errorf("expected author name, got %s", video.Author.Name)
		}
		if video.Author.URL != "https://www.youtube.com/channel/UCtest" {
			t.Errorf("expected canonical channel URL, got %s", video.Author.URL)
		}
	})

	t.Run("LargestThumbnail", func(t *testing.T) {
		if video.Thumbnail != "https://img.example.com/large.jpg" {
			t.Errorf("expected largest thumbnail, got %s", video.Thumbnail)
		}
	})

	t.Run("EmptyChannelID", func(t *testing.T) {
		bare := SanitizeVideo(&youtube.Video{ID: "abc123"})
		if bare.Author.URL != "" {
			t.Errorf("expected empty channel URL, got %s", bare.Author.URL)
		}
	})
}

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{215, "3:35"},
		{3723, "1:02:03"},
		{-5, "0:00"},
	}

	for _, c := range cases {
		if got := formatTimestamp(c.seconds); got != c.want {
			t.Errorf("formatTimestamp(%d): expected %s, got %s", c.seconds, c.want, got)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		timestamp string
		want      int
	}{
		{"", 0},
		{"0:45", 45},
		{"3:35", 215},
		{"1:02:03", 3723},
		{"not a time", 0},
	}

	for _, c := range cases {
		if got := parseTimestamp(c.timestamp); got != c.want {
			t.Errorf("parseTimestamp(%q): expected %d, got %d", c.timestamp, c.want, got)
		}
	}
}

// searchResultsFixture is a trimmed innertube response with two results and
// surrounding non-renderer structure.
const searchResultsFixture = `{
	"contents": {
		"sectionListRenderer": {
			"contents": [
				{
					"itemSectionRenderer": {
						"contents": [
							{
								"videoRenderer": {
									"videoId": "abc123",
									"title": {"runs": [{"text": "Test "}, {"text": "Song"}]},
									"ownerText": {"runs": [{
										"text": "Test Artist",
										"navigationEndpoint": {"browseEndpoint": {"browseId": "UCtest"}}
									}]},
									"lengthText": {"simpleText": "3:35"},
									"thumbnail": {"thumbnails": [
										{"url": "https://img.example.com/small.jpg"},
										{"url": "https://img.example.com/large.jpg"}
									]}
								}
							},
							{"shelfRenderer": {"title": {"simpleText": "People also watched"}}},
							{
								"videoRenderer": {
									"videoId": "def456",
									"title": {"runs": [{"text": "Another Song"}]},
									"longBylineText": {"runs": [{"text": "Other Artist"}]},
									"lengthText": {"simpleText": "1:02:03"}
								}
							}
						]
					}
				}
			]
		}
	}
}`

func TestParseSearchResponse(t *testing.T) {
	t.Run("ExtractsRenderersInOrder", func(t *testing.T) {
		candidates, err := parseSearchResponse([]byte(searchResultsFixture))
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if len(candidates) != 2 {
			t.Fatalf("expected 2 candidates, got %d", len(candidates))
		}

		first := candidates[0]
		if first.ID != "abc123" || first.Title != "Test Song" {
			t.Errorf("expected first candidate abc123 Test Song, got %+v", first)
		}
		if first.Seconds != 215 || first.Timestamp != "3:35" {
			t.Errorf("expected duration from length text, got %d %s", first.Seconds, first.Timestamp)
		}
		if first.Thumbnail != "https://img.example.com/large.jpg" {
			t.Errorf("expected last thumbnail, got %s", first.Thumbnail)
		}
		if first.Author.Name != "Test Artist" {
			t.Errorf("expected owner text author, got %s", first.Author.Name)
		}
		if first.Author.URL != "https://www.youtube.com/channel/UCtest" {
			t.Errorf("expected channel URL from browse endpoint, got %s", first.Author.URL)
		}

		second := candidates[1]
		if second.ID != "def456" || second.Author.Name != "Other Artist" {
			t.Errorf("expected byline fallback for second candidate, got %+v", second)
		}
	})

	t.Run("NoResults", func(t *testing.T) {
		candidates, err := parseSearchResponse([]byte(`{"contents": {}}`))
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if len(candidates) != 0 {
			t.Errorf("expected no candidates, got %d", len(candidates))
		}
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		if _, err := parseSearchResponse([]byte("not json")); err == nil {
			t.Error("expected invalid JSON to fail")
		}
	})
}

type fixtureTripper struct {
	status  int
	body    string
	request *http.Request
}

func (f *fixtureTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	f.request = r
	return &http.Response{
		StatusCode: f.status,
		Body:       io.NopCloser(strings.NewReader(f.body)),
	}, nil
}

func TestClientSearch(t *testing.T) {
	t.Run("EmptyQueryRejected", func(t *testing.T) {
		client := NewClient(ClientOpts{})
		if _, err := client.Search(context.Background(), Query{}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("QueryReturnsCandidates", func(t *testing.T) {
		tripper := &fixtureTripper{status: http.StatusOK, body: searchResultsFixture}
		client := NewClient(ClientOpts{HTTPClient: &http.Client{Transport: tripper}})

		resp, err := client.Search(context.Background(), Query{Terms: "test song - test artist"})
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if resp.Video != nil {
			t.Error("expected no detail result for a free-text query")
		}
		if len(resp.Candidates) != 2 {
			t.Fatalf("expected 2 candidates, got %d", len(resp.Candidates))
		}

		if tripper.request.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", tripper.request.Method)
		}
		if host := tripper.request.URL.Host; host != "www.youtube.com" {
			t.Errorf("expected search endpoint host, got %s", host)
		}
	})

	t.Run("ZeroCandidatesIsNotAnError", func(t *testing.T) {
		tripper := &fixtureTripper{status: http.StatusOK, body: `{"contents": {}}`}
		client := NewClient(ClientOpts{HTTPClient: &http.Client{Transport: tripper}})

		resp, err := client.Search(context.Background(), Query{Terms: "nothing matches"})
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if len(resp.Candidates) != 0 {
			t.Errorf("expected empty candidate list, got %d", len(resp.Candidates))
		}
	})

	t.Run("ErrorStatus", func(t *testing.T) {
		tripper := &fixtureTripper{status: http.StatusForbidden, body: ""}
		client := NewClient(ClientOpts{HTTPClient: &http.Client{Transport: tripper}})

		if _, err := client.Search(context.Background(), Query{Terms: "test"}); err == nil {
			t.Error("expected non-2xx status to fail")
		}
	})

	t.Run("HeadersApplied", func(t *testing.T) {
		tripper := &fixtureTripper{status: http.StatusOK, body: `{}`}
		client := NewClient(ClientOpts{
			HTTPClient: &http.Client{Transport: tripper},
			Headers: &shared.CurlHeaders{
				Headers: map[string]string{"User-Agent": "test-agent"},
				Cookie:  "session=1",
			},
		})

		if _, err := client.Search(context.Background(), Query{Terms: "test"}); err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if got := tripper.request.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("expected configured user agent, got %s", got)
		}
		if got := tripper.request.Header.Get("Cookie"); got != "session=1" {
			t.Errorf("expected configured cookie, got %s", got)
		}
	})
}
