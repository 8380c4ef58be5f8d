package transform

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"favtrax/internal/models"
	"favtrax/internal/search"
	"favtrax/internal/shared"
	"favtrax/internal/worker"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// resolveRow dispatches on the row's import-time discriminant.
//
// Cancellation is polled after every outbound search call returns, in
// addition to the checks inside the session wrapper itself.
func resolveRow(ctx context.Context, fn worker.SearchFunc, session *Session, row models.Row) (*models.Song, float64, error) {
	switch row.Kind {
	case models.RowByID:
		return resolveByID(ctx, fn, session, row)
	case models.RowByQuery:
		return resolveByQuery(ctx, fn, session, row)
	default:
		return nil, 0, fmt.Errorf("%w: unknown row kind %d", shared.ErrInvalidInput, row.Kind)
	}
}

// resolveByID looks the row's id up directly and maps the detail result.
func resolveByID(ctx context.Context, fn worker.SearchFunc, session *Session, row models.Row) (*models.Song, float64, error) {
	resp, err := fn(ctx, search.Query{VideoID: row.ID})
	if err != nil {
		return nil, 0, err
	}
	if err := session.check(); err != nil {
		return nil, 0, err
	}
	if resp == nil || resp.Video == nil {
		return nil, 0, fmt.Errorf("%w: %q", shared.ErrVideoNotFound, row.ID)
	}

	song := mapVideo(*resp.Video)
	song, err = overlay(song, row.Fields)
	if err != nil {
		return nil, 0, err
	}
	if err := song.Validate(); err != nil {
		return nil, 0, err
	}

	return &song, 1, nil
}

// resolveByQuery searches free-text, takes the first candidate and fetches
// its detail. The candidate contributes the duration, the detail lookup
// everything else.
func resolveByQuery(ctx context.Context, fn worker.SearchFunc, session *Session, row models.Row) (*models.Song, float64, error) {
	terms := fmt.Sprintf("%s - %s", row.Title, row.AuthorName)

	resp, err := fn(ctx, search.Query{Terms: terms})
	if err != nil {
		return nil, 0, err
	}
	if err := session.check(); err != nil {
		return nil, 0, err
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, 0, fmt.Errorf("%w for %q", shared.ErrNoRelevantResult, terms)
	}

	candidate := resp.Candidates[0]
	score := matchScore(terms, candidate)

	detail, err := fn(ctx, search.Query{VideoID: candidate.ID})
	if err != nil {
		return nil, 0, err
	}
	if err := session.check(); err != nil {
		return nil, 0, err
	}
	if detail == nil || detail.Video == nil {
		return nil, 0, fmt.Errorf("%w: %q", shared.ErrVideoNotFound, candidate.ID)
	}

	video := *detail.Video
	video.Seconds = candidate.Seconds

	song := mapVideo(video)
	song, err = overlay(song, row.Fields)
	if err != nil {
		return nil, 0, err
	}
	if err := song.Validate(); err != nil {
		return nil, 0, err
	}

	return &song, score, nil
}

// mapVideo converts a search result into the Song shape. The album title is
// an empty placeholder; search results never carry one.
func mapVideo(v search.Video) models.Song {
	uploadDate := ""
	if !v.UploadDate.IsZero() {
		uploadDate = v.UploadDate.Format(time.RFC3339)
	}

	return models.Song{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		Duration:    v.Seconds,
		UploadDate:  uploadDate,
		ImageURL:    v.Thumbnail,
		URL:         v.URL,
		AlbumTitle:  "",
		AuthorName:  v.Author.Name,
		AuthorURL:   v.Author.URL,
	}
}

// overlay applies the original row's fields on top of the mapped song.
// Row fields win on conflict; schema validation follows the overlay.
func overlay(song models.Song, fields map[string]string) (models.Song, error) {
	for key, value := range fields {
		if value == "" {
			continue
		}

		switch key {
		case "id":
			song.ID = value
		case "title":
			song.Title = value
		case "description":
			song.Description = value
		case "duration":
			n, err := strconv.Atoi(value)
			if err != nil {
				return song, fmt.Errorf("row duration %q is not an integer: %w", value, err)
			}
			song.Duration = n
		case "uploadDate":
			song.UploadDate = value
		case "imageUrl":
			song.ImageURL = value
		case "url":
			song.URL = value
		case "albumTitle":
			song.AlbumTitle = value
		case "authorName":
			song.AuthorName = value
		case "authorUrl":
			song.AuthorURL = value
		}
	}

	return song, nil
}

// matchScore rates how well the chosen candidate matches the request.
func matchScore(terms string, candidate search.Video) float64 {
	target := candidate.Title
	if candidate.Author.Name != "" {
		target = fmt.Sprintf("%s - %s", candidate.Title, candidate.Author.Name)
	}
	return strutil.Similarity(strings.ToLower(terms), strings.ToLower(target), metrics.NewJaroWinkler())
}
