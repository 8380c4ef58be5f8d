// package importer parses CSV input into pipeline rows.
//
// Headers are normalized through an alias table so common spreadsheet
// wordings land on the canonical field names the pipeline overlays onto
// resolved songs. Row shapes are validated here, once: anything that is
// neither an id row nor a title/author row rejects the whole import.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"favtrax/internal/models"
	"favtrax/internal/shared"
)

// headerAliases maps normalized CSV headers to canonical field names.
var headerAliases = map[string]string{
	"id":       "id",
	"videoid":  "id",
	"video_id": "id",

	"title": "title",
	"name":  "title",
	"track": "title",

	"authorname":  "authorName",
	"author_name": "authorName",
	"author":      "authorName",
	"artist":      "authorName",
	"channel":     "authorName",

	"description": "description",
	"duration":    "duration",
	"uploaddate":  "uploadDate",
	"upload_date": "uploadDate",
	"imageurl":    "imageUrl",
	"image_url":   "imageUrl",
	"thumbnail":   "imageUrl",
	"url":         "url",
	"link":        "url",
	"albumtitle":  "albumTitle",
	"album_title": "albumTitle",
	"album":       "albumTitle",
	"authorurl":   "authorUrl",
	"author_url":  "authorUrl",
}

func normalize(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

// ImportCSV reads CSV data and returns one Row per record.
//
// The import is all-or-nothing: a record matching neither accepted shape
// fails the whole call, nothing is filtered row by row.
func ImportCSV(r io.Reader) ([]models.Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	rawHeaders, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[int]string, len(rawHeaders))
	for i, header := range rawHeaders {
		if canonical, ok := headerAliases[normalize(header)]; ok {
			columns[i] = canonical
		} else if trimmed := strings.TrimSpace(header); trimmed != "" {
			columns[i] = trimmed
		}
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: CSV has no recognizable columns", shared.ErrInvalidInput)
	}

	var rows []models.Row
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		line++

		fields := make(map[string]string, len(record))
		for i, value := range record {
			name, ok := columns[i]
			if !ok {
				continue
			}
			if value = strings.TrimSpace(value); value != "" {
				fields[name] = value
			}
		}

		if len(fields) == 0 {
			continue
		}

		row, err := models.NewRow(fields)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d", shared.ErrInvalidRow, line)
		}

		rows = append(rows, row)
	}

	return rows, nil
}
