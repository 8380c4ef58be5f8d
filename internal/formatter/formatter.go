// package formatter provides functions to export resolved songs to various formats (CSV, JSON, Markdown)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"favtrax/internal/models"
)

// ExportToCSV converts persisted songs to CSV with one row per resolved song.
func ExportToCSV(songs []models.PersistedSong) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Batch", "Row", "ID", "Title", "Author", "Duration", "UploadDate", "URL", "Score"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range songs {
		record := []string{
			song.BatchID,
			strconv.Itoa(song.RowIndex),
			song.Song.ID,
			song.Song.Title,
			song.Song.AuthorName,
			strconv.Itoa(song.Song.Duration),
			song.Song.UploadDate,
			song.Song.URL,
			strconv.FormatFloat(song.MatchScore, 'f', 2, 64),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts persisted songs to indented JSON.
func ExportToJSON(songs []models.PersistedSong) ([]byte, error) {
	data, err := json.MarshalIndent(songs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal songs: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToMarkdown converts persisted songs to a Markdown table.
func ExportToMarkdown(songs []models.PersistedSong) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Resolved songs\n\n")
	buf.WriteString("| # | Title | Author | Duration | Link |\n")
	buf.WriteString("|---|-------|--------|----------|------|\n")

	for _, song := range songs {
		buf.WriteString(fmt.Sprintf(
			"| %d | %s | %s | %s | [watch](%s) |\n",
			song.RowIndex,
			song.Song.Title,
			song.Song.AuthorName,
			formatDuration(song.Song.Duration),
			song.Song.URL,
		))
	}

	return buf.Bytes(), nil
}

// formatDuration renders seconds as m:ss or h:mm:ss.
func formatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
