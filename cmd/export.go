package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"favtrax/internal/formatter"
	"favtrax/internal/models"
	"favtrax/internal/repositories"
	"favtrax/internal/shared"
)

// Export writes persisted songs as CSV, JSON or Markdown.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewSongRepository(db)

	var songs []models.PersistedSong
	if batchID := cmd.String("batch"); batchID != "" {
		songs, err = repo.ListByBatch(batchID)
	} else {
		songs, err = repo.ListAll()
	}
	if err != nil {
		return fmt.Errorf("failed to load songs: %w", err)
	}

	var data []byte
	switch format := cmd.String("format"); format {
	case "csv":
		data, err = formatter.ExportToCSV(songs)
	case "json":
		data, err = formatter.ExportToJSON(songs)
	case "markdown", "md":
		data, err = formatter.ExportToMarkdown(songs)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return fmt.Errorf("failed to format songs: %w", err)
	}

	if path := cmd.String("output"); path != "" {
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		r.logger.Info("export written", "path", path, "songs", len(songs))
		return nil
	}

	_, err = r.output.Write(data)
	return err
}
