// package repositories provides the persistence layer for resolved songs.
//
// Resolved songs are cached in SQLite so a review or export can happen long
// after the batch that produced them has been torn down.
package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"favtrax/internal/models"
	"favtrax/internal/shared"
)

// SongRepository handles database access for persisted songs.
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a repository over an open database.
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create inserts a resolved song. A missing record id and creation time are
// filled in; the entity is validated before it touches the database.
func (r *SongRepository) Create(song models.PersistedSong) error {
	if song.RecordID == "" {
		song.RecordID = shared.GenerateID()
	}
	if song.CreatedAt.IsZero() {
		song.CreatedAt = time.Now().UTC()
	}

	if err := song.Validate(); err != nil {
		return fmt.Errorf("refusing to persist invalid song: %w", err)
	}

	query := `
		INSERT INTO songs (
			id, batch_id, row_index, video_id, title, description, duration,
			upload_date, image_url, url, album_title, author_name, author_url,
			match_score, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		song.RecordID,
		song.BatchID,
		song.RowIndex,
		song.Song.ID,
		song.Song.Title,
		song.Song.Description,
		song.Song.Duration,
		song.Song.UploadDate,
		song.Song.ImageURL,
		song.Song.URL,
		song.Song.AlbumTitle,
		song.Song.AuthorName,
		song.Song.AuthorURL,
		song.MatchScore,
		song.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	return nil
}

// GetByBatchRow retrieves the song resolved for one row of a batch.
func (r *SongRepository) GetByBatchRow(batchID string, rowIndex int) (*models.PersistedSong, error) {
	query := selectColumns + " WHERE batch_id = ? AND row_index = ?"

	row := r.db.QueryRow(query, batchID, rowIndex)
	song, err := scanSong(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no song for batch %s row %d", batchID, rowIndex)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get song: %w", err)
	}

	return song, nil
}

// ListByBatch retrieves every song of a batch ordered by row index.
func (r *SongRepository) ListByBatch(batchID string) ([]models.PersistedSong, error) {
	return r.list(selectColumns+" WHERE batch_id = ? ORDER BY row_index", batchID)
}

// ListAll retrieves every persisted song, newest batches first.
func (r *SongRepository) ListAll() ([]models.PersistedSong, error) {
	return r.list(selectColumns + " ORDER BY created_at DESC, row_index")
}

// DeleteBatch removes every song of a batch.
func (r *SongRepository) DeleteBatch(batchID string) error {
	if _, err := r.db.Exec("DELETE FROM songs WHERE batch_id = ?", batchID); err != nil {
		return fmt.Errorf("failed to delete batch: %w", err)
	}
	return nil
}

const selectColumns = `
	SELECT id, batch_id, row_index, video_id, title, description, duration,
	       upload_date, image_url, url, album_title, author_name, author_url,
	       match_score, created_at
	FROM songs
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSong(scanner rowScanner) (*models.PersistedSong, error) {
	var song models.PersistedSong
	err := scanner.Scan(
		&song.RecordID,
		&song.BatchID,
		&song.RowIndex,
		&song.Song.ID,
		&song.Song.Title,
		&song.Song.Description,
		&song.Song.Duration,
		&song.Song.UploadDate,
		&song.Song.ImageURL,
		&song.Song.URL,
		&song.Song.AlbumTitle,
		&song.Song.AuthorName,
		&song.Song.AuthorURL,
		&song.MatchScore,
		&song.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &song, nil
}

func (r *SongRepository) list(query string, args ...any) ([]models.PersistedSong, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []models.PersistedSong
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, *song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate songs: %w", err)
	}

	return songs, nil
}
