package importer

import (
	"errors"
	"strings"
	"testing"

	"favtrax/internal/models"
	"favtrax/internal/shared"
)

func TestImportCSV(t *testing.T) {
	t.Run("MixedShapes", func(t *testing.T) {
		csv := "id,title,authorName\n" +
			"abc123,,\n" +
			",Test Song,Test Artist\n"

		rows, err := ImportCSV(strings.NewReader(csv))
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(rows))
		}
		if rows[0].Kind != models.RowByID || rows[0].ID != "abc123" {
			t.Errorf("expected first row by id abc123, got %+v", rows[0])
		}
		if rows[1].Kind != models.RowByQuery || rows[1].Title != "Test Song" {
			t.Errorf("expected second row by query, got %+v", rows[1])
		}
	})

	t.Run("HeaderAliases", func(t *testing.T) {
		csv := "Video_ID,Track,Artist,Thumbnail\n" +
			"abc123,Test Song,Test Artist,https://img.example.com/a.jpg\n"

		rows, err := ImportCSV(strings.NewReader(csv))
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("expected 1 row, got %d", len(rows))
		}

		row := rows[0]
		if row.Kind != models.RowByID {
			t.Errorf("expected video_id alias to map to id, got kind %s", row.Kind)
		}
		if row.Fields["title"] != "Test Song" || row.Fields["authorName"] != "Test Artist" {
			t.Errorf("expected track and artist aliases mapped, got %v", row.Fields)
		}
		if row.Fields["imageUrl"] != "https://img.example.com/a.jpg" {
			t.Errorf("expected thumbnail alias mapped to imageUrl, got %v", row.Fields)
		}
	})

	t.Run("UnknownHeadersKept", func(t *testing.T) {
		csv := "id,mood\nabc123,chill\n"

		rows, err := ImportCSV(strings.NewReader(csv))
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if rows[0].Fields["mood"] != "chill" {
			t.Errorf("expected unknown header carried through, got %v", rows[0].Fields)
		}
	})

	t.Run("EmptyRowsSkipped", func(t *testing.T) {
		csv := "id,title,authorName\nabc123,,\n,,\n"

		rows, err := ImportCSV(strings.NewReader(csv))
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if len(rows) != 1 {
			t.Errorf("expected blank record skipped, got %d rows", len(rows))
		}
	})

	t.Run("BadShapeFailsWholeImport", func(t *testing.T) {
		csv := "id,title,authorName\n" +
			"abc123,,\n" +
			",Only A Title,\n"

		_, err := ImportCSV(strings.NewReader(csv))
		if !errors.Is(err, shared.ErrInvalidRow) {
			t.Fatalf("expected ErrInvalidRow, got %v", err)
		}
		if !strings.Contains(err.Error(), "line 3") {
			t.Errorf("expected error to name the offending line, got %v", err)
		}
	})

	t.Run("NoRecognizableColumns", func(t *testing.T) {
		_, err := ImportCSV(strings.NewReader(",,\na,b,c\n"))
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("EmptyInput", func(t *testing.T) {
		if _, err := ImportCSV(strings.NewReader("")); err == nil {
			t.Error("expected missing header to fail")
		}
	})
}
