package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"favtrax/internal/importer"
	"favtrax/internal/models"
	"favtrax/internal/repositories"
	"favtrax/internal/shared"
	"favtrax/internal/transform"
)

// rowOutcome is the serializable result of one row's transform.
type rowOutcome struct {
	Row   int          `json:"row"`
	State string       `json:"state"`
	Song  *models.Song `json:"song,omitempty"`
	Score float64      `json:"score,omitempty"`
	Error string       `json:"error,omitempty"`
}

// Import reads a CSV, resolves every row and prints the batch outcome.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: CSV file path", shared.ErrMissingArgument)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	rows, err := importer.ImportCSV(f)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: CSV has no data rows", shared.ErrInvalidInput)
	}

	r.logger.Info("imported rows", "file", path, "rows", len(rows))

	manager, err := r.runBatch(ctx, rows, cmd.Duration("timeout"))
	if err != nil {
		return err
	}
	defer manager.Release()

	outcomes := collectOutcomes(manager.States())

	if cmd.Bool("save") {
		if err := r.saveBatch(manager.BatchID(), outcomes); err != nil {
			return err
		}
		r.logger.Info("batch saved", "batch", manager.BatchID())
	}

	if cmd.Bool("json") {
		return r.writeJSON(outcomes, true)
	}

	return r.printOutcomes(manager.BatchID(), rows, outcomes)
}

// Resolve resolves a single command-line row and prints the song as JSON.
func (r *Runner) Resolve(ctx context.Context, cmd *cli.Command) error {
	fields := map[string]string{}
	if id := cmd.String("id"); id != "" {
		fields["id"] = id
	}
	if title := cmd.String("title"); title != "" {
		fields["title"] = title
	}
	if author := cmd.String("author"); author != "" {
		fields["authorName"] = author
	}

	row, err := models.NewRow(fields)
	if err != nil {
		return fmt.Errorf("%w: pass --id, or both --title and --author", err)
	}

	manager, err := r.runBatch(ctx, []models.Row{row}, cmd.Duration("timeout"))
	if err != nil {
		return err
	}
	defer manager.Release()

	state := manager.States()[0]
	if state.Kind != transform.KindSuccess {
		if state.Err != nil {
			return fmt.Errorf("resolution failed: %w", state.Err)
		}
		return fmt.Errorf("resolution did not complete: %s", state.Kind)
	}

	return r.writeJSON(rowOutcome{
		State: state.Kind.String(),
		Song:  state.Song,
		Score: state.Score,
	}, true)
}

// runBatch loads the rows into a fresh manager over the session's capability
// and blocks until every row settles.
func (r *Runner) runBatch(ctx context.Context, rows []models.Row, timeout time.Duration) (*transform.Manager, error) {
	capability := transform.NewCapability(ctx, r.session.SetupSearchCapability)

	updates := make(chan struct{}, 1)
	notify := func(id int, state transform.State) {
		r.logger.Debug("row state", "row", id, "state", state.Kind.String())
		select {
		case updates <- struct{}{}:
		default:
		}
	}

	manager := transform.NewManager(capability, notify, r.logger)
	manager.Load(rows)

	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	// The notify hook coalesces wakeups; the ticker covers dropped ones.
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for !manager.Settled() {
		select {
		case <-updates:
		case <-ticker.C:
		case <-deadline:
			manager.Release()
			return nil, fmt.Errorf("batch timed out after %s", timeout)
		case <-ctx.Done():
			manager.Release()
			return nil, ctx.Err()
		}
	}

	return manager, nil
}

func collectOutcomes(states []transform.State) []rowOutcome {
	outcomes := make([]rowOutcome, len(states))
	for i, state := range states {
		outcome := rowOutcome{Row: i, State: state.Kind.String()}
		if state.Kind == transform.KindSuccess {
			outcome.Song = state.Song
			outcome.Score = state.Score
		}
		if state.Err != nil {
			outcome.Error = state.Err.Error()
		}
		outcomes[i] = outcome
	}
	return outcomes
}

// saveBatch persists every successful outcome under the batch id.
func (r *Runner) saveBatch(batchID string, outcomes []rowOutcome) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewSongRepository(db)
	for _, outcome := range outcomes {
		if outcome.Song == nil {
			continue
		}
		err := repo.Create(models.PersistedSong{
			BatchID:    batchID,
			RowIndex:   outcome.Row,
			Song:       *outcome.Song,
			MatchScore: outcome.Score,
		})
		if err != nil {
			return fmt.Errorf("failed to save row %d: %w", outcome.Row, err)
		}
	}

	return nil
}

func (r *Runner) printOutcomes(batchID string, rows []models.Row, outcomes []rowOutcome) error {
	resolved := 0

	for i, outcome := range outcomes {
		label := rows[i].ID
		if rows[i].Kind == models.RowByQuery {
			label = fmt.Sprintf("%s - %s", rows[i].Title, rows[i].AuthorName)
		}

		switch {
		case outcome.Song != nil:
			resolved++
			r.writePlain("#%d %s -> %s (%s) score %.2f\n",
				i, label, outcome.Song.Title, outcome.Song.AuthorName, outcome.Score)
		case outcome.Error != "":
			r.writePlain("#%d %s -> %s: %s\n", i, label, outcome.State, outcome.Error)
		default:
			r.writePlain("#%d %s -> %s\n", i, label, outcome.State)
		}
	}

	r.writePlain("batch %s: %d/%d resolved\n", batchID, resolved, len(outcomes))
	return nil
}
