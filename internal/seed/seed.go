package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/rankpredictor/internal/app/models"
	appRepos "github.com/yigit/rankpredictor/internal/app/repositories"
)

//go:embed sample_cutoffs.yaml
var sampleCutoffs []byte

// Writer is the write side of the cutoff store used by the seeder
type Writer interface {
	UpsertCollege(ctx context.Context, college appModels.College) error
	InsertCutoffs(ctx context.Context, rows []appModels.CutoffRow) (int64, error)
	CountCutoffs(ctx context.Context) (int64, error)
}

// SampleFixture returns the bundled sample data set
func SampleFixture() (*appRepos.CutoffFixture, error) {
	return appRepos.ParseCutoffFixture(sampleCutoffs)
}

// SampleStore returns an in-memory store over the bundled sample data
func SampleStore() (*appRepos.MemoryCutoffStore, error) {
	f, err := SampleFixture()
	if err != nil {
		return nil, err
	}
	rows, err := f.Rows()
	if err != nil {
		return nil, err
	}
	return appRepos.NewMemoryCutoffStore(rows), nil
}

// CreateSampleData loads the bundled sample data into an empty store.
// A store that already holds cutoffs is left untouched.
func CreateSampleData(ctx context.Context, w Writer, lgr zerolog.Logger) error {
	existing, err := w.CountCutoffs(ctx)
	if err != nil {
		return fmt.Errorf("failed to count existing cutoffs: %w", err)
	}
	if existing > 0 {
		lgr.Info().Int64("cutoffs", existing).Msg("Cutoff data present, skipping sample seed")
		return nil
	}

	f, err := SampleFixture()
	if err != nil {
		return err
	}
	rows, err := f.Rows()
	if err != nil {
		return err
	}

	lgr.Info().Int("colleges", len(f.Colleges)).Int("cutoffs", len(rows)).Msg("Seeding sample cutoff data...")

	var finalErr error // collect college errors without stopping the process
	for _, c := range f.Colleges {
		if err := w.UpsertCollege(ctx, c); err != nil {
			lgr.Error().Err(err).Str("slug", c.Slug).Msg("Error creating sample college")
			finalErr = errors.Join(finalErr, err)
		}
	}
	if finalErr != nil {
		return finalErr
	}

	inserted, err := w.InsertCutoffs(ctx, rows)
	if err != nil {
		lgr.Error().Err(err).Msg("Error inserting sample cutoffs")
		return err
	}

	lgr.Info().Int64("inserted", inserted).Msg("Sample cutoff data seeded")
	return nil
}
