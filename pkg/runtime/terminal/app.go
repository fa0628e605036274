package terminal

import (
	"context"
	"errors"
	"fmt"

	"github.com/de-tools/sales-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/sales-atlas/pkg/services/config"
	"github.com/de-tools/sales-atlas/pkg/services/reports"
	"github.com/de-tools/sales-atlas/pkg/services/source"
	"github.com/de-tools/sales-atlas/pkg/services/summary"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb/refresh"
	duckdbsummary "github.com/de-tools/sales-atlas/pkg/store/duckdb/summary"
	"github.com/rs/zerolog"
)

// NewApp loads the settings and profile named by g, connects to the source
// and opens the summary warehouse.
func NewApp(ctx context.Context, g commands.Globals) (*commands.App, error) {
	logger := zerolog.Ctx(ctx)

	cfg, err := config.LoadConfig(g.ConfigPath)
	if err != nil {
		return nil, err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return nil, err
	}

	registry, err := config.NewRegistry(g.ProfilesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create config registry: %w", err)
	}
	profile, err := registry.GetProfile(ctx, g.Profile)
	if err != nil {
		return nil, err
	}

	conn, err := source.Open(ctx, profile)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("profile", profile.String()).Msg("source connected")

	warehouse, err := duckdb.NewDB(duckdb.Settings{
		DbPath:  cfg.Warehouse.DbPath,
		Threads: cfg.Warehouse.Threads,
	})
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	closeAll := func() error {
		return errors.Join(warehouse.Close(), conn.Close())
	}

	summaryStore, err := duckdbsummary.NewStore(warehouse)
	if err != nil {
		_ = closeAll()
		return nil, fmt.Errorf("failed to create summary store: %w", err)
	}
	runStore, err := refresh.NewStore(warehouse)
	if err != nil {
		_ = closeAll()
		return nil, fmt.Errorf("failed to create refresh run store: %w", err)
	}

	return &commands.App{
		Reports:      reports.NewEngine(conn.Source, settings),
		Summary:      summary.NewRefresher(conn.Source, summaryStore, runStore, settings.Windows.Summary),
		SummaryYears: settings.Windows.Summary,
		Export:       cfg.Export,
		Server:       cfg.Server,
		Close:        closeAll,
	}, nil
}
