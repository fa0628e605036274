package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/models/api"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/sales-atlas/pkg/services/config"
	"github.com/de-tools/sales-atlas/pkg/services/summary"
)

const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
)

var ErrUnsupportedFormat = errors.New("unsupported output format")

// Reports computes reports against the configured source.
type Reports interface {
	Run(ctx context.Context, name string, asOf time.Time) (domain.Report, error)
	RunAll(ctx context.Context, asOf time.Time) ([]domain.Report, error)
	Profile(ctx context.Context, asOf time.Time) ([]domain.TableProfile, error)
}

// App holds the services a single command invocation works with.
type App struct {
	Reports      Reports
	Summary      summary.Service
	SummaryYears int
	Export       config.ExportConfig
	Server       config.ServerConfig
	Close        func() error
}

// Globals are the persistent flags shared by every command.
type Globals struct {
	ConfigPath   string
	ProfilesPath string
	Profile      string
	AsOf         string
	Timeout      time.Duration
}

// Factory opens the services for one invocation.
type Factory func(ctx context.Context, g Globals) (*App, error)

// Env is what commands share: output, the global flags and the factory.
type Env struct {
	Out      io.Writer
	Reporter *export.Reporter
	Globals  *Globals
	Factory  Factory
	Now      func() time.Time
}

func (e *Env) asOf() (time.Time, error) {
	if e.Globals.AsOf == "" {
		return domain.Day(e.Now()), nil
	}
	t, err := time.Parse(adapters.DateLayout, e.Globals.AsOf)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of %q, expected YYYY-MM-DD: %w", e.Globals.AsOf, err)
	}
	return t, nil
}

// open builds the app and a context bounded by the global timeout. The
// returned func releases both.
func (e *Env) open(ctx context.Context) (context.Context, *App, func(), error) {
	cancel := func() {}
	if e.Globals.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, e.Globals.Timeout)
	}

	app, err := e.Factory(ctx, *e.Globals)
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	return ctx, app, func() {
		if app.Close != nil {
			_ = app.Close()
		}
		cancel()
	}, nil
}

func (e *Env) writeTable(format string, t domain.Table) error {
	switch format {
	case FormatTable:
		return e.Reporter.Handle(t)
	case FormatCSV:
		return export.WriteCSV(e.Out, t)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func (e *Env) writeJSON(v any) error {
	enc := json.NewEncoder(e.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func validFormat(format string) error {
	switch format {
	case FormatTable, FormatCSV, FormatJSON:
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

func (e *Env) writeReports(format string, reports []domain.Report) error {
	if format == FormatJSON {
		out := make([]api.Report, 0, len(reports))
		for _, r := range reports {
			rep, err := adapters.MapReportDomainToApi(r)
			if err != nil {
				return err
			}
			out = append(out, rep)
		}
		if len(out) == 1 {
			return e.writeJSON(out[0])
		}
		return e.writeJSON(out)
	}

	for _, r := range reports {
		t, err := adapters.MapReportToTable(r)
		if err != nil {
			return err
		}
		if err := e.writeTable(format, t); err != nil {
			return err
		}
	}
	return nil
}
