package commands

import (
	"fmt"
	"time"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/models/api"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb"
	"github.com/spf13/cobra"
)

func NewSummaryCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Manage the materialized dashboard summary",
	}

	cmd.AddCommand(newSummaryRefreshCmd(env))
	cmd.AddCommand(newSummaryShowCmd(env))
	cmd.AddCommand(newSummaryRunsCmd(env))

	return cmd
}

func newSummaryRefreshCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Rebuild the summary from the source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asOf, err := env.asOf()
			if err != nil {
				return err
			}
			ctx, app, release, err := env.open(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			run, err := app.Summary.Refresh(ctx, asOf)
			if err != nil {
				return fmt.Errorf("summary refresh %s failed: %w", run.ID, err)
			}
			_, err = fmt.Fprintf(env.Out, "Summary refreshed as of %s: %d rows (run %s)\n",
				run.AsOf.Format(adapters.DateLayout), run.RowCount, run.ID)
			return err
		},
	}
}

type summaryShowCmd struct {
	env    *Env
	from   string
	to     string
	format string
}

func newSummaryShowCmd(env *Env) *cobra.Command {
	sc := &summaryShowCmd{env: env}
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the summary rows between two dates",
		Args:  cobra.NoArgs,
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.from, "from", "", "First day, YYYY-MM-DD (default: start of the summary window)")
	cmd.Flags().StringVar(&sc.to, "to", "", "Last day, YYYY-MM-DD (default: --as-of)")
	cmd.Flags().StringVar(&sc.format, "format", FormatTable, "Output format: table, csv or json")

	return cmd
}

func (sc *summaryShowCmd) run(cmd *cobra.Command, _ []string) error {
	if err := validFormat(sc.format); err != nil {
		return err
	}
	asOf, err := sc.env.asOf()
	if err != nil {
		return err
	}
	to, err := parseDay("--to", sc.to, asOf)
	if err != nil {
		return err
	}

	ctx, app, release, err := sc.env.open(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	from, err := parseDay("--from", sc.from, to.AddDate(-app.SummaryYears, 0, 0))
	if err != nil {
		return err
	}

	rows, err := app.Summary.Rows(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to read summary: %w", err)
	}

	if sc.format == FormatJSON {
		out := api.Summary{
			Name: duckdb.SummaryTable,
			From: from.Format(adapters.DateLayout),
			To:   to.Format(adapters.DateLayout),
			Rows: make([]api.SummaryRow, 0, len(rows)),
		}
		for _, r := range rows {
			out.Rows = append(out.Rows, adapters.MapSummaryRowDomainToApi(r))
		}
		return sc.env.writeJSON(out)
	}
	return sc.env.writeTable(sc.format, adapters.MapSummaryRowsToTable(rows))
}

type summaryRunsCmd struct {
	env    *Env
	limit  int
	format string
}

func newSummaryRunsCmd(env *Env) *cobra.Command {
	rc := &summaryRunsCmd{env: env}
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent summary refresh runs",
		Args:  cobra.NoArgs,
		RunE:  rc.run,
	}

	cmd.Flags().IntVar(&rc.limit, "limit", 20, "Maximum number of runs")
	cmd.Flags().StringVar(&rc.format, "format", FormatTable, "Output format: table, csv or json")

	return cmd
}

func (rc *summaryRunsCmd) run(cmd *cobra.Command, _ []string) error {
	if err := validFormat(rc.format); err != nil {
		return err
	}
	if rc.limit <= 0 {
		return fmt.Errorf("--limit must be positive, got %d", rc.limit)
	}

	ctx, app, release, err := rc.env.open(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	runs, err := app.Summary.Runs(ctx, rc.limit)
	if err != nil {
		return fmt.Errorf("failed to list refresh runs: %w", err)
	}

	if rc.format == FormatJSON {
		out := make([]api.RefreshRun, 0, len(runs))
		for _, r := range runs {
			out = append(out, adapters.MapRefreshRunDomainToApi(r))
		}
		return rc.env.writeJSON(out)
	}
	return rc.env.writeTable(rc.format, adapters.MapRefreshRunsToTable(runs))
}

func parseDay(flag, raw string, def time.Time) (time.Time, error) {
	if raw == "" {
		return def, nil
	}
	t, err := time.Parse(adapters.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q, expected YYYY-MM-DD: %w", flag, raw, err)
	}
	return t, nil
}
