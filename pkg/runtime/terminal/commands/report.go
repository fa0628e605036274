package commands

import (
	"fmt"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/reports"
	"github.com/spf13/cobra"
)

const allReports = "all"

type ReportCmd struct {
	env    *Env
	format string
}

func NewReportCmd(env *Env) *cobra.Command {
	rc := &ReportCmd{env: env}
	cmd := &cobra.Command{
		Use:   "report <name|all>",
		Short: "Compute a report over the source data",
		Long:  fmt.Sprintf("Compute one report or all of them. Reports: %v", reports.Names()),
		Args:  cobra.ExactArgs(1),
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.format, "format", FormatTable, "Output format: table, csv or json")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, args []string) error {
	if err := validFormat(rc.format); err != nil {
		return err
	}
	asOf, err := rc.env.asOf()
	if err != nil {
		return err
	}

	ctx, app, release, err := rc.env.open(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	var out []domain.Report
	if args[0] == allReports {
		out, err = app.Reports.RunAll(ctx, asOf)
	} else {
		var r domain.Report
		r, err = app.Reports.Run(ctx, args[0], asOf)
		out = []domain.Report{r}
	}
	if err != nil {
		return fmt.Errorf("failed to compute report %s: %w", args[0], err)
	}

	return rc.env.writeReports(rc.format, out)
}

func NewReportsCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "reports",
		Short: "List the available reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range reports.Names() {
				if _, err := fmt.Fprintln(env.Out, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
