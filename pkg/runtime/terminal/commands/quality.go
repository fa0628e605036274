package commands

import (
	"fmt"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/models/api"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/reports"
	"github.com/spf13/cobra"
)

type QualityCmd struct {
	env           *Env
	format        string
	profileTables bool
}

func NewQualityCmd(env *Env) *cobra.Command {
	qc := &QualityCmd{env: env}
	cmd := &cobra.Command{
		Use:   "quality",
		Short: "Count data quality issues in recent transactions",
		Args:  cobra.NoArgs,
		RunE:  qc.run,
	}

	cmd.Flags().StringVar(&qc.format, "format", FormatTable, "Output format: table, csv or json")
	cmd.Flags().BoolVar(&qc.profileTables, "profile-tables", false,
		"Also print record, null and duplicate id counts per source table")

	return cmd
}

func (qc *QualityCmd) run(cmd *cobra.Command, _ []string) error {
	if err := validFormat(qc.format); err != nil {
		return err
	}
	asOf, err := qc.env.asOf()
	if err != nil {
		return err
	}

	ctx, app, release, err := qc.env.open(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	r, err := app.Reports.Run(ctx, reports.DataQualityName, asOf)
	if err != nil {
		return fmt.Errorf("failed to check data quality: %w", err)
	}
	if err := qc.env.writeReports(qc.format, []domain.Report{r}); err != nil {
		return err
	}
	if !qc.profileTables {
		return nil
	}

	profiles, err := app.Reports.Profile(ctx, asOf)
	if err != nil {
		return fmt.Errorf("failed to profile source tables: %w", err)
	}
	if qc.format == FormatJSON {
		out := make([]api.TableProfile, 0, len(profiles))
		for _, p := range profiles {
			out = append(out, adapters.MapTableProfileDomainToApi(p))
		}
		return qc.env.writeJSON(out)
	}
	return qc.env.writeTable(qc.format, adapters.MapTableProfilesToTable(profiles))
}
