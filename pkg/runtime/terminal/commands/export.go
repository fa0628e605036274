package commands

import (
	"context"
	"fmt"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

// UploaderFactory builds the S3 uploader used by `export --s3`.
type UploaderFactory func(ctx context.Context, cfg export.S3Config) (*export.Uploader, error)

type ExportCmd struct {
	env         *Env
	dir         string
	upload      bool
	newUploader UploaderFactory
}

func NewExportCmd(env *Env, newUploader UploaderFactory) *cobra.Command {
	ec := &ExportCmd{env: env, newUploader: newUploader}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every report as a CSV file",
		Args:  cobra.NoArgs,
		RunE:  ec.run,
	}

	cmd.Flags().StringVar(&ec.dir, "dir", "", "Directory the CSV files are written to")
	cmd.Flags().BoolVar(&ec.upload, "s3", false, "Also upload the files to the configured S3 bucket")

	_ = cmd.MarkFlagRequired("dir")

	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, _ []string) error {
	asOf, err := ec.env.asOf()
	if err != nil {
		return err
	}

	ctx, app, release, err := ec.env.open(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	var uploader *export.Uploader
	if ec.upload {
		uploader, err = ec.newUploader(ctx, export.S3Config{
			Bucket: app.Export.Bucket,
			Region: app.Export.Region,
			Prefix: app.Export.Prefix,
		})
		if err != nil {
			return fmt.Errorf("failed to create s3 uploader: %w", err)
		}
	}

	all, err := app.Reports.RunAll(ctx, asOf)
	if err != nil {
		return fmt.Errorf("failed to compute reports: %w", err)
	}
	tables := make([]domain.Table, 0, len(all))
	for _, r := range all {
		t, err := adapters.MapReportToTable(r)
		if err != nil {
			return err
		}
		tables = append(tables, t)
	}

	paths, err := export.NewExporter(ec.dir, uploader).Export(ctx, tables, asOf)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if _, err := fmt.Fprintln(ec.env.Out, p); err != nil {
			return err
		}
	}
	return nil
}
