package terminal

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/de-tools/sales-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/sales-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	env     *commands.Env
	options Options
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output      io.Writer
	UseColor    bool
	Factory     commands.Factory
	NewUploader commands.UploaderFactory
	Now         func() time.Time
	// DefaultProfiles is the profiles file used when --profiles is not set.
	DefaultProfiles string
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Factory == nil {
		opts.Factory = NewApp
	}
	if opts.NewUploader == nil {
		opts.NewUploader = export.NewS3Uploader
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cli := &CLI{
		options: opts,
		env: &commands.Env{
			Out:      opts.Output,
			Reporter: export.NewReporter(opts.Output, opts.UseColor),
			Globals:  &commands.Globals{},
			Factory:  opts.Factory,
			Now:      opts.Now,
		},
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args[1:], mainly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sales-atlas",
		Short:         "Sales analytics reports over a relational source",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(cli.options.Output)

	g := cli.env.Globals
	flags := cmd.PersistentFlags()
	flags.StringVarP(&g.ConfigPath, "config", "c", "", "Path to the YAML settings file")
	flags.StringVar(&g.ProfilesPath, "profiles", cli.options.DefaultProfiles, "Path to the connection profiles file")
	flags.StringVar(&g.Profile, "profile", "default", "Connection profile holding the sales tables")
	flags.StringVar(&g.AsOf, "as-of", "", "Reference date, YYYY-MM-DD (default: today)")
	flags.DurationVar(&g.Timeout, "timeout", 5*time.Minute, "Deadline for the whole command")

	cmd.AddCommand(commands.NewReportCmd(cli.env))
	cmd.AddCommand(commands.NewReportsCmd(cli.env))
	cmd.AddCommand(commands.NewQualityCmd(cli.env))
	cmd.AddCommand(commands.NewSummaryCmd(cli.env))
	cmd.AddCommand(commands.NewExportCmd(cli.env, cli.options.NewUploader))

	return cmd
}
