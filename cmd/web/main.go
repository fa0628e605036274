package main

import (
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/de-tools/sales-atlas/pkg/runtime/terminal"
	"github.com/de-tools/sales-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/sales-atlas/pkg/server"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var globals commands.Globals

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Sales Atlas",
		RunE:  runServer,
	}

	var defaultProfiles string
	if home, err := os.UserHomeDir(); err == nil {
		defaultProfiles = filepath.Join(home, ".sales-atlas", "profiles.ini")
	}

	rootCmd.Flags().StringVarP(&globals.ConfigPath, "config", "c", "", "Path to the YAML settings file")
	rootCmd.Flags().StringVar(&globals.ProfilesPath, "profiles", defaultProfiles,
		"Path to the connection profiles file (default is $HOME/.sales-atlas/profiles.ini)")
	rootCmd.Flags().StringVar(&globals.Profile, "profile", "default", "Connection profile holding the sales tables")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	app, err := terminal.NewApp(ctx, globals)
	if err != nil {
		return fmt.Errorf("failed to initialize sales atlas: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close databases")
		}
	}()

	logger.Info().Msgf("Profile `%s` from `%s` successfully loaded.", globals.Profile, globals.ProfilesPath)

	addr := net.JoinHostPort(app.Server.Host, app.Server.Port)
	webAPI := server.NewWebAPI(logger, server.Config{
		Addr: addr,
		Dependencies: server.Dependencies{
			Reports:      app.Reports,
			Summary:      app.Summary,
			SummaryYears: app.SummaryYears,
		},
	})

	return webAPI.Start()
}
