package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/de-tools/sales-atlas/pkg/runtime/terminal"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()

	level := zerolog.WarnLevel
	if os.Getenv("SALES_ATLAS_DEBUG") != "" {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	var defaultProfiles string
	if home, err := os.UserHomeDir(); err == nil {
		defaultProfiles = filepath.Join(home, ".sales-atlas", "profiles.ini")
	}

	cli := terminal.NewCLI(terminal.Options{
		Output:          os.Stdout,
		UseColor:        !color.NoColor,
		DefaultProfiles: defaultProfiles,
	})

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
