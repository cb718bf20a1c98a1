package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/doclinks/internal"
	"github.com/starford/doclinks/internal/apperr"
	"github.com/starford/doclinks/internal/report"
	pkgconfig "github.com/starford/doclinks/pkg/config"
)

var version = "dev"

const defaultConfigFile = "doclinks.yaml"

// loadConfig starts from the defaults, overlays the config file and then the
// command line. An explicitly named config file must exist.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	load := pkgconfig.LoadOptional[internal.Config]
	if cmd.IsSet("config") {
		load = pkgconfig.Load[internal.Config]
	}
	if err := load(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if dir := cmd.Args().First(); dir != "" {
		cfg.Docs.Root = dir
	}
	if path := cmd.String("cache"); path != "" {
		cfg.Cache.Enabled = true
		cfg.Cache.Path = path
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runMode(mode internal.Mode) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		opts := []internal.Option{
			internal.WithConfig(cfg),
			internal.WithMode(mode),
			internal.WithVersion(version),
		}
		if mode == internal.ModeCheck || mode == internal.ModeWatch {
			format := cmd.String("format")
			if !slices.Contains(report.Formats, format) {
				return fmt.Errorf("unknown format %q, want one of %v", format, report.Formats)
			}
			opts = append(opts,
				internal.WithFormat(report.Format(format)),
				internal.WithColor(!cmd.Bool("no-color")),
			)
		}

		if err := internal.Run(ctx, opts...); err != nil {
			if errors.Is(err, apperr.ErrLinksBroken) {
				return err
			}
			return fmt.Errorf("app run error: %w", err)
		}
		return nil
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to config file",
			DefaultText: defaultConfigFile,
			Value:       defaultConfigFile,
			Sources:     cli.EnvVars("DOCLINKS_CONFIG_FILE"),
		},
		&cli.StringFlag{
			Name:    "cache",
			Usage:   "Path to a SQLite topology cache; enables caching",
			Sources: cli.EnvVars("DOCLINKS_CACHE"),
		},
	}
}

func reportFlags() []cli.Flag {
	return append(commonFlags(),
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Report format: text or json",
			Value:   string(report.FormatText),
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable coloured output",
		},
	)
}

func main() {
	cmd := &cli.Command{
		Name:      "doclinks",
		Usage:     "Check cross-references between Markdown documents",
		ArgsUsage: "[docs-dir]",
		Version:   version,
		Action:    runMode(internal.ModeCheck),
		Flags:     reportFlags(),
		Commands: []*cli.Command{
			{
				Name:      "watch",
				Usage:     "Check, then re-check whenever a document changes",
				ArgsUsage: "[docs-dir]",
				Action:    runMode(internal.ModeWatch),
				Flags:     reportFlags(),
			},
			{
				Name:      "serve",
				Usage:     "Serve the latest report over HTTP with live updates",
				ArgsUsage: "[docs-dir]",
				Action:    runMode(internal.ModeServe),
				Flags:     commonFlags(),
			},
			{
				Name:      "mcp",
				Usage:     "Serve link checking tools over MCP stdio",
				ArgsUsage: "[docs-dir]",
				Action:    runMode(internal.ModeMCP),
				Flags:     commonFlags(),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		if !errors.Is(err, apperr.ErrLinksBroken) {
			slog.Error("application error", slog.String("error", err.Error()))
		}
		os.Exit(1)
	}
}
