package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/bloomgen/internal"
	pkgconfig "github.com/starford/bloomgen/pkg/config"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}
}

// loadConfig builds the configuration: defaults, then the YAML file when it
// exists, then direct environment fallbacks so the tool runs with a bare
// .env and no config file at all.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()

	configPath := cmd.String("config")
	if _, err := os.Stat(configPath); err == nil {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv fills credential fields that neither the config file nor its
// ${VAR} expansions supplied.
func applyEnv(cfg *internal.Config) {
	setIfEmpty(&cfg.Neo4j.URI, "NEO4J_URI")
	setIfEmpty(&cfg.Neo4j.Username, "NEO4J_USERNAME")
	setIfEmpty(&cfg.Neo4j.Password, "NEO4J_PASSWORD")
	setIfEmpty(&cfg.LLM.APIKey, "LLM_API_KEY")
	setIfEmpty(&cfg.LLM.BaseURL, "LLM_BASE_URL")
	setIfEmpty(&cfg.LLM.Model, "LLM_MODEL")
}

func setIfEmpty(field *string, envVar string) {
	if *field == "" {
		if value := os.Getenv(envVar); value != "" {
			*field = value
		}
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "bloomgen",
		Usage: "Generate Neo4j Bloom perspective documents from a live database schema",
		Commands: []*cli.Command{
			{
				Name:  "schema",
				Usage: "Fetch the database schema and cache it as a JSON snapshot",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "full",
						Usage: "Also capture db.schema.visualization with index and constraint metadata",
					},
					&cli.BoolFlag{
						Name:  "no-cache",
						Usage: "Ignore an existing snapshot and fetch live",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					return internal.RunSchema(ctx, cmd.Bool("full"), cmd.Bool("no-cache"),
						internal.WithConfig(cfg))
				},
			},
			{
				Name:  "generate",
				Usage: "Draft perspectives with the generation service, hydrate and write them",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "no-cache",
						Usage: "Ignore an existing schema snapshot and fetch live",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					return internal.RunGenerate(ctx, cmd.Bool("no-cache"),
						internal.WithConfig(cfg))
				},
			},
			{
				Name:  "build",
				Usage: "Build perspectives procedurally from a YAML definition file",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "definitions",
						Aliases:  []string{"f"},
						Usage:    "Path to the perspective definitions YAML file",
						Required: true,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					return internal.RunBuild(ctx, cmd.String("definitions"),
						internal.WithConfig(cfg))
				},
			},
			{
				Name:      "hydrate",
				Usage:     "Hydrate hand-authored draft files into full perspective documents",
				ArgsUsage: "<draft.json> [<draft.json> ...]",
				Flags:     []cli.Flag{configFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					paths := cmd.Args().Slice()
					if len(paths) == 0 {
						return fmt.Errorf("at least one draft file is required")
					}
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					return internal.RunHydrate(ctx, paths, internal.WithConfig(cfg))
				},
			},
			{
				Name:  "mcp",
				Usage: "Serve the perspective tools over stdio MCP",
				Flags: []cli.Flag{configFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					return internal.RunMCP(ctx, internal.WithConfig(cfg))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
