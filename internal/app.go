// Package internal wires configuration, schema access, generation and the
// hydration pipeline behind the CLI commands.
package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/bloomgen/internal/generator"
	"github.com/starford/bloomgen/internal/mcpserver"
	"github.com/starford/bloomgen/internal/perspective"
	"github.com/starford/bloomgen/internal/schema"
	"github.com/starford/bloomgen/internal/storage"
)

func newApplication(opts ...Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := app.config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if app.logger == nil {
		app.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: app.config.App.LogLevel,
		}))
		slog.SetDefault(app.logger)
	}

	return app, nil
}

// fetchLiveSchema queries the database and refreshes the snapshot cache. A
// cache write failure is logged and otherwise ignored.
func (a *application) fetchLiveSchema(ctx context.Context) (*schema.Schema, error) {
	cfg := a.config
	if err := cfg.Neo4j.Validate(); err != nil {
		return nil, err
	}

	executor, err := schema.NewExecutor(cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password, cfg.Neo4j.Database)
	if err != nil {
		return nil, err
	}
	defer func() { _ = executor.Close(ctx) }()

	a.logger.Info("connecting to database", slog.String("uri", cfg.Neo4j.URI))
	if err := executor.Verify(ctx); err != nil {
		return nil, err
	}

	s, err := schema.Fetch(ctx, executor)
	if err != nil {
		return nil, err
	}
	a.logger.Info("schema fetched",
		slog.Int("labels", len(s.Labels)),
		slog.Int("relationships", len(s.Relationships)))

	if err := schema.SaveCache(cfg.Cache.SchemaPath, s); err != nil {
		a.logger.Warn("schema cache write failed, continuing without cache",
			slog.String("error", err.Error()))
	}
	return s, nil
}

// ensureSchema loads the cached snapshot when present (and allowed), falling
// back to a live fetch. The cache is trusted as-is; there is no staleness
// check.
func (a *application) ensureSchema(ctx context.Context, useCache bool) (*schema.Schema, error) {
	path := a.config.Cache.SchemaPath
	if useCache && schema.CacheExists(path) {
		s, err := schema.LoadCache(path)
		if err == nil {
			a.logger.Info("schema loaded from cache", slog.String("path", path))
			return s, nil
		}
		a.logger.Warn("schema cache unreadable, fetching live", slog.String("error", err.Error()))
	}
	return a.fetchLiveSchema(ctx)
}

// encodePerspective serializes a hydrated document, compact unless the
// output is configured pretty.
func (a *application) encodePerspective(doc map[string]any) ([]byte, error) {
	if a.config.Output.Pretty {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}

// hydrateAndWrite runs one draft through the hydrator and persists it. The
// returned name is the output file name.
func (a *application) hydrateAndWrite(store storage.Provider, draft map[string]any, s *schema.Schema, allRels map[string]struct{}) (string, error) {
	hydrated, err := perspective.Hydrate(draft, s, allRels)
	if err != nil {
		return "", err
	}

	name, _ := hydrated["name"].(string)
	if name == "" {
		name = "Perspective"
		hydrated["name"] = name
	}

	data, err := a.encodePerspective(hydrated)
	if err != nil {
		return "", fmt.Errorf("encode perspective %q: %w", name, err)
	}

	filename := perspective.Filename(name)
	if err := store.Write(filename, data); err != nil {
		return "", fmt.Errorf("write perspective %q: %w", name, err)
	}
	return filename, nil
}

// processDrafts hydrates and writes each draft independently: one bad draft
// is reported without aborting the rest.
func (a *application) processDrafts(drafts []map[string]any, s *schema.Schema) error {
	store, err := storage.NewFS(a.config.Output.Dir)
	if err != nil {
		return err
	}
	allRels := s.RelationshipTypes()

	var errs []error
	for i, draft := range drafts {
		filename, err := a.hydrateAndWrite(store, draft, s, allRels)
		if err != nil {
			a.logger.Error("perspective failed",
				slog.Int("index", i),
				slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("perspective %d: %w", i, err))
			continue
		}
		a.logger.Info("perspective saved", slog.String("file", filename))
	}
	return errors.Join(errs...)
}

// RunSchema fetches and caches the schema. With full set it also captures
// the visualization form with index and constraint metadata.
func RunSchema(ctx context.Context, full, noCache bool, opts ...Option) error {
	app, err := newApplication(opts...)
	if err != nil {
		return err
	}

	s, err := app.ensureSchema(ctx, !noCache)
	if err != nil {
		return err
	}
	app.logger.Info("schema ready",
		slog.Int("labels", len(s.Labels)),
		slog.Int("relationships", len(s.Relationships)),
		slog.String("cache", app.config.Cache.SchemaPath))

	if !full {
		return nil
	}

	cfg := app.config
	if err := cfg.Neo4j.Validate(); err != nil {
		return err
	}
	executor, err := schema.NewExecutor(cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password, cfg.Neo4j.Database)
	if err != nil {
		return err
	}
	defer func() { _ = executor.Close(ctx) }()
	if err := executor.Verify(ctx); err != nil {
		return err
	}

	fullSchema, err := schema.FetchFull(ctx, executor)
	if err != nil {
		return err
	}
	if err := schema.SaveFullCache(cfg.Cache.FullSchemaPath, fullSchema); err != nil {
		app.logger.Warn("full schema cache write failed", slog.String("error", err.Error()))
	}
	app.logger.Info("full schema captured",
		slog.Int("nodes", len(fullSchema.Nodes)),
		slog.Int("relationships", len(fullSchema.Relationships)),
		slog.String("cache", cfg.Cache.FullSchemaPath))
	return nil
}

// RunGenerate drafts perspectives with the generation service, hydrates
// each against the schema and writes the results.
func RunGenerate(ctx context.Context, noCache bool, opts ...Option) error {
	app, err := newApplication(opts...)
	if err != nil {
		return err
	}
	cfg := app.config
	if err := cfg.LLM.Validate(); err != nil {
		return err
	}

	s, err := app.ensureSchema(ctx, !noCache)
	if err != nil {
		return err
	}

	client := generator.NewClient(generator.ClientConfig{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
	})
	svc := generator.NewService(client, app.logger, cfg.Example.Path)

	app.logger.Info("requesting perspective drafts", slog.String("model", cfg.LLM.Model))
	drafts, err := svc.Generate(ctx, s)
	if err != nil {
		return err
	}

	return app.processDrafts(drafts, s)
}

// RunBuild builds perspectives procedurally from a YAML definition file.
func RunBuild(ctx context.Context, definitionsPath string, opts ...Option) error {
	app, err := newApplication(opts...)
	if err != nil {
		return err
	}

	file, err := perspective.LoadDefinitions(definitionsPath)
	if err != nil {
		return err
	}

	s, err := app.ensureSchema(ctx, true)
	if err != nil {
		return err
	}

	drafts := make([]map[string]any, 0, len(file.Perspectives))
	for _, def := range file.Perspectives {
		drafts = append(drafts, perspective.Build(def, s))
	}
	return app.processDrafts(drafts, s)
}

// RunHydrate hydrates hand-authored draft files. Each file may hold a
// single draft object or an array of drafts.
func RunHydrate(ctx context.Context, paths []string, opts ...Option) error {
	app, err := newApplication(opts...)
	if err != nil {
		return err
	}

	s, err := app.ensureSchema(ctx, true)
	if err != nil {
		return err
	}

	var drafts []map[string]any
	var errs []error
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("read draft %s: %w", path, err))
			continue
		}
		parsed, err := generator.ParsePerspectives(string(data))
		if err != nil {
			errs = append(errs, fmt.Errorf("draft %s: %w", path, err))
			continue
		}
		drafts = append(drafts, parsed...)
	}

	if len(drafts) > 0 {
		if err := app.processDrafts(drafts, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RunMCP serves the tool surface over stdio MCP. Schema access goes through
// the snapshot cache so the server works without live credentials.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts...)
	if err != nil {
		return err
	}

	store, err := storage.NewFS(app.config.Output.Dir)
	if err != nil {
		return err
	}

	srv := mcpserver.New(store, app.config.Cache.SchemaPath, app.config.Output.Pretty)
	app.logger.Info("MCP server listening on stdio")
	return srv.ServeStdio()
}
