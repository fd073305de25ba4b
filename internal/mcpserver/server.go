// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the perspective pipeline as tools over stdio transport: schema
// inspection, draft hydration, procedural builds and output access.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"

	"github.com/starford/bloomgen/internal/generator"
	"github.com/starford/bloomgen/internal/perspective"
	"github.com/starford/bloomgen/internal/schema"
	"github.com/starford/bloomgen/internal/storage"
)

// Server wraps the MCP server with the perspective tools. Schema access
// goes through the snapshot cache, so the server never needs live database
// credentials.
type Server struct {
	mcp        *server.MCPServer
	store      storage.Provider
	schemaPath string
	pretty     bool
}

// New creates a new MCP server with all tools registered.
func New(store storage.Provider, schemaPath string, pretty bool) *Server {
	s := &Server{store: store, schemaPath: schemaPath, pretty: pretty}

	s.mcp = server.NewMCPServer(
		"Bloomgen",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_schema",
		mcp.WithDescription("Return the cached database schema (labels with typed properties, relationship triples) as JSON."),
	), s.getSchema)

	s.mcp.AddTool(mcp.NewTool("hydrate_perspective",
		mcp.WithDescription("Hydrate a draft perspective JSON object into the full Bloom document shape "+
			"and save it to the output directory. The draft may omit any optional field; read the "+
			"bloomgen://draft-format resource for the accepted shape."),
		mcp.WithString("draft", mcp.Required(), mcp.Description("Draft perspective as a JSON object or array of objects")),
	), s.hydratePerspective)

	s.mcp.AddTool(mcp.NewTool("build_perspective",
		mcp.WithDescription("Build and save a perspective procedurally from a definition: a name, styled "+
			"categories (label, color, properties) and the relationship types to show. All other "+
			"relationship types in the schema are hidden."),
		mcp.WithString("definition", mcp.Required(), mcp.Description("Definition as JSON or YAML (name, categories, relationships)")),
	), s.buildPerspective)

	s.mcp.AddTool(mcp.NewTool("list_perspectives",
		mcp.WithDescription("List the perspective documents in the output directory."),
	), s.listPerspectives)

	s.mcp.AddTool(mcp.NewTool("read_perspective",
		mcp.WithDescription("Read a hydrated perspective document from the output directory."),
		mcp.WithString("file", mcp.Required(), mcp.Description("File name as returned by list_perspectives")),
	), s.readPerspective)

	// Resource: draft perspective contract.
	s.mcp.AddResource(
		mcp.NewResource("bloomgen://draft-format", "Draft Perspective Format",
			mcp.WithResourceDescription("Shape of the draft documents hydrate_perspective accepts."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDraftFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// loadSchema reads the snapshot cache and derives the full relationship set.
func (s *Server) loadSchema() (*schema.Schema, map[string]struct{}, error) {
	if !schema.CacheExists(s.schemaPath) {
		return nil, nil, fmt.Errorf("no schema snapshot at %s: run `bloomgen schema` first", s.schemaPath)
	}
	sch, err := schema.LoadCache(s.schemaPath)
	if err != nil {
		return nil, nil, err
	}
	return sch, sch.RelationshipTypes(), nil
}

func (s *Server) encode(doc map[string]any) ([]byte, error) {
	if s.pretty {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}

// hydrateAndSave is shared by the hydrate and build tools.
func (s *Server) hydrateAndSave(draft map[string]any, sch *schema.Schema, allRels map[string]struct{}) (string, error) {
	hydrated, err := perspective.Hydrate(draft, sch, allRels)
	if err != nil {
		return "", err
	}
	name, _ := hydrated["name"].(string)
	if name == "" {
		name = "Perspective"
		hydrated["name"] = name
	}
	data, err := s.encode(hydrated)
	if err != nil {
		return "", err
	}
	filename := perspective.Filename(name)
	if err := s.store.Write(filename, data); err != nil {
		return "", err
	}
	return filename, nil
}

func (s *Server) getSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sch, _, err := s.loadSchema()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(sch, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) hydratePerspective(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("draft")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	drafts, err := generator.ParsePerspectives(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sch, allRels, err := s.loadSchema()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var saved []string
	for _, draft := range drafts {
		filename, err := s.hydrateAndSave(draft, sch, allRels)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		saved = append(saved, filename)
	}
	return mcp.NewToolResultText("saved: " + strings.Join(saved, ", ")), nil
}

func (s *Server) buildPerspective(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("definition")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var def perspective.Definition
	if err := yaml.Unmarshal([]byte(raw), &def); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("parse definition: %v", err)), nil
	}
	if def.Name == "" {
		return mcp.NewToolResultError("definition needs a name"), nil
	}
	sch, allRels, err := s.loadSchema()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	draft := perspective.Build(def, sch)
	filename, err := s.hydrateAndSave(draft, sch, allRels)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("saved: " + filename), nil
}

func (s *Server) listPerspectives(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.store.List()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(names) == 0 {
		return mcp.NewToolResultText("no perspectives generated yet"), nil
	}
	return mcp.NewToolResultText(strings.Join(names, "\n")), nil
}

func (s *Server) readPerspective(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, err := req.RequireString("file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(file)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", file)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) readDraftFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "bloomgen://draft-format",
			MIMEType: "text/markdown",
			Text:     DraftFormatContract,
		},
	}, nil
}
