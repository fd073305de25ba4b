package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/bloomgen/internal/schema"
)

// Chatter is the completion capability the service needs; Client implements
// it, tests substitute fakes.
type Chatter interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// Service assembles the prompt for a schema, calls the generation endpoint
// once, and parses the drafted perspectives.
type Service struct {
	client Chatter
	logger *slog.Logger

	// examplePath optionally points at a known-good perspective document
	// injected as a few-shot example. Missing or unreadable files are
	// skipped with a warning, not an error.
	examplePath string
}

// NewService creates a generation service. logger must not be nil.
func NewService(client Chatter, logger *slog.Logger, examplePath string) *Service {
	return &Service{client: client, logger: logger, examplePath: examplePath}
}

// BuildMessages serializes the schema into the fixed prompt sequence.
func (s *Service) BuildMessages(sch *schema.Schema) ([]Message, error) {
	schemaJSON, err := json.MarshalIndent(sch, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("generator: encode schema: %w", err)
	}

	messages := []Message{{Role: "system", Content: systemPrompt}}

	if s.examplePath != "" {
		example, err := os.ReadFile(s.examplePath)
		if err != nil {
			s.logger.Warn("could not load example perspective, continuing without it",
				slog.String("path", s.examplePath),
				slog.String("error", err.Error()))
		} else {
			messages = append(messages,
				Message{Role: "user", Content: "Here is an example of a perfect Neo4j Bloom Perspective JSON:"},
				Message{Role: "user", Content: string(example)},
			)
		}
	}

	messages = append(messages, Message{Role: "user", Content: userPrompt(string(schemaJSON))})
	return messages, nil
}

// Generate runs one drafting pass and returns the parsed draft documents.
func (s *Service) Generate(ctx context.Context, sch *schema.Schema) ([]map[string]any, error) {
	messages, err := s.BuildMessages(sch)
	if err != nil {
		return nil, err
	}

	content, err := s.client.Chat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("generator: completion failed: %w", err)
	}

	drafts, err := ParsePerspectives(content)
	if err != nil {
		return nil, err
	}
	s.logger.Info("generation produced drafts", slog.Int("count", len(drafts)))
	return drafts, nil
}
