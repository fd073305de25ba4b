package generator

import (
	_ "embed"
	"fmt"
)

//go:embed system_prompt.md
var systemPrompt string

//go:embed user_prompt.md
var userPromptTemplate string

// userPrompt renders the user message with the schema serialized as JSON.
func userPrompt(schemaJSON string) string {
	return fmt.Sprintf(userPromptTemplate, schemaJSON)
}
