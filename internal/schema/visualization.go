package schema

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

const visualizationQuery = "CALL db.schema.visualization()"

// FullNode is one virtual node from db.schema.visualization, carrying the
// index and constraint metadata Neo4j attaches to it.
type FullNode struct {
	Identity   int64          `json:"identity"`
	ElementID  string         `json:"elementId"`
	Labels     []string       `json:"labels"`
	Properties map[string]any `json:"properties"`
}

// FullRelationship is one virtual relationship from db.schema.visualization.
type FullRelationship struct {
	Identity           int64          `json:"identity"`
	ElementID          string         `json:"elementId"`
	Start              int64          `json:"start"`
	End                int64          `json:"end"`
	StartNodeElementID string         `json:"startNodeElementId"`
	EndNodeElementID   string         `json:"endNodeElementId"`
	Type               string         `json:"type"`
	Properties         map[string]any `json:"properties"`
}

// FullSchema is the raw visualization form of the schema, kept separate from
// the normalized Schema document. It is informational: the perspective
// pipeline consumes Schema, not FullSchema.
type FullSchema struct {
	Nodes         []FullNode         `json:"nodes"`
	Relationships []FullRelationship `json:"relationships"`
}

// FetchFull retrieves the visualization schema with node/relationship
// identities and the attached index and constraint properties.
func FetchFull(ctx context.Context, runner Runner) (*FullSchema, error) {
	result, err := runner.Run(ctx, visualizationQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("schema: fetch visualization: %w", err)
	}

	full := &FullSchema{Nodes: []FullNode{}, Relationships: []FullRelationship{}}
	for _, record := range result.Records {
		rawNodes, _ := record.Get("nodes")
		for _, item := range anyList(rawNodes) {
			node, ok := item.(dbtype.Node)
			if !ok {
				continue
			}
			full.Nodes = append(full.Nodes, FullNode{
				Identity:   node.GetId(),
				ElementID:  node.GetElementId(),
				Labels:     node.Labels,
				Properties: node.Props,
			})
		}

		rawRels, _ := record.Get("relationships")
		for _, item := range anyList(rawRels) {
			rel, ok := item.(dbtype.Relationship)
			if !ok {
				continue
			}
			full.Relationships = append(full.Relationships, FullRelationship{
				Identity:           rel.GetId(),
				ElementID:          rel.GetElementId(),
				Start:              rel.StartId,
				End:                rel.EndId,
				StartNodeElementID: rel.StartElementId,
				EndNodeElementID:   rel.EndElementId,
				Type:               rel.Type,
				Properties:         rel.Props,
			})
		}
	}

	return full, nil
}

func anyList(value any) []any {
	list, _ := value.([]any)
	return list
}
