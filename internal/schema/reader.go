package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Cypher used to discover the schema. db.schema.nodeTypeProperties reports
// every (label, property) pair with inferred types; the triple query reports
// which relationship types actually connect which labels in the data.
const (
	nodePropertiesQuery = "CALL db.schema.nodeTypeProperties()"

	relationshipTriplesQuery = `MATCH (a)-[r]->(b)
RETURN DISTINCT labels(a) AS startLabels, type(r) AS relType, labels(b) AS endLabels`
)

// Runner executes a Cypher query and returns a fully-buffered result. The
// concrete implementation is Executor; tests substitute fakes.
type Runner interface {
	Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error)
}

// Executor is a Runner backed by the official Neo4j driver.
type Executor struct {
	driver neo4j.DriverWithContext
	dbName string
}

// NewExecutor creates a driver for the given connection parameters. The
// connection itself is not attempted until Verify or the first query.
func NewExecutor(uri, username, password, dbName string) (*Executor, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("schema: create driver: %w", err)
	}
	return &Executor{driver: driver, dbName: dbName}, nil
}

// Verify checks connectivity and credentials before any schema query runs.
func (e *Executor) Verify(ctx context.Context) error {
	if err := e.driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("schema: verify connectivity: %w", err)
	}
	return nil
}

// Close releases the underlying driver.
func (e *Executor) Close(ctx context.Context) error {
	return e.driver.Close(ctx)
}

// Run executes one Cypher query with automatic session handling and buffers
// the full result.
func (e *Executor) Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, e.driver, query, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(e.dbName),
	)
	if err != nil {
		return nil, fmt.Errorf("schema: execute query: %w", err)
	}
	return result, nil
}

// Fetch queries the live database and builds the normalized schema document.
func Fetch(ctx context.Context, runner Runner) (*Schema, error) {
	s := &Schema{Labels: map[string][]Property{}}

	props, err := runner.Run(ctx, nodePropertiesQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("schema: fetch node properties: %w", err)
	}
	for _, record := range props.Records {
		nodeType, _ := record.Get("nodeType")
		typeToken, ok := nodeType.(string)
		if !ok {
			continue
		}
		propName, _ := record.Get("propertyName")
		name, ok := propName.(string)
		if !ok || name == "" {
			// Labels with no properties still produce a row; register the
			// label so it appears in the document.
			for _, label := range splitNodeType(typeToken) {
				if _, seen := s.Labels[label]; !seen {
					s.Labels[label] = []Property{}
				}
			}
			continue
		}

		propType := firstPropertyType(record)
		for _, label := range splitNodeType(typeToken) {
			s.Labels[label] = append(s.Labels[label], Property{Name: name, Type: propType})
		}
	}

	triples, err := runner.Run(ctx, relationshipTriplesQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("schema: fetch relationship triples: %w", err)
	}
	for _, record := range triples.Records {
		relType, _ := record.Get("relType")
		typeName, ok := relType.(string)
		if !ok {
			continue
		}
		startLabels, _ := record.Get("startLabels")
		endLabels, _ := record.Get("endLabels")
		// Multi-label endpoints expand to one triple per combination.
		for _, start := range stringList(startLabels) {
			for _, end := range stringList(endLabels) {
				s.addRelationship(Relationship{Start: start, Type: typeName, End: end})
			}
		}
	}

	return s, nil
}

// addRelationship appends the triple unless an identical one is present.
func (s *Schema) addRelationship(rel Relationship) {
	for _, existing := range s.Relationships {
		if existing == rel {
			return
		}
	}
	s.Relationships = append(s.Relationships, rel)
}

// splitNodeType breaks a nodeType token like ":`Person`" or
// ":`Person`:`Actor`" into individual label names without delimiters.
func splitNodeType(token string) []string {
	var labels []string
	for _, part := range strings.Split(token, ":") {
		part = strings.ReplaceAll(part, "`", "")
		if part != "" {
			labels = append(labels, part)
		}
	}
	return labels
}

// firstPropertyType takes the first entry of the propertyTypes list,
// defaulting to String when the database reports none.
func firstPropertyType(record interface{ Get(string) (any, bool) }) string {
	raw, _ := record.Get("propertyTypes")
	types := stringList(raw)
	if len(types) == 0 {
		return "String"
	}
	return types[0]
}

func stringList(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}
