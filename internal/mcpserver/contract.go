package mcpserver

// DraftFormatContract describes the draft perspective shape that the
// hydrate_perspective tool accepts. The hydrator defaults everything else.
const DraftFormatContract = `# Draft Perspective Format

A draft is a JSON object (or an array of objects). Only ` + "`name`" + ` is
expected; every other field is optional and will be defaulted or derived
during hydration.

## Structure

` + "```" + `json
{
  "name": "Seller Performance",
  "categories": [
    {
      "name": "Seller",
      "labels": ["Seller"],
      "color": "#C990C0",
      "properties": ["seller_id", {"name": "price", "dataType": "number"}]
    }
  ],
  "labels": {
    "Seller": [
      {"propertyKey": "seller_id", "type": "Seller", "dataType": "string"}
    ]
  },
  "relationshipTypes": [
    {"name": "SOLD_BY"}
  ],
  "templates": [
    {
      "name": "Top sellers",
      "query": "MATCH (s:Seller) RETURN s LIMIT 10",
      "description": "Show the top sellers"
    }
  ]
}
` + "```" + `

## Rules

1. **Relationship types you list are shown.** Every other relationship type
   known to the schema is added to ` + "`hiddenRelationshipTypes`" + ` automatically.
2. **Category properties** may be bare strings; they are expanded to
   ` + "`{name, exclude, dataType}`" + ` descriptors with ` + "`dataType: \"string\"`" + `.
3. **Captions** are synthesized when missing: the first property, else the
   first label, else a literal ` + "`id`" + ` caption.
4. **Backticks in names are fine.** ` + "`\"`SOLD_BY`\"`" + ` and ` + "`\"SOLD_BY\"`" + ` are
   treated as the same name everywhere.
5. **Metadata is derived from the schema snapshot**, never taken from the
   draft. Run the ` + "`bloomgen schema`" + ` command (or ask an operator) if the
   snapshot is missing or stale.
6. **Ids and timestamps** are managed for you; an existing ` + "`id`" + ` is kept.
`
