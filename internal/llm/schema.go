package llm

// BuildEntriesJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a generic map.
// It checks structure only: an "entries" array of objects. Field types inside a record
// are coerced later rather than rejected.
func BuildEntriesJSONSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"entries"},
		"properties": map[string]any{
			"entries": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "object"},
			},
		},
	}
}
