package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/joseph-ayodele/pdf-structurer/internal/common"
)

// ParseExtractionResult turns model output into an ExtractionResult.
//
// Output that is not JSON is a parse-kind StructuringError. JSON without an "entries"
// array of objects is a schema-kind StructuringError. Inside a record, missing or null
// fields become "" and non-string scalars keep their JSON text.
func ParseExtractionResult(content []byte) (ExtractionResult, error) {
	doc, err := decodeStrict(content)
	if err != nil {
		return ExtractionResult{}, common.NewStructuringError(common.KindParse, "model output is not valid JSON", err)
	}
	if err := validateEntries(doc); err != nil {
		return ExtractionResult{}, common.NewStructuringError(common.KindSchema, "invalid schema: missing 'entries' collection", err)
	}

	// Validation above guarantees these assertions hold.
	raw := doc.(map[string]any)["entries"].([]any)
	out := ExtractionResult{Entries: make([]ExtractionRecord, 0, len(raw))}
	for _, item := range raw {
		rec := item.(map[string]any)
		out.Entries = append(out.Entries, ExtractionRecord{
			Key:      coerceField(rec["key"]),
			Value:    coerceField(rec["value"]),
			Comments: coerceField(rec["comments"]),
		})
	}
	return out, nil
}

// decodeStrict accepts exactly one JSON value with nothing but whitespace after it.
func decodeStrict(content []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return v, nil
}

func coerceField(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return strings.TrimSpace(fmt.Sprint(t))
		}
		return string(b)
	}
}
