package judge

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// verdictSchemaDef is the JSON Schema every provider response must satisfy
// before any field is trusted.
var verdictSchemaDef = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"score": map[string]any{
			"type":        "integer",
			"description": "Pronunciation accuracy from 0 to 100.",
		},
		"transcription": map[string]any{
			"type":        "string",
			"description": "What was actually heard, in Arabic.",
		},
		"errors": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Specific reading mistakes, in Malay.",
		},
		"feedback": map[string]any{
			"type":        "string",
			"description": "The examiner's remark.",
		},
	},
	"required": []any{"score", "transcription", "errors", "feedback"},
}

var (
	compileOnce      sync.Once
	compiledSchema   *jsonschema.Schema
	compileSchemaErr error
)

// parseVerdict validates raw provider output against the verdict schema and
// decodes it. The score is clamped to [0,100] after decoding.
func parseVerdict(raw json.RawMessage) (*Verdict, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &ErrInvalidVerdict{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	schema, err := verdictSchema()
	if err != nil {
		return nil, &ErrInvalidVerdict{Content: raw, Err: fmt.Errorf("compile schema: %w", err)}
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, &ErrInvalidVerdict{Content: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	var v Verdict
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &ErrInvalidVerdict{Content: raw, Err: err}
	}

	if v.Score < 0 {
		v.Score = 0
	}
	if v.Score > 100 {
		v.Score = 100
	}
	return &v, nil
}

func verdictSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		defBytes, err := json.Marshal(verdictSchemaDef)
		if err != nil {
			compileSchemaErr = err
			return
		}
		var def any
		if err := json.Unmarshal(defBytes, &def); err != nil {
			compileSchemaErr = err
			return
		}

		c := jsonschema.NewCompiler()
		const url = "schema://tasmik-verdict.json"
		if err := c.AddResource(url, def); err != nil {
			compileSchemaErr = err
			return
		}
		compiledSchema, compileSchemaErr = c.Compile(url)
	})
	return compiledSchema, compileSchemaErr
}
