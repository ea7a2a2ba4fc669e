package llm

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/buger/jsonparser"
	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"

	"github.com/Smaug123/bork/internal/model"
)

// ActionPayload is the JSON shape an LLM reply must embed, exactly as
// given in §4.D:
//
//	{ "create-or-update": { <path>: <string contents>, ... },
//	  "delete": [ <path>, ... ] }
//
// Both fields default to empty if absent; any additional top-level field
// is ignored.
type ActionPayload struct {
	CreateOrUpdate map[string]string `json:"create-or-update,omitempty" jsonschema:"title=create-or-update,description=paths mapped to their full new contents"`
	Delete         []string          `json:"delete,omitempty" jsonschema:"title=delete,description=paths to remove"`
}

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func actionPayloadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		reflector := jsonschema.Reflector{ExpandedStruct: true, AllowAdditionalProperties: true}
		raw := reflector.Reflect(&ActionPayload{})
		schemaBytes, err := json.Marshal(raw)
		if err != nil {
			schemaErr = fmt.Errorf("marshal action payload schema: %w", err)
			return
		}
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaBytes))
	})
	return schema, schemaErr
}

// ExtractActionPayload scans reply for the first top-level JSON object
// containing a "create-or-update" or "delete" key and decodes it as an
// ActionPayload, tolerant of the object being embedded in a larger
// textual reply (§4.D, §6). It returns *model.LlmReplyNotJsonError if no
// such object can be found or the candidate fails schema validation.
func ExtractActionPayload(reply string) (*ActionPayload, error) {
	candidate, err := firstMatchingObject(reply)
	if err != nil {
		return nil, &model.LlmReplyNotJsonError{Reply: reply, Err: err}
	}

	s, err := actionPayloadSchema()
	if err != nil {
		return nil, fmt.Errorf("build action payload schema: %w", err)
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(candidate))
	if err != nil {
		return nil, &model.LlmReplyNotJsonError{Reply: reply, Err: err}
	}
	if !result.Valid() {
		return nil, &model.LlmReplyNotJsonError{Reply: reply, Err: fmt.Errorf("%v", result.Errors())}
	}

	var payload ActionPayload
	if err := json.Unmarshal(candidate, &payload); err != nil {
		return nil, &model.LlmReplyNotJsonError{Reply: reply, Err: err}
	}
	return &payload, nil
}

// firstMatchingObject walks reply looking for balanced-brace substrings,
// left to right, and returns the first one that is valid JSON and carries
// either a "create-or-update" or "delete" top-level key.
func firstMatchingObject(reply string) ([]byte, error) {
	data := []byte(reply)

	for i := 0; i < len(data); i++ {
		if data[i] != '{' {
			continue
		}
		end := matchingBrace(data, i)
		if end < 0 {
			continue
		}
		candidate := data[i : end+1]
		if !json.Valid(candidate) {
			continue
		}
		if hasRelevantKey(candidate) {
			return candidate, nil
		}
		// Resume after this object: objects nested inside it are not
		// top-level.
		i = end
	}
	return nil, fmt.Errorf("no JSON object with a create-or-update or delete key found in reply")
}

// matchingBrace returns the index of the brace matching the '{' at open,
// respecting JSON string quoting, or -1 if unbalanced.
func matchingBrace(data []byte, open int) int {
	depth := 0
	inString := false
	escaped := false
	for i := open; i < len(data); i++ {
		c := data[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// inside a string, braces don't count
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func hasRelevantKey(candidate []byte) bool {
	for _, key := range [][]string{{"create-or-update"}, {"delete"}} {
		if _, _, _, err := jsonparser.Get(candidate, key...); err == nil {
			return true
		}
	}
	return false
}
