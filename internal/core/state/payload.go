package state

import (
	"encoding/json"
	"regexp"
)

// Node output frequently arrives as free text with an embedded JSON object;
// the first {...} block is treated as the structured payload.
var jsonBlock = regexp.MustCompile(`(?s)\{.*\}`)

// decodePayload interprets a raw node output as a field/value record.
// Accepted shapes: an already-structured map, or text/bytes containing a JSON
// object. Anything else is a projection failure.
func decodePayload(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case map[string]any:
		return v, nil
	case string:
		return decodeJSONText([]byte(v))
	case []byte:
		return decodeJSONText(v)
	case nil:
		return nil, ErrMalformedOutput
	default:
		return nil, ErrMalformedOutput
	}
}

func decodeJSONText(text []byte) (map[string]any, error) {
	match := jsonBlock.Find(text)
	if match == nil {
		return nil, ErrMalformedOutput
	}
	var fields map[string]any
	if err := json.Unmarshal(match, &fields); err != nil {
		return nil, ErrMalformedOutput
	}
	return fields, nil
}
