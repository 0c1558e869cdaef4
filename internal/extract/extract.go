// Package extract recovers structured records from free-form model output.
//
// Backends are asked for JSON but are not bound to emit it cleanly: replies
// may be wrapped in prose or code fences. Extraction is syntactic only.
// Required-field checks are done per call with Decode, since every call
// expects a different shape.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse reports text that did not parse as a JSON object by
// either extraction tier.
type ErrMalformedResponse struct {
	Raw string
	Err error
}

func (e *ErrMalformedResponse) Error() string {
	return fmt.Sprintf("malformed response: %v", e.Err)
}

func (e *ErrMalformedResponse) Unwrap() error { return e.Err }

// ErrMissingField reports a record that parsed but does not satisfy the
// shape the caller requires.
type ErrMissingField struct {
	Schema string
	Err    error
}

func (e *ErrMissingField) Error() string {
	return fmt.Sprintf("response does not match %s: %v", e.Schema, e.Err)
}

func (e *ErrMissingField) Unwrap() error { return e.Err }

var errNoObject = errors.New("no JSON object found")

// Extract parses text as a JSON object. It first tries the whole text, then
// the span from the first '{' to the last '}'. It never guesses values.
func Extract(text string) (map[string]any, error) {
	record, err := parseObject(text)
	if err == nil {
		return record, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, &ErrMalformedResponse{Raw: text, Err: errNoObject}
	}

	record, err = parseObject(text[start : end+1])
	if err != nil {
		return nil, &ErrMalformedResponse{Raw: text, Err: err}
	}
	return record, nil
}

func parseObject(s string) (map[string]any, error) {
	var record map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &record); err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errNoObject
	}
	return record, nil
}
