// Package parse turns a model's free-form reply into corrections.
package parse

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Alfex4936/spellfix/internal/model"
	"github.com/Alfex4936/spellfix/internal/util"
)

var (
	// ErrNoJSON means the reply holds no JSON object at all.
	ErrNoJSON = errors.New("parse: no JSON object in reply")
	// ErrSchema means the object does not have the reply shape.
	ErrSchema = errors.New("parse: reply does not match schema")
)

// Reply is the structured part of a model answer.
type Reply struct {
	CorrectedText string             `json:"correctedText"`
	Corrections   []model.Correction `json:"corrections"`
}

const replySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "correctedText": { "type": "string" },
    "corrections": {
      "type": "array",
      "items": { "type": "object" }
    }
  }
}`

var schema = jsonschema.MustCompileString("reply.schema.json", replySchema)

// Decode extracts and validates the reply object. Entries of "corrections"
// that cannot be decoded individually are skipped, so one bad item does not
// cost the rest. Bounds are not checked here.
func Decode(reply string) (*Reply, error) {
	obj, ok := ExtractJSONObject(reply)
	if !ok {
		return nil, ErrNoJSON
	}

	var doc any
	if err := json.Unmarshal([]byte(obj), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	var wrap struct {
		CorrectedText string            `json:"correctedText"`
		Corrections   []json.RawMessage `json:"corrections"`
	}
	if err := json.Unmarshal([]byte(obj), &wrap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	out := &Reply{
		CorrectedText: wrap.CorrectedText,
		Corrections:   make([]model.Correction, 0, len(wrap.Corrections)),
	}
	for _, raw := range wrap.Corrections {
		var c model.Correction
		if err := json.Unmarshal(raw, &c); err != nil {
			continue
		}
		c.Distance = util.Levenshtein(c.Original, c.Suggestion)
		out.Corrections = append(out.Corrections, c)
	}
	return out, nil
}
