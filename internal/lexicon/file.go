package lexicon

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	apperrors "github.com/rajasatyajit/grievance-insights/internal/errors"
)

// LoadFile reads and validates a YAML lexicon document
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.LexiconError{Source: "file:" + path, Err: err}
	}
	return parse("file:"+path, data)
}

// Parse decodes a YAML lexicon document. Unknown keys are rejected so that a
// misspelled section does not silently produce an empty table.
func Parse(data []byte) (*Set, error) {
	return parse("yaml", data)
}

func parse(source string, data []byte) (*Set, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var spec Spec
	if err := dec.Decode(&spec); err != nil {
		return nil, apperrors.LexiconError{Source: source, Err: fmt.Errorf("decode yaml: %w", err)}
	}
	return build(source, spec)
}
