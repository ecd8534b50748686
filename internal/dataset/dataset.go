// Package dataset reads scheduling universes from YAML or JSON documents.
package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/timetable-optimizer/internal/timetable"
)

// ErrEmpty is returned when the document holds no universe at all.
var ErrEmpty = errors.New("dataset is empty")

// Load reads the dataset file at path. JSON documents are accepted as a YAML subset.
func Load(path string) (timetable.Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return timetable.Input{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	input, err := Decode(f)
	if err != nil {
		return timetable.Input{}, fmt.Errorf("load %s: %w", path, err)
	}
	return input, nil
}

// Decode parses one dataset document. Unknown keys are rejected so typos in
// field names do not silently drop constraints.
func Decode(r io.Reader) (timetable.Input, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return timetable.Input{}, fmt.Errorf("read dataset: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return timetable.Input{}, ErrEmpty
	}

	var input timetable.Input
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&input); err != nil {
		if errors.Is(err, io.EOF) {
			return timetable.Input{}, ErrEmpty
		}
		return timetable.Input{}, fmt.Errorf("parse dataset: %w", err)
	}
	return input, nil
}

// Encode writes the input back as YAML.
func Encode(w io.Writer, input timetable.Input) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(input); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return enc.Close()
}
