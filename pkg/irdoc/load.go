package irdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the document at path and builds every method in it.
func Load(path string) ([]*Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read IR document %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes a YAML or JSON document and builds every method in it.
// source names the document in errors and in the returned units.
func Parse(data []byte, source string) ([]*Unit, error) {
	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse IR document %s: %w", source, err)
	}

	units := make([]*Unit, 0, len(doc.Methods))
	for i := range doc.Methods {
		u, err := Build(&doc.Methods[i])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		u.Source = source
		units = append(units, u)
	}
	return units, nil
}

// Decode reads a document without building it. Unknown fields are rejected.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalid)
		}
		return nil, err
	}
	if len(doc.Methods) == 0 {
		return nil, fmt.Errorf("%w: no methods", ErrInvalid)
	}
	return &doc, nil
}

// Encode writes doc as YAML.
func Encode(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode IR document: %w", err)
	}
	return enc.Close()
}
