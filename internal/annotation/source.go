package annotation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// ErrNotFound is returned by a Source that has no annotation for a variant.
var ErrNotFound = errors.New("annotation not found")

// Source provides annotation summaries by variant.
type Source interface {
	Summary(ctx context.Context, variant string) (*Summary, error)
}

// Decode reads a JSON annotation document. Both a full VariantAnnotation
// (with an annotation_summary member) and a bare Summary are accepted.
func Decode(r io.Reader) (*Summary, error) {
	data, err := readDocument(r)
	if err != nil {
		return nil, err
	}
	return decodeSummary(data)
}

// DecodeAll reads a JSON document holding one annotation or an array of them,
// as returned by the batch annotation endpoint.
func DecodeAll(r io.Reader) ([]*Summary, error) {
	data, err := readDocument(r)
	if err != nil {
		return nil, err
	}
	if data[0] != '[' {
		s, err := decodeSummary(data)
		if err != nil {
			return nil, err
		}
		return []*Summary{s}, nil
	}

	var docs []json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decode annotation list: %w", err)
	}
	summaries := make([]*Summary, 0, len(docs))
	for i, doc := range docs {
		s, err := decodeSummary(doc)
		if err != nil {
			return nil, fmt.Errorf("annotation %d: %w", i, err)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func readDocument(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read annotation: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("decode annotation: empty document")
	}
	return data, nil
}

func decodeSummary(data []byte) (*Summary, error) {
	var va VariantAnnotation
	if err := json.Unmarshal(data, &va); err != nil {
		return nil, fmt.Errorf("decode annotation: %w", err)
	}
	if va.AnnotationSummary != nil {
		if va.AnnotationSummary.Variant == "" {
			va.AnnotationSummary.Variant = va.Variant
		}
		return va.AnnotationSummary, nil
	}

	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode annotation summary: %w", err)
	}
	return &s, nil
}

// ReadFile decodes an annotation JSON file. Use "-" for stdin.
func ReadFile(path string) (*Summary, error) {
	if path == "-" {
		return Decode(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open annotation: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// ReadAllFile decodes every annotation in a JSON file. Use "-" for stdin.
func ReadAllFile(path string) ([]*Summary, error) {
	if path == "-" {
		return DecodeAll(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open annotation: %w", err)
	}
	defer f.Close()
	return DecodeAll(f)
}

// StaticSource serves summaries from memory, keyed by variant.
type StaticSource map[string]*Summary

// Summary implements Source.
func (s StaticSource) Summary(_ context.Context, variant string) (*Summary, error) {
	if sum, ok := s[variant]; ok {
		return sum, nil
	}
	return nil, fmt.Errorf("%s: %w", variant, ErrNotFound)
}
