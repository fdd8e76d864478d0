package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Format is the serialization of an artifact file.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".msgpack", ".mpk":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("unsupported artifact extension %q", filepath.Ext(path))
	}
}

func decode(r io.Reader, format Format, out any) error {
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		return dec.Decode(out)
	case FormatMsgpack:
		return msgpack.NewDecoder(r).Decode(out)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func decodeFile(path string, out any) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	if err := decode(f, format, out); err != nil {
		return fmt.Errorf("decode %s: %w", format, err)
	}
	return nil
}

// ReadTree decodes and validates a decision tree.
func ReadTree(r io.Reader, format Format) (*DecisionTree, error) {
	var tree DecisionTree
	if err := decode(r, format, &tree); err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	if err := tree.Validate(); err != nil {
		return nil, err
	}
	return &tree, nil
}

// LoadTree reads a decision tree artifact from disk.
func LoadTree(path string) (*DecisionTree, error) {
	var tree DecisionTree
	if err := decodeFile(path, &tree); err != nil {
		return nil, err
	}
	if err := tree.Validate(); err != nil {
		return nil, err
	}
	return &tree, nil
}

// ReadEncoders decodes a column -> classes mapping.
func ReadEncoders(r io.Reader, format Format) (Encoders, error) {
	var fitted map[string][]string
	if err := decode(r, format, &fitted); err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	return NewEncoders(fitted)
}

// LoadEncoders reads a label encoder artifact from disk.
func LoadEncoders(path string) (Encoders, error) {
	var fitted map[string][]string
	if err := decodeFile(path, &fitted); err != nil {
		return nil, err
	}
	return NewEncoders(fitted)
}

// WriteTree encodes tree in the given format.
func WriteTree(w io.Writer, tree *DecisionTree, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tree)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(tree)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
