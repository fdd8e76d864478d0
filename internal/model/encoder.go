package model

import (
	"fmt"
	"maps"
	"slices"
)

// LabelEncoder maps a fitted vocabulary of strings to integer codes. The
// code of a value is its index in Classes.
type LabelEncoder struct {
	Classes []string
	index   map[string]int
}

func NewLabelEncoder(classes []string) (*LabelEncoder, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("encoder has no classes")
	}

	index := make(map[string]int, len(classes))
	for i, c := range classes {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("duplicate class %q", c)
		}
		index[c] = i
	}

	return &LabelEncoder{
		Classes: slices.Clone(classes),
		index:   index,
	}, nil
}

// Transform returns the code for value. ok is false when value was not part
// of the fitted vocabulary.
func (e *LabelEncoder) Transform(value string) (code int, ok bool) {
	code, ok = e.index[value]
	return code, ok
}

// InverseTransform returns the class for code.
func (e *LabelEncoder) InverseTransform(code int) (string, bool) {
	if code < 0 || code >= len(e.Classes) {
		return "", false
	}
	return e.Classes[code], true
}

func (e *LabelEncoder) Len() int {
	return len(e.Classes)
}

// Encoders is the fitted encoder set, keyed by column name.
type Encoders map[string]*LabelEncoder

// Columns returns the encoded column names in sorted order.
func (e Encoders) Columns() []string {
	return slices.Sorted(maps.Keys(e))
}

// NewEncoders builds encoders from a column -> classes mapping.
func NewEncoders(fitted map[string][]string) (Encoders, error) {
	if len(fitted) == 0 {
		return nil, fmt.Errorf("no encoders")
	}

	encoders := make(Encoders, len(fitted))
	for col, classes := range fitted {
		enc, err := NewLabelEncoder(classes)
		if err != nil {
			return nil, fmt.Errorf("encoder %q: %w", col, err)
		}
		encoders[col] = enc
	}
	return encoders, nil
}
