// Package synth classifies dataset columns, produces synthetic values for
// them and applies the privacy transforms to the resulting table.
package synth

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the semantic type of a column. It is decided once, when the
// dataset headers are first inspected.
type Kind string

const (
	Sensitive   Kind = "sensitive"
	Numeric     Kind = "numeric"
	Categorical Kind = "categorical"
)

func (k Kind) Valid() bool {
	switch k {
	case Sensitive, Numeric, Categorical:
		return true
	}

	return false
}

// ParseKind accepts the wire representation of a kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown column kind %q", s)
	}

	return k, nil
}

type Column struct {
	Name     string `json:"name" yaml:"name"`
	Kind     Kind   `json:"type" yaml:"type"`
	Selected bool   `json:"selected" yaml:"selected"`
}

// ErrNoHeaders is returned by Classify when there is nothing to classify.
var ErrNoHeaders = errors.New("no column headers to classify")

var (
	sensitiveMarkers = []string{"name", "email", "phone", "ssn", "address"}
	numericMarkers   = []string{"id", "age", "salary", "amount", "price", "count", "number"}
)

// KindOf classifies a single header. Sensitive markers are checked before
// numeric ones, so "account_number_name" is sensitive.
func KindOf(header string) Kind {
	h := NormalizeName(header)

	switch {
	case containsAny(h, sensitiveMarkers):
		return Sensitive
	case containsAny(h, numericMarkers):
		return Numeric
	default:
		return Categorical
	}
}

// NormalizeName is the column name a header classifies to.
func NormalizeName(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

// Classify turns raw header strings into selected columns. Blank headers
// are skipped.
func Classify(headers []string) ([]Column, error) {
	columns := make([]Column, 0, len(headers))

	for _, header := range headers {
		name := NormalizeName(header)
		if name == "" {
			continue
		}

		columns = append(columns, Column{
			Name:     name,
			Kind:     KindOf(name),
			Selected: true,
		})
	}

	if len(columns) == 0 {
		return nil, ErrNoHeaders
	}

	return columns, nil
}

// FallbackColumns is the demo schema used when a dataset has no usable
// headers, so that a generation can always be produced.
func FallbackColumns() []Column {
	return []Column{
		{Name: "id", Kind: Numeric, Selected: false},
		{Name: "name", Kind: Sensitive, Selected: true},
		{Name: "email", Kind: Sensitive, Selected: true},
		{Name: "phone", Kind: Sensitive, Selected: true},
		{Name: "age", Kind: Numeric, Selected: true},
		{Name: "salary", Kind: Numeric, Selected: true},
		{Name: "department", Kind: Categorical, Selected: true},
		{Name: "country", Kind: Categorical, Selected: true},
	}
}

// ClassifyOrFallback classifies headers and substitutes FallbackColumns
// when there are none.
func ClassifyOrFallback(headers []string) []Column {
	columns, err := Classify(headers)
	if err != nil {
		return FallbackColumns()
	}

	return columns
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}

	return false
}
