package schema

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrMissingHeaders = errors.New("first row of the sheet is empty (no headers)")
	ErrMissingColumn  = errors.New("missing required column")
)

// MissingColumnError reports a canonical field that no header matched,
// together with every header found for diagnosis.
type MissingColumnError struct {
	Field   string
	Headers []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s %q; headers found: %q", ErrMissingColumn, e.Field, e.Headers)
}

func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}

// ColumnIndex maps canonical field names to zero-based header positions.
type ColumnIndex struct {
	positions map[string]int
	headers   map[string]string
}

func (c ColumnIndex) Lookup(field string) (int, bool) {
	i, ok := c.positions[field]
	return i, ok
}

// Headers returns the raw header matched for each field.
func (c ColumnIndex) Headers() map[string]string {
	out := make(map[string]string, len(c.headers))
	for k, v := range c.headers {
		out[k] = v
	}
	return out
}

// NormalizeHeader folds accents, lowercases and drops all whitespace so that
// "Tipo Extensão" and "TIPOEXTENSAO" compare equal.
func NormalizeHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), "")
}

// Resolve finds the column of every canonical field in headers.
func Resolve(s *Schema, headers []string) (ColumnIndex, error) {
	normalized := make([]string, len(headers))
	blank := true
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
		if normalized[i] != "" {
			blank = false
		}
	}
	if blank {
		return ColumnIndex{}, ErrMissingHeaders
	}

	idx := ColumnIndex{
		positions: make(map[string]int, len(s.fields)),
		headers:   make(map[string]string, len(s.fields)),
	}
	for _, field := range s.fields {
		pos := findColumn(normalized, field.Synonyms)
		if pos < 0 {
			return ColumnIndex{}, &MissingColumnError{Field: field.Name, Headers: append([]string(nil), headers...)}
		}
		idx.positions[field.Name] = pos
		idx.headers[field.Name] = headers[pos]
	}
	return idx, nil
}

func findColumn(normalized, synonyms []string) int {
	for _, syn := range synonyms {
		want := NormalizeHeader(syn)
		if want == "" {
			continue
		}
		for i, h := range normalized {
			if h == want {
				return i
			}
		}
	}
	return -1
}
