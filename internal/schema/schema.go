package schema

import "slices"

type FieldType int

const (
	Text FieldType = iota
	Float
	Date
)

// String names the type in the mapping review.
func (t FieldType) String() string {
	switch t {
	case Float:
		return "float"
	case Date:
		return "date"
	default:
		return "text"
	}
}

// Field is a canonical output key with the header spellings accepted for it.
// Synonyms are tried in order; the first one matching any header wins.
type Field struct {
	Name     string
	Type     FieldType
	Synonyms []string
}

// Schema is the ordered set of canonical fields. It is never mutated after
// construction; accessors hand out copies.
type Schema struct {
	fields []Field
}

func New(fields ...Field) *Schema {
	cp := make([]Field, len(fields))
	for i, f := range fields {
		cp[i] = Field{Name: f.Name, Type: f.Type, Synonyms: slices.Clone(f.Synonyms)}
	}
	return &Schema{fields: cp}
}

// Default returns the unified synonym table. With withDate the Data field is
// placed first, as the dashboard's S-curve expects.
func Default(withDate bool) *Schema {
	fields := make([]Field, 0, len(defaultFields)+1)
	if withDate {
		fields = append(fields, dateField)
	}
	fields = append(fields, defaultFields...)
	return New(fields...)
}

func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	for i, f := range s.fields {
		out[i] = Field{Name: f.Name, Type: f.Type, Synonyms: slices.Clone(f.Synonyms)}
	}
	return out
}

func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

func (s *Schema) HasDate() bool {
	for _, f := range s.fields {
		if f.Type == Date {
			return true
		}
	}
	return false
}
