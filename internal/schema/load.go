package schema

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// synonymFile is the on-disk shape of a synonym override file:
//
//	synonyms:
//	  Obra: ["nome da obra"]
//	  PV: ["poços de visita"]
type synonymFile struct {
	Synonyms map[string][]string `yaml:"synonyms"`
}

// Load returns the default schema extended with the synonyms listed in the
// YAML file at path. Extra spellings are tried after the built-in ones.
func Load(path string, withDate bool) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read synonym file %s: %w", path, err)
	}
	return Parse(data, withDate)
}

// Parse reads a YAML synonym document and appends its spellings to the
// default fields. Unknown field names are an error, except Data when the
// schema has no date field.
func Parse(data []byte, withDate bool) (*Schema, error) {
	var doc synonymFile
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal synonym file: %w", err)
	}

	base := Default(withDate)
	fields := base.fields
	for name, extra := range doc.Synonyms {
		i := indexOf(fields, name)
		if i < 0 {
			if name == FieldData && !withDate {
				continue
			}
			return nil, fmt.Errorf("unknown canonical field %q in synonym file", name)
		}
		fields[i].Synonyms = append(fields[i].Synonyms, extra...)
	}
	return New(fields...), nil
}

func indexOf(fields []Field, name string) int {
	for i, f := range fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}
