package importer

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Synonym is one domain hint for a target field, with the confidence a
// header earns by containing it.
type Synonym struct {
	Text   string  `yaml:"text"`
	Weight float64 `yaml:"weight"` // 0.6 - 0.9
}

// TargetField is one column of the import target schema.
type TargetField struct {
	Key      string    `yaml:"key"`
	Label    string    `yaml:"label"`
	Required bool      `yaml:"required"`
	Synonyms []Synonym `yaml:"synonyms"`
}

// Schema is the ordered target-field registry the mapper scores against.
type Schema struct {
	Fields []TargetField `yaml:"fields"`
}

// RequiredFields returns the required subset in schema order.
func (s *Schema) RequiredFields() []TargetField {
	var out []TargetField
	for _, f := range s.Fields {
		if f.Required {
			out = append(out, f)
		}
	}
	return out
}

// Field looks up a target field by key.
func (s *Schema) Field(key string) (TargetField, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return TargetField{}, false
}

//go:embed deal_schema.yaml
var dealSchemaYAML []byte

// DealSchema returns the built-in deal import schema.
func DealSchema() *Schema {
	s, err := parseSchema(dealSchemaYAML)
	if err != nil {
		// The embedded registry is validated by tests; a parse failure here
		// is a build defect, not a runtime condition.
		panic(err)
	}
	return s
}

// LoadSchema reads a target-field registry from a YAML file, for deployments
// that customize synonyms or required flags.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "importer: read schema %s", path)
	}
	return parseSchema(data)
}

func parseSchema(data []byte) (*Schema, error) {
	var wrapper struct {
		Schema Schema `yaml:"schema"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "importer: parse schema")
	}
	s := &wrapper.Schema
	if len(s.Fields) == 0 {
		return nil, eris.New("importer: schema has no fields")
	}
	for i, f := range s.Fields {
		if f.Key == "" {
			return nil, eris.Errorf("importer: schema field %d has no key", i)
		}
	}
	return s, nil
}
