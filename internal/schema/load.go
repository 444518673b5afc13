package schema

import (
	"os"

	"gopkg.in/yaml.v2"

	apperrors "justfair/internal/errors"
	"justfair/pkg/contracts/domain"
)

// mappingFile is the on-disk form of a mapping:
//
//	fields:
//	  year:
//	    column: sentyear
//	  departure:
//	    column: departure
//	    labels:
//	      "0": Within Range
//	      "1": Above Departure
type mappingFile struct {
	Fields map[string]FieldPath `yaml:"fields"`
}

// LoadFile reads a YAML schema mapping
func LoadFile(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfigError("read schema mapping", err).WithContext("path", path)
	}
	return Parse(data)
}

// Parse decodes a YAML schema mapping
func Parse(data []byte) (*Mapping, error) {
	var file mappingFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, apperrors.NewParsingError("decode schema mapping", err)
	}

	paths := make(map[domain.Field]FieldPath, len(file.Fields))
	for name, path := range file.Fields {
		paths[domain.Field(name)] = path
	}
	return New(paths)
}
