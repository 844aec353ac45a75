package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlSchema is the on-disk schema format:
//
//	name: demo
//	keywords: [if, else, func]
//	definitions:
//	  - name: call
//	    patterns:
//	      - seq(ident, block(paren))
//	  - name: line
//	    patterns:
//	      - until(any, newline)
type yamlSchema struct {
	Name        string           `yaml:"name"`
	Keywords    []string         `yaml:"keywords"`
	Definitions []yamlDefinition `yaml:"definitions"`
}

type yamlDefinition struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`
}

// Parse builds a schema from YAML bytes. Keywords are allocated kinds in
// list order and definitions keep their declared binding order.
func Parse(data []byte) (*Schema, error) {
	var doc yamlSchema
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: parse yaml: %w", err)
	}
	if doc.Name == "" {
		doc.Name = "unnamed"
	}

	s := New(doc.Name)
	for _, kw := range doc.Keywords {
		s.AddKeyword(kw)
	}
	for _, yd := range doc.Definitions {
		def := &Definition{Name: yd.Name}
		for _, src := range yd.Patterns {
			q, err := s.Compile(src)
			if err != nil {
				return nil, fmt.Errorf("schema %q: definition %q: %w", doc.Name, yd.Name, err)
			}
			def.Patterns = append(def.Patterns, q)
		}
		if _, err := s.Define(def); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Load reads and parses a YAML schema file.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(data)
}
