package factors

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// tableFile is the on-disk shape of a factor table.
type tableFile struct {
	Name    string   `yaml:"name"`
	Factors []Factor `yaml:"factors"`
}

// LoadTable reads a YAML factor table. The file lists factors with
// substance, category, value and optional unit/source:
//
//	name: regional-2024
//	factors:
//	  - substance: electricity_grid
//	    category: gwp
//	    value: 0.61
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading factor table %s: %w", path, err)
	}
	return ParseTable(data)
}

// ParseTable decodes a YAML factor table from memory.
func ParseTable(data []byte) (*Table, error) {
	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing factor table: %w", err)
	}
	if tf.Name == "" {
		tf.Name = "custom"
	}
	return NewTable(tf.Name, tf.Factors)
}
