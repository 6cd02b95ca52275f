package matching

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// mappingFile is the on-disk layout of user mappings.
type mappingFile struct {
	Mappings []Mapping `yaml:"mappings"`
}

// LoadFile adds every mapping in path to the store and returns how many
// were read. A missing file is not an error.
func (s *MappingStore) LoadFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading mappings %s: %w", path, err)
	}

	var f mappingFile
	if err = yaml.Unmarshal(data, &f); err != nil {
		return 0, fmt.Errorf("parsing mappings %s: %w", path, err)
	}
	n := 0
	for _, m := range f.Mappings {
		if Normalize(m.Original) == "" || Normalize(m.Mapped) == "" {
			continue
		}
		s.Set(m.Original, m.Mapped)
		n++
	}
	return n, nil
}

// SaveFile writes every mapping to path, creating its directory.
func (s *MappingStore) SaveFile(path string) error {
	data, err := yaml.Marshal(mappingFile{Mappings: s.All()})
	if err != nil {
		return fmt.Errorf("encoding mappings: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating mappings directory: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing mappings %s: %w", path, err)
	}
	return nil
}
