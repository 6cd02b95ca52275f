package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Number is a float64 that also decodes from numeric strings.
//
// Process nodes exported by the graph editor store quantities and factors
// as strings ("1.0", "10"); Number lets both forms decode into one field.
// An empty string decodes to zero.
type Number float64

// Float returns the value as a float64.
func (n Number) Float() float64 { return float64(n) }

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*n = 0
		return nil
	case float64:
		*n = Number(v)
		return nil
	case string:
		return n.parse(v)
	default:
		return fmt.Errorf("invalid number %s", string(data))
	}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Number) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: number must be a scalar", value.Line)
	}
	return n.parse(value.Value)
}

func (n *Number) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || s == "~" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", s, err)
	}
	*n = Number(f)
	return nil
}
