package model

import (
	"fmt"
	"strings"
)

// Edge connects two process nodes, typically along a product flow.
type Edge struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	FlowID string `json:"flowId,omitempty" yaml:"flowId,omitempty"`
}

// FunctionalUnit is the quantified reference performance of a product
// system. The same shape is used for the reference flow.
type FunctionalUnit struct {
	Value       float64 `json:"value" yaml:"value"`
	Unit        string  `json:"unit" yaml:"unit"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// Complete reports whether the value is positive and the unit non-empty.
func (f FunctionalUnit) Complete() bool {
	return f.Value > 0 && strings.TrimSpace(f.Unit) != ""
}

// String renders "10 kg (description)".
func (f FunctionalUnit) String() string {
	s := fmt.Sprintf("%g %s", f.Value, f.Unit)
	if f.Description != "" {
		s += " (" + f.Description + ")"
	}
	return s
}

// ProductSystem is everything the surrounding application hands over for
// one assessment.
type ProductSystem struct {
	Name           string         `json:"name" yaml:"name"`
	Nodes          []Node         `json:"nodes" yaml:"nodes"`
	Edges          []Edge         `json:"edges,omitempty" yaml:"edges,omitempty"`
	Flows          FlowRegistry   `json:"flows,omitempty" yaml:"flows,omitempty"`
	FunctionalUnit FunctionalUnit `json:"functionalUnit" yaml:"functionalUnit"`
	ReferenceFlow  FunctionalUnit `json:"referenceFlow" yaml:"referenceFlow"`
}

// MainProducts returns the nodes flagged isMainProduct.
func (p ProductSystem) MainProducts() []Node {
	var out []Node
	for _, n := range p.Nodes {
		if n.Data.IsMainProduct {
			out = append(out, n)
		}
	}
	return out
}
