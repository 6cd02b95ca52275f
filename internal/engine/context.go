package engine

import (
	"github.com/carbonflow/carbonflow/internal/lcaconfig"
	"github.com/carbonflow/carbonflow/internal/model"
)

// CalculationContext is the input of one calculation session.
type CalculationContext struct {
	Name           string
	Nodes          []model.Node
	Edges          []model.Edge
	Flows          model.FlowRegistry
	Config         lcaconfig.CalculationConfig
	FunctionalUnit model.FunctionalUnit
	ReferenceFlow  model.FunctionalUnit
}

// NewCalculationContext builds a context from a product system.
func NewCalculationContext(sys model.ProductSystem, cfg lcaconfig.CalculationConfig) CalculationContext {
	return CalculationContext{
		Name:           sys.Name,
		Nodes:          sys.Nodes,
		Edges:          sys.Edges,
		Flows:          sys.Flows,
		Config:         cfg,
		FunctionalUnit: sys.FunctionalUnit,
		ReferenceFlow:  sys.ReferenceFlow,
	}
}

// mainProducts returns the nodes flagged isMainProduct.
func (c CalculationContext) mainProducts() []model.Node {
	var out []model.Node
	for _, n := range c.Nodes {
		if n.Data.IsMainProduct {
			out = append(out, n)
		}
	}
	return out
}
