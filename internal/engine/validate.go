package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dfs"

	"github.com/carbonflow/carbonflow/internal/model"
)

// ValidationSummary is the result of the validation step.
type ValidationSummary struct {
	MainProduct string   `json:"main_product" yaml:"main_product"`
	Nodes       int      `json:"nodes" yaml:"nodes"`
	Edges       int      `json:"edges" yaml:"edges"`
	Isolated    []string `json:"isolated,omitempty" yaml:"isolated,omitempty"`
	Dangling    []string `json:"dangling,omitempty" yaml:"dangling,omitempty"`
	Cyclic      bool     `json:"cyclic,omitempty" yaml:"cyclic,omitempty"`
	// Order is a topological order of the processes, empty when cyclic.
	Order []string `json:"order,omitempty" yaml:"order,omitempty"`
}

// CheckStructure runs the structural checks of the validation step
// without a session: main product, functional unit and reference flow.
// It returns every problem found.
func CheckStructure(in CalculationContext) []error {
	var errs []error
	switch mains := in.mainProducts(); len(mains) {
	case 1:
	case 0:
		errs = append(errs, validationErrorf(StepValidation, "product system must have exactly one main product, found none"))
	default:
		ids := make([]string, len(mains))
		for i, n := range mains {
			ids[i] = n.ID
		}
		errs = append(errs, validationErrorf(StepValidation,
			"product system must have exactly one main product, found %d (%s)", len(mains), strings.Join(ids, ", ")))
	}
	if !in.FunctionalUnit.Complete() {
		errs = append(errs, validationErrorf(StepValidation,
			"functional unit must have a positive value and a unit, got %q", in.FunctionalUnit.String()))
	}
	if !in.ReferenceFlow.Complete() {
		errs = append(errs, validationErrorf(StepValidation,
			"reference flow must have a positive value and a unit, got %q", in.ReferenceFlow.String()))
	}
	for _, n := range in.Nodes {
		if err := n.Data.CheckDetails(); err != nil {
			errs = append(errs, validationErrorf(StepValidation, "node %s: %v", n.ID, err))
		}
	}
	return errs
}

func stepValidate(ctx context.Context, r *run) (any, error) {
	if errs := CheckStructure(r.in); len(errs) > 0 {
		return nil, errs[0]
	}

	summary, err := inspectGraph(ctx, r.in.Nodes, r.in.Edges)
	if err != nil {
		return nil, computationErrorf(StepValidation, err, "building process graph")
	}
	summary.MainProduct = r.in.mainProducts()[0].ID

	for _, id := range summary.Isolated {
		r.warn(ctx, fmt.Sprintf("process %s is not connected to any other process", id))
	}
	for _, d := range summary.Dangling {
		r.warn(ctx, fmt.Sprintf("edge %s references an unknown process", d))
	}
	if summary.Cyclic {
		r.warn(ctx, "process graph contains a cycle")
	}
	return summary, nil
}

// inspectGraph loads the processes into a directed graph and reports
// isolated vertices, dangling edges and whether the graph is acyclic.
func inspectGraph(ctx context.Context, nodes []model.Node, edges []model.Edge) (*ValidationSummary, error) {
	g := core.NewGraph(core.WithDirected(true), core.WithLoops(), core.WithMultiEdges())
	summary := &ValidationSummary{Nodes: len(nodes), Edges: len(edges)}

	for _, n := range nodes {
		if err := g.AddVertex(n.ID); err != nil {
			return nil, fmt.Errorf("adding process %q: %w", n.ID, err)
		}
	}
	for _, e := range edges {
		if !g.HasVertex(e.Source) || !g.HasVertex(e.Target) {
			summary.Dangling = append(summary.Dangling, edgeName(e))
			continue
		}
		if _, err := g.AddEdge(e.Source, e.Target, 0); err != nil {
			return nil, fmt.Errorf("adding edge %s: %w", edgeName(e), err)
		}
	}

	if len(nodes) > 1 {
		for _, id := range g.Vertices() {
			in, out, _, err := g.Degree(id)
			if err != nil {
				return nil, err
			}
			if in+out == 0 {
				summary.Isolated = append(summary.Isolated, id)
			}
		}
	}

	order, err := dfs.TopologicalSort(g, dfs.WithCancelContext(ctx))
	switch {
	case errors.Is(err, dfs.ErrCycleDetected):
		summary.Cyclic = true
	case err != nil:
		return nil, err
	default:
		summary.Order = order
	}
	return summary, nil
}

func edgeName(e model.Edge) string {
	if e.ID != "" {
		return e.ID
	}
	return e.Source + "->" + e.Target
}

// ScopeSummary is the result of the goal and scope step.
type ScopeSummary struct {
	Boundary        string   `json:"boundary" yaml:"boundary"`
	OutsideBoundary []string `json:"outside_boundary,omitempty" yaml:"outside_boundary,omitempty"`
}

func stepGoalScope(ctx context.Context, r *run) (any, error) {
	b := r.in.Config.Boundary
	if len(b.Stages) == 0 {
		return nil, validationErrorf(StepGoalScope, "system boundary has no lifecycle stages")
	}

	summary := &ScopeSummary{Boundary: b.String()}
	for _, n := range r.in.Nodes {
		if n.Data.LifecycleStage == model.StageUnknown || b.Includes(n.Data.LifecycleStage) {
			continue
		}
		summary.OutsideBoundary = append(summary.OutsideBoundary, n.ID)
		r.warn(ctx, fmt.Sprintf("process %s (%s) lies outside the system boundary %s",
			n.ID, n.Data.LifecycleStage, b.Type))
	}
	return summary, nil
}
