package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/carbonflow/carbonflow/internal/greenops"
	"github.com/carbonflow/carbonflow/internal/matching"
	"github.com/carbonflow/carbonflow/internal/model"
)

// inventoryItem ties an inventory entry to its source flow and node.
type inventoryItem struct {
	entry model.InventoryEntry
	flow  model.Flow
	node  model.Node
}

func stepInventory(ctx context.Context, r *run) (any, error) {
	cfg := r.in.Config
	alloc := cfg.Allocation.Factor
	if alloc == 0 {
		alloc = 1
	}

	warnedUnits := make(map[string]bool)
	for i, n := range r.in.Nodes {
		flows, synthesized, err := nodeFlows(n, r.in.Flows)
		if err != nil {
			return nil, err
		}
		for _, f := range flows {
			entry, err := inventoryEntry(n, f, alloc)
			if errors.Is(err, greenops.ErrInvalidUnit) {
				if !warnedUnits[f.Unit] {
					warnedUnits[f.Unit] = true
					r.warn(ctx, fmt.Sprintf("unit %q of flow %s is neither mass nor energy, quantity kept as given", f.Unit, f.ID))
				}
			} else if err != nil {
				return nil, computationErrorf(StepInventoryAnalysis, err, "flow %s of process %s", f.ID, n.ID)
			}
			entry.Synthesized = synthesized
			r.items = append(r.items, inventoryItem{entry: entry, flow: f, node: n})
		}
		r.progress(float64(i+1) / float64(len(r.in.Nodes)))
	}

	inv := model.InventoryResult{
		MassUnit:         greenops.MassUnit,
		EnergyUnit:       greenops.EnergyUnit,
		AllocationFactor: alloc,
	}
	for _, it := range r.items {
		switch {
		case it.entry.Unit == greenops.MassUnit && isMassCategory(it.entry.Category):
			inv.TotalMass += it.entry.Quantity
		case it.entry.Unit == greenops.EnergyUnit && it.entry.Category == model.FlowEnergy:
			inv.TotalEnergy += it.entry.Quantity
		}
	}
	for i := range r.items {
		e := &r.items[i].entry
		switch {
		case e.Unit == greenops.MassUnit && isMassCategory(e.Category):
			e.BelowCutoff = inv.TotalMass > 0 && e.Quantity < cfg.Cutoff.Mass*inv.TotalMass
		case e.Unit == greenops.EnergyUnit && e.Category == model.FlowEnergy:
			e.BelowCutoff = inv.TotalEnergy > 0 && e.Quantity < cfg.Cutoff.Energy*inv.TotalEnergy
		}
		inv.Entries = append(inv.Entries, *e)
	}

	r.inventory = inv
	return &inv, nil
}

// nodeFlows resolves the flow references of a node. A node without
// references gets the flows synthesized from its legacy fields.
func nodeFlows(n model.Node, registry model.FlowRegistry) ([]model.Flow, bool, error) {
	if n.Data.LCAFlows.Empty() {
		return matching.CreateFlowsFromNode(n), true, nil
	}

	ids := n.Data.LCAFlows.All()
	flows := make([]model.Flow, 0, len(ids))
	for _, id := range ids {
		f, ok := registry[id]
		if !ok {
			return nil, false, computationErrorf(StepInventoryAnalysis, nil,
				"process %s references flow %s missing from the flow registry", n.ID, id)
		}
		if ov, ok := n.Data.FlowOverrides[id]; ok {
			if ov.Quantity != nil {
				f.Quantity = *ov.Quantity
			}
			if ov.Unit != "" {
				f.Unit = ov.Unit
			}
		}
		if f.ID == "" {
			f.ID = id
		}
		flows = append(flows, f)
	}
	return flows, false, nil
}

// inventoryEntry converts a flow to canonical units and applies the
// allocation factor. With an unknown unit the raw quantity is returned
// together with greenops.ErrInvalidUnit.
func inventoryEntry(n model.Node, f model.Flow, alloc float64) (model.InventoryEntry, error) {
	e := model.InventoryEntry{
		NodeID:    n.ID,
		FlowID:    f.ID,
		Name:      f.Name,
		Substance: f.SubstanceName(),
		Category:  f.Category,
		Direction: f.Direction,
		Stage:     n.Data.LifecycleStage,
		Quantity:  f.Quantity.Float() * alloc,
		Unit:      f.Unit,
	}
	qty, unit, err := greenops.Normalize(e.Quantity, f.Unit)
	if err != nil {
		return e, err
	}
	e.Quantity, e.Unit = qty, unit
	return e, nil
}

func isMassCategory(c model.FlowCategory) bool {
	return c == model.FlowMaterial || c == model.FlowResource || c == model.FlowWaste
}
