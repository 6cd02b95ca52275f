package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbonflow/carbonflow/internal/model"
)

func TestCreateFlowsFromNode(t *testing.T) {
	t.Run("legacy footprint only", func(t *testing.T) {
		node := model.Node{ID: "n1", Data: model.NodeData{
			IsMainProduct: true, CarbonFactor: 1.0, Quantity: 10,
		}}

		flows := CreateFlowsFromNode(node)

		require.Len(t, flows, 1)
		assert.Equal(t, "n1"+LegacyEmissionSuffix, flows[0].ID)
		assert.Equal(t, model.FlowEmission, flows[0].Category)
		assert.Equal(t, CarbonSubstance, flows[0].Substance)
		assert.InDelta(t, 10.0, flows[0].Quantity.Float(), 1e-12)
	})

	t.Run("legacy with mass input", func(t *testing.T) {
		node := model.Node{ID: "n2", Data: model.NodeData{
			EmissionType: "steel", CarbonFactor: 2.3, Quantity: 4, Unit: "kg",
		}}

		flows := CreateFlowsFromNode(node)

		require.Len(t, flows, 2)
		assert.InDelta(t, 9.2, flows[0].Quantity.Float(), 1e-12)
		assert.Equal(t, model.FlowMaterial, flows[1].Category)
		assert.Equal(t, model.DirectionInput, flows[1].Direction)
		assert.Equal(t, "steel", flows[1].Name)
	})

	t.Run("energy input", func(t *testing.T) {
		node := model.Node{ID: "n3", Data: model.NodeData{
			EmissionType: "electricity", CarbonFootprint: 5, Quantity: 20, Unit: "kWh",
		}}

		flows := CreateFlowsFromNode(node)

		require.Len(t, flows, 2)
		assert.Equal(t, model.FlowEnergy, flows[1].Category)
	})

	t.Run("node with references", func(t *testing.T) {
		node := model.Node{ID: "n4", Data: model.NodeData{
			CarbonFootprint: 5,
			LCAFlows:        model.FlowRefs{Emission: []string{"e1"}},
		}}
		assert.Nil(t, CreateFlowsFromNode(node))
	})

	t.Run("nothing to synthesize", func(t *testing.T) {
		assert.Empty(t, CreateFlowsFromNode(model.Node{ID: "n5"}))
	})
}

func TestBatchMatchNodeFlows(t *testing.T) {
	svc := newTestService(t)
	registry := model.FlowRegistry{
		"m1": {ID: "m1", Name: "钢材", Category: model.FlowMaterial, Quantity: 2, Unit: "kg"},
		"e1": {ID: "e1", Name: "CO2", Category: model.FlowEmission, Quantity: 5, Unit: "kg"},
		"e2": {ID: "e2", Name: "tailpipe exhaust", Category: model.FlowEmission, Quantity: 1, Unit: "kg"},
	}
	node := model.Node{ID: "truck", Data: model.NodeData{
		LifecycleStage: model.StageDistribute,
		LCAFlows: model.FlowRefs{
			Material: []string{"m1"},
			Emission: []string{"e1", "e2", "ghost"},
		},
	}}

	summary := svc.BatchMatchNodeFlows(context.Background(), node, registry)

	assert.Equal(t, "truck", summary.NodeID)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 3, summary.Matched)
	assert.Equal(t, 1, summary.LowConfidence)
	assert.Equal(t, 1, summary.Unmatched)
	assert.False(t, summary.Synthesized)
	assert.Len(t, summary.Suggestions, 2)
	assert.Equal(t, "ghost", summary.Results[3].FlowID)
}

func TestBatchMatchNodeFlows_Legacy(t *testing.T) {
	svc := newTestService(t)
	node := model.Node{ID: "n", Data: model.NodeData{CarbonFactor: 1, Quantity: 10}}

	summary := svc.BatchMatchNodeFlows(context.Background(), node, nil)

	assert.True(t, summary.Synthesized)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Matched)
	assert.Empty(t, summary.Suggestions)
}
