package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbonflow/carbonflow/internal/engine"
	"github.com/carbonflow/carbonflow/internal/factors"
	"github.com/carbonflow/carbonflow/internal/greenops"
	"github.com/carbonflow/carbonflow/internal/lcaconfig"
	"github.com/carbonflow/carbonflow/internal/model"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func legacyProduct(name string, footprint float64) model.ProductSystem {
	return model.ProductSystem{
		Name: name,
		Nodes: []model.Node{{
			ID: name,
			Data: model.NodeData{
				IsMainProduct:   true,
				LifecycleStage:  model.StageManufacture,
				CarbonFootprint: model.Number(footprint),
			},
		}},
		FunctionalUnit: model.FunctionalUnit{Value: 1, Unit: "piece"},
	}
}

func emissionProduct(name string, co2, so2 float64) model.ProductSystem {
	return model.ProductSystem{
		Name: name,
		Nodes: []model.Node{{
			ID: "p",
			Data: model.NodeData{
				IsMainProduct:  true,
				LifecycleStage: model.StageManufacture,
				LCAFlows:       model.FlowRefs{Emission: []string{"co2", "so2"}},
			},
		}},
		Flows: model.FlowRegistry{
			"co2": {Name: "co2", Category: model.FlowEmission, Direction: model.DirectionOutput, Quantity: model.Number(co2), Unit: "kg"},
			"so2": {Name: "so2", Category: model.FlowEmission, Direction: model.DirectionOutput, Quantity: model.Number(so2), Unit: "kg"},
		},
		FunctionalUnit: model.FunctionalUnit{Value: 1, Unit: "piece"},
	}
}

func basicConfig(t *testing.T) lcaconfig.CalculationConfig {
	t.Helper()
	cfg, err := lcaconfig.Preset(lcaconfig.PresetBasic)
	require.NoError(t, err)
	return cfg
}

func TestQuickAssessment(t *testing.T) {
	svc := New(nil)
	sys := model.ProductSystem{
		Nodes: []model.Node{{ID: "a", Data: model.NodeData{IsMainProduct: true, CarbonFactor: 1.0, Quantity: 10}}},
		// No reference flow: the functional unit is used.
		FunctionalUnit: model.FunctionalUnit{Value: 10, Unit: "kg"},
	}

	res, err := svc.QuickAssessment(testContext(t), sys, nil)
	require.NoError(t, err)
	assert.InDelta(t, 10, res.GWP(), 1e-9)
	assert.Equal(t, lcaconfig.PresetBasic, res.SystemInfo.ConfigName)
}

func TestProfessionalAssessmentWithOverrides(t *testing.T) {
	svc := New(nil)
	overrides := &lcaconfig.CalculationConfig{
		Uncertainty: lcaconfig.UncertaintyConfig{Iterations: 200, Seed: 3},
	}

	res, err := svc.ProfessionalAssessment(testContext(t), emissionProduct("p", 100, 1), overrides)
	require.NoError(t, err)
	require.NotNil(t, res.Uncertainty)
	assert.Equal(t, 200, res.Uncertainty.Iterations)

	acid, ok := res.Impact(factors.Acidification)
	require.True(t, ok)
	assert.InDelta(t, 1, acid.Value, 1e-9)
}

func TestAssessPropagatesValidationError(t *testing.T) {
	sys := legacyProduct("a", 5)
	sys.Nodes[0].Data.IsMainProduct = false

	_, err := New(nil).Assess(testContext(t), sys, basicConfig(t))
	require.ErrorIs(t, err, engine.ErrValidation)
}

func TestCompareProducts(t *testing.T) {
	svc := New(nil)
	baseline := legacyProduct("baseline", 100)
	better := legacyProduct("better", 60)
	worse := legacyProduct("worse", 140)

	cmp, err := svc.CompareProducts(testContext(t), baseline, []model.ProductSystem{better, worse}, basicConfig(t))
	require.NoError(t, err)
	require.Len(t, cmp.Alternatives, 2)

	b, ok := cmp.Alternatives[0].Improvement(factors.GWP)
	require.True(t, ok)
	assert.InDelta(t, 40, b.ImprovementPercent, 1e-9)

	w, _ := cmp.Alternatives[1].Improvement(factors.GWP)
	assert.InDelta(t, -40, w.ImprovementPercent, 1e-9)

	assert.Equal(t, "better", cmp.DominatingAlternative)
	assert.Empty(t, cmp.TradeOffs)
}

func TestCompareProductsTradeOff(t *testing.T) {
	cfg, err := lcaconfig.Preset(lcaconfig.PresetProfessional)
	require.NoError(t, err)
	cfg = lcaconfig.WithoutUncertainty(cfg)

	cmp, err := New(nil).CompareProducts(testContext(t),
		emissionProduct("base", 100, 1),
		[]model.ProductSystem{emissionProduct("mixed", 50, 2)},
		cfg)
	require.NoError(t, err)

	alt := cmp.Alternatives[0]
	assert.True(t, alt.TradeOff)
	require.Len(t, cmp.TradeOffs, 1)
	assert.Contains(t, cmp.TradeOffs[0], "mixed improves gwp but worsens acidification")
}

func TestCompareProductsErrors(t *testing.T) {
	svc := New(nil)
	_, err := svc.CompareProducts(testContext(t), legacyProduct("a", 1), nil, basicConfig(t))
	require.ErrorIs(t, err, ErrNoAlternatives)

	broken := legacyProduct("broken", 1)
	broken.FunctionalUnit = model.FunctionalUnit{}
	_, err = svc.CompareProducts(testContext(t), legacyProduct("a", 1), []model.ProductSystem{broken}, basicConfig(t))
	require.ErrorIs(t, err, engine.ErrValidation)
	assert.Contains(t, err.Error(), "broken")
}

func TestImprovementPercent(t *testing.T) {
	assert.InDelta(t, 25, ImprovementPercent(100, 75), 1e-9)
	assert.InDelta(t, -50, ImprovementPercent(100, 150), 1e-9)
	assert.Zero(t, ImprovementPercent(0, 10))
}

func TestCalculateCarbonFootprint(t *testing.T) {
	overrides := &lcaconfig.CalculationConfig{Uncertainty: lcaconfig.UncertaintyConfig{Seed: 11}}
	fp, err := New(nil).CalculateCarbonFootprint(testContext(t), legacyProduct("widget", 150), overrides)
	require.NoError(t, err)

	assert.InDelta(t, 150, fp.Total, 1e-9)
	assert.Equal(t, greenops.CarbonUnit, fp.Unit)
	require.NotNil(t, fp.Uncertainty)
	assert.Equal(t, 1000, fp.Uncertainty.Iterations)

	miles, ok := fp.Equivalencies.Find(greenops.EquivalencyMilesDriven)
	require.True(t, ok)
	assert.Equal(t, "781", miles.FormattedValue)

	require.NotEmpty(t, fp.Recommendations)
	assert.Contains(t, fp.Recommendations[0], "manufacturing stage contributes 100.0%")
}

func TestBatchCalculation(t *testing.T) {
	bad := legacyProduct("bad", 1)
	bad.Nodes[0].Data.IsMainProduct = false
	products := []model.ProductSystem{legacyProduct("one", 1), bad, legacyProduct("three", 3)}

	svc := New(nil, WithBatchSize(2), WithConcurrency(2))
	report, err := svc.BatchCalculation(testContext(t), products, basicConfig(t))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Items, 3)
	assert.True(t, report.Items[0].OK())
	assert.Equal(t, "bad", report.Items[1].Name)
	assert.Contains(t, report.Items[1].Error, "main product")
	assert.InDelta(t, 3, report.Items[2].Result.GWP(), 1e-9)
}

func TestHotspotAnalysisFromSession(t *testing.T) {
	svc := New(nil)
	ctx := testContext(t)

	sys := legacyProduct("main", 30)
	sys.Nodes = append(sys.Nodes, model.Node{ID: "supplier", Data: model.NodeData{
		Label: "Supplier", LifecycleStage: model.StageRawMaterial, CarbonFootprint: 70,
	}})
	sys.Edges = []model.Edge{{Source: "supplier", Target: "main"}}

	session, err := svc.Start(ctx, sys, basicConfig(t))
	require.NoError(t, err)
	_, err = svc.WaitForCompletion(ctx, session)
	require.NoError(t, err)

	report, err := svc.GetHotspotAnalysis(session.ID(), 1)
	require.NoError(t, err)
	assert.InDelta(t, 100, report.Total, 1e-9)
	require.Len(t, report.Hotspots, 2)
	assert.Equal(t, DimensionProcess, report.Hotspots[0].Dimension)
	assert.Equal(t, "Supplier", report.Hotspots[0].Label)
	assert.InDelta(t, 0.7, report.Hotspots[0].RelativeContribution, 1e-9)
	assert.Contains(t, report.Suggestions[0], "Supplier accounts for 70.0%")

	_, err = svc.GetHotspotAnalysis("unknown", 1)
	require.ErrorIs(t, err, engine.ErrSessionNotFound)
}

func TestReportsRequireCompletedSession(t *testing.T) {
	svc := New(nil)
	ctx := testContext(t)
	sys := legacyProduct("a", 1)
	sys.Nodes[0].Data.IsMainProduct = false

	session, err := svc.Start(ctx, sys, basicConfig(t))
	require.NoError(t, err)
	_, err = svc.WaitForCompletion(ctx, session)
	require.Error(t, err)

	_, err = svc.GetDataQualityReport(session.ID())
	require.ErrorIs(t, err, ErrSessionNotCompleted)
}

func TestQualityReport(t *testing.T) {
	res := &model.LCAResult{DataQuality: model.DataQualityResult{
		Reliability:              5,
		Completeness:             2,
		TemporalCorrelation:      3,
		GeographicalCorrelation:  4,
		TechnologicalCorrelation: 1,
		OverallScore:             3,
	}}

	r := QualityReport(res)
	assert.Equal(t, "fair", r.OverallLevel)
	require.Len(t, r.Dimensions, 5)
	assert.Equal(t, "very poor", r.Dimensions[0].Level)

	require.Len(t, r.Plan, 3)
	assert.Equal(t, "reliability", r.Plan[0].Dimension)
	assert.Equal(t, PriorityHigh, r.Plan[0].Priority)
	assert.Equal(t, "geographical_correlation", r.Plan[1].Dimension)
	assert.Equal(t, "temporal_correlation", r.Plan[2].Dimension)
	assert.Equal(t, PriorityMedium, r.Plan[2].Priority)
	assert.NotEmpty(t, r.Plan[2].Action)
}

func TestValidateInputData(t *testing.T) {
	svc := New(nil)
	cfg := basicConfig(t)

	t.Run("Valid", func(t *testing.T) {
		v := svc.ValidateInputData(testContext(t), legacyProduct("a", 1), cfg)
		assert.True(t, v.Valid)
		assert.Empty(t, v.Errors)
	})

	t.Run("Problems", func(t *testing.T) {
		sys := model.ProductSystem{
			Nodes: []model.Node{{ID: "a", Data: model.NodeData{
				LCAFlows: model.FlowRefs{Emission: []string{"ghost", "mystery"}},
			}}},
			Flows: model.FlowRegistry{
				"mystery": {Name: "zzqx", Category: model.FlowEmission, Quantity: 1, Unit: "kg"},
			},
			FunctionalUnit: model.FunctionalUnit{Value: 1, Unit: "kg"},
		}
		v := svc.ValidateInputData(testContext(t), sys, cfg)
		assert.False(t, v.Valid)
		assert.Len(t, v.Errors, 2)
		assert.Contains(t, v.Errors[0], "exactly one main product")
		assert.Contains(t, v.Errors[1], "ghost")
		assert.NotEmpty(t, v.Warnings)
	})
}
