package ingest_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbonflow/carbonflow/internal/ingest"
	"github.com/carbonflow/carbonflow/internal/model"
)

const bottleYAML = `
name: Water bottle
functionalUnit:
  value: 1000
  unit: bottles
nodes:
  - id: pet
    data:
      label: PET granulate
      lifecycleStage: raw_material
      quantity: "20"
      unit: kg
      carbonFactor: "2.15"
      details:
        materialType: PET
        origin: EU
  - id: molding
    data:
      label: Blow molding
      lifecycleStage: manufacturing
      isMainProduct: true
      lcaFlows:
        energy: [grid]
      flowOverrides:
        grid:
          quantity: 50
flows:
  grid:
    name: Electricity, grid mix
    category: energy
    direction: input
    quantity: 40
    unit: kWh
edges:
  - id: e1
    source: pet
    target: molding
`

const bottleJSON = `{
  "nodes": [
    {"id": "a", "data": {"label": "A", "lifecycleStage": "use", "isMainProduct": true,
      "carbonFootprint": 12.5, "details": {"lifespanYears": 3}}}
  ],
  "functionalUnit": {"value": 1, "unit": "piece"}
}`

const catalogYAML = `
flows:
  co2:
    name: Carbon dioxide
    category: emission
    direction: output
    quantity: 1
    unit: kg
products:
  - name: baseline
    nodes:
      - id: p
        data: {lifecycleStage: manufacturing, isMainProduct: true, lcaFlows: {emission: [co2]}}
  - nodes:
      - id: q
        data: {lifecycleStage: manufacturing, isMainProduct: true, lcaFlows: {emission: [co2]}}
    flows:
      co2:
        name: Carbon dioxide
        category: emission
        direction: output
        quantity: 2
        unit: kg
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadProductSystem_YAML(t *testing.T) {
	sys, err := ingest.LoadProductSystem(context.Background(), writeFile(t, "bottle.yaml", bottleYAML))
	require.NoError(t, err)

	assert.Equal(t, "Water bottle", sys.Name)
	require.Len(t, sys.Nodes, 2)
	assert.InDelta(t, 43.0, sys.Nodes[0].Footprint(), 1e-9)

	details, ok := sys.Nodes[0].Data.Details.(*model.RawMaterialDetails)
	require.True(t, ok)
	assert.Equal(t, "PET", details.MaterialType)

	main := sys.MainProducts()
	require.Len(t, main, 1)
	assert.Equal(t, "molding", main[0].ID)
	assert.InDelta(t, 50.0, main[0].Data.FlowOverrides["grid"].Quantity.Float(), 1e-9)

	assert.Equal(t, "grid", sys.Flows["grid"].ID, "flow id filled from registry key")
	assert.Equal(t, model.FlowEnergy, sys.Flows["grid"].Category)
}

func TestLoadProductSystem_JSONNameFromFile(t *testing.T) {
	sys, err := ingest.LoadProductSystem(context.Background(), writeFile(t, "chair.json", bottleJSON))
	require.NoError(t, err)

	assert.Equal(t, "chair", sys.Name)
	assert.InDelta(t, 12.5, sys.Nodes[0].Footprint(), 1e-9)
	_, ok := sys.Nodes[0].Data.Details.(*model.UseDetails)
	assert.True(t, ok)
}

func TestParseProductSystem_Errors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format ingest.Format
		target error
	}{
		{name: "malformed yaml", data: "nodes: [", format: ingest.FormatYAML},
		{name: "malformed json", data: "{", format: ingest.FormatJSON},
		{name: "no nodes", data: "name: empty\n", format: ingest.FormatYAML, target: ingest.ErrEmptyDocument},
		{
			name:   "details for unknown stage",
			data:   "nodes:\n  - id: x\n    data:\n      details: {origin: EU}\n",
			format: ingest.FormatYAML,
		},
		{
			name:   "bad number",
			data:   `{"nodes":[{"id":"x","data":{"quantity":"lots"}}]}`,
			format: ingest.FormatJSON,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ingest.ParseProductSystem(context.Background(), []byte(tc.data), tc.format)
			require.Error(t, err)
			if tc.target != nil {
				assert.ErrorIs(t, err, tc.target)
			}
		})
	}
}

func TestLoadProductSystem_FileNotFound(t *testing.T) {
	_, err := ingest.LoadProductSystem(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading product system file")
}

func TestLoadProducts_Catalog(t *testing.T) {
	catalog := writeFile(t, "catalog.yaml", catalogYAML)
	single := writeFile(t, "bottle.yml", bottleYAML)

	products, err := ingest.LoadProducts(context.Background(), catalog, single)
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, "baseline", products[0].Name)
	assert.Equal(t, "product-2", products[1].Name)
	assert.Equal(t, "Water bottle", products[2].Name)

	assert.InDelta(t, 1.0, products[0].Flows["co2"].Quantity.Float(), 1e-9, "shared registry")
	assert.InDelta(t, 2.0, products[1].Flows["co2"].Quantity.Float(), 1e-9, "product registry wins")
	assert.Equal(t, "co2", products[1].Flows["co2"].ID)
}

func TestParseCatalog_Errors(t *testing.T) {
	_, err := ingest.ParseCatalog(context.Background(), []byte("products: []\n"), ingest.FormatYAML)
	require.ErrorIs(t, err, ingest.ErrEmptyDocument)

	_, err = ingest.ParseCatalog(context.Background(), []byte("products:\n  - name: hollow\n"), ingest.FormatYAML)
	require.ErrorIs(t, err, ingest.ErrEmptyDocument)
	assert.Contains(t, err.Error(), "hollow")
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, ingest.FormatJSON, ingest.FormatForPath("a/b.JSON"))
	assert.Equal(t, ingest.FormatYAML, ingest.FormatForPath("a/b.yaml"))
	assert.Equal(t, ingest.FormatYAML, ingest.FormatForPath("noext"))
}
