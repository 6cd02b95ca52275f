// Package ingest loads product systems exported by the graph editor from
// YAML or JSON files.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/carbonflow/carbonflow/internal/logging"
	"github.com/carbonflow/carbonflow/internal/model"
)

// Format is the encoding of a product system document.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrEmptyDocument indicates a document without any process node.
var ErrEmptyDocument = errors.New("product system document has no nodes")

// FormatForPath picks the format from the file extension. Anything that is
// not .json is read as YAML.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Catalog is a document holding several product systems, optionally
// sharing one flow registry.
type Catalog struct {
	Flows    model.FlowRegistry    `json:"flows,omitempty" yaml:"flows,omitempty"`
	Products []model.ProductSystem `json:"products" yaml:"products"`
}

// ParseProductSystem decodes a single product system.
func ParseProductSystem(ctx context.Context, data []byte, format Format) (*model.ProductSystem, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Str("component", "ingest").
		Str("operation", "parse_product_system").
		Str("format", string(format)).
		Int("data_size_bytes", len(data)).
		Msg("parsing product system")

	var sys model.ProductSystem
	if err := decode(data, format, &sys); err != nil {
		log.Error().
			Str("component", "ingest").
			Err(err).
			Msg("failed to parse product system")
		return nil, fmt.Errorf("parsing product system: %w", err)
	}
	if len(sys.Nodes) == 0 {
		return nil, ErrEmptyDocument
	}
	normalize(&sys, nil)

	log.Debug().
		Str("component", "ingest").
		Str("product", sys.Name).
		Int("node_count", len(sys.Nodes)).
		Int("edge_count", len(sys.Edges)).
		Int("flow_count", len(sys.Flows)).
		Msg("product system parsed successfully")
	return &sys, nil
}

// LoadProductSystem reads and parses a product system file.
func LoadProductSystem(ctx context.Context, path string) (*model.ProductSystem, error) {
	data, err := readFile(ctx, path)
	if err != nil {
		return nil, err
	}
	sys, err := ParseProductSystem(ctx, data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sys.Name == "" {
		sys.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sys, nil
}

// ParseCatalog decodes a multi-product document. Each product's flow
// registry is layered over the shared one, the product's entries winning.
func ParseCatalog(ctx context.Context, data []byte, format Format) ([]model.ProductSystem, error) {
	var cat Catalog
	if err := decode(data, format, &cat); err != nil {
		return nil, fmt.Errorf("parsing product catalog: %w", err)
	}
	if len(cat.Products) == 0 {
		return nil, fmt.Errorf("parsing product catalog: %w", ErrEmptyDocument)
	}
	for i := range cat.Products {
		if len(cat.Products[i].Nodes) == 0 {
			return nil, fmt.Errorf("product %d (%s): %w", i, cat.Products[i].Name, ErrEmptyDocument)
		}
		normalize(&cat.Products[i], cat.Flows)
		if cat.Products[i].Name == "" {
			cat.Products[i].Name = fmt.Sprintf("product-%d", i+1)
		}
	}

	logging.FromContext(ctx).Debug().
		Str("component", "ingest").
		Str("operation", "parse_catalog").
		Int("product_count", len(cat.Products)).
		Int("shared_flow_count", len(cat.Flows)).
		Msg("product catalog parsed successfully")
	return cat.Products, nil
}

// LoadProducts reads every path. A file with a top-level products list
// contributes all of them; any other file is a single product system.
func LoadProducts(ctx context.Context, paths ...string) ([]model.ProductSystem, error) {
	var out []model.ProductSystem
	for _, path := range paths {
		data, err := readFile(ctx, path)
		if err != nil {
			return nil, err
		}
		format := FormatForPath(path)

		if isCatalog(data, format) {
			products, catErr := ParseCatalog(ctx, data, format)
			if catErr != nil {
				return nil, fmt.Errorf("%s: %w", path, catErr)
			}
			out = append(out, products...)
			continue
		}

		sys, err := LoadProductSystem(ctx, path)
		if err != nil {
			return nil, err
		}
		out = append(out, *sys)
	}
	return out, nil
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Str("component", "ingest").
		Str("operation", "load_product_system").
		Str("path", path).
		Msg("loading product system")

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().
			Str("component", "ingest").
			Err(err).
			Str("path", path).
			Msg("failed to read product system file")
		return nil, fmt.Errorf("reading product system file: %w", err)
	}
	return data, nil
}

func decode(data []byte, format Format, v any) error {
	if format == FormatJSON {
		return json.Unmarshal(data, v)
	}
	return yaml.Unmarshal(data, v)
}

func isCatalog(data []byte, format Format) bool {
	var probe map[string]any
	if err := decode(data, format, &probe); err != nil {
		return false
	}
	_, ok := probe["products"]
	return ok
}

// normalize fills flow ids from their registry keys and layers the
// product's registry over shared.
func normalize(sys *model.ProductSystem, shared model.FlowRegistry) {
	if len(shared) > 0 {
		merged := make(model.FlowRegistry, len(shared)+len(sys.Flows))
		maps.Copy(merged, shared)
		maps.Copy(merged, sys.Flows)
		sys.Flows = merged
	}
	for id, f := range sys.Flows {
		if f.ID == "" {
			f.ID = id
			sys.Flows[id] = f
		}
	}
}
