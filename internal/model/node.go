package model

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// LifecycleStage identifies where a process sits in the product life cycle.
type LifecycleStage string

// Lifecycle stages.
const (
	StageUnknown     LifecycleStage = ""
	StageRawMaterial LifecycleStage = "raw_material"
	StageManufacture LifecycleStage = "manufacturing"
	StageDistribute  LifecycleStage = "distribution"
	StageUse         LifecycleStage = "use"
	StageEndOfLife   LifecycleStage = "end_of_life"
)

// AllStages lists the known stages in life-cycle order.
func AllStages() []LifecycleStage {
	return []LifecycleStage{StageRawMaterial, StageManufacture, StageDistribute, StageUse, StageEndOfLife}
}

// Valid reports whether s is a known stage (StageUnknown excluded).
func (s LifecycleStage) Valid() bool {
	for _, known := range AllStages() {
		if s == known {
			return true
		}
	}
	return false
}

// Label returns the stage name used in reports.
func (s LifecycleStage) Label() string {
	if s == StageUnknown {
		return "unspecified"
	}
	return string(s)
}

// Verification statuses of node data.
const (
	VerificationVerified   = "verified"
	VerificationUnverified = "unverified"
	VerificationEstimated  = "estimated"
)

// FlowRefs groups the flow registry ids referenced by a node.
type FlowRefs struct {
	Material []string `json:"material,omitempty" yaml:"material,omitempty"`
	Energy   []string `json:"energy,omitempty" yaml:"energy,omitempty"`
	Emission []string `json:"emission,omitempty" yaml:"emission,omitempty"`
	Waste    []string `json:"waste,omitempty" yaml:"waste,omitempty"`
	Service  []string `json:"service,omitempty" yaml:"service,omitempty"`
}

// All returns every referenced flow id in bucket order.
func (r FlowRefs) All() []string {
	out := make([]string, 0, len(r.Material)+len(r.Energy)+len(r.Emission)+len(r.Waste)+len(r.Service))
	out = append(out, r.Material...)
	out = append(out, r.Energy...)
	out = append(out, r.Emission...)
	out = append(out, r.Waste...)
	out = append(out, r.Service...)
	return out
}

// Empty reports whether no flow is referenced.
func (r FlowRefs) Empty() bool {
	return len(r.All()) == 0
}

// FlowOverride replaces a registry flow's quantity and/or unit for one node.
type FlowOverride struct {
	Quantity *Number `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Unit     string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// NodeData is the payload of a process node. Fields shared by every stage
// live here; stage-specific fields live in Details, whose concrete type is
// selected by LifecycleStage.
type NodeData struct {
	Label              string                  `json:"label,omitempty" yaml:"label,omitempty"`
	LifecycleStage     LifecycleStage          `json:"lifecycleStage,omitempty" yaml:"lifecycleStage,omitempty"`
	EmissionType       string                  `json:"emissionType,omitempty" yaml:"emissionType,omitempty"`
	CarbonFactor       Number                  `json:"carbonFactor,omitempty" yaml:"carbonFactor,omitempty"`
	CarbonFootprint    Number                  `json:"carbonFootprint,omitempty" yaml:"carbonFootprint,omitempty"`
	Quantity           Number                  `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Unit               string                  `json:"unit,omitempty" yaml:"unit,omitempty"`
	IsMainProduct      bool                    `json:"isMainProduct,omitempty" yaml:"isMainProduct,omitempty"`
	LCAFlows           FlowRefs                `json:"lcaFlows,omitempty" yaml:"lcaFlows,omitempty"`
	FlowOverrides      map[string]FlowOverride `json:"flowOverrides,omitempty" yaml:"flowOverrides,omitempty"`
	VerificationStatus string                  `json:"verificationStatus,omitempty" yaml:"verificationStatus,omitempty"`
	DataSource         string                  `json:"dataSource,omitempty" yaml:"dataSource,omitempty"`
	Details            StageDetails            `json:"details,omitempty" yaml:"details,omitempty"`
}

// Node is a process in the product system graph.
type Node struct {
	ID   string   `json:"id" yaml:"id"`
	Data NodeData `json:"data" yaml:"data"`
}

// Footprint returns the node's own carbon footprint: the declared
// carbonFootprint when positive, otherwise quantity × carbonFactor.
func (n Node) Footprint() float64 {
	if fp := n.Data.CarbonFootprint.Float(); fp > 0 {
		return fp
	}
	return n.Data.Quantity.Float() * n.Data.CarbonFactor.Float()
}

// DisplayName returns the label, falling back to the id.
func (n Node) DisplayName() string {
	if n.Data.Label != "" {
		return n.Data.Label
	}
	return n.ID
}

// Verified reports whether the node's data has been verified.
func (n Node) Verified() bool {
	return n.Data.VerificationStatus == VerificationVerified
}

// nodeDataWire mirrors NodeData with the details payload left undecoded.
type nodeDataWire struct {
	Label              string                  `json:"label" yaml:"label"`
	LifecycleStage     LifecycleStage          `json:"lifecycleStage" yaml:"lifecycleStage"`
	EmissionType       string                  `json:"emissionType" yaml:"emissionType"`
	CarbonFactor       Number                  `json:"carbonFactor" yaml:"carbonFactor"`
	CarbonFootprint    Number                  `json:"carbonFootprint" yaml:"carbonFootprint"`
	Quantity           Number                  `json:"quantity" yaml:"quantity"`
	Unit               string                  `json:"unit" yaml:"unit"`
	IsMainProduct      bool                    `json:"isMainProduct" yaml:"isMainProduct"`
	LCAFlows           FlowRefs                `json:"lcaFlows" yaml:"lcaFlows"`
	FlowOverrides      map[string]FlowOverride `json:"flowOverrides" yaml:"flowOverrides"`
	VerificationStatus string                  `json:"verificationStatus" yaml:"verificationStatus"`
	DataSource         string                  `json:"dataSource" yaml:"dataSource"`
}

func (w nodeDataWire) toNodeData() NodeData {
	return NodeData{
		Label:              w.Label,
		LifecycleStage:     w.LifecycleStage,
		EmissionType:       w.EmissionType,
		CarbonFactor:       w.CarbonFactor,
		CarbonFootprint:    w.CarbonFootprint,
		Quantity:           w.Quantity,
		Unit:               w.Unit,
		IsMainProduct:      w.IsMainProduct,
		LCAFlows:           w.LCAFlows,
		FlowOverrides:      w.FlowOverrides,
		VerificationStatus: w.VerificationStatus,
		DataSource:         w.DataSource,
	}
}

// UnmarshalYAML decodes the shared fields, then the details variant
// selected by lifecycleStage.
func (d *NodeData) UnmarshalYAML(value *yaml.Node) error {
	var wire nodeDataWire
	if err := value.Decode(&wire); err != nil {
		return err
	}
	*d = wire.toNodeData()

	var raw struct {
		Details yaml.Node `yaml:"details"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Details.Kind == 0 {
		return nil
	}
	details, err := newStageDetails(d.LifecycleStage)
	if err != nil {
		return fmt.Errorf("line %d: %w", raw.Details.Line, err)
	}
	if err = raw.Details.Decode(details); err != nil {
		return err
	}
	d.Details = details
	return nil
}

// UnmarshalJSON is the JSON counterpart of UnmarshalYAML.
func (d *NodeData) UnmarshalJSON(data []byte) error {
	var wire nodeDataWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*d = wire.toNodeData()

	var raw struct {
		Details json.RawMessage `json:"details"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Details) == 0 || string(raw.Details) == "null" {
		return nil
	}
	details, err := newStageDetails(d.LifecycleStage)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(raw.Details, details); err != nil {
		return err
	}
	d.Details = details
	return nil
}
