package model

import "fmt"

// StageDetails is the stage-specific payload of a node. Exactly one
// variant exists per lifecycle stage.
type StageDetails interface {
	// Stage returns the lifecycle stage this variant belongs to.
	Stage() LifecycleStage

	// RequiredFields reports, per required field name, whether it is filled.
	RequiredFields() map[string]bool
}

// RawMaterialDetails describes material extraction and supply.
type RawMaterialDetails struct {
	MaterialType    string  `json:"materialType,omitempty" yaml:"materialType,omitempty"`
	Supplier        string  `json:"supplier,omitempty" yaml:"supplier,omitempty"`
	Origin          string  `json:"origin,omitempty" yaml:"origin,omitempty"`
	RecycledContent float64 `json:"recycledContent,omitempty" yaml:"recycledContent,omitempty"`
}

// Stage implements StageDetails.
func (*RawMaterialDetails) Stage() LifecycleStage { return StageRawMaterial }

// RequiredFields implements StageDetails.
func (d *RawMaterialDetails) RequiredFields() map[string]bool {
	return map[string]bool{
		"materialType": d.MaterialType != "",
		"supplier":     d.Supplier != "",
		"origin":       d.Origin != "",
	}
}

// ManufacturingDetails describes a conversion process.
type ManufacturingDetails struct {
	EnergyConsumption float64 `json:"energyConsumption,omitempty" yaml:"energyConsumption,omitempty"`
	EnergyType        string  `json:"energyType,omitempty" yaml:"energyType,omitempty"`
	ProcessEfficiency float64 `json:"processEfficiency,omitempty" yaml:"processEfficiency,omitempty"`
	Facility          string  `json:"facility,omitempty" yaml:"facility,omitempty"`
}

// Stage implements StageDetails.
func (*ManufacturingDetails) Stage() LifecycleStage { return StageManufacture }

// RequiredFields implements StageDetails.
func (d *ManufacturingDetails) RequiredFields() map[string]bool {
	return map[string]bool{
		"energyConsumption": d.EnergyConsumption > 0,
		"energyType":        d.EnergyType != "",
		"processEfficiency": d.ProcessEfficiency > 0,
	}
}

// DistributionDetails describes a transport leg.
type DistributionDetails struct {
	TransportMode string  `json:"transportMode,omitempty" yaml:"transportMode,omitempty"`
	DistanceKm    float64 `json:"distanceKm,omitempty" yaml:"distanceKm,omitempty"`
	LoadFactor    float64 `json:"loadFactor,omitempty" yaml:"loadFactor,omitempty"`
	FuelType      string  `json:"fuelType,omitempty" yaml:"fuelType,omitempty"`
}

// Stage implements StageDetails.
func (*DistributionDetails) Stage() LifecycleStage { return StageDistribute }

// RequiredFields implements StageDetails.
func (d *DistributionDetails) RequiredFields() map[string]bool {
	return map[string]bool{
		"transportMode": d.TransportMode != "",
		"distanceKm":    d.DistanceKm > 0,
		"fuelType":      d.FuelType != "",
	}
}

// UseDetails describes the use phase.
type UseDetails struct {
	LifespanYears     float64 `json:"lifespanYears,omitempty" yaml:"lifespanYears,omitempty"`
	EnergyPerUse      float64 `json:"energyPerUse,omitempty" yaml:"energyPerUse,omitempty"`
	UsesPerYear       float64 `json:"usesPerYear,omitempty" yaml:"usesPerYear,omitempty"`
	MaintenanceEvents int     `json:"maintenanceEvents,omitempty" yaml:"maintenanceEvents,omitempty"`
}

// Stage implements StageDetails.
func (*UseDetails) Stage() LifecycleStage { return StageUse }

// RequiredFields implements StageDetails.
func (d *UseDetails) RequiredFields() map[string]bool {
	return map[string]bool{
		"lifespanYears": d.LifespanYears > 0,
		"energyPerUse":  d.EnergyPerUse > 0,
		"usesPerYear":   d.UsesPerYear > 0,
	}
}

// EndOfLifeDetails describes disposal and recovery.
type EndOfLifeDetails struct {
	DisposalMethod string  `json:"disposalMethod,omitempty" yaml:"disposalMethod,omitempty"`
	RecyclingRate  float64 `json:"recyclingRate,omitempty" yaml:"recyclingRate,omitempty"`
	LandfillRate   float64 `json:"landfillRate,omitempty" yaml:"landfillRate,omitempty"`
}

// Stage implements StageDetails.
func (*EndOfLifeDetails) Stage() LifecycleStage { return StageEndOfLife }

// RequiredFields implements StageDetails.
func (d *EndOfLifeDetails) RequiredFields() map[string]bool {
	return map[string]bool{
		"disposalMethod": d.DisposalMethod != "",
		"recyclingRate":  d.RecyclingRate > 0 || d.LandfillRate > 0,
	}
}

// newStageDetails allocates the details variant for a stage.
func newStageDetails(stage LifecycleStage) (StageDetails, error) {
	switch stage {
	case StageRawMaterial:
		return &RawMaterialDetails{}, nil
	case StageManufacture:
		return &ManufacturingDetails{}, nil
	case StageDistribute:
		return &DistributionDetails{}, nil
	case StageUse:
		return &UseDetails{}, nil
	case StageEndOfLife:
		return &EndOfLifeDetails{}, nil
	default:
		return nil, fmt.Errorf("details given for unknown lifecycle stage %q", stage)
	}
}

// CheckDetails reports an error when Details does not belong to the
// node's lifecycle stage.
func (d NodeData) CheckDetails() error {
	if d.Details == nil {
		return nil
	}
	if d.Details.Stage() != d.LifecycleStage {
		return fmt.Errorf("details of stage %q attached to node of stage %q",
			d.Details.Stage(), d.LifecycleStage)
	}
	return nil
}
