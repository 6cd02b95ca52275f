package engine

import (
	"context"

	"github.com/carbonflow/carbonflow/internal/model"
)

func (e *Engine) stepFinalize(_ context.Context, r *run) (any, error) {
	cfg := r.in.Config
	info := model.SystemInfo{
		StudyID:        r.session.id,
		ProductName:    r.in.Name,
		FunctionalUnit: r.in.FunctionalUnit.String(),
		SystemBoundary: cfg.Boundary.String(),
		ImpactMethod:   cfg.ImpactMethod,
		ConfigName:     cfg.Name,
		Timestamp:      e.now(),
		Warnings:       r.session.warningsCopy(),
	}
	if info.ProductName == "" {
		info.ProductName = r.in.mainProducts()[0].DisplayName()
	}

	res := &model.LCAResult{
		SystemInfo:    info,
		Inventory:     r.inventory,
		Impacts:       r.impacts,
		Contributions: r.contrib,
		Uncertainty:   r.uncertainty,
		DataQuality:   r.quality,
	}
	res.SystemInfo.PerFunctionalUnit = res.GWP() / r.in.FunctionalUnit.Value
	r.result = res
	return &res.SystemInfo, nil
}
