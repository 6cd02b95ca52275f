package service

import (
	"fmt"
	"sort"

	"github.com/carbonflow/carbonflow/internal/greenops"
	"github.com/carbonflow/carbonflow/internal/model"
)

// DefaultTopN is the number of hotspots listed per dimension.
const DefaultTopN = 5

// Breakdown dimensions of a hotspot.
const (
	DimensionProcess  = "process"
	DimensionStage    = "stage"
	DimensionMaterial = "material"
	DimensionEnergy   = "energy"
)

// Hotspot is one ranked contributor.
type Hotspot struct {
	Dimension string `json:"dimension" yaml:"dimension"`
	model.ContributionEntry `yaml:",inline"`
}

// HotspotReport lists the leading contributors of a result.
type HotspotReport struct {
	StudyID     string    `json:"study_id" yaml:"study_id"`
	Total       float64   `json:"total" yaml:"total"`
	Unit        string    `json:"unit" yaml:"unit"`
	Hotspots    []Hotspot `json:"hotspots" yaml:"hotspots"`
	Suggestions []string  `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// GetHotspotAnalysis builds the hotspot report of a completed session.
func (s *Service) GetHotspotAnalysis(sessionID string, topN int) (*HotspotReport, error) {
	res, err := s.completedResult(sessionID)
	if err != nil {
		return nil, err
	}
	return HotspotAnalysis(res, topN), nil
}

// HotspotAnalysis lists the top-N entries of the process, stage, material
// and energy breakdowns with a suggestion for each leading one.
func HotspotAnalysis(res *model.LCAResult, topN int) *HotspotReport {
	if topN <= 0 {
		topN = DefaultTopN
	}
	r := &HotspotReport{
		StudyID: res.SystemInfo.StudyID,
		Total:   res.GWP(),
		Unit:    greenops.CarbonUnit,
	}

	dims := []struct {
		name string
		b    model.Breakdown
	}{
		{DimensionProcess, res.Contributions.ByProcess},
		{DimensionStage, res.Contributions.ByStage},
		{DimensionMaterial, res.Contributions.ByMaterial},
		{DimensionEnergy, res.Contributions.ByEnergy},
	}
	for _, d := range dims {
		for _, e := range d.b.Top(topN) {
			r.Hotspots = append(r.Hotspots, Hotspot{Dimension: d.name, ContributionEntry: e})
		}
		if len(d.b) > 0 {
			r.Suggestions = append(r.Suggestions, hotspotSuggestion(d.name, d.b[0]))
		}
	}
	return r
}

func hotspotSuggestion(dim string, top model.ContributionEntry) string {
	share := greenops.FormatPercent(top.RelativeContribution * 100)
	switch dim {
	case DimensionProcess:
		return fmt.Sprintf("Process %s accounts for %s of the footprint; review its inputs and efficiency", top.Label, share)
	case DimensionStage:
		return fmt.Sprintf("The %s stage accounts for %s of the footprint", top.Label, share)
	case DimensionMaterial:
		return fmt.Sprintf("%s is %s of material mass; consider recycled or lighter alternatives", top.Label, share)
	default:
		return fmt.Sprintf("%s is %s of energy use; consider efficiency measures or renewable supply", top.Label, share)
	}
}

// Priorities of improvement actions.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
)

// DimensionReport is one data-quality dimension with its level label.
type DimensionReport struct {
	Name  string `json:"name" yaml:"name"`
	Score int    `json:"score" yaml:"score"`
	Level string `json:"level" yaml:"level"`
}

// ImprovementAction is one step of the data-quality improvement plan.
type ImprovementAction struct {
	Dimension string `json:"dimension" yaml:"dimension"`
	Score     int    `json:"score" yaml:"score"`
	Priority  string `json:"priority" yaml:"priority"`
	Action    string `json:"action" yaml:"action"`
}

// DataQualityReport explains the data-quality scores of a result.
type DataQualityReport struct {
	StudyID      string              `json:"study_id" yaml:"study_id"`
	OverallScore float64             `json:"overall_score" yaml:"overall_score"`
	OverallLevel string              `json:"overall_level" yaml:"overall_level"`
	Dimensions   []DimensionReport   `json:"dimensions" yaml:"dimensions"`
	Plan         []ImprovementAction `json:"plan,omitempty" yaml:"plan,omitempty"`
}

// GetDataQualityReport builds the data-quality report of a completed session.
func (s *Service) GetDataQualityReport(sessionID string) (*DataQualityReport, error) {
	res, err := s.completedResult(sessionID)
	if err != nil {
		return nil, err
	}
	return QualityReport(res), nil
}

// QualityReport labels every dimension and plans improvements for the
// ones scoring 3 or worse, worst first.
func QualityReport(res *model.LCAResult) *DataQualityReport {
	q := res.DataQuality
	r := &DataQualityReport{
		StudyID:      res.SystemInfo.StudyID,
		OverallScore: q.OverallScore,
		OverallLevel: QualityLevel(int(q.OverallScore + 0.5)),
	}
	for _, d := range q.Dimensions() {
		r.Dimensions = append(r.Dimensions, DimensionReport{Name: d.Name, Score: d.Score, Level: QualityLevel(d.Score)})
		if d.Score < 3 {
			continue
		}
		priority := PriorityMedium
		if d.Score >= 4 {
			priority = PriorityHigh
		}
		r.Plan = append(r.Plan, ImprovementAction{
			Dimension: d.Name,
			Score:     d.Score,
			Priority:  priority,
			Action:    improvementActions[d.Name],
		})
	}
	sort.SliceStable(r.Plan, func(i, j int) bool { return r.Plan[i].Score > r.Plan[j].Score })
	return r
}

// QualityLevel labels a 1 (best) to 5 (worst) score.
func QualityLevel(score int) string {
	switch score {
	case 1:
		return "excellent"
	case 2:
		return "good"
	case 3:
		return "fair"
	case 4:
		return "poor"
	default:
		return "very poor"
	}
}

//nolint:gochecknoglobals // Static lookup of plan wording.
var improvementActions = map[string]string{
	"reliability":               "Have process data verified by suppliers or a third party",
	"completeness":              "Fill in the required stage fields of every process",
	"temporal_correlation":      "Replace data older than five years with recent measurements",
	"geographical_correlation":  "Use data from the region where the process takes place",
	"technological_correlation": "Use data for the technology actually in use",
}
