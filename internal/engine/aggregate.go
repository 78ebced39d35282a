package engine

import (
	"fmt"
	"sort"
	"strings"

	"pv-bknd/internal/electrical"
	"pv-bknd/internal/models"
)

// defaultFieldName labels segments whose roof field is unknown.
const defaultFieldName = "Roof"

// Layout is the string configuration to check. Strings takes precedence;
// the scalar fields describe older projects without structured strings.
type Layout struct {
	Strings []models.ConfiguredString
	Fields  []models.RoofField

	PanelsPerString int
	TotalPanels     int
	StringsCount    int
}

// LayoutOf builds the layout of a saved project.
func LayoutOf(p *models.Project) Layout {
	total := p.TotalPanels()
	return Layout{
		Strings:         p.Inverter.ConfiguredStrings,
		Fields:          p.Fields,
		PanelsPerString: total,
		TotalPanels:     total,
		StringsCount:    1,
	}
}

// MpptGroup is the set of segments wired to one MPPT input.
type MpptGroup struct {
	Index    int
	Segments []models.ConfiguredString
}

// GroupByMppt partitions segments by MPPT index, ascending. Without
// structured segments it synthesises one group per legacy string.
func GroupByMppt(layout Layout) []MpptGroup {
	if len(layout.Strings) == 0 {
		count := layout.StringsCount
		if count <= 0 {
			count = 1
		}
		groups := make([]MpptGroup, 0, count)
		for i := 0; i < count; i++ {
			groups = append(groups, MpptGroup{
				Index: i + 1,
				Segments: []models.ConfiguredString{{
					ID:         fmt.Sprintf("legacy-%d", i),
					FieldID:    "legacy",
					PanelCount: layout.PanelsPerString,
					MpptIndex:  i + 1,
				}},
			})
		}
		return groups
	}

	byIndex := make(map[int][]models.ConfiguredString)
	for _, s := range layout.Strings {
		idx := s.Mppt()
		byIndex[idx] = append(byIndex[idx], s)
	}

	groups := make([]MpptGroup, 0, len(byIndex))
	for idx, segments := range byIndex {
		groups = append(groups, MpptGroup{Index: idx, Segments: segments})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Index < groups[j].Index })
	return groups
}

// GroupTotals are the unrounded sums behind an MpptAnalysis.
type GroupTotals struct {
	VocCold  float64
	VmpHot   float64
	IscMax   float64
	PvPowerW float64
}

// AnalyseMppt reduces one MPPT group. Segments on one input are in series, so
// corrected voltages add up weighted by panel count.
//
// The group current is the largest segment Isc, not a sum over parallel
// strings. This is conservative for series segments but under-estimates a
// tracker fed by genuinely parallel strings.
func AnalyseMppt(
	group MpptGroup,
	fields []models.RoofField,
	reference *models.Panel,
	specs *models.InverterElectricalSpecs,
	temps models.TempsUsed,
) (models.MpptAnalysis, GroupTotals) {
	var totals GroupTotals
	panelCount := 0
	names := make([]string, 0, len(group.Segments))

	for _, seg := range group.Segments {
		field := findField(fields, seg.FieldID)
		panel := reference
		if field != nil {
			panel = &field.Panels.Model
		}

		if panel != nil && panel.Electrical != nil {
			e := panel.Electrical
			coeff := electrical.TempCoeffOrDefault(e.TempCoeffVoc)
			n := float64(seg.PanelCount)
			totals.VocCold += electrical.CorrectForTemperature(e.Voc, coeff, temps.Min) * n
			totals.VmpHot += electrical.CorrectForTemperature(e.Vmp, coeff, temps.MaxCell) * n
			if e.Isc > totals.IscMax {
				totals.IscMax = e.Isc
			}
			totals.PvPowerW += panel.Power * n
		}

		panelCount += seg.PanelCount
		name := defaultFieldName
		if field != nil && field.Name != "" {
			name = field.Name
		}
		names = append(names, fmt.Sprintf("%s (%d)", name, seg.PanelCount))
	}

	analysis := models.MpptAnalysis{
		MpptIndex:       group.Index,
		Composition:     strings.Join(names, " + "),
		TotalPanelCount: panelCount,
		VocCold:         electrical.Round(totals.VocCold, 1),
		VmpHot:          electrical.Round(totals.VmpHot, 1),
		IscMax:          totals.IscMax,
		IscCalculation:  electrical.Round(totals.IscMax*electrical.IscSafetyFactor, 2),
	}
	if specs != nil {
		analysis.IsVoltageError = totals.VocCold > specs.MaxInputVoltage
		analysis.IsMpptWarning = totals.VmpHot < specs.MinMpptVoltage
		analysis.IsCurrentError = totals.IscMax > specs.MaxInputCurrent
	}
	return analysis, totals
}

func findField(fields []models.RoofField, id string) *models.RoofField {
	for i := range fields {
		if fields[i].ID == id {
			return &fields[i]
		}
	}
	return nil
}
