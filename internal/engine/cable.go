package engine

import (
	"fmt"
	"math"

	"pv-bknd/internal/catalog"
	"pv-bknd/internal/electrical"
	"pv-bknd/internal/models"
	"pv-bknd/internal/standards"
)

// thermalSteps is the simplified ampacity ladder, identical for single and
// three-phase: above each current the section moves up one step.
var thermalSteps = []struct {
	aboveA     float64
	sectionMm2 float64
}{
	{25, 6},
	{32, 10},
	{45, 16},
	{63, 25},
}

// minDcSectionMm2 is the smallest stocked solar cable.
const minDcSectionMm2 = 6.0

type cablePart struct {
	maxSectionMm2 float64
	mono, tri     string
}

var acParts = []cablePart{
	{2.5, "81010312509205", "81010512509205"},
	{6, "810103100609205", "810105100609205"},
	{10, "810103101009205", "810105101009205"},
	{16, "CABLE-R2V-3G16-C", "CABLE-R2V-5G16-C"},
	{math.Inf(1), "CABLE-R2V-3G25-C", "CABLE-R2V-5G25-C"},
}

var dcParts = map[float64]string{
	6:  "821101000609200",
	10: "CABLE-DC-10MM",
}

func thermalMinSection(currentA float64) float64 {
	section := standards.Sections()[0]
	for _, s := range thermalSteps {
		if currentA > s.aboveA {
			section = s.sectionMm2
		}
	}
	return section
}

// nextInLadder returns the smallest ladder section >= minimum.
func nextInLadder(ladder []float64, minimum float64) (float64, bool) {
	for _, s := range ladder {
		if s >= minimum {
			return s, true
		}
	}
	return 0, false
}

// SizeAcCable selects the AC section between inverter and panel board as the
// largest of the thermal, voltage-drop and breaker-coordination minima. A
// forced section is rounded up to the ladder and replaces the computed one;
// checking it against the breaker is left to the caller. It returns false
// when power or distance is not positive.
func SizeAcCable(powerW, distanceM float64, threePhase bool, forcedSection *float64, repo catalog.Repository) (models.CableSelection, bool) {
	if powerW <= 0 || distanceM <= 0 {
		return models.CableSelection{}, false
	}

	voltage := electrical.NominalVoltage(threePhase)
	current := electrical.NominalCurrent(powerW, threePhase)

	thermal := thermalMinSection(current)
	protection := standards.MinSectionForBreaker(electrical.BreakerRating(current))
	drop := electrical.SectionForDrop(distanceM, current, voltage*electrical.AcDropTargetPercent/100, threePhase)

	ladder := standards.Sections()
	required := math.Max(thermal, math.Max(drop, protection))
	selected, ok := nextInLadder(ladder, required)
	if !ok {
		selected = ladder[len(ladder)-1]
	}

	forced := false
	if forcedSection != nil && *forcedSection > 0 {
		if s, ok := nextInLadder(ladder, *forcedSection); ok {
			selected = s
			forced = true
		}
	}

	id := acPartID(selected, threePhase)
	conductors := "3G"
	if threePhase {
		conductors = "5G"
	}
	part := catalog.Lookup(repo, id, fmt.Sprintf("CABLE R2V %s%g C50", conductors, selected))

	return models.CableSelection{
		SectionMm2:       selected,
		CurrentA:         current,
		ThermalMinMm2:    thermal,
		DropMinMm2:       drop,
		ProtectionMinMm2: protection,
		Forced:           forced,
		Material:         models.MaterialOf(part, math.Ceil(distanceM/electrical.AcCoilLengthM)),
	}, true
}

func acPartID(section float64, threePhase bool) string {
	for _, p := range acParts {
		if section <= p.maxSectionMm2 {
			if threePhase {
				return p.tri
			}
			return p.mono
		}
	}
	return ""
}

// AcVoltageDropPercent returns the drop of the AC link in percent of the
// nominal voltage, or 0 when any input is not positive.
func AcVoltageDropPercent(powerW, distanceM, sectionMm2 float64, threePhase bool) float64 {
	if powerW <= 0 || distanceM <= 0 || sectionMm2 <= 0 {
		return 0
	}
	current := electrical.NominalCurrent(powerW, threePhase)
	dropV := electrical.VoltageDrop(distanceM, current, sectionMm2, threePhase)
	return electrical.DropPercent(dropV, electrical.NominalVoltage(threePhase))
}

// SizeDcCable selects the DC string cable for a design current (usually Isc
// with its safety factor) and string voltage. Drop uses the round-trip
// factor 2 and the 1 % target. It returns false when current or distance is
// not positive.
func SizeDcCable(currentA, stringVoltageV, distanceM float64, forcedSection *float64, repo catalog.Repository) (models.CableSelection, bool) {
	if currentA <= 0 || distanceM <= 0 {
		return models.CableSelection{}, false
	}

	ladder := dcLadder()
	thermal, ok := standards.MinDcSectionForCurrent(currentA)
	if !ok {
		thermal = ladder[len(ladder)-1]
	}
	drop := 0.0
	if stringVoltageV > 0 {
		drop = electrical.SectionForDrop(distanceM, currentA, stringVoltageV*electrical.DcDropTargetPercent/100, false)
	}

	required := math.Max(minDcSectionMm2, math.Max(thermal, drop))
	selected, ok := nextInLadder(ladder, required)
	if !ok {
		selected = ladder[len(ladder)-1]
	}

	forced := false
	if forcedSection != nil && *forcedSection > 0 {
		if s, ok := nextInLadder(ladder, *forcedSection); ok {
			selected = s
			forced = true
		}
	}

	id, known := dcParts[selected]
	if !known {
		id = fmt.Sprintf("CABLE-DC-%gMM", selected)
	}
	part := catalog.Lookup(repo, id, fmt.Sprintf("DC solar cable H1Z2Z2-K %gmm²", selected))
	quantity := math.Max(1, math.Ceil(2*distanceM/electrical.DcCoilLengthM))

	return models.CableSelection{
		SectionMm2:    selected,
		CurrentA:      currentA,
		ThermalMinMm2: thermal,
		DropMinMm2:    drop,
		Forced:        forced,
		Material:      models.MaterialOf(part, quantity),
	}, true
}

func dcLadder() []float64 {
	var out []float64
	for _, s := range standards.DcSections() {
		if s >= minDcSectionMm2 {
			out = append(out, s)
		}
	}
	return out
}

// CheckAcLink sizes the AC link and checks it against the breaker protecting
// it. A non-positive breakerA is estimated from the nominal current. It
// returns nil when the cable cannot be sized.
func CheckAcLink(powerW, distanceM float64, threePhase bool, forcedSection *float64, breakerA float64, repo catalog.Repository) *models.AcLinkCheck {
	cable, ok := SizeAcCable(powerW, distanceM, threePhase, forcedSection, repo)
	if !ok {
		return nil
	}
	if breakerA <= 0 {
		breakerA = electrical.BreakerRating(cable.CurrentA)
	}
	drop := AcVoltageDropPercent(powerW, distanceM, cable.SectionMm2, threePhase)
	return &models.AcLinkCheck{
		Cable:              cable,
		VoltageDropPct:     drop,
		BreakerA:           breakerA,
		ProtectionTooHigh:  standards.IsProtectionTooHighForSection(cable.SectionMm2, breakerA),
		SectionOversized:   standards.IsSectionOversizedForRating(cable.SectionMm2, breakerA),
		DropAboveTarget:    drop > electrical.AcDropTargetPercent,
		DropAboveHardLimit: drop > electrical.AcDropLimitPercent,
	}
}
