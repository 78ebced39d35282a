package engine

import (
	"fmt"
	"math"
	"strings"

	"pv-bknd/internal/catalog"
	"pv-bknd/internal/electrical"
	"pv-bknd/internal/models"
)

const defaultBranchSectionMm2 = 2.5

// DistributionErrorPrefix starts the error raised when branch counts do not
// add up to the required number of micro-inverters.
const DistributionErrorPrefix = "Branch distribution:"

// MicroPowerUnknownWarning is raised when neither the caller nor the catalog
// gives the micro-inverter AC power, so branch currents and drops read 0.
const MicroPowerUnknownWarning = "Micro-inverter power unknown; branch current and voltage drop not computed."

// microSpecs returns the catalog specs of the configured model when it is a
// micro-inverter.
func microSpecs(cfg models.InverterConfig, repo catalog.Repository) *models.InverterElectricalSpecs {
	if repo == nil || cfg.Model == "" {
		return nil
	}
	c, ok := repo.Get(cfg.Model)
	if !ok || !IsMicroInverter(c.Inverter) {
		return nil
	}
	return c.Inverter
}

// IsMicroSystem reports whether the configuration uses micro-inverters: the
// catalog family when the model is known, else the brand.
func IsMicroSystem(cfg models.InverterConfig, repo catalog.Repository) bool {
	if repo != nil && cfg.Model != "" {
		if c, ok := repo.Get(cfg.Model); ok && c.Inverter != nil {
			return IsMicroInverter(c.Inverter)
		}
	}
	switch cfg.Brand {
	case models.BrandEnphase, models.BrandAPSystems:
		return true
	case models.BrandFoxESS:
		return strings.Contains(cfg.Model, "MICRO")
	}
	return false
}

// InputsPerMicro is the number of panels one micro-inverter accepts.
func InputsPerMicro(cfg models.InverterConfig, repo catalog.Repository) int {
	if specs := microSpecs(cfg, repo); specs != nil && specs.MpptCount > 0 {
		return specs.MpptCount
	}
	switch {
	case cfg.Brand == models.BrandAPSystems:
		return 2
	case cfg.Brand == models.BrandFoxESS && strings.Contains(cfg.Model, "2000"):
		return 4
	case cfg.Brand == models.BrandFoxESS && strings.Contains(cfg.Model, "MICRO"):
		return 2
	}
	return 1
}

// ComputeRequiredMicros returns the number of micro-inverters needed for all
// panels of the project.
func ComputeRequiredMicros(p *models.Project, repo catalog.Repository) int {
	total := p.TotalPanels()
	if total <= 0 {
		return 0
	}
	inputs := InputsPerMicro(p.Inverter, repo)
	return int(math.Ceil(float64(total) / float64(inputs)))
}

func defaultBranchPhase(cfg models.InverterConfig) models.Phase {
	if cfg.IsThreePhase() {
		return models.PhaseL1
	}
	return models.PhaseMono
}

// EnsureDefaultMicroBranches returns the configured branches with defaults
// applied, or a single branch holding every required micro when none is
// configured. The project is not modified.
func EnsureDefaultMicroBranches(p *models.Project, repo catalog.Repository) []models.MicroBranch {
	section := defaultBranchSectionMm2
	if rule := MicroBranchRuleFor(p.Inverter.Brand, p.Inverter.Model); rule != nil {
		section = rule.DefaultSectionMm2
	}
	phase := defaultBranchPhase(p.Inverter)

	if len(p.Inverter.MicroBranches) == 0 {
		return []models.MicroBranch{{
			ID:              "branch-1",
			Name:            "Branch 1",
			Phase:           phase,
			MicroCount:      ComputeRequiredMicros(p, repo),
			CableLengthM:    0,
			CableSectionMm2: section,
		}}
	}

	out := make([]models.MicroBranch, len(p.Inverter.MicroBranches))
	for i, b := range p.Inverter.MicroBranches {
		if b.MicroCount < 0 {
			b.MicroCount = 0
		}
		if b.CableLengthM < 0 || math.IsNaN(b.CableLengthM) {
			b.CableLengthM = 0
		}
		if b.CableSectionMm2 <= 0 || math.IsNaN(b.CableSectionMm2) {
			b.CableSectionMm2 = section
		}
		if b.Phase == "" {
			b.Phase = phase
		}
		if b.Name == "" {
			b.Name = fmt.Sprintf("Branch %d", i+1)
		}
		out[i] = b
	}
	return out
}

// ComputeMicroBranchesReport checks the AC branches of a micro-inverter
// system. It returns nil when the project does not use micro-inverters. A
// non-positive microPowerVA falls back to the catalog AC power of the model.
func ComputeMicroBranchesReport(p *models.Project, repo catalog.Repository, microPowerVA float64) *models.MicroBranchesReport {
	cfg := p.Inverter
	if !IsMicroSystem(cfg, repo) {
		return nil
	}
	if microPowerVA <= 0 {
		if specs := microSpecs(cfg, repo); specs != nil {
			microPowerVA = specs.MaxAcPower
		}
	}

	required := ComputeRequiredMicros(p, repo)
	branches := EnsureDefaultMicroBranches(p, repo)
	rule := MicroBranchRuleFor(cfg.Brand, cfg.Model)

	report := &models.MicroBranchesReport{
		RequiredMicros: required,
		MicroPowerVA:   math.Max(0, microPowerVA),
		Branches:       make([]models.MicroBranchCalc, 0, len(branches)),
		Errors:         []string{},
		Warnings:       []string{},
	}
	maxAllowed := 0
	if rule != nil {
		maxAllowed = rule.MaxMicrosPerBranch
		report.RuleNote = rule.Note
		report.RecommendedBreakerA = rule.RecommendedBreakerA
	}

	for _, b := range branches {
		current := float64(b.MicroCount) * report.MicroPowerVA / electrical.MonoVoltage
		dropV := electrical.VoltageDrop(b.CableLengthM, current, b.CableSectionMm2, false)
		dropPct := electrical.DropPercent(dropV, electrical.MonoVoltage)

		report.Branches = append(report.Branches, models.MicroBranchCalc{
			MicroBranch:       b,
			CurrentA:          current,
			VoltageDropV:      dropV,
			VoltageDropPct:    dropPct,
			MaxMicros:         maxAllowed,
			IsWithinMaxMicros: maxAllowed <= 0 || b.MicroCount <= maxAllowed,
			IsDropOk:          dropPct <= electrical.AcDropTargetPercent,
		})
		report.TotalConfigured += b.MicroCount
	}

	if required > 0 && report.TotalConfigured != required {
		report.Errors = append(report.Errors, fmt.Sprintf(
			"%s %d micro-inverters configured out of %d required.",
			DistributionErrorPrefix, report.TotalConfigured, required))
	}
	for _, b := range report.Branches {
		if b.MicroCount > 0 && b.CableLengthM <= 0 {
			report.Errors = append(report.Errors, fmt.Sprintf(
				"%s: cable length not set (0 m). Enter the micro-inverter to AC box distance.", b.Name))
		}
	}
	for _, b := range report.Branches {
		if !b.IsWithinMaxMicros {
			report.Errors = append(report.Errors, fmt.Sprintf(
				"%s: %d micro-inverters > max %d (%s rule).", b.Name, b.MicroCount, b.MaxMicros, ruleLabel(cfg)))
		}
	}
	if report.MicroPowerVA <= 0 && report.TotalConfigured > 0 {
		report.Warnings = append(report.Warnings, MicroPowerUnknownWarning)
	}
	for _, b := range report.Branches {
		if b.CableLengthM > 0 && !b.IsDropOk {
			report.Warnings = append(report.Warnings, fmt.Sprintf(
				"%s: estimated voltage drop %.2f%% (> %g%%). Increase the section or shorten the run.",
				b.Name, b.VoltageDropPct, electrical.AcDropTargetPercent))
		}
	}
	return report
}

func ruleLabel(cfg models.InverterConfig) string {
	if cfg.Model == "" {
		return string(cfg.Brand)
	}
	return string(cfg.Brand) + " / " + cfg.Model
}
