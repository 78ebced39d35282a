package engine

import (
	"fmt"
	"math"

	"pv-bknd/internal/electrical"
	"pv-bknd/internal/models"
)

// CheckCompatibility validates panels against an inverter for the given
// climate and string layout. A nil inverter, or one without electrical specs,
// yields a compatible report with nil Details. A nil climate uses the
// default worst-case temperatures.
func CheckCompatibility(
	panel *models.Panel,
	inverter *models.Component,
	climate *models.Climate,
	layout Layout,
) models.CompatibilityReport {
	report := models.CompatibilityReport{
		IsCompatible: true,
		Errors:       []string{},
		Warnings:     []string{},
	}

	temps := models.TempsUsed{
		Min:     electrical.DefaultTempMinC,
		MaxCell: electrical.HotCellTemperature(electrical.DefaultTempMaxAmbC),
	}
	if climate != nil {
		temps.Min = climate.TempMin
		temps.MaxCell = electrical.HotCellTemperature(climate.TempMaxAmb)
	}

	if inverter == nil || inverter.Inverter == nil {
		return report
	}
	specs := inverter.Inverter

	if IsMicroInverter(specs) {
		return checkMicro(report, panel, specs, temps, layout.TotalPanels)
	}
	return checkCentral(report, panel, inverter, temps, layout)
}

func checkMicro(
	report models.CompatibilityReport,
	panel *models.Panel,
	specs *models.InverterElectricalSpecs,
	temps models.TempsUsed,
	totalPanels int,
) models.CompatibilityReport {
	if panel == nil || panel.Electrical == nil {
		return report
	}
	e := panel.Electrical
	coeff := electrical.TempCoeffOrDefault(e.TempCoeffVoc)
	vocCold := electrical.CorrectForTemperature(e.Voc, coeff, temps.Min)

	inputsPerMicro := specs.MpptCount
	if inputsPerMicro <= 0 {
		inputsPerMicro = 1
	}

	// Without a panel count the ratio is computed for one fully used micro.
	acPower := specs.MaxAcPower
	dcPower := panel.Power * float64(inputsPerMicro)
	if totalPanels > 0 {
		numMicros := math.Ceil(float64(totalPanels) / float64(inputsPerMicro))
		acPower = numMicros * specs.MaxAcPower
		dcPower = panel.Power * float64(totalPanels)
	}

	ratio := 0.0
	if acPower > 0 {
		ratio = dcPower / acPower
	}
	nominal := electrical.NominalCurrent(acPower, false)

	if vocCold > specs.MaxInputVoltage {
		report.IsCompatible = false
		report.Errors = append(report.Errors, fmt.Sprintf(
			"Panel voltage (%.1fV) exceeds micro-inverter max input (%gV)", vocCold, specs.MaxInputVoltage))
	}

	report.Details = &models.CompatibilityDetails{
		VocCold:            electrical.Round(vocCold, 1),
		VmaxInverter:       specs.MaxInputVoltage,
		VmpHot:             0,
		VminMppt:           specs.MinMpptVoltage,
		IscPanel:           e.Isc,
		IscCalculation:     electrical.Round(e.Isc*electrical.IscSafetyFactor, 2),
		ImaxInverter:       specs.MaxInputCurrent,
		DcAcRatio:          ratio,
		MaxAcPower:         acPower,
		NominalAcCurrent:   electrical.Round(nominal, 1),
		RecommendedBreaker: electrical.BreakerRating(nominal),
		RcdType:            models.RCDTypeF,
		TempsUsed:          temps,
		StringsAnalysis:    []models.MpptAnalysis{},
		MaxPanelsInAString: 1,
		Family:             models.FamilyMicro,
		ThreePhase:         false,
	}
	return report
}

func checkCentral(
	report models.CompatibilityReport,
	panel *models.Panel,
	inverter *models.Component,
	temps models.TempsUsed,
	layout Layout,
) models.CompatibilityReport {
	specs := inverter.Inverter
	groups := GroupByMppt(layout)

	analyses := make([]models.MpptAnalysis, 0, len(groups))
	globalMaxVoc := 0.0
	globalMinVmp := math.Inf(1)
	totalPvPower := 0.0
	maxPanels := 0

	for _, g := range groups {
		a, totals := AnalyseMppt(g, layout.Fields, panel, specs, temps)
		analyses = append(analyses, a)

		totalPvPower += totals.PvPowerW
		if a.TotalPanelCount > maxPanels {
			maxPanels = a.TotalPanelCount
		}
		globalMaxVoc = math.Max(globalMaxVoc, totals.VocCold)
		globalMinVmp = math.Min(globalMinVmp, totals.VmpHot)

		if a.IsVoltageError {
			report.Errors = append(report.Errors, fmt.Sprintf(
				"MPPT %d: overvoltage (%.1fV > %gV)", a.MpptIndex, totals.VocCold, specs.MaxInputVoltage))
		}
		if a.IsMpptWarning {
			report.Warnings = append(report.Warnings, fmt.Sprintf(
				"MPPT %d: hot Vmp (%.1fV) below MPPT minimum (%gV)", a.MpptIndex, totals.VmpHot, specs.MinMpptVoltage))
		}
		if a.IsCurrentError {
			report.Warnings = append(report.Warnings, fmt.Sprintf(
				"MPPT %d: Isc (%.2fA) above inverter max input current (%gA)", a.MpptIndex, totals.IscMax, specs.MaxInputCurrent))
		}
	}
	if len(groups) == 0 {
		globalMinVmp = 0
	}
	report.IsCompatible = DecideOverallCompatibility(analyses)

	maxAcPower := specs.MaxAcPower
	if maxAcPower <= 0 {
		maxAcPower = inverter.Power
	}
	ratio := 0.0
	if maxAcPower > 0 {
		ratio = totalPvPower / maxAcPower
	}

	family := FamilyOf(specs)
	threePhase := family.IsThreePhase()
	nominal := electrical.NominalCurrent(maxAcPower, threePhase)

	iscPanel := 0.0
	if panel != nil && panel.Electrical != nil {
		iscPanel = panel.Electrical.Isc
	}

	report.Details = &models.CompatibilityDetails{
		VocCold:            electrical.Round(globalMaxVoc, 1),
		VmaxInverter:       specs.MaxInputVoltage,
		VmpHot:             electrical.Round(globalMinVmp, 1),
		VminMppt:           specs.MinMpptVoltage,
		IscPanel:           iscPanel,
		IscCalculation:     electrical.Round(iscPanel*electrical.IscSafetyFactor, 2),
		ImaxInverter:       specs.MaxInputCurrent,
		DcAcRatio:          ratio,
		MaxAcPower:         maxAcPower,
		NominalAcCurrent:   electrical.Round(nominal, 1),
		RecommendedBreaker: electrical.BreakerRating(nominal),
		RcdType:            RCDTypeFor(family),
		TempsUsed:          temps,
		StringsAnalysis:    analyses,
		MaxPanelsInAString: maxPanels,
		Family:             family,
		ThreePhase:         threePhase,
	}
	return report
}
