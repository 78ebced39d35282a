package engine

import (
	"fmt"

	"pv-bknd/internal/electrical"
	"pv-bknd/internal/models"
	"pv-bknd/internal/standards"
)

// ValidateDcRuns checks the DC cable of every analysed MPPT. A missing
// length or section, or a section too small for the design current, blocks
// export. A drop above the DC target over hot Vmp is a warning.
func ValidateDcRuns(analyses []models.MpptAnalysis, runs []models.DcCablingRun) models.DcCablingValidation {
	v := models.DcCablingValidation{
		Runs:     make([]models.DcRunCheck, 0, len(analyses)),
		Reasons:  []string{},
		Warnings: []string{},
	}

	for _, a := range analyses {
		run := findRun(runs, a.MpptIndex)
		check := models.DcRunCheck{
			MpptIndex:  a.MpptIndex,
			LengthM:    run.LengthM,
			SectionMm2: run.SectionMm2,
			CurrentA:   a.IscCalculation,
		}

		switch {
		case run.LengthM <= 0:
			v.Reasons = append(v.Reasons, fmt.Sprintf("DC link MPPT %d: length missing.", a.MpptIndex))
		case run.SectionMm2 <= 0:
			v.Reasons = append(v.Reasons, fmt.Sprintf("DC link MPPT %d: section missing.", a.MpptIndex))
		default:
			check.VoltageDropV = electrical.VoltageDrop(run.LengthM, a.IscCalculation, run.SectionMm2, false)
			check.VoltageDropPct = electrical.DropPercent(check.VoltageDropV, a.VmpHot)

			if standards.IsDcCableTooSmall(run.SectionMm2, a.IscCalculation) {
				check.IsTooSmall = true
				maxA, _ := standards.MaxDcCurrentForSection(run.SectionMm2)
				minS, ok := standards.MinDcSectionForCurrent(a.IscCalculation)
				reason := fmt.Sprintf("DC link MPPT %d: section %g mm² too small for Icalc=%.1f A (max ~%g A).",
					a.MpptIndex, run.SectionMm2, a.IscCalculation, maxA)
				if ok {
					check.MinSectionMm2 = minS
					reason += fmt.Sprintf(" Use at least %g mm².", minS)
				}
				v.Reasons = append(v.Reasons, reason)
			} else if check.VoltageDropPct > electrical.DcDropTargetPercent {
				v.Warnings = append(v.Warnings, fmt.Sprintf("DC link MPPT %d: voltage drop %.2f%% (> %g%%).",
					a.MpptIndex, check.VoltageDropPct, electrical.DcDropTargetPercent))
			}
		}
		v.Runs = append(v.Runs, check)
	}

	v.OK = len(v.Reasons) == 0
	return v
}

func findRun(runs []models.DcCablingRun, mppt int) models.DcCablingRun {
	for _, r := range runs {
		if r.MpptIndex == mppt {
			return r
		}
	}
	return models.DcCablingRun{MpptIndex: mppt}
}
