package engine

import (
	"fmt"

	"pv-bknd/internal/electrical"
	"pv-bknd/internal/models"
)

// GateInput collects the verdicts the export gate depends on. Nil sections
// do not apply to the project.
type GateInput struct {
	Compatibility models.CompatibilityReport
	MicroBranches *models.MicroBranchesReport
	AcLink        *models.AcLinkCheck
	DcCabling     *models.DcCablingValidation
}

// EvaluateExportGate decides whether the technical dossier may be exported
// and lists every blocking reason.
func EvaluateExportGate(in GateInput) models.ExportGate {
	reasons := []string{}

	if in.Compatibility.Details == nil {
		reasons = append(reasons, "No inverter with electrical data is configured.")
	}
	if !in.Compatibility.IsCompatible {
		reasons = append(reasons, "Inverter is not compatible with the panel strings.")
		reasons = append(reasons, in.Compatibility.Errors...)
	}
	if in.MicroBranches != nil {
		reasons = append(reasons, in.MicroBranches.Errors...)
	}
	if ac := in.AcLink; ac != nil {
		if ac.VoltageDropPct > electrical.AcDropLimitPercent {
			reasons = append(reasons, fmt.Sprintf("AC voltage drop %.2f%% exceeds %g%%.",
				ac.VoltageDropPct, electrical.AcDropLimitPercent))
		}
		if ac.ProtectionTooHigh {
			reasons = append(reasons, fmt.Sprintf("AC breaker %gA is too high for a %g mm² cable.",
				ac.BreakerA, ac.Cable.SectionMm2))
		}
	}
	if in.DcCabling != nil && !in.DcCabling.OK {
		reasons = append(reasons, in.DcCabling.Reasons...)
	}

	return models.ExportGate{
		CanExport: len(reasons) == 0,
		Reasons:   reasons,
	}
}
