package engine

import "pv-bknd/internal/models"

// DecideOverallCompatibility is the top-level verdict over per-MPPT results.
// Only overvoltage blocks: overcurrent and low MPPT voltage stay advisory and
// are reported as warnings.
func DecideOverallCompatibility(analyses []models.MpptAnalysis) bool {
	for _, a := range analyses {
		if a.IsVoltageError {
			return false
		}
	}
	return true
}
