package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pv-bknd/internal/models"
)

func compatibleReport() models.CompatibilityReport {
	return models.CompatibilityReport{
		IsCompatible: true,
		Errors:       []string{},
		Warnings:     []string{},
		Details:      &models.CompatibilityDetails{},
	}
}

func TestEvaluateExportGate(t *testing.T) {
	okAc := &models.AcLinkCheck{Cable: models.CableSelection{SectionMm2: 6}, VoltageDropPct: 0.9, BreakerA: 25}

	tests := []struct {
		name        string
		in          GateInput
		wantReasons []string
	}{
		{
			name: "all clear",
			in: GateInput{
				Compatibility: compatibleReport(),
				MicroBranches: &models.MicroBranchesReport{Errors: []string{}},
				AcLink:        okAc,
				DcCabling:     &models.DcCablingValidation{OK: true},
			},
		},
		{
			name:        "no inverter",
			in:          GateInput{Compatibility: models.CompatibilityReport{IsCompatible: true}},
			wantReasons: []string{"No inverter with electrical data is configured."},
		},
		{
			name: "incompatible",
			in: GateInput{Compatibility: models.CompatibilityReport{
				Errors:  []string{"MPPT 1: overvoltage (620.0V > 600V)"},
				Details: &models.CompatibilityDetails{},
			}},
			wantReasons: []string{
				"Inverter is not compatible with the panel strings.",
				"MPPT 1: overvoltage (620.0V > 600V)",
			},
		},
		{
			name: "micro branch errors",
			in: GateInput{
				Compatibility: compatibleReport(),
				MicroBranches: &models.MicroBranchesReport{Errors: []string{"Branch 1: cable length not set"}},
			},
			wantReasons: []string{"Branch 1: cable length not set"},
		},
		{
			name: "ac drop over limit",
			in: GateInput{
				Compatibility: compatibleReport(),
				AcLink:        &models.AcLinkCheck{Cable: models.CableSelection{SectionMm2: 25}, VoltageDropPct: 3.4, BreakerA: 63},
			},
			wantReasons: []string{"AC voltage drop 3.40% exceeds 3%."},
		},
		{
			name: "ac protection too high",
			in: GateInput{
				Compatibility: compatibleReport(),
				AcLink: &models.AcLinkCheck{
					Cable:             models.CableSelection{SectionMm2: 2.5},
					VoltageDropPct:    1.2,
					BreakerA:          25,
					ProtectionTooHigh: true,
				},
			},
			wantReasons: []string{"AC breaker 25A is too high for a 2.5 mm² cable."},
		},
		{
			name: "dc runs blocked",
			in: GateInput{
				Compatibility: compatibleReport(),
				DcCabling: &models.DcCablingValidation{
					Reasons: []string{"DC link MPPT 1: length missing."},
				},
			},
			wantReasons: []string{"DC link MPPT 1: length missing."},
		},
		{
			name: "warnings never block",
			in: GateInput{
				Compatibility: models.CompatibilityReport{
					IsCompatible: true,
					Warnings:     []string{"MPPT 1: hot Vmp (90.0V) below MPPT minimum (120V)"},
					Details:      &models.CompatibilityDetails{},
				},
				MicroBranches: &models.MicroBranchesReport{Warnings: []string{"drop"}},
				DcCabling:     &models.DcCablingValidation{OK: true, Warnings: []string{"drop"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateExportGate(tt.in)
			if tt.wantReasons == nil {
				assert.True(t, got.CanExport)
				assert.Empty(t, got.Reasons)
				return
			}
			assert.False(t, got.CanExport)
			assert.Equal(t, tt.wantReasons, got.Reasons)
		})
	}
}
