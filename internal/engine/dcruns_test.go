package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pv-bknd/internal/models"
)

func analysis(mppt int, iscCalc, vmpHot float64) models.MpptAnalysis {
	return models.MpptAnalysis{MpptIndex: mppt, IscCalculation: iscCalc, VmpHot: vmpHot}
}

func TestValidateDcRuns(t *testing.T) {
	tests := []struct {
		name         string
		analyses     []models.MpptAnalysis
		runs         []models.DcCablingRun
		wantOK       bool
		wantReasons  []string
		wantWarnings int
	}{
		{
			name:     "adequate run",
			analyses: []models.MpptAnalysis{analysis(1, 17.5, 300)},
			runs:     []models.DcCablingRun{{MpptIndex: 1, LengthM: 20, SectionMm2: 6}},
			wantOK:   true,
		},
		{
			name:        "missing run",
			analyses:    []models.MpptAnalysis{analysis(1, 17.5, 300), analysis(2, 17.5, 300)},
			runs:        []models.DcCablingRun{{MpptIndex: 1, LengthM: 20, SectionMm2: 6}},
			wantReasons: []string{"DC link MPPT 2: length missing."},
		},
		{
			name:        "missing section",
			analyses:    []models.MpptAnalysis{analysis(1, 17.5, 300)},
			runs:        []models.DcCablingRun{{MpptIndex: 1, LengthM: 20}},
			wantReasons: []string{"DC link MPPT 1: section missing."},
		},
		{
			name:     "section too small",
			analyses: []models.MpptAnalysis{analysis(2, 22.5, 300)},
			runs:     []models.DcCablingRun{{MpptIndex: 2, LengthM: 10, SectionMm2: 2.5}},
			wantReasons: []string{
				"DC link MPPT 2: section 2.5 mm² too small for Icalc=22.5 A (max ~20 A). Use at least 6 mm².",
			},
		},
		{
			name:         "long run only warns",
			analyses:     []models.MpptAnalysis{analysis(1, 17.5, 300)},
			runs:         []models.DcCablingRun{{MpptIndex: 1, LengthM: 100, SectionMm2: 6}},
			wantOK:       true,
			wantWarnings: 1,
		},
		{
			name:     "no analysed mppt",
			analyses: nil,
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateDcRuns(tt.analyses, tt.runs)
			assert.Equal(t, tt.wantOK, got.OK)
			if tt.wantReasons == nil {
				assert.Empty(t, got.Reasons)
			} else {
				assert.Equal(t, tt.wantReasons, got.Reasons)
			}
			assert.Len(t, got.Warnings, tt.wantWarnings)
			assert.Len(t, got.Runs, len(tt.analyses))
		})
	}
}

func TestValidateDcRuns_Drop(t *testing.T) {
	got := ValidateDcRuns(
		[]models.MpptAnalysis{analysis(1, 17.5, 300)},
		[]models.DcCablingRun{{MpptIndex: 1, LengthM: 20, SectionMm2: 6}},
	)
	require.Len(t, got.Runs, 1)
	assert.InDelta(t, 2.683, got.Runs[0].VoltageDropV, 1e-3)
	assert.InDelta(t, 0.894, got.Runs[0].VoltageDropPct, 1e-3)
	assert.False(t, got.Runs[0].IsTooSmall)
}

func TestValidateDcRuns_BeyondTable(t *testing.T) {
	got := ValidateDcRuns(
		[]models.MpptAnalysis{analysis(1, 80, 600)},
		[]models.DcCablingRun{{MpptIndex: 1, LengthM: 5, SectionMm2: 16}},
	)
	assert.False(t, got.OK)
	require.Len(t, got.Reasons, 1)
	assert.NotContains(t, got.Reasons[0], "Use at least")
	assert.True(t, got.Runs[0].IsTooSmall)
	assert.Zero(t, got.Runs[0].MinSectionMm2)
}
