package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pv-bknd/internal/catalog"
	"pv-bknd/internal/models"
)

func quantities(lines []models.Material) map[string]float64 {
	out := make(map[string]float64, len(lines))
	for _, l := range lines {
		out[l.ID] = l.Quantity
	}
	return out
}

const dmegc = "DMEGC DM500M10RT-B60HBT"

func TestBuildElectricalBOM_StringInverter(t *testing.T) {
	repo := catalog.Default()
	panel, ok := repo.Get(dmegc)
	require.True(t, ok)

	p := &models.Project{
		Fields: []models.RoofField{
			{ID: "a", Panels: models.PanelConfig{Model: panel.AsPanel(), Rows: 2, Columns: 4}},
			{ID: "b", Panels: models.PanelConfig{Model: panel.AsPanel(), Rows: 1, Columns: 2}},
		},
		Inverter: models.InverterConfig{Brand: models.BrandFoxESS, Model: "FOX-H1-5.0-E-G2", Phase: models.PhaseMono},
	}

	ac, ok := SizeAcCable(5500, 10, false, nil, repo)
	require.True(t, ok)
	dc, ok := SizeDcCable(17.5, 350, 15, nil, repo)
	require.True(t, ok)

	lines := BuildElectricalBOM(p, repo, BOMInput{AcCable: &ac, DcCable: &dc})
	q := quantities(lines)

	assert.Equal(t, 10.0, q[dmegc], "fields with the same panel are merged")
	assert.Equal(t, 1.0, q["FOX-H1-5.0-E-G2"])
	assert.Equal(t, 1.0, q[ac.Material.ID])
	assert.Equal(t, 1.0, q["821101000609200"])
	assert.Equal(t, 1.0, q[earthCableID])
	assert.Len(t, lines, 5)
}

func TestBuildElectricalBOM_MicroSystem(t *testing.T) {
	repo := catalog.Default()
	p := microProject(models.BrandEnphase, "ENP-IQ8MC-72-M-INT", 11,
		models.MicroBranch{ID: "a", Name: "A", MicroCount: 6, CableLengthM: 10, CableSectionMm2: 2.5},
		models.MicroBranch{ID: "b", Name: "B", MicroCount: 5, CableLengthM: 10, CableSectionMm2: 2.5},
	)
	mb := ComputeMicroBranchesReport(p, repo, 330)
	require.NotNil(t, mb)

	q := quantities(BuildElectricalBOM(p, repo, BOMInput{MicroBranches: mb}))

	assert.Equal(t, 11.0, q["p"], "panel without catalog entry is kept by name")
	assert.Equal(t, 11.0, q["ENP-IQ8MC-72-M-INT"])
	assert.Equal(t, 2.0, q["ENP-Q-TERM-R"])
	assert.Equal(t, 1.0, q["2300531032"])
	assert.Equal(t, 1.0, q["2300532032"])
	assert.Equal(t, 1.0, q[earthCableID])
}

func TestBuildElectricalBOM_Empty(t *testing.T) {
	p := &models.Project{Inverter: models.InverterConfig{Brand: models.BrandNone}}
	assert.Empty(t, BuildElectricalBOM(p, catalog.Default(), BOMInput{}))
}

func TestBuildElectricalBOM_MicroAccessories(t *testing.T) {
	repo := catalog.Default()

	withOrientation := func(p *models.Project, orientation string) *models.Project {
		p.Fields[0].Panels.Orientation = orientation
		return p
	}
	tri := func(p *models.Project) *models.Project {
		p.Inverter.Phase = models.PhaseTri
		return p
	}

	tests := []struct {
		name    string
		project *models.Project
		want    map[string]float64
		absent  []string
	}{
		{
			name:    "enphase portrait mono",
			project: withOrientation(microProject(models.BrandEnphase, "ENP-IQ8MC-72-M-INT", 10), models.OrientationPortrait),
			want:    map[string]float64{"ENP-IQ8MC-72-M-INT": 10, "ENP-Q-25-10-240": 10, "ENP-Q-TERM-R": 1},
			absent:  []string{"ENP-Q-25-17-240", mc4ExtensionID},
		},
		{
			name:    "enphase landscape tri",
			project: tri(withOrientation(microProject(models.BrandEnphase, "ENP-IQ8MC-72-M-INT", 8), models.OrientationLandscape)),
			want:    map[string]float64{"Q-25-17-3P-160": 8, "Q-TERMINATOR-3P": 1, "2300711032": 1, "2300812032": 1},
			absent:  []string{"Q-25-10-3P-200"},
		},
		{
			name:    "apsystems portrait",
			project: withOrientation(microProject(models.BrandAPSystems, "APS-DS3", 11), models.OrientationPortrait),
			want:    map[string]float64{"APS-DS3": 6, apsPortraitCableID: 6, mc4ExtensionID: 12, "2060700017": 1},
			absent:  []string{apsLandscapeCableID},
		},
		{
			name:    "apsystems without orientation is landscape",
			project: microProject(models.BrandAPSystems, "APS-DS3", 4),
			want:    map[string]float64{apsLandscapeCableID: 2, mc4ExtensionID: 4},
			absent:  []string{apsPortraitCableID},
		},
		{
			name:    "foxess single branch",
			project: microProject(models.BrandFoxESS, "FOX-MICRO-1000", 9),
			want: map[string]float64{
				"FOX-MICRO-1000": 5, foxAcCableID: 5, foxAcTeeID: 5, mc4ExtensionID: 10,
				"10-109-00175-00": 1, "2300531032": 1, "2300532032": 1,
			},
		},
		{
			name:    "foxess extra branches",
			project: microProject(models.BrandFoxESS, "FOX-MICRO-1000", 32),
			want: map[string]float64{
				"FOX-MICRO-1000": 16, foxAcCableID: 16, foxAcTeeID: 16,
				"10-109-00175-00": 3, "2300531032": 3, "2300532032": 3,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mb := ComputeMicroBranchesReport(tt.project, repo, 0)
			require.NotNil(t, mb)

			q := quantities(BuildElectricalBOM(tt.project, repo, BOMInput{MicroBranches: mb}))
			for id, want := range tt.want {
				assert.Equal(t, want, q[id], id)
			}
			for _, id := range tt.absent {
				assert.NotContains(t, q, id)
			}
		})
	}
}

func TestBuildElectricalBOM_MixedOrientation(t *testing.T) {
	repo := catalog.Default()
	p := microProject(models.BrandEnphase, "ENP-IQ8MC-72-M-INT", 4)
	p.Fields[0].Panels.Orientation = models.OrientationPortrait
	p.Fields = append(p.Fields, models.RoofField{
		ID:     "f2",
		Panels: models.PanelConfig{Model: p.Fields[0].Panels.Model, Orientation: models.OrientationLandscape, Rows: 2, Columns: 3},
	})

	mb := ComputeMicroBranchesReport(p, repo, 0)
	require.NotNil(t, mb)
	q := quantities(BuildElectricalBOM(p, repo, BOMInput{MicroBranches: mb}))

	assert.Equal(t, 4.0, q["ENP-Q-25-10-240"])
	assert.Equal(t, 6.0, q["ENP-Q-25-17-240"])
	assert.Equal(t, 10.0, q["ENP-IQ8MC-72-M-INT"])
}

func TestBuildElectricalBOM_AutoInverter(t *testing.T) {
	repo := catalog.Default()
	panel, ok := repo.Get(dmegc)
	require.True(t, ok)

	p := &models.Project{
		Fields:   []models.RoofField{{ID: "a", Panels: models.PanelConfig{Model: panel.AsPanel(), Rows: 1, Columns: 6}}},
		Inverter: models.InverterConfig{Brand: models.BrandFoxESS, Model: AutoInverterModel, Phase: models.PhaseMono},
	}

	q := quantities(BuildElectricalBOM(p, repo, BOMInput{}))
	assert.Equal(t, 1.0, q["FOX-S3000-G2"])
	assert.NotContains(t, q, AutoInverterModel)
}
