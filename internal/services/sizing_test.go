package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pv-bknd/internal/catalog"
	"pv-bknd/internal/models"
	"pv-bknd/internal/permit"
)

func newPermits(t *testing.T) *permit.Manager {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return permit.NewManagerFromKeys(key, &key.PublicKey, "pv-test", time.Hour)
}

func stringProject(t *testing.T) *models.Project {
	t.Helper()
	panel, ok := catalog.Default().Get("DMEGC DM500M10RT-B60HBT")
	require.True(t, ok)

	return &models.Project{
		ID:         uuid.New(),
		Name:       "Maison Dupont",
		PostalCode: "75011",
		Altitude:   50,
		Fields: []models.RoofField{{
			ID:     "f1",
			Name:   "South",
			Panels: models.PanelConfig{Model: panel.AsPanel(), Rows: 2, Columns: 5},
		}},
		Inverter: models.InverterConfig{
			Brand: models.BrandFoxESS,
			Model: "FOX-H1-5.0-E-G2",
			Phase: models.PhaseMono,
			ConfiguredStrings: []models.ConfiguredString{
				{ID: "s1", FieldID: "f1", PanelCount: 5, MpptIndex: 1},
				{ID: "s2", FieldID: "f1", PanelCount: 5, MpptIndex: 2},
			},
			DcCablingRuns: []models.DcCablingRun{
				{MpptIndex: 1, LengthM: 15, SectionMm2: 6},
				{MpptIndex: 2, LengthM: 15, SectionMm2: 6},
			},
			AgcpValue: 30,
		},
		DistanceToPanelM: 10,
		UserPrices:       map[string]string{"FOX-H1-5.0-E-G2": "1490.00"},
	}
}

func TestSizingService_EvaluateExportable(t *testing.T) {
	svc := NewSizingService(catalog.Default(), nil, newPermits(t), zap.NewNop())
	p := stringProject(t)

	report, err := svc.Evaluate(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, p.ID.String(), report.ProjectID)
	assert.Equal(t, -5.0, report.Climate.TempMin)
	assert.True(t, report.Compatibility.IsCompatible)
	require.NotNil(t, report.Compatibility.Details)
	assert.Len(t, report.Compatibility.Details.StringsAnalysis, 2)
	assert.Nil(t, report.MicroBranches)

	require.NotNil(t, report.AcLink)
	assert.Equal(t, 6.0, report.AcLink.Cable.SectionMm2)
	assert.False(t, report.AcLink.DropAboveHardLimit)

	assert.True(t, report.DcCabling.OK)
	assert.Len(t, report.DcCabling.Warnings, 2, "6 mm² runs exceed the 1 % DC target")
	require.NotNil(t, report.DcCable)
	assert.Equal(t, 10.0, report.DcCable.SectionMm2)

	require.NotNil(t, report.Subscription.IsOK)
	assert.True(t, *report.Subscription.IsOK)

	assert.True(t, report.Gate.CanExport, "%v", report.Gate.Reasons)
	assert.NotEmpty(t, report.Permit)
	assert.Contains(t, report.Materials.Unpriced, "DMEGC DM500M10RT-B60HBT")
	assert.Equal(t, "1490.00", report.Materials.Total)

	claims, err := svc.VerifyPermit(report.Permit, report)
	require.NoError(t, err)
	assert.Equal(t, p.ID.String(), claims.Subject)
}

func TestSizingService_PermitSurvivesJSON(t *testing.T) {
	svc := NewSizingService(catalog.Default(), nil, newPermits(t), zap.NewNop())

	report, err := svc.Evaluate(context.Background(), stringProject(t))
	require.NoError(t, err)
	require.NotEmpty(t, report.Permit)

	raw, err := json.Marshal(report)
	require.NoError(t, err)
	var decoded models.DesignReport
	require.NoError(t, json.Unmarshal(raw, &decoded))

	_, err = svc.VerifyPermit(decoded.Permit, &decoded)
	require.NoError(t, err)

	decoded.AcLink.VoltageDropPct = 0.1
	_, err = svc.VerifyPermit(decoded.Permit, &decoded)
	assert.ErrorIs(t, err, permit.ErrFingerprintMatch)
}

func TestSizingService_BlockedWithoutDcRuns(t *testing.T) {
	svc := NewSizingService(catalog.Default(), nil, newPermits(t), zap.NewNop())
	p := stringProject(t)
	p.Inverter.DcCablingRuns = nil

	report, err := svc.Evaluate(context.Background(), p)
	require.NoError(t, err)

	assert.False(t, report.Gate.CanExport)
	assert.Contains(t, report.Gate.Reasons, "DC link MPPT 1: length missing.")
	assert.Contains(t, report.Gate.Reasons, "DC link MPPT 2: length missing.")
	assert.Nil(t, report.DcCable)
	assert.Empty(t, report.Permit)
}

func TestSizingService_NoInverter(t *testing.T) {
	svc := NewSizingService(catalog.Default(), nil, nil, zap.NewNop())
	p := stringProject(t)
	p.Inverter = models.InverterConfig{Brand: models.BrandNone, Phase: models.PhaseMono}

	report, err := svc.Evaluate(context.Background(), p)
	require.NoError(t, err)

	assert.Nil(t, report.Compatibility.Details)
	assert.False(t, report.Gate.CanExport)
	assert.Equal(t, "No inverter with electrical data is configured.", report.Gate.Reasons[0])
}

func TestSizingService_AutoInverter(t *testing.T) {
	svc := NewSizingService(catalog.Default(), nil, nil, zap.NewNop())
	p := stringProject(t)
	p.Inverter.Model = "Auto"

	report, err := svc.Evaluate(context.Background(), p)
	require.NoError(t, err)

	// 10 x 500 W: 80 % of 5 kW is above the 3 kW unit, the next central size is 10 kW
	assert.Equal(t, "FOX-T10-G3-TRI", report.InverterModel)
	require.NotNil(t, report.Compatibility.Details)
	assert.NotContains(t, report.Gate.Reasons, "No inverter with electrical data is configured.")

	ids := make([]string, 0, len(report.Materials.Lines))
	for _, l := range report.Materials.Lines {
		ids = append(ids, l.ID)
	}
	assert.Contains(t, ids, "FOX-T10-G3-TRI")
	assert.NotContains(t, ids, "Auto")
}

func TestSizingService_MicroSystem(t *testing.T) {
	svc := NewSizingService(catalog.Default(), nil, nil, zap.NewNop())
	p := stringProject(t)
	p.Inverter = models.InverterConfig{Brand: models.BrandEnphase, Model: "ENP-IQ8MC-72-M-INT", Phase: models.PhaseMono}

	report, err := svc.Evaluate(context.Background(), p)
	require.NoError(t, err)

	require.NotNil(t, report.MicroBranches)
	assert.Equal(t, 10, report.MicroBranches.RequiredMicros)
	assert.True(t, report.DcCabling.OK)
	assert.Nil(t, report.DcCable)
	assert.False(t, report.Gate.CanExport, "default branch has no cable length")
}

type failingCatalog struct{}

func (failingCatalog) Snapshot(context.Context) (*catalog.Memory, error) {
	return nil, errors.New("db down")
}

func TestSizingService_CatalogError(t *testing.T) {
	svc := NewSizingService(failingCatalog{}, nil, nil, zap.NewNop())
	_, err := svc.Evaluate(context.Background(), &models.Project{})
	assert.Error(t, err)
}

func TestSizingService_PermitsDisabled(t *testing.T) {
	svc := NewSizingService(catalog.Default(), nil, nil, zap.NewNop())
	assert.False(t, svc.PermitsEnabled())
	_, err := svc.VerifyPermit("x", nil)
	assert.ErrorIs(t, err, ErrPermitsDisabled)
}

func TestParseProjectID(t *testing.T) {
	id := uuid.New()
	got, err := ParseProjectID(" " + id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseProjectID("42")
	assert.ErrorIs(t, err, ErrInvalidID)
}
