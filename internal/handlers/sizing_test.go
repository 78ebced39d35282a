package handlers

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pv-bknd/internal/catalog"
	"pv-bknd/internal/models"
	"pv-bknd/internal/permit"
	"pv-bknd/internal/services"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newSizingHandler(permits *permit.Manager) *SizingHandler {
	svc := services.NewSizingService(catalog.Default(), nil, permits, zap.NewNop())
	return NewSizingHandler(svc, zap.NewNop())
}

func do(t *testing.T, h http.HandlerFunc, method, target string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	h(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func fixtureProject(t *testing.T) models.Project {
	t.Helper()
	panel, ok := catalog.Default().Get("DMEGC DM500M10RT-B60HBT")
	require.True(t, ok)
	return models.Project{
		ID:         uuid.New(),
		Name:       "fixture",
		PostalCode: "75011",
		Fields: []models.RoofField{{
			ID: "f1", Name: "South",
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
		},
		DistanceToPanelM: 10,
	}
}

func TestSizingHandler_Climate(t *testing.T) {
	h := newSizingHandler(nil)

	rec, env := do(t, h.Climate, http.MethodGet, "/api/v1/sizing/climate?postalCode=83170&altitude=1901", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var data struct {
		Climate  models.Climate `json:"climate"`
		WindZone int            `json:"windZone"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, -14.0, data.Climate.TempMin)
	assert.Equal(t, 9.0, data.Climate.AltitudePenalty)

	rec, env = do(t, h.Climate, http.MethodGet, "/api/v1/sizing/climate?postalCode=75011&altitude=high", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
}

func TestSizingHandler_AcCable(t *testing.T) {
	h := newSizingHandler(nil)

	rec, env := do(t, h.AcCable, http.MethodPost, "/api/v1/sizing/cables/ac",
		map[string]any{"powerW": 3000, "distanceM": 10})
	require.Equal(t, http.StatusOK, rec.Code)

	var link models.AcLinkCheck
	require.NoError(t, json.Unmarshal(env.Data, &link))
	assert.Equal(t, 6.0, link.Cable.SectionMm2)
	assert.Equal(t, "810103100609205", link.Cable.Material.ID)

	rec, _ = do(t, h.AcCable, http.MethodPost, "/api/v1/sizing/cables/ac", map[string]any{"powerW": 0, "distanceM": 10})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = do(t, h.AcCable, http.MethodPost, "/api/v1/sizing/cables/ac", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSizingHandler_DcCable(t *testing.T) {
	h := newSizingHandler(nil)

	rec, env := do(t, h.DcCable, http.MethodPost, "/api/v1/sizing/cables/dc",
		map[string]any{"currentA": 10, "stringVoltageV": 400, "distanceM": 80})
	require.Equal(t, http.StatusOK, rec.Code)

	var cable models.CableSelection
	require.NoError(t, json.Unmarshal(env.Data, &cable))
	assert.Equal(t, 10.0, cable.SectionMm2)
	assert.Equal(t, 2.0, cable.Material.Quantity)
}

func TestSizingHandler_Standards(t *testing.T) {
	h := newSizingHandler(nil)

	rec, env := do(t, h.Standards, http.MethodGet, "/api/v1/sizing/standards?section=2.5&rating=25", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ac map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &ac))
	assert.Equal(t, true, ac["protectionTooHigh"])
	assert.Equal(t, 20.0, ac["maxBreakerA"])
	assert.Equal(t, 6.0, ac["minSectionMm2"])

	rec, env = do(t, h.Standards, http.MethodGet, "/api/v1/sizing/standards?kind=dc&section=6&rating=22.5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var dc map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &dc))
	assert.Equal(t, false, dc["cableTooSmall"])
	assert.Equal(t, 32.0, dc["maxCurrentA"])

	rec, _ = do(t, h.Standards, http.MethodGet, "/api/v1/sizing/standards?kind=hv", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSizingHandler_CompatibilityAndMicroBranches(t *testing.T) {
	h := newSizingHandler(nil)
	p := fixtureProject(t)

	rec, env := do(t, h.Compatibility, http.MethodPost, "/api/v1/sizing/compatibility", p)
	require.Equal(t, http.StatusOK, rec.Code)
	var compat models.CompatibilityReport
	require.NoError(t, json.Unmarshal(env.Data, &compat))
	assert.True(t, compat.IsCompatible)
	require.NotNil(t, compat.Details)
	assert.Equal(t, models.RCDTypeB, compat.Details.RcdType)

	rec, _ = do(t, h.MicroBranches, http.MethodPost, "/api/v1/sizing/micro-branches", p)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	p.Inverter = models.InverterConfig{Brand: models.BrandAPSystems, Model: "APS-DS3", Phase: models.PhaseMono}
	rec, env = do(t, h.MicroBranches, http.MethodPost, "/api/v1/sizing/micro-branches?microPowerVA=880", p)
	require.Equal(t, http.StatusOK, rec.Code)
	var branches models.MicroBranchesReport
	require.NoError(t, json.Unmarshal(env.Data, &branches))
	assert.Equal(t, 5, branches.RequiredMicros)
	assert.Equal(t, 880.0, branches.MicroPowerVA)
}

func TestSizingAndPermitHandlers_RoundTrip(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	permits := permit.NewManagerFromKeys(key, &key.PublicKey, "pv-test", time.Hour)

	svc := services.NewSizingService(catalog.Default(), nil, permits, zap.NewNop())
	sizing := NewSizingHandler(svc, zap.NewNop())
	verify := NewPermitHandler(svc, zap.NewNop())

	rec, env := do(t, sizing.Report, http.MethodPost, "/api/v1/sizing/report", fixtureProject(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var report models.DesignReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	require.True(t, report.Gate.CanExport, "%v", report.Gate.Reasons)
	require.NotEmpty(t, report.Permit)

	rec, _ = do(t, verify.VerifyPermit, http.MethodPost, "/api/v1/permits/verify",
		map[string]any{"token": report.Permit, "report": report})
	assert.Equal(t, http.StatusOK, rec.Code)

	report.WindZone = 5
	rec, _ = do(t, verify.VerifyPermit, http.MethodPost, "/api/v1/permits/verify",
		map[string]any{"token": report.Permit, "report": report})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = do(t, verify.VerifyPermit, http.MethodPost, "/api/v1/permits/verify", map[string]any{"token": "junk"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, verify.VerifyPermit, http.MethodPost, "/api/v1/permits/verify", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPermitHandler_Disabled(t *testing.T) {
	svc := services.NewSizingService(catalog.Default(), nil, nil, zap.NewNop())
	h := NewPermitHandler(svc, zap.NewNop())

	rec, _ := do(t, h.VerifyPermit, http.MethodPost, "/api/v1/permits/verify", map[string]any{"token": "abc"})
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

type brokenCatalog struct{}

func (brokenCatalog) Snapshot(context.Context) (*catalog.Memory, error) {
	return nil, assert.AnError
}

func TestSizingHandler_CatalogFailure(t *testing.T) {
	h := NewSizingHandler(services.NewSizingService(brokenCatalog{}, nil, nil, zap.NewNop()), zap.NewNop())

	rec, env := do(t, h.DcCable, http.MethodPost, "/api/v1/sizing/cables/dc",
		map[string]any{"currentA": 10, "stringVoltageV": 400, "distanceM": 80})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "failed to load catalog", env.Error)
}
