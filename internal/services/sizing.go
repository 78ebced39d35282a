package services

import (
	"context"
	"fmt"

	"pv-bknd/internal/catalog"
	"pv-bknd/internal/climate"
	"pv-bknd/internal/engine"
	"pv-bknd/internal/models"
	"pv-bknd/internal/permit"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SizingService runs every electrical check of a project against a catalog
// snapshot and assembles the design report.
type SizingService struct {
	catalog catalog.Snapshotter
	climate *climate.Table
	permits *permit.Manager
	logr    *zap.Logger
}

// NewSizingService wires the evaluation pipeline. A nil table uses the
// embedded climate data; a nil permit manager disables permits.
func NewSizingService(snap catalog.Snapshotter, table *climate.Table, permits *permit.Manager, logr *zap.Logger) *SizingService {
	if table == nil {
		table = climate.Default()
	}
	return &SizingService{catalog: snap, climate: table, permits: permits, logr: logr}
}

// Catalog returns a point-in-time catalog for the stateless sizing endpoints.
func (s *SizingService) Catalog(ctx context.Context) (catalog.Repository, error) {
	repo, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return repo, nil
}

// Climate resolves the design temperatures and wind zone of a location.
func (s *SizingService) Climate(postalCode string, altitudeM float64) (models.Climate, int) {
	return s.climate.Resolve(postalCode, altitudeM), s.climate.WindZone(postalCode)
}

// Compatibility checks the project's panels against its inverter.
func (s *SizingService) Compatibility(ctx context.Context, p *models.Project) (models.CompatibilityReport, error) {
	repo, err := s.Catalog(ctx)
	if err != nil {
		return models.CompatibilityReport{}, err
	}
	clim := s.climate.Resolve(p.PostalCode, p.Altitude)
	return engine.CheckCompatibility(p.ReferencePanel(), inverterOf(p, repo), &clim, engine.LayoutOf(p)), nil
}

// MicroBranches returns the branch report, or nil for string inverters.
func (s *SizingService) MicroBranches(ctx context.Context, p *models.Project, microPowerVA float64) (*models.MicroBranchesReport, error) {
	repo, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return engine.ComputeMicroBranchesReport(p, repo, microPowerVA), nil
}

// Evaluate computes the full design report of p. When export is allowed and
// permits are configured, a permit bound to the report is attached.
func (s *SizingService) Evaluate(ctx context.Context, p *models.Project) (*models.DesignReport, error) {
	repo, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	report := s.evaluate(p, repo)

	if report.Gate.CanExport && s.permits != nil && p.ID != uuid.Nil {
		issued, err := s.permits.Issue(p.ID.String(), report)
		if err != nil {
			return nil, fmt.Errorf("issue permit: %w", err)
		}
		report.Permit = issued.Token
	}

	s.logr.Info("project evaluated",
		zap.String("project_id", report.ProjectID),
		zap.Bool("compatible", report.Compatibility.IsCompatible),
		zap.Bool("can_export", report.Gate.CanExport),
		zap.Int("blocking_reasons", len(report.Gate.Reasons)),
		zap.Bool("permit", report.Permit != ""))

	return report, nil
}

func (s *SizingService) evaluate(p *models.Project, repo catalog.Repository) *models.DesignReport {
	clim := s.climate.Resolve(p.PostalCode, p.Altitude)
	inverter := inverterOf(p, repo)
	compat := engine.CheckCompatibility(p.ReferencePanel(), inverter, &clim, engine.LayoutOf(p))
	micro := engine.ComputeMicroBranchesReport(p, repo, 0)

	threePhase := p.Inverter.IsThreePhase()
	acPower := p.TotalDcPowerW()
	var analyses []models.MpptAnalysis
	if d := compat.Details; d != nil {
		threePhase = threePhase || d.ThreePhase
		if d.MaxAcPower > 0 {
			acPower = d.MaxAcPower
		}
		analyses = d.StringsAnalysis
	}

	acLink := engine.CheckAcLink(acPower, p.DistanceToPanelM, threePhase, p.AcCableSectionOverride, 0, repo)
	dcCabling := engine.ValidateDcRuns(analyses, p.Inverter.DcCablingRuns)
	dcCable := sizeDcCable(analyses, p.Inverter.DcCablingRuns, p.DcCableSectionOverride, repo)

	gate := engine.EvaluateExportGate(engine.GateInput{
		Compatibility: compat,
		MicroBranches: micro,
		AcLink:        acLink,
		DcCabling:     &dcCabling,
	})

	bomIn := engine.BOMInput{MicroBranches: micro, DcCable: dcCable}
	if acLink != nil {
		bomIn.AcCable = &acLink.Cable
	}
	materials := engine.BuildElectricalBOM(p, repo, bomIn)

	projectID := ""
	if p.ID != uuid.Nil {
		projectID = p.ID.String()
	}

	inverterModel := ""
	if inverter != nil {
		inverterModel = inverter.ID
	}

	return &models.DesignReport{
		ProjectID:     projectID,
		Climate:       clim,
		WindZone:      s.climate.WindZone(p.PostalCode),
		InverterModel: inverterModel,
		Compatibility: compat,
		MicroBranches: micro,
		AcLink:        acLink,
		DcCable:       dcCable,
		DcCabling:     dcCabling,
		Subscription:  engine.SubscriptionFor(p.Inverter.Phase, p.TotalDcPowerW()/1000, p.Inverter.AgcpValue),
		Materials:     PriceMaterials(materials, p.UserPrices),
		Gate:          gate,
	}
}

// VerifyPermit checks a permit and, when report is given, that it was issued
// for exactly that report.
func (s *SizingService) VerifyPermit(token string, report *models.DesignReport) (*permit.Claims, error) {
	if s.permits == nil {
		return nil, ErrPermitsDisabled
	}
	if report == nil {
		return s.permits.Verify(token)
	}
	unsigned := *report
	unsigned.Permit = ""
	return s.permits.VerifyReport(token, &unsigned)
}

// PermitsEnabled reports whether the service can issue permits.
func (s *SizingService) PermitsEnabled() bool {
	return s.permits != nil
}

// inverterOf returns the catalog record of the project's inverter, resolving
// automatic selection first. Micro-inverters are looked up as configured.
func inverterOf(p *models.Project, repo catalog.Repository) *models.Component {
	if p.Inverter.Brand == models.BrandNone {
		return nil
	}
	id := p.Inverter.Model
	if engine.IsAutoModel(id) {
		id = engine.ResolveInverterModel(p, repo)
	}
	if id == "" {
		return nil
	}
	c, ok := repo.Get(id)
	if !ok {
		return nil
	}
	return &c
}

// sizeDcCable sizes the string cable on the longest configured run, using
// the design current of its MPPT.
func sizeDcCable(analyses []models.MpptAnalysis, runs []models.DcCablingRun, forced *float64, repo catalog.Repository) *models.CableSelection {
	var (
		longest models.DcCablingRun
		current float64
		voltage float64
	)
	for _, a := range analyses {
		for _, r := range runs {
			if r.MpptIndex == a.MpptIndex && r.LengthM > longest.LengthM {
				longest = r
				current = a.IscCalculation
				voltage = a.VmpHot
			}
		}
	}
	if longest.LengthM <= 0 {
		return nil
	}
	cable, ok := engine.SizeDcCable(current, voltage, longest.LengthM, forced, repo)
	if !ok {
		return nil
	}
	return &cable
}
