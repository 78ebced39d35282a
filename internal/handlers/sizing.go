package handlers

import (
	"net/http"
	"strings"

	"pv-bknd/internal/engine"
	"pv-bknd/internal/models"
	"pv-bknd/internal/services"
	"pv-bknd/internal/standards"
	"pv-bknd/internal/utils"

	"go.uber.org/zap"
)

// SizingHandler exposes the stateless checks: the body carries everything,
// nothing is persisted.
type SizingHandler struct {
	service *services.SizingService
	logr    *zap.Logger
}

func NewSizingHandler(svc *services.SizingService, logr *zap.Logger) *SizingHandler {
	return &SizingHandler{service: svc, logr: logr}
}

type acCableRequest struct {
	PowerW           float64  `json:"powerW"`
	DistanceM        float64  `json:"distanceM"`
	ThreePhase       bool     `json:"threePhase"`
	ForcedSectionMm2 *float64 `json:"forcedSectionMm2,omitempty"`
	BreakerA         float64  `json:"breakerA,omitempty"`
}

type dcCableRequest struct {
	CurrentA         float64  `json:"currentA"`
	StringVoltageV   float64  `json:"stringVoltageV"`
	DistanceM        float64  `json:"distanceM"`
	ForcedSectionMm2 *float64 `json:"forcedSectionMm2,omitempty"`
}

// Report handles POST /api/v1/sizing/report
func (h *SizingHandler) Report(w http.ResponseWriter, r *http.Request) {
	var p models.Project
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.service.Evaluate(r.Context(), &p)
	if err != nil {
		h.logr.Error("failed to evaluate project", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to evaluate project")
		return
	}
	writeData(w, http.StatusOK, report)
}

// Compatibility handles POST /api/v1/sizing/compatibility
func (h *SizingHandler) Compatibility(w http.ResponseWriter, r *http.Request) {
	var p models.Project
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.service.Compatibility(r.Context(), &p)
	if err != nil {
		h.logr.Error("failed to check compatibility", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to check compatibility")
		return
	}
	writeData(w, http.StatusOK, report)
}

// MicroBranches handles POST /api/v1/sizing/micro-branches?microPowerVA=
func (h *SizingHandler) MicroBranches(w http.ResponseWriter, r *http.Request) {
	va, _, err := utils.ParseQueryFloat(r.URL.Query(), "microPowerVA")
	if err != nil {
		writeError(w, http.StatusBadRequest, "microPowerVA must be a number")
		return
	}

	var p models.Project
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.service.MicroBranches(r.Context(), &p, va)
	if err != nil {
		h.logr.Error("failed to compute micro branches", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to compute micro branches")
		return
	}
	if report == nil {
		writeError(w, http.StatusUnprocessableEntity, "inverter configuration is not a micro-inverter system")
		return
	}
	writeData(w, http.StatusOK, report)
}

// AcCable handles POST /api/v1/sizing/cables/ac
func (h *SizingHandler) AcCable(w http.ResponseWriter, r *http.Request) {
	var req acCableRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	repo, err := h.service.Catalog(r.Context())
	if err != nil {
		h.logr.Error("failed to load catalog", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load catalog")
		return
	}

	link := engine.CheckAcLink(req.PowerW, req.DistanceM, req.ThreePhase, req.ForcedSectionMm2, req.BreakerA, repo)
	if link == nil {
		writeError(w, http.StatusUnprocessableEntity, "powerW and distanceM must be positive")
		return
	}
	writeData(w, http.StatusOK, link)
}

// DcCable handles POST /api/v1/sizing/cables/dc
func (h *SizingHandler) DcCable(w http.ResponseWriter, r *http.Request) {
	var req dcCableRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	repo, err := h.service.Catalog(r.Context())
	if err != nil {
		h.logr.Error("failed to load catalog", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load catalog")
		return
	}

	cable, ok := engine.SizeDcCable(req.CurrentA, req.StringVoltageV, req.DistanceM, req.ForcedSectionMm2, repo)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "currentA and distanceM must be positive")
		return
	}
	writeData(w, http.StatusOK, cable)
}

// Climate handles GET /api/v1/sizing/climate?postalCode=&altitude=
func (h *SizingHandler) Climate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	postal := strings.TrimSpace(q.Get("postalCode"))

	altitude, _, err := utils.ParseQueryFloat(q, "altitude")
	if err != nil {
		writeError(w, http.StatusBadRequest, "altitude must be a number")
		return
	}

	clim, zone := h.service.Climate(postal, altitude)
	writeData(w, http.StatusOK, map[string]any{
		"postalCode": postal,
		"altitude":   altitude,
		"climate":    clim,
		"windZone":   zone,
	})
}

// Standards handles GET /api/v1/sizing/standards?section=&rating=&kind=ac|dc
// For kind=dc, rating is the design current.
func (h *SizingHandler) Standards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	section, hasSection, err := utils.ParseQueryFloat(q, "section")
	if err != nil {
		writeError(w, http.StatusBadRequest, "section must be a number")
		return
	}
	rating, hasRating, err := utils.ParseQueryFloat(q, "rating")
	if err != nil {
		writeError(w, http.StatusBadRequest, "rating must be a number")
		return
	}

	kind := strings.ToLower(q.Get("kind"))
	if kind == "" {
		kind = "ac"
	}

	out := map[string]any{"kind": kind}
	switch kind {
	case "ac":
		out["sections"] = standards.Sections()
		if hasSection {
			maxA, ok := standards.MaxBreakerForSection(section)
			out["section"] = section
			out["knownSection"] = ok
			if ok {
				out["maxBreakerA"] = maxA
			}
		}
		if hasRating {
			out["rating"] = rating
			out["minSectionMm2"] = standards.MinSectionForBreaker(rating)
		}
		if hasSection && hasRating {
			out["protectionTooHigh"] = standards.IsProtectionTooHighForSection(section, rating)
			out["sectionOversized"] = standards.IsSectionOversizedForRating(section, rating)
		}
	case "dc":
		out["sections"] = standards.DcSections()
		if hasSection {
			maxA, ok := standards.MaxDcCurrentForSection(section)
			out["section"] = section
			out["knownSection"] = ok
			if ok {
				out["maxCurrentA"] = maxA
			}
		}
		if hasRating {
			out["rating"] = rating
			if minS, ok := standards.MinDcSectionForCurrent(rating); ok {
				out["minSectionMm2"] = minS
			}
		}
		if hasSection && hasRating {
			out["cableTooSmall"] = standards.IsDcCableTooSmall(section, rating)
			out["sectionOversized"] = standards.IsDcSectionOversized(section, rating)
		}
	default:
		writeError(w, http.StatusBadRequest, "kind must be ac or dc")
		return
	}

	writeData(w, http.StatusOK, out)
}
