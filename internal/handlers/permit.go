package handlers

import (
	"errors"
	"net/http"
	"strings"

	"pv-bknd/internal/models"
	"pv-bknd/internal/permit"
	"pv-bknd/internal/services"

	"go.uber.org/zap"
)

type PermitHandler struct {
	service *services.SizingService
	logr    *zap.Logger
}

func NewPermitHandler(svc *services.SizingService, logr *zap.Logger) *PermitHandler {
	return &PermitHandler{service: svc, logr: logr}
}

type verifyPermitRequest struct {
	Token  string               `json:"token"`
	Report *models.DesignReport `json:"report,omitempty"`
}

// VerifyPermit handles POST /api/v1/permits/verify
func (h *PermitHandler) VerifyPermit(w http.ResponseWriter, r *http.Request) {
	var req verifyPermitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}

	claims, err := h.service.VerifyPermit(req.Token, req.Report)
	switch {
	case errors.Is(err, services.ErrPermitsDisabled):
		writeError(w, http.StatusNotImplemented, err.Error())
		return
	case errors.Is(err, permit.ErrFingerprintMatch):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.logr.Warn("permit rejected", zap.Error(err))
		writeError(w, http.StatusUnauthorized, "invalid or expired permit")
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"valid":       true,
		"projectId":   claims.Subject,
		"fingerprint": claims.Fingerprint,
		"jti":         claims.ID,
		"issuedAt":    claims.IssuedAt,
		"expiresAt":   claims.ExpiresAt,
	})
}
