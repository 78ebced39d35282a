package handlers

import (
	"errors"
	"net/http"
	"strings"

	"pv-bknd/internal/models"
	"pv-bknd/internal/services"
	"pv-bknd/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	service *services.CatalogService
	logr    *zap.Logger
}

func NewCatalogHandler(svc *services.CatalogService, logr *zap.Logger) *CatalogHandler {
	return &CatalogHandler{service: svc, logr: logr}
}

// ListComponents handles GET /api/v1/catalog?category=panel,inverter
func (h *CatalogHandler) ListComponents(w http.ResponseWriter, r *http.Request) {
	categories := utils.ParseQueryList(r.URL.Query(), "category")

	components, err := h.service.List(r.Context(), categories)
	if err != nil {
		h.logr.Error("failed to list components", zap.Error(err), zap.Strings("categories", categories))
		writeError(w, http.StatusInternalServerError, "failed to retrieve catalog")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    components,
		"total":   len(components),
	})
}

// GetComponent handles GET /api/v1/catalog/{id}
func (h *CatalogHandler) GetComponent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	component, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "component not found")
			return
		}
		h.logr.Error("failed to fetch component", zap.Error(err), zap.String("id", id))
		writeError(w, http.StatusInternalServerError, "failed to retrieve component")
		return
	}

	writeData(w, http.StatusOK, component)
}

// PutComponent handles PUT /api/v1/catalog/{id}
func (h *CatalogHandler) PutComponent(w http.ResponseWriter, r *http.Request) {
	var component models.Component
	if err := decodeJSON(w, r, &component); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	component.ID = chi.URLParam(r, "id")

	if strings.TrimSpace(component.Description) == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}
	switch component.Category {
	case models.CategoryPanel, models.CategoryInverter, models.CategoryCable, models.CategoryAccessory:
	default:
		writeError(w, http.StatusBadRequest, "category must be one of: panel, inverter, cable, accessory")
		return
	}

	if err := h.service.Upsert(r.Context(), &component); err != nil {
		if errors.Is(err, services.ErrInvalidID) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logr.Error("failed to save component", zap.Error(err), zap.String("id", component.ID))
		writeError(w, http.StatusInternalServerError, "failed to save component")
		return
	}

	h.logr.Info("component saved", zap.String("id", component.ID), zap.String("category", string(component.Category)))
	writeData(w, http.StatusOK, component)
}

// DeleteComponent handles DELETE /api/v1/catalog/{id}
func (h *CatalogHandler) DeleteComponent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "component not found")
			return
		}
		h.logr.Error("failed to delete component", zap.Error(err), zap.String("id", id))
		writeError(w, http.StatusInternalServerError, "failed to delete component")
		return
	}

	h.logr.Info("component deleted", zap.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}
