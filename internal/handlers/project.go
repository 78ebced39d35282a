package handlers

import (
	"errors"
	"net/http"
	"strings"

	"pv-bknd/internal/models"
	"pv-bknd/internal/services"
	"pv-bknd/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProjectHandler struct {
	projects *services.ProjectService
	sizing   *services.SizingService
	logr     *zap.Logger
}

func NewProjectHandler(projects *services.ProjectService, sizing *services.SizingService, logr *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, sizing: sizing, logr: logr}
}

// CreateProject handles POST /api/v1/projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var p models.Project
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(p.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	p.ID = uuid.Nil

	if err := h.projects.Create(r.Context(), &p); err != nil {
		h.logr.Error("failed to create project", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create project")
		return
	}

	h.logr.Info("project created", zap.String("id", p.ID.String()), zap.String("name", p.Name))
	writeData(w, http.StatusCreated, p)
}

// ListProjects handles GET /api/v1/projects?search=&postalCode=&limit=&offset=
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.ProjectFilter{
		Search:     q.Get("search"),
		PostalCode: q.Get("postalCode"),
		Limit:      utils.ParseQueryInt(q, "limit", 50),
		Offset:     utils.ParseQueryInt(q, "offset", 0),
	}

	projects, total, err := h.projects.List(r.Context(), filter)
	if err != nil {
		h.logr.Error("failed to list projects", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to retrieve projects")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    projects,
		"total":   total,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}

// GetProject handles GET /api/v1/projects/{id}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	writeData(w, http.StatusOK, p)
}

// UpdateProject handles PUT /api/v1/projects/{id}
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := services.ParseProjectID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	var p models.Project
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p.ID = id

	if err := h.projects.Update(r.Context(), &p); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		h.logr.Error("failed to update project", zap.Error(err), zap.String("id", id.String()))
		writeError(w, http.StatusInternalServerError, "failed to update project")
		return
	}

	writeData(w, http.StatusOK, p)
}

// DeleteProject handles DELETE /api/v1/projects/{id}
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := services.ParseProjectID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	if err := h.projects.Delete(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		h.logr.Error("failed to delete project", zap.Error(err), zap.String("id", id.String()))
		writeError(w, http.StatusInternalServerError, "failed to delete project")
		return
	}

	h.logr.Info("project deleted", zap.String("id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

// GetProjectReport handles GET /api/v1/projects/{id}/report
func (h *ProjectHandler) GetProjectReport(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadProject(w, r)
	if !ok {
		return
	}

	report, err := h.sizing.Evaluate(r.Context(), p)
	if err != nil {
		h.logr.Error("failed to evaluate project", zap.Error(err), zap.String("id", p.ID.String()))
		writeError(w, http.StatusInternalServerError, "failed to evaluate project")
		return
	}

	writeData(w, http.StatusOK, report)
}

func (h *ProjectHandler) loadProject(w http.ResponseWriter, r *http.Request) (*models.Project, bool) {
	id, err := services.ParseProjectID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return nil, false
	}

	p, err := h.projects.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, http.StatusNotFound, "project not found")
			return nil, false
		}
		h.logr.Error("failed to fetch project", zap.Error(err), zap.String("id", id.String()))
		writeError(w, http.StatusInternalServerError, "failed to retrieve project")
		return nil, false
	}
	return p, true
}
