package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/yolmane/fintech-project-manager/backend/tracker-service/models"
	"github.com/yolmane/fintech-project-manager/backend/tracker-service/services"
)

type ProjectHandler struct {
	manager *services.ProjectManager
}

func NewProjectHandler(manager *services.ProjectManager) *ProjectHandler {
	return &ProjectHandler{manager: manager}
}

type createProjectRequest struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Client       string               `json:"client"`
	Budget       float64              `json:"budget"`
	StartDate    string               `json:"startDate"`
	Deadline     string               `json:"deadline"`
	Status       models.ProjectStatus `json:"status"`
	Technologies []string             `json:"technologies"`
}

func (req createProjectRequest) build() (*models.Project, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("project name: %w", models.ErrInvalidValue)
	}
	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		return nil, err
	}
	deadline, err := parseDate("deadline", req.Deadline)
	if err != nil {
		return nil, err
	}
	p := models.NewProject(req.ID, req.Name, req.Client, req.Budget, start, deadline)
	if req.Status != "" {
		if err := p.UpdateStatus(req.Status); err != nil {
			return nil, err
		}
	}
	for _, tech := range req.Technologies {
		_ = p.AddTechnology(tech)
	}
	return p, nil
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := req.build()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	view, err := h.manager.AddProject(r.Context(), p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *ProjectHandler) GetProjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.Projects())
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	view, err := h.manager.Project(mux.Vars(r)["projectId"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type updateProjectRequest struct {
	Name      *string               `json:"name"`
	Client    *string               `json:"client"`
	Budget    *float64              `json:"budget"`
	StartDate *string               `json:"startDate"`
	Deadline  *string               `json:"deadline"`
	Status    *models.ProjectStatus `json:"status"`
}

func optionalDate(field string, value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := parseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req updateProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	update := services.ProjectUpdate{Name: req.Name, Client: req.Client, Budget: req.Budget, Status: req.Status}
	var err error
	if update.StartDate, err = optionalDate("startDate", req.StartDate); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if update.Deadline, err = optionalDate("deadline", req.Deadline); err != nil {
		writeServiceError(w, r, err)
		return
	}
	view, err := h.manager.UpdateProject(r.Context(), mux.Vars(r)["projectId"], update)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.DeleteProject(r.Context(), mux.Vars(r)["projectId"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *ProjectHandler) UpdateProjectStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id := mux.Vars(r)["projectId"]
	if err := h.manager.UpdateProjectStatus(r.Context(), id, models.ProjectStatus(req.Status)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.GetProject(w, r)
}

func (h *ProjectHandler) SearchProjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.SearchProjects(r.URL.Query().Get("q")))
}

func (h *ProjectHandler) FilterProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := services.ProjectFilter{
		Status: models.ProjectStatus(q.Get("status")),
		Client: q.Get("client"),
	}
	for _, bound := range []struct {
		name string
		dst  **float64
	}{{"minBudget", &filter.MinBudget}, {"maxBudget", &filter.MaxBudget}} {
		raw := q.Get(bound.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s: %q", bound.name, raw))
			return
		}
		*bound.dst = &v
	}
	writeJSON(w, http.StatusOK, h.manager.FilterProjects(filter))
}

func (h *ProjectHandler) GetProjectsAtRisk(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.ProjectsAtRisk())
}

func (h *ProjectHandler) GetProjectsByStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.ProjectsByStatus())
}

func (h *ProjectHandler) AddMemberToProject(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.manager.AssignMemberToProject(r.Context(), vars["projectId"], vars["memberId"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.GetProject(w, r)
}

func (h *ProjectHandler) RemoveMemberFromProject(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.manager.RemoveMemberFromProject(r.Context(), vars["projectId"], vars["memberId"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.GetProject(w, r)
}

type requirementRequest struct {
	Type        models.RequirementType `json:"type"`
	Description string                 `json:"description"`
}

func (h *ProjectHandler) AddRequirement(w http.ResponseWriter, r *http.Request) {
	var req requirementRequest
	if !decodeBody(w, r, &req) {
		return
	}
	created, err := h.manager.AddRequirement(r.Context(), mux.Vars(r)["projectId"], req.Type, req.Description)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type technologyRequest struct {
	Technology string `json:"technology"`
}

func (h *ProjectHandler) AddProjectTechnology(w http.ResponseWriter, r *http.Request) {
	var req technologyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.manager.AddProjectTechnology(r.Context(), mux.Vars(r)["projectId"], req.Technology); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.GetProject(w, r)
}
