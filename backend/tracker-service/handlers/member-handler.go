package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/yolmane/fintech-project-manager/backend/tracker-service/models"
	"github.com/yolmane/fintech-project-manager/backend/tracker-service/services"
)

type MemberHandler struct {
	manager *services.ProjectManager
}

func NewMemberHandler(manager *services.ProjectManager) *MemberHandler {
	return &MemberHandler{manager: manager}
}

type createMemberRequest struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Role         string              `json:"role"`
	Email        string              `json:"email"`
	Skills       []string            `json:"skills"`
	HourlyRate   float64             `json:"hourlyRate"`
	Availability models.Availability `json:"availability"`
}

func (h *MemberHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req createMemberRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeServiceError(w, r, fmt.Errorf("member name: %w", models.ErrInvalidValue))
		return
	}
	m := models.NewTeamMember(req.ID, req.Name, req.Role, req.Email, trimAll(req.Skills), req.HourlyRate)
	if req.Availability != "" {
		if err := m.SetAvailability(req.Availability); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}
	view, err := h.manager.AddTeamMember(r.Context(), m)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *MemberHandler) GetMembers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.TeamMembers())
}

func (h *MemberHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	view, err := h.manager.TeamMember(mux.Vars(r)["memberId"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *MemberHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	var update services.MemberUpdate
	if !decodeBody(w, r, &update) {
		return
	}
	if update.Skills != nil {
		update.Skills = trimAll(update.Skills)
	}
	view, err := h.manager.UpdateTeamMember(r.Context(), mux.Vars(r)["memberId"], update)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *MemberHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.DeleteTeamMember(r.Context(), mux.Vars(r)["memberId"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FindAvailableMember reads a comma-separated skills query parameter.
func (h *MemberHandler) FindAvailableMember(w http.ResponseWriter, r *http.Request) {
	var skills []string
	if raw := r.URL.Query().Get("skills"); raw != "" {
		skills = trimAll(strings.Split(raw, ","))
	}
	view, err := h.manager.FindAvailableTeamMember(skills)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
