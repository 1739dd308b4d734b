package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/yolmane/fintech-project-manager/backend/tracker-service/services"
)

type AnalyticsHandler struct {
	manager *services.ProjectManager
}

func NewAnalyticsHandler(manager *services.ProjectManager) *AnalyticsHandler {
	return &AnalyticsHandler{manager: manager}
}

func (h *AnalyticsHandler) GetBudgetAnalysis(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.BudgetAnalysis())
}

func (h *AnalyticsHandler) GetResourceUtilization(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.ResourceUtilization())
}

func (h *AnalyticsHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.DashboardStats())
}

func (h *AnalyticsHandler) GetTechnologies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.Technologies())
}

func (h *AnalyticsHandler) AddTechnology(w http.ResponseWriter, r *http.Request) {
	var req technologyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.manager.AddTechnology(r.Context(), req.Technology); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.manager.Technologies())
}

func (h *AnalyticsHandler) GetClients(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.Clients())
}

type clientRequest struct {
	Value string `json:"value"`
}

func (h *AnalyticsHandler) SetClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.manager.SetClient(r.Context(), mux.Vars(r)["key"], req.Value); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.manager.Clients())
}

// Export serves ?format=json (default) or ?format=csv.
func (h *AnalyticsHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = services.FormatJSON
	}
	data, err := h.manager.Export(format)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	contentType := "application/json"
	if format == services.FormatCSV {
		contentType = "text/csv; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=fintech-projects."+format)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
