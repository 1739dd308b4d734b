package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yolmane/fintech-project-manager/backend/tracker-service/services"
)

// RouterOptions configures NewRouter. A nil Registry gets a fresh one.
type RouterOptions struct {
	CORSOrigin string
	Registry   *prometheus.Registry
}

// NewRouter wires every route. Metrics wrap the whole router so unmatched
// requests are counted, and CORS wraps that so preflight requests are
// answered before route matching.
func NewRouter(manager *services.ProjectManager, opts RouterOptions) http.Handler {
	if opts.CORSOrigin == "" {
		opts.CORSOrigin = "*"
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	projects := NewProjectHandler(manager)
	members := NewMemberHandler(manager)
	tasks := NewTaskHandler(manager)
	analytics := NewAnalyticsHandler(manager)
	metrics := NewMetrics(opts.Registry)

	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/projects", projects.GetProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects", projects.CreateProject).Methods(http.MethodPost)
	api.HandleFunc("/projects/search", projects.SearchProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects/filter", projects.FilterProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects/at-risk", projects.GetProjectsAtRisk).Methods(http.MethodGet)
	api.HandleFunc("/projects/by-status", projects.GetProjectsByStatus).Methods(http.MethodGet)
	api.HandleFunc("/projects/{projectId}", projects.GetProject).Methods(http.MethodGet)
	api.HandleFunc("/projects/{projectId}", projects.UpdateProject).Methods(http.MethodPut)
	api.HandleFunc("/projects/{projectId}", projects.DeleteProject).Methods(http.MethodDelete)
	api.HandleFunc("/projects/{projectId}/status", projects.UpdateProjectStatus).Methods(http.MethodPut)
	api.HandleFunc("/projects/{projectId}/team/{memberId}", projects.AddMemberToProject).Methods(http.MethodPost)
	api.HandleFunc("/projects/{projectId}/team/{memberId}", projects.RemoveMemberFromProject).Methods(http.MethodDelete)
	api.HandleFunc("/projects/{projectId}/requirements", projects.AddRequirement).Methods(http.MethodPost)
	api.HandleFunc("/projects/{projectId}/technologies", projects.AddProjectTechnology).Methods(http.MethodPost)

	api.HandleFunc("/projects/{projectId}/tasks", tasks.CreateTask).Methods(http.MethodPost)
	api.HandleFunc("/projects/{projectId}/tasks/{taskId}", tasks.GetTask).Methods(http.MethodGet)
	api.HandleFunc("/projects/{projectId}/tasks/{taskId}/assign", tasks.AssignTask).Methods(http.MethodPost)
	api.HandleFunc("/projects/{projectId}/tasks/{taskId}/status", tasks.UpdateTaskStatus).Methods(http.MethodPut)
	api.HandleFunc("/projects/{projectId}/tasks/{taskId}/time", tasks.LogTime).Methods(http.MethodPut)
	api.HandleFunc("/projects/{projectId}/tasks/{taskId}/complete", tasks.CompleteTask).Methods(http.MethodPost)
	api.HandleFunc("/projects/{projectId}/tasks/{taskId}/dependencies", tasks.AddDependency).Methods(http.MethodPost)
	api.HandleFunc("/projects/{projectId}/tasks/{taskId}/comments", tasks.AddComment).Methods(http.MethodPost)

	api.HandleFunc("/members", members.GetMembers).Methods(http.MethodGet)
	api.HandleFunc("/members", members.CreateMember).Methods(http.MethodPost)
	api.HandleFunc("/members/available", members.FindAvailableMember).Methods(http.MethodGet)
	api.HandleFunc("/members/{memberId}", members.GetMember).Methods(http.MethodGet)
	api.HandleFunc("/members/{memberId}", members.UpdateMember).Methods(http.MethodPut)
	api.HandleFunc("/members/{memberId}", members.DeleteMember).Methods(http.MethodDelete)

	api.HandleFunc("/technologies", analytics.GetTechnologies).Methods(http.MethodGet)
	api.HandleFunc("/technologies", analytics.AddTechnology).Methods(http.MethodPost)
	api.HandleFunc("/clients", analytics.GetClients).Methods(http.MethodGet)
	api.HandleFunc("/clients/{key}", analytics.SetClient).Methods(http.MethodPut)
	api.HandleFunc("/analytics/budget", analytics.GetBudgetAnalysis).Methods(http.MethodGet)
	api.HandleFunc("/analytics/resources", analytics.GetResourceUtilization).Methods(http.MethodGet)
	api.HandleFunc("/analytics/dashboard", analytics.GetDashboard).Methods(http.MethodGet)
	api.HandleFunc("/export", analytics.Export).Methods(http.MethodGet)

	return enableCORS(opts.CORSOrigin)(metrics.Instrument(r))
}
