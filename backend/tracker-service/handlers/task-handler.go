package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/yolmane/fintech-project-manager/backend/tracker-service/models"
	"github.com/yolmane/fintech-project-manager/backend/tracker-service/services"
)

type TaskHandler struct {
	manager *services.ProjectManager
}

func NewTaskHandler(manager *services.ProjectManager) *TaskHandler {
	return &TaskHandler{manager: manager}
}

type createTaskRequest struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Phase          string          `json:"phase"`
	Priority       models.Priority `json:"priority"`
	EstimatedHours float64         `json:"estimatedHours"`
	EstimatedCost  float64         `json:"estimatedCost"`
	DueDate        *string         `json:"dueDate"`
	Tags           []string        `json:"tags"`
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	task := models.NewTask(req.ID, req.Title, req.Description, req.Phase, req.Priority)
	task.EstimatedHours = req.EstimatedHours
	task.EstimatedCost = req.EstimatedCost
	if req.Tags != nil {
		task.Tags = req.Tags
	}
	due, err := optionalDate("dueDate", req.DueDate)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	task.DueDate = due

	view, err := h.manager.AddTask(r.Context(), mux.Vars(r)["projectId"], task)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	view, err := h.manager.Task(vars["projectId"], vars["taskId"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type assignTaskRequest struct {
	MemberID string `json:"memberId"`
}

func (h *TaskHandler) AssignTask(w http.ResponseWriter, r *http.Request) {
	var req assignTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	vars := mux.Vars(r)
	if err := h.manager.AssignTask(r.Context(), vars["projectId"], vars["taskId"], req.MemberID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.GetTask(w, r)
}

func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	vars := mux.Vars(r)
	if err := h.manager.UpdateTaskStatus(r.Context(), vars["projectId"], vars["taskId"], models.TaskStatus(req.Status)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.GetTask(w, r)
}

type timeRequest struct {
	Hours float64 `json:"hours"`
}

func (h *TaskHandler) LogTime(w http.ResponseWriter, r *http.Request) {
	var req timeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	vars := mux.Vars(r)
	view, err := h.manager.LogTaskTime(r.Context(), vars["projectId"], vars["taskId"], req.Hours)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type completeTaskRequest struct {
	ActualHours  float64  `json:"actualHours"`
	QualityScore *float64 `json:"qualityScore"`
}

func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	var req completeTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	quality := float64(services.DefaultQualityScore)
	if req.QualityScore != nil {
		quality = *req.QualityScore
	}
	vars := mux.Vars(r)
	view, err := h.manager.CompleteTask(r.Context(), vars["projectId"], vars["taskId"], req.ActualHours, quality)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type dependencyRequest struct {
	DependsOn string `json:"dependsOn"`
}

func (h *TaskHandler) AddDependency(w http.ResponseWriter, r *http.Request) {
	var req dependencyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	vars := mux.Vars(r)
	if err := h.manager.AddTaskDependency(r.Context(), vars["projectId"], vars["taskId"], req.DependsOn); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.GetTask(w, r)
}

type commentRequest struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	vars := mux.Vars(r)
	c, err := h.manager.AddTaskComment(r.Context(), vars["projectId"], vars["taskId"], req.Author, req.Text)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}
