package models

import (
	"fmt"
	"slices"
	"time"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "inProgress"
	TaskReview     TaskStatus = "review"
	TaskCompleted  TaskStatus = "completed"
)

// progress by status; there is no interpolation between steps.
var taskProgress = map[TaskStatus]int{
	TaskTodo:       0,
	TaskInProgress: 50,
	TaskReview:     75,
	TaskCompleted:  100,
}

func (s TaskStatus) Valid() bool {
	_, ok := taskProgress[s]
	return ok
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

type Comment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Task is a unit of work owned by exactly one Project.
type Task struct {
	ID          string
	ProjectID   string
	Title       string
	Description string
	Phase       string
	Priority    Priority
	Status      TaskStatus
	// AssignedTo is empty while the task is unassigned.
	AssignedTo     string
	EstimatedHours float64
	ActualHours    float64
	EstimatedCost  float64
	ActualCost     float64
	StartDate      *time.Time
	DueDate        *time.Time
	CompletedDate  *time.Time
	Dependencies   []string
	Tags           []string
	Comments       []Comment
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewTask creates a todo task. An empty id is generated, an empty priority
// defaults to medium.
func NewTask(id, title, description, phase string, priority Priority) *Task {
	if id == "" {
		id = newID("TASK")
	}
	if priority == "" {
		priority = PriorityMedium
	}
	now := time.Now()
	return &Task{
		ID:           id,
		Title:        title,
		Description:  description,
		Phase:        phase,
		Priority:     priority,
		Status:       TaskTodo,
		Dependencies: []string{},
		Tags:         []string{},
		Comments:     []Comment{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// AssignTo hands the task to a member and moves it to inProgress.
func (t *Task) AssignTo(memberID string) {
	now := time.Now()
	t.AssignedTo = memberID
	t.Status = TaskInProgress
	t.StartDate = &now
	t.UpdatedAt = now
}

// UpdateStatus accepts any valid status regardless of the current one.
// CompletedDate is stamped on completion and kept if the task is reopened.
func (t *Task) UpdateStatus(status TaskStatus) error {
	if !status.Valid() {
		return fmt.Errorf("task status %q: %w", status, ErrInvalidValue)
	}
	now := time.Now()
	t.Status = status
	if status == TaskCompleted {
		t.CompletedDate = &now
	}
	t.UpdatedAt = now
	return nil
}

func (t *Task) AddDependency(taskID string) error {
	if taskID == t.ID {
		return fmt.Errorf("task %s cannot depend on itself: %w", t.ID, ErrInvalidValue)
	}
	if slices.Contains(t.Dependencies, taskID) {
		return fmt.Errorf("dependency %s: %w", taskID, ErrDuplicate)
	}
	t.Dependencies = append(t.Dependencies, taskID)
	t.UpdatedAt = time.Now()
	return nil
}

func (t *Task) AddComment(author, text string) Comment {
	now := time.Now()
	c := Comment{
		ID:        newID("CMT"),
		Author:    author,
		Text:      text,
		Timestamp: now,
	}
	t.Comments = append(t.Comments, c)
	t.UpdatedAt = now
	return c
}

func (t *Task) CalculateProgress() int {
	return taskProgress[t.Status]
}

func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Status == TaskCompleted {
		return false
	}
	return now.After(*t.DueDate)
}

// UpdateTimeTracking overwrites the tracked hours and recomputes the actual cost.
func (t *Task) UpdateTimeTracking(hours, hourlyRate float64) {
	t.ActualHours = hours
	t.ActualCost = hours * hourlyRate
	t.UpdatedAt = time.Now()
}
