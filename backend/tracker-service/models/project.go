package models

import (
	"fmt"
	"math"
	"slices"
	"time"
)

type ProjectStatus string

const (
	StatusPlanning       ProjectStatus = "planning"
	StatusAnalysis       ProjectStatus = "analysis"
	StatusDesign         ProjectStatus = "design"
	StatusDevelopment    ProjectStatus = "development"
	StatusTesting        ProjectStatus = "testing"
	StatusImplementation ProjectStatus = "implementation"
	StatusMaintenance    ProjectStatus = "maintenance"
	StatusCompleted      ProjectStatus = "completed"
)

// ProjectStatuses lists every status in lifecycle order. Transitions between
// them are unrestricted.
var ProjectStatuses = []ProjectStatus{
	StatusPlanning,
	StatusAnalysis,
	StatusDesign,
	StatusDevelopment,
	StatusTesting,
	StatusImplementation,
	StatusMaintenance,
	StatusCompleted,
}

func (s ProjectStatus) Valid() bool {
	return slices.Contains(ProjectStatuses, s)
}

const (
	// riskDaysPerPercent is the minimum number of remaining days per remaining
	// percent of work before a project counts as at risk.
	riskDaysPerPercent = 0.5
	// riskMinDays flags every project closer than this to its deadline.
	riskMinDays = 7
)

type BudgetUtilization struct {
	Spent      Amount `json:"spent"`
	Remaining  Amount `json:"remaining"`
	Percentage Ratio  `json:"percentage"`
}

// Project owns its tasks and references team members by id.
type Project struct {
	ID           string
	Name         string
	Client       string
	Budget       float64
	StartDate    time.Time
	Deadline     time.Time
	Status       ProjectStatus
	Team         []string
	Tasks        []*Task
	Requirements Requirements
	Technologies []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewProject(id, name, client string, budget float64, startDate, deadline time.Time) *Project {
	if id == "" {
		id = newID("PROJ")
	}
	now := time.Now()
	return &Project{
		ID:           id,
		Name:         name,
		Client:       client,
		Budget:       budget,
		StartDate:    startDate,
		Deadline:     deadline,
		Status:       StatusPlanning,
		Team:         []string{},
		Tasks:        []*Task{},
		Requirements: newRequirements(),
		Technologies: []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (p *Project) touch() {
	p.UpdatedAt = time.Now()
}

func (p *Project) AddTeamMember(memberID string) error {
	if slices.Contains(p.Team, memberID) {
		return fmt.Errorf("member %s already on project %s: %w", memberID, p.ID, ErrDuplicate)
	}
	p.Team = append(p.Team, memberID)
	p.touch()
	return nil
}

func (p *Project) RemoveTeamMember(memberID string) error {
	idx := slices.Index(p.Team, memberID)
	if idx == -1 {
		return fmt.Errorf("member %s on project %s: %w", memberID, p.ID, ErrNotFound)
	}
	p.Team = slices.Delete(p.Team, idx, idx+1)
	p.touch()
	return nil
}

// AddTask attaches the task and stamps its back-reference.
func (p *Project) AddTask(task *Task) *Task {
	task.ProjectID = p.ID
	p.Tasks = append(p.Tasks, task)
	p.touch()
	return task
}

func (p *Project) Task(taskID string) (*Task, error) {
	for _, t := range p.Tasks {
		if t.ID == taskID {
			return t, nil
		}
	}
	return nil, fmt.Errorf("task %s in project %s: %w", taskID, p.ID, ErrNotFound)
}

// CreatesCycle reports whether making taskID depend on dependsOnID would close
// a loop, that is whether dependsOnID already reaches taskID.
func (p *Project) CreatesCycle(taskID, dependsOnID string) bool {
	if taskID == dependsOnID {
		return true
	}
	deps := make(map[string][]string, len(p.Tasks))
	for _, t := range p.Tasks {
		deps[t.ID] = t.Dependencies
	}
	seen := make(map[string]bool)
	stack := []string{dependsOnID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == taskID {
			return true
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		stack = append(stack, deps[id]...)
	}
	return false
}

func (p *Project) UpdateStatus(status ProjectStatus) error {
	if !status.Valid() {
		return fmt.Errorf("project status %q: %w", status, ErrInvalidValue)
	}
	p.Status = status
	p.touch()
	return nil
}

// AddRequirement appends a pending, medium priority requirement to the bucket.
func (p *Project) AddRequirement(t RequirementType, description string) (Requirement, error) {
	bucket := p.Requirements.bucket(t)
	if bucket == nil {
		return Requirement{}, fmt.Errorf("requirement type %q: %w", t, ErrInvalidValue)
	}
	req := Requirement{
		ID:          newID("REQ"),
		Description: description,
		Status:      "pending",
		Priority:    "medium",
	}
	*bucket = append(*bucket, req)
	p.touch()
	return req, nil
}

func (p *Project) AddTechnology(tag string) error {
	if slices.Contains(p.Technologies, tag) {
		return fmt.Errorf("technology %q: %w", tag, ErrDuplicate)
	}
	p.Technologies = append(p.Technologies, tag)
	p.touch()
	return nil
}

// CalculateProgress is the share of completed tasks, unweighted.
func (p *Project) CalculateProgress() int {
	if len(p.Tasks) == 0 {
		return 0
	}
	completed := 0
	for _, t := range p.Tasks {
		if t.Status == TaskCompleted {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(p.Tasks)) * 100))
}

// RemainingDays is negative once the deadline has passed.
func (p *Project) RemainingDays(now time.Time) int {
	days := p.Deadline.Sub(now).Hours() / 24
	return int(math.Ceil(days))
}

// IsAtRisk flags projects whose remaining days per remaining percent drop
// below riskDaysPerPercent, or with fewer than riskMinDays left. At 100%
// progress the quotient is NaN or an infinity; +Inf and NaN never compare
// below the threshold, so only the deadline check applies.
func (p *Project) IsAtRisk(now time.Time) bool {
	remaining := p.RemainingDays(now)
	progress := p.CalculateProgress()
	daysPerPercent := float64(remaining) / float64(100-progress)
	return daysPerPercent < riskDaysPerPercent || remaining < riskMinDays
}

func (p *Project) BudgetUtilization() BudgetUtilization {
	spent := 0.0
	for _, t := range p.Tasks {
		if t.Status == TaskCompleted {
			spent += t.EstimatedCost
		}
	}
	return BudgetUtilization{
		Spent:      Amount(spent),
		Remaining:  Amount(p.Budget - spent),
		Percentage: Percent(spent, p.Budget),
	}
}
