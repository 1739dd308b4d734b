package models

import (
	"fmt"
	"time"
)

// isoLayout matches the millisecond ISO-8601 form used in snapshots.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// ProjectView is the flattened form of a Project used for persistence and
// export. Derived fields are recomputed on every build and ignored on load.
type ProjectView struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Client            string            `json:"client"`
	Budget            Amount            `json:"budget"`
	StartDate         string            `json:"startDate"`
	Deadline          string            `json:"deadline"`
	Status            ProjectStatus     `json:"status"`
	Progress          int               `json:"progress"`
	TeamSize          int               `json:"teamSize"`
	TaskCount         int               `json:"taskCount"`
	RemainingDays     int               `json:"remainingDays"`
	BudgetUtilization BudgetUtilization `json:"budgetUtilization"`
	AtRisk            bool              `json:"atRisk"`
	CreatedAt         string            `json:"createdAt"`
	UpdatedAt         string            `json:"updatedAt"`
	Team              []string          `json:"team"`
	Tasks             []TaskView        `json:"tasks"`
	Requirements      Requirements      `json:"requirements"`
	Technologies      []string          `json:"technologies"`
}

type TaskView struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Phase          string     `json:"phase"`
	Priority       Priority   `json:"priority"`
	Status         TaskStatus `json:"status"`
	AssignedTo     *string    `json:"assignedTo"`
	Progress       int        `json:"progress"`
	EstimatedHours Amount     `json:"estimatedHours"`
	ActualHours    Amount     `json:"actualHours"`
	StartDate      *string    `json:"startDate"`
	DueDate        *string    `json:"dueDate"`
	CompletedDate  *string    `json:"completedDate"`
	Dependencies   []string   `json:"dependencies"`
	Tags           []string   `json:"tags"`
	CommentCount   int        `json:"commentCount"`
	EstimatedCost  Amount     `json:"estimatedCost"`
	ActualCost     Amount     `json:"actualCost"`
	Overdue        bool       `json:"overdue"`
	CreatedAt      string     `json:"createdAt"`
	UpdatedAt      string     `json:"updatedAt"`
	ProjectID      string     `json:"projectId"`
	Comments       []Comment  `json:"comments"`
}

type MemberView struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Role            string       `json:"role"`
	Email           string       `json:"email"`
	Skills          []string     `json:"skills"`
	HourlyRate      Amount       `json:"hourlyRate"`
	Availability    Availability `json:"availability"`
	Workload        Workload     `json:"workload"`
	Performance     Performance  `json:"performance"`
	CurrentProjects []string     `json:"currentProjects"`
	AssignedTasks   []string     `json:"assignedTasks"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func parseTime(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s %q: %w", field, value, ErrInvalidValue)
	}
	return t, nil
}

func parseOptionalTime(field, value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	return parseTime(field, value)
}

func parseTimePtr(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := parseTime(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (p *Project) View(now time.Time) ProjectView {
	tasks := make([]TaskView, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		tasks = append(tasks, t.View(now))
	}
	return ProjectView{
		ID:                p.ID,
		Name:              p.Name,
		Client:            p.Client,
		Budget:            Amount(p.Budget),
		StartDate:         formatTime(p.StartDate),
		Deadline:          formatTime(p.Deadline),
		Status:            p.Status,
		Progress:          p.CalculateProgress(),
		TeamSize:          len(p.Team),
		TaskCount:         len(p.Tasks),
		RemainingDays:     p.RemainingDays(now),
		BudgetUtilization: p.BudgetUtilization(),
		AtRisk:            p.IsAtRisk(now),
		CreatedAt:         formatTime(p.CreatedAt),
		UpdatedAt:         formatTime(p.UpdatedAt),
		Team:              orEmpty(p.Team),
		Tasks:             tasks,
		Requirements:      p.Requirements,
		Technologies:      orEmpty(p.Technologies),
	}
}

func (t *Task) View(now time.Time) TaskView {
	var assigned *string
	if t.AssignedTo != "" {
		a := t.AssignedTo
		assigned = &a
	}
	return TaskView{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Phase:          t.Phase,
		Priority:       t.Priority,
		Status:         t.Status,
		AssignedTo:     assigned,
		Progress:       t.CalculateProgress(),
		EstimatedHours: Amount(t.EstimatedHours),
		ActualHours:    Amount(t.ActualHours),
		StartDate:      formatTimePtr(t.StartDate),
		DueDate:        formatTimePtr(t.DueDate),
		CompletedDate:  formatTimePtr(t.CompletedDate),
		Dependencies:   orEmpty(t.Dependencies),
		Tags:           orEmpty(t.Tags),
		CommentCount:   len(t.Comments),
		EstimatedCost:  Amount(t.EstimatedCost),
		ActualCost:     Amount(t.ActualCost),
		Overdue:        t.IsOverdue(now),
		CreatedAt:      formatTime(t.CreatedAt),
		UpdatedAt:      formatTime(t.UpdatedAt),
		ProjectID:      t.ProjectID,
		Comments:       orEmpty(t.Comments),
	}
}

func (m *TeamMember) View() MemberView {
	return MemberView{
		ID:              m.ID,
		Name:            m.Name,
		Role:            m.Role,
		Email:           m.Email,
		Skills:          orEmpty(m.Skills),
		HourlyRate:      Amount(m.HourlyRate),
		Availability:    m.Availability,
		Workload:        m.Workload(),
		Performance:     m.Performance,
		CurrentProjects: orEmpty(m.CurrentProjects),
		AssignedTasks:   orEmpty(m.AssignedTasks),
	}
}

// ProjectFromView rebuilds a Project from its flattened form. Progress,
// team size, task count, remaining days, budget utilization and the risk flag
// are derived and ignored.
func ProjectFromView(v ProjectView) (*Project, error) {
	if v.ID == "" {
		return nil, fmt.Errorf("project id: %w", ErrInvalidValue)
	}
	if !v.Status.Valid() {
		return nil, fmt.Errorf("project %s status %q: %w", v.ID, v.Status, ErrInvalidValue)
	}
	start, err := parseTime("startDate", v.StartDate)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", v.ID, err)
	}
	deadline, err := parseTime("deadline", v.Deadline)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", v.ID, err)
	}
	created, err := parseOptionalTime("createdAt", v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", v.ID, err)
	}
	updated, err := parseOptionalTime("updatedAt", v.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", v.ID, err)
	}

	tasks := make([]*Task, 0, len(v.Tasks))
	for _, tv := range v.Tasks {
		t, err := TaskFromView(tv)
		if err != nil {
			return nil, fmt.Errorf("project %s: %w", v.ID, err)
		}
		t.ProjectID = v.ID
		tasks = append(tasks, t)
	}

	return &Project{
		ID:        v.ID,
		Name:      v.Name,
		Client:    v.Client,
		Budget:    float64(v.Budget),
		StartDate: start,
		Deadline:  deadline,
		Status:    v.Status,
		Team:      orEmpty(v.Team),
		Tasks:     tasks,
		Requirements: Requirements{
			Functional:    orEmpty(v.Requirements.Functional),
			NonFunctional: orEmpty(v.Requirements.NonFunctional),
			Regulatory:    orEmpty(v.Requirements.Regulatory),
		},
		Technologies: orEmpty(v.Technologies),
		CreatedAt:    created,
		UpdatedAt:    updated,
	}, nil
}

// TaskFromView ignores progress, comment count and the overdue flag.
func TaskFromView(v TaskView) (*Task, error) {
	if v.ID == "" {
		return nil, fmt.Errorf("task id: %w", ErrInvalidValue)
	}
	if !v.Status.Valid() {
		return nil, fmt.Errorf("task %s status %q: %w", v.ID, v.Status, ErrInvalidValue)
	}
	t := &Task{
		ID:             v.ID,
		ProjectID:      v.ProjectID,
		Title:          v.Title,
		Description:    v.Description,
		Phase:          v.Phase,
		Priority:       v.Priority,
		Status:         v.Status,
		EstimatedHours: float64(v.EstimatedHours),
		ActualHours:    float64(v.ActualHours),
		EstimatedCost:  float64(v.EstimatedCost),
		ActualCost:     float64(v.ActualCost),
		Dependencies:   orEmpty(v.Dependencies),
		Tags:           orEmpty(v.Tags),
		Comments:       orEmpty(v.Comments),
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if v.AssignedTo != nil {
		t.AssignedTo = *v.AssignedTo
	}
	var err error
	if t.StartDate, err = parseTimePtr("startDate", v.StartDate); err != nil {
		return nil, fmt.Errorf("task %s: %w", v.ID, err)
	}
	if t.DueDate, err = parseTimePtr("dueDate", v.DueDate); err != nil {
		return nil, fmt.Errorf("task %s: %w", v.ID, err)
	}
	if t.CompletedDate, err = parseTimePtr("completedDate", v.CompletedDate); err != nil {
		return nil, fmt.Errorf("task %s: %w", v.ID, err)
	}
	if t.CreatedAt, err = parseOptionalTime("createdAt", v.CreatedAt); err != nil {
		return nil, fmt.Errorf("task %s: %w", v.ID, err)
	}
	if t.UpdatedAt, err = parseOptionalTime("updatedAt", v.UpdatedAt); err != nil {
		return nil, fmt.Errorf("task %s: %w", v.ID, err)
	}
	return t, nil
}

// MemberFromView ignores the workload summary.
func MemberFromView(v MemberView) (*TeamMember, error) {
	if v.ID == "" {
		return nil, fmt.Errorf("member id: %w", ErrInvalidValue)
	}
	availability := v.Availability
	if availability == "" {
		availability = Available
	}
	if !availability.Valid() {
		return nil, fmt.Errorf("member %s availability %q: %w", v.ID, v.Availability, ErrInvalidValue)
	}
	return &TeamMember{
		ID:              v.ID,
		Name:            v.Name,
		Role:            v.Role,
		Email:           v.Email,
		Skills:          orEmpty(v.Skills),
		HourlyRate:      float64(v.HourlyRate),
		Availability:    availability,
		CurrentProjects: orEmpty(v.CurrentProjects),
		AssignedTasks:   orEmpty(v.AssignedTasks),
		Performance:     v.Performance,
	}, nil
}
