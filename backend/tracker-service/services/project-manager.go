package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yolmane/fintech-project-manager/backend/tracker-service/logging"
	"github.com/yolmane/fintech-project-manager/backend/tracker-service/models"
	"github.com/yolmane/fintech-project-manager/backend/tracker-service/repositories"
)

// DefaultSnapshotKey is the store key holding the full manager state.
const DefaultSnapshotKey = "projectManagerData"

var defaultTechnologies = []string{"JavaScript", "Node.js", "React", "Python", "Java", "SQL", "Blockchain", "AWS", "Docker"}

// DependencyMirror receives task nodes and dependency edges after the
// in-memory graph has changed.
type DependencyMirror interface {
	EnsureTaskNode(ctx context.Context, node repositories.TaskNode) error
	AddDependency(ctx context.Context, taskID, dependsOnID string) error
}

// ProjectManager is the aggregate root over projects, team members,
// technologies and clients. Every command writes a full snapshot.
type ProjectManager struct {
	mu           sync.RWMutex
	projects     *ordered[*models.Project]
	members      *ordered[*models.TeamMember]
	technologies *ordered[struct{}]
	clients      *ordered[string]

	store repositories.SnapshotStore
	key   string
	now   func() time.Time
	graph DependencyMirror
}

type Option func(*ProjectManager)

func WithSnapshotKey(key string) Option {
	return func(pm *ProjectManager) {
		if key != "" {
			pm.key = key
		}
	}
}

// WithClock replaces time.Now for derived queries.
func WithClock(now func() time.Time) Option {
	return func(pm *ProjectManager) { pm.now = now }
}

func WithDependencyMirror(graph DependencyMirror) Option {
	return func(pm *ProjectManager) { pm.graph = graph }
}

func NewProjectManager(store repositories.SnapshotStore, opts ...Option) *ProjectManager {
	if store == nil {
		store = repositories.NewMemoryStore()
	}
	pm := &ProjectManager{
		store: store,
		key:   DefaultSnapshotKey,
		now:   time.Now,
	}
	pm.reset()
	for _, opt := range opts {
		opt(pm)
	}
	return pm
}

func (pm *ProjectManager) reset() {
	pm.projects = newOrdered[*models.Project]()
	pm.members = newOrdered[*models.TeamMember]()
	pm.technologies = newOrdered[struct{}]()
	pm.clients = newOrdered[string]()
	for _, t := range defaultTechnologies {
		pm.technologies.set(t, struct{}{})
	}
}

// ProjectUpdate is a typed patch; nil fields are left unchanged.
type ProjectUpdate struct {
	Name      *string               `json:"name"`
	Client    *string               `json:"client"`
	Budget    *float64              `json:"budget"`
	StartDate *time.Time            `json:"startDate"`
	Deadline  *time.Time            `json:"deadline"`
	Status    *models.ProjectStatus `json:"status"`
}

// MemberUpdate is a typed patch; nil fields are left unchanged.
type MemberUpdate struct {
	Name         *string              `json:"name"`
	Role         *string              `json:"role"`
	Email        *string              `json:"email"`
	Skills       []string             `json:"skills"`
	HourlyRate   *float64             `json:"hourlyRate"`
	Availability *models.Availability `json:"availability"`
}

func (pm *ProjectManager) project(id string) (*models.Project, error) {
	p, ok := pm.projects.get(id)
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, models.ErrNotFound)
	}
	return p, nil
}

func (pm *ProjectManager) member(id string) (*models.TeamMember, error) {
	m, ok := pm.members.get(id)
	if !ok {
		return nil, fmt.Errorf("team member %s: %w", id, models.ErrNotFound)
	}
	return m, nil
}

func (pm *ProjectManager) AddProject(ctx context.Context, p *models.Project) (models.ProjectView, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if p.ID == "" {
		return models.ProjectView{}, fmt.Errorf("project id: %w", models.ErrInvalidValue)
	}
	if !p.Status.Valid() {
		return models.ProjectView{}, fmt.Errorf("project %s status %q: %w", p.ID, p.Status, models.ErrInvalidValue)
	}
	if pm.projects.has(p.ID) {
		return models.ProjectView{}, fmt.Errorf("project %s: %w", p.ID, models.ErrDuplicate)
	}
	pm.projects.set(p.ID, p)
	for _, t := range p.Tasks {
		t.ProjectID = p.ID
		pm.mirrorTask(ctx, t)
	}
	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Project %s (%s) created", p.ID, p.Name)
	return p.View(pm.now()), pm.persist(ctx)
}

func (pm *ProjectManager) UpdateProject(ctx context.Context, id string, u ProjectUpdate) (models.ProjectView, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	p, err := pm.project(id)
	if err != nil {
		return models.ProjectView{}, err
	}
	if u.Status != nil && !u.Status.Valid() {
		return models.ProjectView{}, fmt.Errorf("project %s status %q: %w", id, *u.Status, models.ErrInvalidValue)
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Client != nil {
		p.Client = *u.Client
	}
	if u.Budget != nil {
		p.Budget = *u.Budget
	}
	if u.StartDate != nil {
		p.StartDate = *u.StartDate
	}
	if u.Deadline != nil {
		p.Deadline = *u.Deadline
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	p.UpdatedAt = time.Now()
	return p.View(pm.now()), pm.persist(ctx)
}

func (pm *ProjectManager) UpdateProjectStatus(ctx context.Context, id string, status models.ProjectStatus) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	p, err := pm.project(id)
	if err != nil {
		return err
	}
	if err := p.UpdateStatus(status); err != nil {
		return err
	}
	logging.Logger.Infof("Event ID: PROJECT_STATUS_UPDATED, Description: Project %s moved to %s", id, status)
	return pm.persist(ctx)
}

// DeleteProject removes the project and drops its references from members.
func (pm *ProjectManager) DeleteProject(ctx context.Context, id string) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	p, err := pm.project(id)
	if err != nil {
		return err
	}
	pm.projects.delete(id)
	for _, m := range pm.members.values() {
		m.LeaveProject(id)
		for _, t := range p.Tasks {
			m.ReleaseTask(t.ID)
		}
	}
	logging.Logger.Infof("Event ID: PROJECT_DELETED, Description: Project %s deleted", id)
	return pm.persist(ctx)
}

func (pm *ProjectManager) AddTeamMember(ctx context.Context, m *models.TeamMember) (models.MemberView, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if m.ID == "" {
		return models.MemberView{}, fmt.Errorf("member id: %w", models.ErrInvalidValue)
	}
	if !m.Availability.Valid() {
		return models.MemberView{}, fmt.Errorf("member %s availability %q: %w", m.ID, m.Availability, models.ErrInvalidValue)
	}
	if pm.members.has(m.ID) {
		return models.MemberView{}, fmt.Errorf("team member %s: %w", m.ID, models.ErrDuplicate)
	}
	pm.members.set(m.ID, m)
	logging.Logger.Infof("Event ID: MEMBER_CREATED, Description: Team member %s (%s) added", m.ID, m.Name)
	return m.View(), pm.persist(ctx)
}

func (pm *ProjectManager) UpdateTeamMember(ctx context.Context, id string, u MemberUpdate) (models.MemberView, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	m, err := pm.member(id)
	if err != nil {
		return models.MemberView{}, err
	}
	if u.Availability != nil && !u.Availability.Valid() {
		return models.MemberView{}, fmt.Errorf("member %s availability %q: %w", id, *u.Availability, models.ErrInvalidValue)
	}
	if u.Name != nil {
		m.Name = *u.Name
	}
	if u.Role != nil {
		m.Role = *u.Role
	}
	if u.Email != nil {
		m.Email = *u.Email
	}
	if u.Skills != nil {
		m.Skills = u.Skills
	}
	if u.HourlyRate != nil {
		m.HourlyRate = *u.HourlyRate
	}
	if u.Availability != nil {
		m.Availability = *u.Availability
	}
	return m.View(), pm.persist(ctx)
}

// DeleteTeamMember removes the member from every project team. Tasks keep
// their assignee id.
func (pm *ProjectManager) DeleteTeamMember(ctx context.Context, id string) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if !pm.members.delete(id) {
		return fmt.Errorf("team member %s: %w", id, models.ErrNotFound)
	}
	for _, p := range pm.projects.values() {
		_ = p.RemoveTeamMember(id)
	}
	logging.Logger.Infof("Event ID: MEMBER_DELETED, Description: Team member %s deleted", id)
	return pm.persist(ctx)
}

func (pm *ProjectManager) SetClient(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("client key: %w", models.ErrInvalidValue)
	}
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.clients.set(key, value)
	return pm.persist(ctx)
}

// AddTechnology is idempotent; known tags are not persisted again.
func (pm *ProjectManager) AddTechnology(ctx context.Context, tag string) error {
	if tag == "" {
		return fmt.Errorf("technology: %w", models.ErrInvalidValue)
	}
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pm.technologies.has(tag) {
		return nil
	}
	pm.technologies.set(tag, struct{}{})
	return pm.persist(ctx)
}

func (pm *ProjectManager) persist(ctx context.Context) error {
	data, err := pm.marshalSnapshot()
	if err != nil {
		return err
	}
	if err := pm.store.Save(ctx, pm.key, data); err != nil {
		logging.Logger.Errorf("Event ID: SNAPSHOT_SAVE_FAILED, Description: %v", err)
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}
	return nil
}
