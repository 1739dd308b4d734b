package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yolmane/fintech-project-manager/backend/tracker-service/logging"
	"github.com/yolmane/fintech-project-manager/backend/tracker-service/models"
	"github.com/yolmane/fintech-project-manager/backend/tracker-service/repositories"
)

// Snapshot is the persisted form of the whole manager.
type Snapshot struct {
	Projects     []models.ProjectView `json:"projects"`
	TeamMembers  []models.MemberView  `json:"teamMembers"`
	Technologies []string             `json:"technologies"`
	Clients      [][2]string          `json:"clients"`
}

func (pm *ProjectManager) Snapshot() Snapshot {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.snapshot()
}

func (pm *ProjectManager) snapshot() Snapshot {
	now := pm.now()
	s := Snapshot{
		Projects:     make([]models.ProjectView, 0, pm.projects.len()),
		TeamMembers:  make([]models.MemberView, 0, pm.members.len()),
		Technologies: append([]string{}, pm.technologies.keys...),
		Clients:      pm.clientPairs(),
	}
	for _, p := range pm.projects.values() {
		s.Projects = append(s.Projects, p.View(now))
	}
	for _, m := range pm.members.values() {
		s.TeamMembers = append(s.TeamMembers, m.View())
	}
	return s
}

func (pm *ProjectManager) marshalSnapshot() ([]byte, error) {
	data, err := json.Marshal(pm.snapshot())
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// Save writes the full state under the configured key.
func (pm *ProjectManager) Save(ctx context.Context) error {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.persist(ctx)
}

// Load replaces the in-memory state with the stored snapshot. A missing
// snapshot leaves an empty manager. A corrupt one is returned as an error and
// the current state is kept.
func (pm *ProjectManager) Load(ctx context.Context) error {
	data, err := pm.store.Load(ctx, pm.key)
	if errors.Is(err, repositories.ErrSnapshotNotFound) {
		pm.mu.Lock()
		pm.reset()
		pm.mu.Unlock()
		logging.Logger.Infof("Event ID: SNAPSHOT_NOT_FOUND, Description: No snapshot under %q, starting empty", pm.key)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", errors.Join(models.ErrInvalidValue, err))
	}
	if err := pm.Restore(s); err != nil {
		return err
	}
	logging.Logger.Infof("Event ID: SNAPSHOT_LOADED, Description: Loaded %d projects and %d team members", len(s.Projects), len(s.TeamMembers))
	return nil
}

// Restore rebuilds the state from s without persisting. Technologies are
// merged into the defaults.
func (pm *ProjectManager) Restore(s Snapshot) error {
	projects := newOrdered[*models.Project]()
	for _, v := range s.Projects {
		p, err := models.ProjectFromView(v)
		if err != nil {
			return err
		}
		projects.set(p.ID, p)
	}
	members := newOrdered[*models.TeamMember]()
	for _, v := range s.TeamMembers {
		m, err := models.MemberFromView(v)
		if err != nil {
			return err
		}
		members.set(m.ID, m)
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.reset()
	pm.projects = projects
	pm.members = members
	for _, t := range s.Technologies {
		pm.technologies.set(t, struct{}{})
	}
	for _, kv := range s.Clients {
		pm.clients.set(kv[0], kv[1])
	}
	return nil
}
