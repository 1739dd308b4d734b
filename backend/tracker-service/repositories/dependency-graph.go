package repositories

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/sirupsen/logrus"
)

// TaskNode is the graph-side projection of a task.
type TaskNode struct {
	ID        string
	ProjectID string
	Title     string
	Status    string
}

// DependencyGraph mirrors tasks and their DEPENDS_ON edges into Neo4j.
type DependencyGraph struct {
	driver neo4j.DriverWithContext
	logger *logrus.Logger
}

func NewDependencyGraph(ctx context.Context, uri, username, password string, logger *logrus.Logger) (*DependencyGraph, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to Neo4j: %w", err)
	}
	logger.Info("Event ID: GRAPH_CONNECTED, Description: Connected to Neo4j dependency graph")
	return &DependencyGraph{driver: driver, logger: logger}, nil
}

func (g *DependencyGraph) EnsureTaskNode(ctx context.Context, task TaskNode) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MERGE (t:Task {id: $id})
			SET t.projectId = $projectId,
				t.title = $title,
				t.status = $status
		`
		_, err := tx.Run(ctx, query, map[string]any{
			"id":        task.ID,
			"projectId": task.ProjectID,
			"title":     task.Title,
			"status":    task.Status,
		})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("failed to upsert task node: %w", err)
	}
	return nil
}

// AddDependency records that taskID depends on dependsOnID.
func (g *DependencyGraph) AddDependency(ctx context.Context, taskID, dependsOnID string) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MERGE (to:Task {id: $toId})
			MERGE (from:Task {id: $fromId})
			MERGE (to)-[:DEPENDS_ON]->(from)
		`
		_, err := tx.Run(ctx, query, map[string]any{
			"toId":   taskID,
			"fromId": dependsOnID,
		})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("failed to create dependency relation: %w", err)
	}
	g.logger.Infof("Event ID: DEPENDENCY_MIRRORED, Description: %s -> %s", taskID, dependsOnID)
	return nil
}

func (g *DependencyGraph) Close(ctx context.Context) error {
	return g.driver.Close(ctx)
}
