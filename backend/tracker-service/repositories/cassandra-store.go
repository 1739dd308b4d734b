package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/sirupsen/logrus"
)

// CassandraStore keeps snapshots in a single-partition-per-key table.
type CassandraStore struct {
	session *gocql.Session
	logger  *logrus.Logger
}

var _ SnapshotStore = (*CassandraStore)(nil)

func NewCassandraStore(host, keyspace string, logger *logrus.Logger) (*CassandraStore, error) {
	cluster := gocql.NewCluster(host)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Cassandra: %w", err)
	}

	err = session.Query(fmt.Sprintf(
		`CREATE KEYSPACE IF NOT EXISTS %s
         WITH replication = {
             'class': 'SimpleStrategy',
             'replication_factor': 1
         }`, keyspace)).Exec()
	session.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to create keyspace: %w", err)
	}

	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s keyspace: %w", keyspace, err)
	}

	err = session.Query(
		`CREATE TABLE IF NOT EXISTS snapshots (
			key TEXT PRIMARY KEY,
			data BLOB,
			saved_at TIMESTAMP
		)`).Exec()
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to create snapshots table: %w", err)
	}

	logger.Infof("Event ID: DB_CONNECTED, Description: Using Cassandra keyspace %s for snapshots", keyspace)
	return &CassandraStore{session: session, logger: logger}, nil
}

func (s *CassandraStore) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.session.Query(`SELECT data FROM snapshots WHERE key = ?`, key).
		WithContext(ctx).Scan(&data)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return data, nil
}

func (s *CassandraStore) Save(ctx context.Context, key string, data []byte) error {
	err := s.session.Query(`INSERT INTO snapshots (key, data, saved_at) VALUES (?, ?, ?)`,
		key, data, time.Now().UTC()).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (s *CassandraStore) Close(ctx context.Context) error {
	s.session.Close()
	s.logger.Info("Event ID: DB_SESSION_CLOSED, Description: Cassandra session closed")
	return nil
}
