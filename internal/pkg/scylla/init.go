package scylla

import (
	"Petrel/internal/api/config"
	log "log/slog"
	"time"

	"github.com/gocql/gocql"
)

// Session is the shared cluster session. It stays nil when the scylla
// section is absent from the configuration and the relational fallback is in
// charge of notes.
var Session *gocql.Session

// DefaultSparseTimelineDays bounds how many day partitions one pagination
// request may walk through when timelines are sparse.
const DefaultSparseTimelineDays = 14

// InitSession connects to the cluster described by the configuration.
func InitSession(cfg *config.ScyllaConfig) error {
	cluster := gocql.NewCluster(cfg.Nodes...)
	cluster.Keyspace = cfg.Keyspace
	cluster.Consistency = gocql.LocalQuorum
	cluster.Timeout = 10 * time.Second
	if cfg.LocalDC != "" {
		cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(
			gocql.DCAwareRoundRobinPolicy(cfg.LocalDC),
		)
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return err
	}

	Session = session
	log.Info("Connected to scylla cluster", "keyspace", cfg.Keyspace, "nodes", cfg.Nodes)
	return nil
}

// SparseTimelineDays returns the configured partition-scan bound.
func SparseTimelineDays(cfg *config.ScyllaConfig) int {
	if cfg != nil && cfg.SparseTimelineDays > 0 {
		return cfg.SparseTimelineDays
	}
	return DefaultSparseTimelineDays
}
