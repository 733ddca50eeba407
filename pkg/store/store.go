// Package store persists layout snapshots.
//
// A snapshot freezes one computed layout under a random ID so the HTTP API
// can hand out stable links to a history view. [MemoryStore] serves tests
// and single-process use; [MongoStore] backs deployed servers.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/gitlanes/pkg/graph"
)

// ErrNotFound is returned when no snapshot has the requested ID.
var ErrNotFound = errors.New("snapshot not found")

// DefaultListLimit caps List when the caller passes limit <= 0.
const DefaultListLimit = 50

// Snapshot is a stored layout.
type Snapshot struct {
	ID        string       `json:"id" bson:"_id"`
	Repo      string       `json:"repo" bson:"repo"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	Layout    graph.Layout `json:"layout" bson:"layout"`
}

// Store saves and loads snapshots. Implementations are safe for concurrent use.
type Store interface {
	// Save stores s. An empty ID is replaced with a new UUID and a zero
	// CreatedAt with the current time; the stored snapshot is returned.
	Save(ctx context.Context, s Snapshot) (Snapshot, error)
	Get(ctx context.Context, id string) (Snapshot, error)
	// List returns the newest snapshots of repo first. An empty repo lists
	// all repositories.
	List(ctx context.Context, repo string, limit int) ([]Snapshot, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

func prepare(s Snapshot) Snapshot {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	return s
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
