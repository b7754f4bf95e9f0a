// Package memory provides map-backed repositories guarded by a single mutex.
// They serve tests and thin deployments that do not want a real database; the
// claim operations hold the lock for the whole read-modify-write so their
// at-most-once guarantees match the Postgres implementations.
package memory

import (
	"sync"

	"github.com/socialguillotine/backend/domain"
)

type DB struct {
	mu      sync.Mutex
	tasks   map[string]*domain.Task
	users   map[string]*domain.User
	stats   map[string]*domain.UserStats
	badges  map[string]map[string]domain.Badge // user id -> badge type -> badge
	groups  map[string]*domain.Group
	members map[string]map[string]bool // group id -> user id set
}

func Open() *DB {
	return &DB{
		tasks:   make(map[string]*domain.Task),
		users:   make(map[string]*domain.User),
		stats:   make(map[string]*domain.UserStats),
		badges:  make(map[string]map[string]domain.Badge),
		groups:  make(map[string]*domain.Group),
		members: make(map[string]map[string]bool),
	}
}
