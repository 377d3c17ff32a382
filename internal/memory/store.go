package memory

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrMemoryNotFound is returned when a memory entry does not exist or
// belongs to a different user.
var ErrMemoryNotFound = errors.New("memory not found")

// Store is the long-term memory provider interface. The default provider is
// the postgres repository; alternative providers only need to satisfy this
// interface to be swapped in at wiring time.
type Store interface {
	Create(ctx context.Context, m *Memory) error
	List(ctx context.Context, userID uuid.UUID, filter ListFilter) (*ListResult, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}
