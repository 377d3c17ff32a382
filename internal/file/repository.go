package file

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrFileNotFound is returned when a file record does not exist or belongs
// to a different user.
var ErrFileNotFound = errors.New("file not found")

// Repository provides operations on the files table. All reads and writes
// are scoped to the owning user.
type Repository interface {
	Create(ctx context.Context, f *File) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*File, error)
	List(ctx context.Context, userID uuid.UUID) ([]File, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}
