package file

import (
	"time"

	"github.com/google/uuid"
)

// File represents a row in the files table: metadata for an object stored
// in the S3-compatible bucket under Key.
type File struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Key         string
	Name        string
	Size        int64
	ContentType string
	CreatedAt   time.Time
}
