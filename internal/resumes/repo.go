package resumes

import (
	"context"
	"errors"
)

// ErrNotFound indicates no resume matched the lookup.
var ErrNotFound = errors.New("resume not found")

// Repo is the persistence contract for resume records.
type Repo interface {
	// FindByIdentity returns the most recently updated record matching any of
	// the given identity fields. Empty arguments are ignored.
	FindByIdentity(ctx context.Context, email, phone, linkedin string) (ResumeRecord, error)
	GetByID(ctx context.Context, id string) (ResumeRecord, error)
	Insert(ctx context.Context, record ResumeRecord) error
	Update(ctx context.Context, record ResumeRecord) error
	// List returns records ordered newest-first.
	List(ctx context.Context, limit, offset int) ([]ResumeRecord, error)
	Stats(ctx context.Context) (Stats, error)
}
