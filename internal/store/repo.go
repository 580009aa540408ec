package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
	Kind   string    // "train" or "predict"; empty matches both
}

// StudentRepo manages student records. Records are inserted or deleted,
// never updated in place.
type StudentRepo interface {
	// List returns all students ordered by id.
	List(ctx context.Context) ([]Student, error)

	// Get returns one student or ErrNotFound.
	Get(ctx context.Context, id int) (*Student, error)

	// Add inserts s, fills in its ID and CreatedAt, and derives the
	// performance category from the score when one is present.
	Add(ctx context.Context, s *Student) error

	// ReplaceAll deletes every student and inserts students in a single
	// transaction. It returns the number inserted.
	ReplaceAll(ctx context.Context, students []Student) (int, error)

	// Count returns the number of stored students.
	Count(ctx context.Context) (int, error)

	// Delete removes one student. Deleting a missing id returns ErrNotFound.
	Delete(ctx context.Context, id int) error
}

// UserRepo manages login accounts.
type UserRepo interface {
	// Get returns the user with the given name or ErrNotFound.
	Get(ctx context.Context, username string) (*User, error)

	// Create inserts a new user. Usernames are unique.
	Create(ctx context.Context, u *User) error

	// EnsureAdmin creates an admin account with the given password hash
	// unless a user with that name exists. It reports whether one was created.
	EnsureAdmin(ctx context.Context, username, passwordHash string) (bool, error)
}

// ModelRepo stores trained model blobs.
type ModelRepo interface {
	// Save stores rec, assigning an ID and CreatedAt when they are unset.
	Save(ctx context.Context, rec *ModelRecord) error

	// Get returns the model with the given id, including its blob, or ErrNotFound.
	Get(ctx context.Context, id string) (*ModelRecord, error)

	// Latest returns the most recently saved model, or nil if none exist.
	Latest(ctx context.Context) (*ModelRecord, error)

	// List returns model summaries, newest first, without blobs.
	List(ctx context.Context, limit int) ([]ModelRecord, error)
}

// EventRepo provides append and query access to the run log.
type EventRepo interface {
	// AppendRun records a training or prediction run.
	AppendRun(ctx context.Context, data RunEventData) error

	// QueryRuns returns runs newest first.
	QueryRuns(ctx context.Context, opts QueryOpts) ([]RunRecord, error)
}
