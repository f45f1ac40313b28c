// Package session keeps rendered documents alive between requests.
//
// A session holds the committed [mesh.Snapshot] of one document: the
// topology, the configuration, the task variants and the visible area. A
// CLI invocation or a server instance resumes the document from the
// snapshot, applies an update, and stores the new snapshot back.
//
// Backends:
//   - [MemoryStore]: in-process, for tests and a single server
//   - [FileStore]: JSON files, for the CLI
//   - [RedisStore]: shared by several server instances
//
// Usage:
//
//	sess, err := session.New(snap, session.DefaultTTL)
//	err = store.Set(ctx, sess)
//
//	sess, err = store.Get(ctx, id)
//	if sess == nil {
//	    // missing or expired
//	}
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/render/mesh"
)

// DefaultTTL is the default session lifetime.
const DefaultTTL = 24 * time.Hour

// Session is one stored document.
type Session struct {
	ID        string         `json:"id"`
	Snapshot  *mesh.Snapshot `json:"snapshot"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// New creates a session with a fresh random id.
func New(snap *mesh.Snapshot, ttl time.Duration) (*Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "generate session id")
	}
	now := time.Now()
	return &Session{
		ID:        id.String(),
		Snapshot:  snap,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// IsExpired reports whether the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch replaces the snapshot and extends the lifetime by ttl.
func (s *Session) Touch(snap *mesh.Snapshot, ttl time.Duration) {
	now := time.Now()
	s.Snapshot = snap
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}

// Document resumes the stored document.
func (s *Session) Document(opts ...mesh.Option) (*mesh.Document, error) {
	if s.Snapshot == nil {
		return nil, errors.New(errors.ErrCodeInternal, "session %s has no snapshot", s.ID)
	}
	return mesh.Resume(s.Snapshot, opts...)
}

// ValidID reports whether id has the shape of a session id. Stores reject
// anything else before touching the backend, so ids never reach a file
// path unchecked.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// NotFound returns the error reported for a missing or expired session.
func NotFound(id string) error {
	return errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get returns the session with the given id, or nil, nil when it does
	// not exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the ids of all live sessions, sorted.
	List(ctx context.Context) ([]string, error)

	// Cleanup removes expired sessions. Backends with native expiration
	// may do nothing.
	Cleanup(ctx context.Context) error

	// Close releases the backend.
	Close() error
}
