package ports

import (
	"context"
	"errors"
)

// ErrSnapshotNotFound is returned by GameStore.Load when the owner has no saved scorecard.
var ErrSnapshotNotFound = errors.New("scorecard snapshot not found")

// GameStore persists encoded scorecard snapshots, one per owner.
// Persistence observes state changes; a failed Save must never roll back the in-memory game.
type GameStore interface {
	// Load returns the last snapshot saved for ownerID, or ErrSnapshotNotFound.
	Load(ctx context.Context, ownerID string) ([]byte, error)

	// Save replaces the snapshot for ownerID.
	Save(ctx context.Context, ownerID string, snapshot []byte) error

	// Delete removes the snapshot for ownerID. Deleting a missing snapshot is not an error.
	Delete(ctx context.Context, ownerID string) error
}
