package nakama

import (
	"context"
	"fmt"

	"ohhell/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// storageModule is the slice of runtime.NakamaModule the store needs.
type storageModule interface {
	StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error)
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
	StorageDelete(ctx context.Context, deletes []*runtime.StorageDelete) error
}

// NakamaStore keeps one scorecard snapshot per user in Nakama storage.
type NakamaStore struct {
	nk storageModule
}

// NewNakamaStore creates a snapshot store over Nakama storage.
func NewNakamaStore(nk storageModule) *NakamaStore {
	return &NakamaStore{nk: nk}
}

func (s *NakamaStore) Load(ctx context.Context, ownerID string) ([]byte, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is required")
	}
	objects, err := s.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: scorecardCollection,
		Key:        scorecardKey,
		UserID:     ownerID,
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to read scorecard: %w", err)
	}
	if len(objects) == 0 || objects[0] == nil {
		return nil, ports.ErrSnapshotNotFound
	}
	return []byte(objects[0].GetValue()), nil
}

// Save overwrites the stored snapshot. Owners can read it; only the server writes.
func (s *NakamaStore) Save(ctx context.Context, ownerID string, snapshot []byte) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is required")
	}
	_, err := s.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      scorecardCollection,
		Key:             scorecardKey,
		UserID:          ownerID,
		Value:           string(snapshot),
		PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}})
	if err != nil {
		return fmt.Errorf("failed to write scorecard: %w", err)
	}
	return nil
}

func (s *NakamaStore) Delete(ctx context.Context, ownerID string) error {
	if err := s.nk.StorageDelete(ctx, []*runtime.StorageDelete{{
		Collection: scorecardCollection,
		Key:        scorecardKey,
		UserID:     ownerID,
	}}); err != nil {
		return fmt.Errorf("failed to delete scorecard: %w", err)
	}
	return nil
}

var _ ports.GameStore = (*NakamaStore)(nil)
