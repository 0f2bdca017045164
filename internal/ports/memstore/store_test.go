package memstore

import (
	"context"
	"errors"
	"testing"

	"ohhell/internal/ports"
)

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.Load(ctx, "owner"); !errors.Is(err, ports.ErrSnapshotNotFound) {
		t.Fatalf("load missing err = %v, want ErrSnapshotNotFound", err)
	}

	data := []byte(`{"id":"g1"}`)
	if err := s.Save(ctx, "owner", data); err != nil {
		t.Fatalf("save error: %v", err)
	}
	data[2] = 'X'

	got, err := s.Load(ctx, "owner")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if string(got) != `{"id":"g1"}` {
		t.Fatalf("load = %s, stored copy was aliased", got)
	}

	if err := s.Delete(ctx, "owner"); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if err := s.Delete(ctx, "owner"); err != nil {
		t.Fatalf("second delete error: %v", err)
	}
	if _, err := s.Load(ctx, "owner"); !errors.Is(err, ports.ErrSnapshotNotFound) {
		t.Fatalf("load after delete err = %v", err)
	}
}
