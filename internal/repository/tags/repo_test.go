package tags

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/studyshelf/studyshelf/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func TestPutGet_RoundTrip(t *testing.T) {
	var storedKey string
	var stored []byte
	var storedTTL time.Duration
	ms := &mockStore{
		setFn: func(_ context.Context, key string, value []byte, ttl time.Duration) error {
			storedKey, stored, storedTTL = key, value, ttl
			return nil
		},
		getFn: func(_ context.Context, _ string) ([]byte, error) {
			return stored, nil
		},
	}
	repo := New(ms, "studyshelf:", 30*24*time.Hour)
	ctx := context.Background()

	if err := repo.Put(ctx, "owner-1", []string{"biology", "school"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if storedKey != "studyshelf:tags:owner-1" {
		t.Errorf("key = %s", storedKey)
	}
	if storedTTL != 30*24*time.Hour {
		t.Errorf("ttl = %v", storedTTL)
	}

	got, err := repo.Get(ctx, "owner-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "biology" || got[1] != "school" {
		t.Errorf("Get = %v", got)
	}
}

func TestGet_MissingKeyIsNotAnError(t *testing.T) {
	repo := New(&mockStore{}, "studyshelf:", time.Hour)

	got, err := repo.Get(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("Get = %v, want nil", got)
	}
}

func TestGet_StoreFailure(t *testing.T) {
	boom := errors.New("store down")
	repo := New(&mockStore{
		getFn: func(_ context.Context, _ string) ([]byte, error) { return nil, boom },
	}, "studyshelf:", time.Hour)

	if _, err := repo.Get(context.Background(), "owner-1"); !errors.Is(err, boom) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
}
