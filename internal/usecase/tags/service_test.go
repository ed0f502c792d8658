package tags

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/studyshelf/studyshelf/internal/domain/document"
)

type mockCache struct {
	stored map[string][]string
	getErr error
	putErr error
	puts   int
}

func newMockCache() *mockCache {
	return &mockCache{stored: make(map[string][]string)}
}

func (m *mockCache) Get(_ context.Context, ownerID string) ([]string, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.stored[ownerID], nil
}

func (m *mockCache) Put(_ context.Context, ownerID string, tags []string) error {
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	m.stored[ownerID] = tags
	return nil
}

func makeDoc(t *testing.T, tags ...string) document.Document {
	t.Helper()
	d, err := document.New("owner-1", document.Fields{
		Title: "t", Content: "c", Tags: tags,
	}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("document.New: %v", err)
	}
	return d
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDerive_SortedUnion(t *testing.T) {
	docs := []document.Document{
		makeDoc(t, "zebra", "apple"),
		makeDoc(t, "apple", "mango"),
	}
	got := Derive(docs)
	want := []string{"apple", "mango", "zebra"}
	if !equal(got, want) {
		t.Errorf("Derive = %v, want %v", got, want)
	}
}

func TestRefresh_PersistsAndServes(t *testing.T) {
	cache := newMockCache()
	svc := New(cache, nil)
	ctx := context.Background()

	svc.Refresh(ctx, "owner-1", []document.Document{makeDoc(t, "b", "a")})

	if got := svc.Tags(ctx, "owner-1"); !equal(got, []string{"a", "b"}) {
		t.Errorf("Tags = %v", got)
	}
	if !equal(cache.stored["owner-1"], []string{"a", "b"}) {
		t.Errorf("cache = %v", cache.stored["owner-1"])
	}
}

func TestRefresh_EmptyDerivationKeepsLastUniverse(t *testing.T) {
	cache := newMockCache()
	svc := New(cache, nil)
	ctx := context.Background()

	svc.Refresh(ctx, "owner-1", []document.Document{makeDoc(t, "keep")})
	svc.Refresh(ctx, "owner-1", nil)

	if got := svc.Tags(ctx, "owner-1"); !equal(got, []string{"keep"}) {
		t.Errorf("empty refresh wiped the universe: %v", got)
	}
	if cache.puts != 1 {
		t.Errorf("cache written %d times, want 1", cache.puts)
	}
}

func TestTags_FallsBackToPersistedCache(t *testing.T) {
	cache := newMockCache()
	cache.stored["owner-1"] = []string{"persisted"}
	svc := New(cache, nil)

	if got := svc.Tags(context.Background(), "owner-1"); !equal(got, []string{"persisted"}) {
		t.Errorf("Tags = %v, want persisted value", got)
	}
}

func TestTags_CacheFailureYieldsEmpty(t *testing.T) {
	cache := newMockCache()
	cache.getErr = errors.New("store down")
	svc := New(cache, nil)

	if got := svc.Tags(context.Background(), "owner-1"); len(got) != 0 {
		t.Errorf("Tags = %v, want empty on cache failure", got)
	}
}

func TestRecordUsed(t *testing.T) {
	cache := newMockCache()
	svc := New(cache, nil)
	ctx := context.Background()

	svc.RecordUsed(ctx, "owner-1", "  physics ")
	svc.RecordUsed(ctx, "owner-1", "physics") // duplicate
	svc.RecordUsed(ctx, "owner-1", "")
	svc.RecordUsed(ctx, "owner-1", "way-too-long-tag-entry")

	if got := svc.Tags(ctx, "owner-1"); !equal(got, []string{"physics"}) {
		t.Errorf("Tags = %v, want [physics]", got)
	}
	if cache.puts != 1 {
		t.Errorf("cache written %d times, want 1", cache.puts)
	}
}

func TestRecordUsed_PutFailureStillServesInMemory(t *testing.T) {
	cache := newMockCache()
	cache.putErr = errors.New("store down")
	svc := New(cache, nil)
	ctx := context.Background()

	svc.RecordUsed(ctx, "owner-1", "math")
	if got := svc.Tags(ctx, "owner-1"); !equal(got, []string{"math"}) {
		t.Errorf("Tags = %v, want in-memory value despite put failure", got)
	}
}
