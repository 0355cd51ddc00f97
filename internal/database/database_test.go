package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/khrees2412/jobscout/pkg/models"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestDB creates a temporary test database
func createTestDB(t testing.TB) *Store {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := sql.Open("sqlite3", DSN(dbPath))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return NewStore(db)
}

func TestReadEmptyStore(t *testing.T) {
	store := createTestDB(t)

	snap, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Jobs)
	assert.Empty(t, snap.Profile.Name)

	v, err := store.Version(context.Background())
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestUpdatePersists(t *testing.T) {
	store := createTestDB(t)
	ctx := context.Background()

	err := store.Update(ctx, func(s *models.Snapshot) error {
		s.Profile.Name = "Jane Doe"
		s.Jobs = append(s.Jobs, models.Job{ID: "j1", Title: "Software Engineer", Company: "Acme Inc", URL: "https://example.com/job/123"})
		return nil
	})
	require.NoError(t, err)

	err = store.Update(ctx, func(s *models.Snapshot) error {
		s.Jobs = append(s.Jobs, models.Job{ID: "j2", Title: "QA Engineer", Company: "Beta Corp"})
		return nil
	})
	require.NoError(t, err)

	snap, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", snap.Profile.Name)
	require.Len(t, snap.Jobs, 2)
	assert.Equal(t, "Acme Inc", snap.Jobs[0].Company)
	assert.NotNil(t, snap.FindJobByURL("https://example.com/job/123"))

	v, err := store.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestUpdateErrorWritesNothing(t *testing.T) {
	store := createTestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	require.NoError(t, store.Update(ctx, func(s *models.Snapshot) error {
		s.Profile.Name = "before"
		return nil
	}))

	err := store.Update(ctx, func(s *models.Snapshot) error {
		s.Profile.Name = "after"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	snap, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "before", snap.Profile.Name)
}

func TestConcurrentUpdatesAreSerialized(t *testing.T) {
	store := createTestDB(t)
	ctx := context.Background()

	const writers = 10
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.Update(ctx, func(s *models.Snapshot) error {
				s.Contacts = append(s.Contacts, models.Contact{ID: fmt.Sprintf("c%d", i)})
				return nil
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	snap, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Contacts, writers)
}

func TestSavedQueries(t *testing.T) {
	store := createTestDB(t)
	ctx := context.Background()

	f := models.DefaultSearchFilters()
	f.Level = "senior"
	q := &models.SavedQuery{Name: "platform", Query: "platform engineer", Location: "Austin", Filters: f}
	require.NoError(t, store.SaveSearchQuery(ctx, q))
	assert.NotZero(t, q.ID)

	require.NoError(t, store.SaveSearchQuery(ctx, &models.SavedQuery{Name: "data", Query: "data engineer"}))

	// same name replaces
	require.NoError(t, store.SaveSearchQuery(ctx, &models.SavedQuery{Name: "platform", Query: "sre", Filters: f}))

	all, err := store.GetSavedQueries(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	got, err := store.GetSavedQuery(ctx, "platform")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "sre", got.Query)
	assert.Equal(t, "senior", got.Filters.Level)
	assert.True(t, got.Filters.USOnly)
	assert.NotEmpty(t, got.CreatedAt)

	missing, err := store.GetSavedQuery(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	deleted, err := store.DeleteSavedQuery(ctx, "data")
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = store.DeleteSavedQuery(ctx, "data")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "jobscout.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Update(context.Background(), func(s *models.Snapshot) error {
		s.Profile.TargetRole = "Platform Engineer"
		return nil
	}))
}

// BenchmarkUpdate benchmarks a read-modify-write cycle
func BenchmarkUpdate(b *testing.B) {
	store := createTestDB(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Update(ctx, func(s *models.Snapshot) error {
			s.Jobs = append(s.Jobs, models.Job{ID: fmt.Sprintf("j%d", i), Title: fmt.Sprintf("Job %d", i)})
			return nil
		})
	}
}
