package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/ideabank/ideabank/pkg/domain/interfaces"
	"github.com/ideabank/ideabank/pkg/domain/model"
	"github.com/ideabank/ideabank/pkg/repository/firestore"
	"github.com/ideabank/ideabank/pkg/repository/memory"
	"github.com/ideabank/ideabank/pkg/repository/sqlite"
)

// testDimension keeps test vectors small and hand-checkable
const testDimension = 3

func testIndexConfig() model.IndexConfig {
	return model.IndexConfig{Dimension: testDimension}.Normalize()
}

func newMemoryRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	repo, err := memory.New(memory.WithIndexConfig(testIndexConfig()))
	gt.NoError(t, err).Required()
	return repo
}

func newSQLiteRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ideabank-test.db")
	repo, err := sqlite.New(context.Background(), path, sqlite.WithIndexConfig(testIndexConfig()))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

// newFirestoreRepository connects to a real Firestore database. The
// target database must carry a vector index matching testDimension
// (run migrate with a tuning file before these tests).
func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	repo, err := firestore.New(context.Background(), projectID, databaseID,
		firestore.WithIndexConfig(testIndexConfig()))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}
