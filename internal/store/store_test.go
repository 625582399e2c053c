package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/workbin-dev/workbin/db"
	"github.com/workbin-dev/workbin/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTest points the package globals at a throwaway sqlite file and
// storage root for one test.
func setupTest(t *testing.T) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)

	db.DB = gdb
	require.NoError(t, db.DB.AutoMigrate(&models.User{}, &models.Project{}))

	prev := storageRoot
	t.Cleanup(func() { storageRoot = prev })

	require.NoError(t, InitStorageRoot(t.TempDir()))
}

func createTestUser(t *testing.T, username string) *models.User {
	t.Helper()

	user, err := CreateUser(username, "correct horse battery", "", nil)
	require.NoError(t, err)

	return user
}
