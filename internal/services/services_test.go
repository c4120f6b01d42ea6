package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm/logger"

	"github.com/vanypau15/nutrify-backend/internal/auth"
	"github.com/vanypau15/nutrify-backend/internal/database"
	"github.com/vanypau15/nutrify-backend/internal/repository"
)

const testSecret = "test-secret"

func setupStores(t *testing.T) repository.Stores {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := database.Open(sqlite.Open(dsn), logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return repository.NewGormStores(db)
}

func newTokens() *auth.TokenService {
	return auth.NewTokenService(testSecret, time.Hour)
}
