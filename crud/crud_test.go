package crud

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emersonlsg10/flask/domain"
)

// testDB opens a fresh in-memory sqlite database and migrates all models.
// Each test gets its own named database so tests can't see each other's rows.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	err = db.AutoMigrate(
		domain.User{},
		domain.OAuth{},
		domain.Post{},
		domain.Love{},
		domain.Comment{},
	)
	require.NoError(t, err)
	return db
}

// seedUser inserts a user directly, bypassing the password machinery.
func seedUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	user := domain.User{Username: username, PasswordHash: "x", RememberHash: username + "-hash"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}
