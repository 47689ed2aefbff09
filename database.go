package main

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emersonlsg10/flask/domain"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// DB provides the database connection.
type DB struct {
	// Object-relational mapping.
	Gorm *gorm.DB
	// The database dialect, postgres or sqlite.
	Dialect string
	// Connection info string containing database name, user, port etc.
	// For sqlite this is the database file path.
	ConnectionInfo string
}

// NewDB returns a new instance of DB.
func NewDB(dialect, connectionInfo string) *DB {
	return &DB{
		Dialect:        dialect,
		ConnectionInfo: connectionInfo,
	}
}

// Open opens a new database connection. It also configures logging
// based on whether we're in development or in production.
func Open(db *DB, isProd bool) (err error) {
	if db.ConnectionInfo == "" {
		return fmt.Errorf("connectionInfo required")
	}
	logMode := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Loving and commenting insert rows without checking that the post
		// exists, and post deletion cleans up its children itself, so the
		// schema carries no foreign key constraints.
		DisableForeignKeyConstraintWhenMigrating: true,
	}
	if !isProd {
		logMode.Logger = logger.Default.LogMode(logger.Info)
	}
	switch db.Dialect {
	case DialectSQLite:
		db.Gorm, err = gorm.Open(sqlite.Open(db.ConnectionInfo), logMode)
	case DialectPostgres, "":
		db.Gorm, err = gorm.Open(postgres.Open(db.ConnectionInfo), logMode)
	default:
		return fmt.Errorf("unknown database dialect %q", db.Dialect)
	}
	if err != nil {
		return fmt.Errorf("err opening gorm %s connection: %w", db.Dialect, err)
	}
	return nil
}

// AutoMigrate runs database migrations for all tables.
func AutoMigrate(db *DB) error {
	return db.Gorm.AutoMigrate(
		domain.User{},
		domain.OAuth{},
		domain.Post{},
		domain.Love{},
		domain.Comment{},
	)
}

// DestructiveReset drops all tables and rebuilds them.
func DestructiveReset(db *DB) error {
	err := db.Gorm.Migrator().DropTable(
		domain.User{},
		domain.OAuth{},
		domain.Post{},
		domain.Love{},
		domain.Comment{},
	)
	if err != nil {
		return err
	}
	return AutoMigrate(db)
}

// Close closes the database connection.
func Close(db *DB) error {
	sqlDb, err := db.Gorm.DB()
	if err != nil {
		return err
	}
	return sqlDb.Close()
}
