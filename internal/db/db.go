// Package db implements the relational repository over GORM. Uniqueness and
// referential consistency are delegated to the storage engine; this layer
// only maps storage errors onto the application error kinds.
package db

import (
	"fmt"

	"github.com/vnrental/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Repository is the single storage access point for all entities.
type Repository struct {
	db *gorm.DB
}

// NewRepository connects to PostgreSQL and migrates the schema.
func NewRepository(dsn string) (*Repository, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := gdb.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: gdb}, nil
}

// NewWithDB wraps an existing GORM handle. Used by tests with SQLite.
func NewWithDB(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

// WithTransaction runs fn inside a single database transaction.
func (r *Repository) WithTransaction(fn func(repo *Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// Close releases the underlying connection pool.
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
