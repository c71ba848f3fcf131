// Package repository holds the gorm-backed persistence of the clinic
// aggregates. A Store either wraps the pooled connection or, inside
// Transaction, the transaction handle; callers use both the same way.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariebrainware/clinic-care/apperr"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for read helpers outside this package.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn inside one database transaction. fn must do all of
// its work through tx; an error returned from fn rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// translate turns gorm.ErrRecordNotFound into an apperr not-found error
// for entity/id and wraps anything else.
func translate(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity, id)
	}
	return fmt.Errorf("load %s %d: %w", entity, id, err)
}
