// Package gormstore implements backend.Backend on a SQL database through GORM.
package gormstore

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"coursetrack/apperr"
	"coursetrack/backend"
)

// Store holds the database handle. It is safe for concurrent use.
type Store struct {
	db *gorm.DB
}

var _ backend.Backend = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the handle for migrations and seeding.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// wrap classifies a driver error; record-not-found is left to the caller.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return apperr.Conflict("%s: record already exists", op)
	}
	return apperr.Backend(op, pkgerrors.WithStack(err))
}

// first runs a First query and turns a missing row into a NotFoundError.
func first(q *gorm.DB, out any, entity string, id any) error {
	err := q.First(out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity, id)
	}
	return wrap("get "+entity, err)
}

// affected turns a zero-row update into a NotFoundError.
func affected(res *gorm.DB, op, entity string, id any) error {
	if res.Error != nil {
		return wrap(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(entity, id)
	}
	return nil
}
