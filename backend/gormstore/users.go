package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"coursetrack/models"
)

func (s *Store) GetUser(ctx context.Context, id uint) (models.User, error) {
	var u models.User
	err := first(s.conn(ctx).Where("id = ?", id), &u, "user", id)
	return u, err
}

func (s *Store) ListUsers(ctx context.Context, ids ...uint) ([]models.User, error) {
	q := s.conn(ctx).Model(&models.User{})
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}
	var users []models.User
	if err := q.Order("id asc").Find(&users).Error; err != nil {
		return nil, wrap("list users", err)
	}
	return users, nil
}

func (s *Store) TouchUser(ctx context.Context, id uint, at time.Time) error {
	res := s.conn(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_active_at", at)
	return affected(res, "touch user", "user", id)
}

// SaveUser mirrors an identity from the auth provider into the local table.
func (s *Store) SaveUser(ctx context.Context, u *models.User) error {
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "role", "updated_at"}),
	}).Create(u).Error
	return wrap("save user", err)
}
