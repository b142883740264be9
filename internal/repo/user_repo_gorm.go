package repo

import (
	"context"

	"gorm.io/gorm"

	"homehunt-server/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return first[domain.User](r.db.WithContext(ctx).Where("email = ?", email))
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepo) SetRole(ctx context.Context, email string, to domain.Role, from ...domain.Role) (int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email)
	if len(from) > 0 {
		q = q.Where("role IN ?", from)
	}
	res := q.Update("role", to)
	return res.RowsAffected, res.Error
}

func (r *UserRepo) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	res := r.db.WithContext(ctx).Where("email = ?", email).Delete(&domain.User{})
	return res.RowsAffected, res.Error
}
