package repo

import (
	"context"

	"gorm.io/gorm"

	"homehunt-server/internal/domain"
)

type ReviewRepo struct{ db *gorm.DB }

func (r *ReviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *ReviewRepo) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	return first[domain.Review](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *ReviewRepo) ListAll(ctx context.Context) ([]domain.Review, error) {
	return r.newestFirst(r.db.WithContext(ctx))
}

func (r *ReviewRepo) ListByProperty(ctx context.Context, propertyID string) ([]domain.Review, error) {
	return r.newestFirst(r.db.WithContext(ctx).Where("property_id = ?", propertyID))
}

func (r *ReviewRepo) ListByReviewer(ctx context.Context, email string) ([]domain.Review, error) {
	return r.newestFirst(r.db.WithContext(ctx).Where("reviewer_email = ?", email))
}

func (r *ReviewRepo) newestFirst(q *gorm.DB) ([]domain.Review, error) {
	var out []domain.Review
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ReviewRepo) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Review{})
	return res.RowsAffected, res.Error
}
