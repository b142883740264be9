package repo

import (
	"context"

	"gorm.io/gorm"

	"homehunt-server/internal/domain"
)

type WishlistRepo struct{ db *gorm.DB }

func (r *WishlistRepo) Create(ctx context.Context, w *domain.WishlistEntry) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *WishlistRepo) FindByID(ctx context.Context, id string) (*domain.WishlistEntry, error) {
	return first[domain.WishlistEntry](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *WishlistRepo) ListByUser(ctx context.Context, email string) ([]domain.WishlistEntry, error) {
	var out []domain.WishlistEntry
	err := r.db.WithContext(ctx).Where("user_email = ?", email).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *WishlistRepo) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.WishlistEntry{})
	return res.RowsAffected, res.Error
}
