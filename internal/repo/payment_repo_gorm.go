package repo

import (
	"context"

	"gorm.io/gorm"

	"homehunt-server/internal/domain"
)

type PaymentRepo struct{ db *gorm.DB }

func (r *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepo) FindByOffer(ctx context.Context, offerID string) (*domain.Payment, error) {
	return first[domain.Payment](r.db.WithContext(ctx).Where("offer_id = ?", offerID))
}
