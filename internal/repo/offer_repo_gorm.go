package repo

import (
	"context"

	"gorm.io/gorm"

	"homehunt-server/internal/domain"
)

type OfferRepo struct{ db *gorm.DB }

func (r *OfferRepo) Create(ctx context.Context, o *domain.Offer) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *OfferRepo) FindByID(ctx context.Context, id string) (*domain.Offer, error) {
	return first[domain.Offer](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *OfferRepo) ListByBuyer(ctx context.Context, email string) ([]domain.Offer, error) {
	var out []domain.Offer
	err := r.db.WithContext(ctx).Where("buyer_email = ?", email).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *OfferRepo) ListByAgent(ctx context.Context, email string) ([]domain.Offer, error) {
	var out []domain.Offer
	err := r.db.WithContext(ctx).Where("agent_email = ?", email).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *OfferRepo) CountSettled(ctx context.Context, propertyID, exceptID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Offer{}).
		Where("property_id = ? AND id <> ?", propertyID, exceptID).
		Where("status IN ?", []domain.OfferStatus{domain.OfferAccepted, domain.OfferBought}).
		Count(&n).Error
	return n, err
}

func (r *OfferRepo) Transition(ctx context.Context, id string, from, to domain.OfferStatus) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Offer{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *OfferRepo) RejectPendingSiblings(ctx context.Context, propertyID, exceptID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Offer{}).
		Where("property_id = ? AND id <> ? AND status = ?", propertyID, exceptID, domain.OfferPending).
		Update("status", domain.OfferRejected)
	return res.RowsAffected, res.Error
}

func (r *OfferRepo) MarkBought(ctx context.Context, id, transactionID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Offer{}).
		Where("id = ? AND status = ?", id, domain.OfferAccepted).
		Updates(map[string]any{"status": domain.OfferBought, "transaction_id": transactionID})
	return res.RowsAffected, res.Error
}

func (r *OfferRepo) SoldByAgent(ctx context.Context, agentEmail string) ([]domain.SoldProperty, error) {
	out := []domain.SoldProperty{}
	err := r.db.WithContext(ctx).Table("offers AS o").
		Select(`o.id AS offer_id, o.property_id AS property_id,
			COALESCE(p.title, o.title) AS title, COALESCE(p.location, o.location) AS location,
			o.buyer_email AS buyer_email, o.buyer_name AS buyer_name,
			o.offer_amount AS sold_price, o.transaction_id AS transaction_id, pay.paid_at AS paid_at`).
		Joins("LEFT JOIN properties p ON p.id = o.property_id").
		Joins("LEFT JOIN payments pay ON pay.offer_id = o.id").
		Where("o.agent_email = ? AND o.status = ?", agentEmail, domain.OfferBought).
		Scan(&out).Error
	return out, err
}
