package repo

import (
	"context"

	"gorm.io/gorm"

	"homehunt-server/internal/domain"
)

type PropertyRepo struct{ db *gorm.DB }

func (r *PropertyRepo) Create(ctx context.Context, p *domain.Property) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PropertyRepo) FindByID(ctx context.Context, id string) (*domain.Property, error) {
	return first[domain.Property](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *PropertyRepo) List(ctx context.Context) ([]domain.Property, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *PropertyRepo) ListByStatus(ctx context.Context, s domain.VerificationStatus) ([]domain.Property, error) {
	return r.find(r.db.WithContext(ctx).Where("verification_status = ?", s))
}

func (r *PropertyRepo) ListByAgent(ctx context.Context, agentEmail string) ([]domain.Property, error) {
	return r.find(r.db.WithContext(ctx).Where("agent_email = ?", agentEmail))
}

func (r *PropertyRepo) find(q *gorm.DB) ([]domain.Property, error) {
	var ps []domain.Property
	if err := q.Order("created_at DESC").Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *PropertyRepo) UpdateUnlessRejected(ctx context.Context, id string, p domain.PropertyPatch) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Property{}).
		Where("id = ? AND verification_status <> ?", id, domain.VerificationRejected).
		Updates(map[string]any{
			"title":       p.Title,
			"location":    p.Location,
			"image":       p.Image,
			"description": p.Description,
			"agent_name":  p.AgentName,
			"agent_image": p.AgentImage,
			"min_price":   p.MinPrice,
			"max_price":   p.MaxPrice,
			"details":     p.Details,
		})
	return res.RowsAffected, res.Error
}

func (r *PropertyRepo) SetStatus(ctx context.Context, id string, to, from domain.VerificationStatus) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Property{}).
		Where("id = ? AND verification_status = ?", id, from).
		Update("verification_status", to)
	return res.RowsAffected, res.Error
}

func (r *PropertyRepo) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Property{})
	return res.RowsAffected, res.Error
}
