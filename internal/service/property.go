package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"homehunt-server/internal/domain"
)

type PropertyService struct {
	store domain.Store
	log   *zap.Logger
}

type PropertyInput struct {
	Title       string
	Location    string
	Image       string
	Description string
	AgentName   string
	AgentImage  string
	MinPrice    float64
	MaxPrice    float64
	Details     map[string]any
}

func (in PropertyInput) validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Location) == "":
		return fmt.Errorf("%w: title and location are required", domain.ErrInvalid)
	case in.MinPrice < 0 || in.MaxPrice < in.MinPrice:
		return fmt.Errorf("%w: price range must satisfy 0 <= minPrice <= maxPrice", domain.ErrInvalid)
	}
	return nil
}

func (in PropertyInput) patch() domain.PropertyPatch {
	return domain.PropertyPatch{
		Title:       strings.TrimSpace(in.Title),
		Location:    strings.TrimSpace(in.Location),
		Image:       in.Image,
		Description: in.Description,
		AgentName:   in.AgentName,
		AgentImage:  in.AgentImage,
		MinPrice:    in.MinPrice,
		MaxPrice:    in.MaxPrice,
		Details:     datatypes.JSONMap(in.Details),
	}
}

// Create lists a property for the calling agent; it starts pending.
func (s *PropertyService) Create(ctx context.Context, a Actor, in PropertyInput) (*domain.Property, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := in.patch()
	prop := &domain.Property{
		ID:                 uuid.NewString(),
		Title:              p.Title,
		Location:           p.Location,
		Image:              p.Image,
		Description:        p.Description,
		AgentName:          p.AgentName,
		AgentEmail:         a.Email,
		AgentImage:         p.AgentImage,
		MinPrice:           p.MinPrice,
		MaxPrice:           p.MaxPrice,
		Details:            p.Details,
		VerificationStatus: domain.VerificationPending,
	}
	if err := s.store.Properties().Create(ctx, prop); err != nil {
		return nil, err
	}
	return prop, nil
}

func (s *PropertyService) List(ctx context.Context) ([]domain.Property, error) {
	return s.store.Properties().List(ctx)
}

func (s *PropertyService) ListVerified(ctx context.Context) ([]domain.Property, error) {
	return s.store.Properties().ListByStatus(ctx, domain.VerificationVerified)
}

func (s *PropertyService) ListByAgent(ctx context.Context, email string) ([]domain.Property, error) {
	return s.store.Properties().ListByAgent(ctx, email)
}

func (s *PropertyService) Get(ctx context.Context, id string) (*domain.Property, error) {
	p, err := s.store.Properties().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: property %s", domain.ErrNotFound, id)
	}
	return p, nil
}

// Update replaces the editable fields. A rejected property is never updated,
// whatever the payload.
func (s *PropertyService) Update(ctx context.Context, a Actor, id string, in PropertyInput) (Modified, error) {
	var out Modified
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		props := tx.Properties()
		p, err := props.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: property %s", domain.ErrNotFound, id)
		}
		if !a.owns(p.AgentEmail) {
			return fmt.Errorf("%w: property %s belongs to another agent", domain.ErrForbidden, id)
		}
		if p.VerificationStatus == domain.VerificationRejected {
			return fmt.Errorf("%w: property %s was rejected", domain.ErrForbidden, id)
		}
		if err := in.validate(); err != nil {
			return err
		}
		n, err := props.UpdateUnlessRejected(ctx, id, in.patch())
		if err != nil {
			return err
		}
		if n == 0 {
			// 0 行：可能是 rejected，也可能是 MySQL 报告未变化
			cur, err := props.FindByID(ctx, id)
			if err != nil {
				return err
			}
			if cur == nil {
				return fmt.Errorf("%w: property %s", domain.ErrNotFound, id)
			}
			if cur.VerificationStatus == domain.VerificationRejected {
				return fmt.Errorf("%w: property %s was rejected", domain.ErrForbidden, id)
			}
		}
		out.ModifiedCount = n
		return nil
	})
	return out, err
}

// Verify moves a pending property to verified or rejected.
func (s *PropertyService) Verify(ctx context.Context, id string, to domain.VerificationStatus) (Modified, error) {
	if to != domain.VerificationVerified && to != domain.VerificationRejected {
		return Modified{}, fmt.Errorf("%w: status must be verified or rejected", domain.ErrInvalid)
	}
	var out Modified
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		p, err := tx.Properties().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: property %s", domain.ErrNotFound, id)
		}
		if p.VerificationStatus == to {
			return nil
		}
		if p.VerificationStatus != domain.VerificationPending {
			return fmt.Errorf("%w: property %s is already %s", domain.ErrConflict, id, p.VerificationStatus)
		}
		n, err := tx.Properties().SetStatus(ctx, id, to, domain.VerificationPending)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: property %s changed concurrently", domain.ErrConflict, id)
		}
		out.ModifiedCount = n
		return nil
	})
	if err == nil && out.ModifiedCount > 0 {
		transitions.WithLabelValues("property", string(to)).Inc()
		s.log.Info("property verified", zap.String("id", id), zap.String("status", string(to)))
	}
	return out, err
}

func (s *PropertyService) Delete(ctx context.Context, a Actor, id string) (Deleted, error) {
	var out Deleted
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		p, err := tx.Properties().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: property %s", domain.ErrNotFound, id)
		}
		if !a.owns(p.AgentEmail) {
			return fmt.Errorf("%w: property %s belongs to another agent", domain.ErrForbidden, id)
		}
		n, err := tx.Properties().Delete(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: property %s", domain.ErrNotFound, id)
		}
		out.DeletedCount = n
		return nil
	})
	return out, err
}
