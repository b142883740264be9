package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"homehunt-server/internal/domain"
)

type ReviewService struct {
	store domain.Store
}

type ReviewInput struct {
	PropertyID    string
	ReviewerName  string
	ReviewerImage string
	Rating        int
	Comment       string
}

func (s *ReviewService) Create(ctx context.Context, a Actor, in ReviewInput) (*domain.Review, error) {
	pid := strings.TrimSpace(in.PropertyID)
	if pid == "" {
		return nil, fmt.Errorf("%w: propertyId is required", domain.ErrInvalid)
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrInvalid)
	}
	p, err := s.store.Properties().FindByID(ctx, pid)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: property %s", domain.ErrNotFound, pid)
	}
	r := &domain.Review{
		ID:            uuid.NewString(),
		PropertyID:    p.ID,
		PropertyTitle: p.Title,
		ReviewerEmail: a.Email,
		ReviewerName:  in.ReviewerName,
		ReviewerImage: in.ReviewerImage,
		AgentName:     p.AgentName,
		Rating:        in.Rating,
		Comment:       strings.TrimSpace(in.Comment),
	}
	if err := s.store.Reviews().Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ReviewService) ListAll(ctx context.Context) ([]domain.Review, error) {
	return s.store.Reviews().ListAll(ctx)
}

func (s *ReviewService) ListByProperty(ctx context.Context, propertyID string) ([]domain.Review, error) {
	return s.store.Reviews().ListByProperty(ctx, propertyID)
}

func (s *ReviewService) ListByReviewer(ctx context.Context, email string) ([]domain.Review, error) {
	return s.store.Reviews().ListByReviewer(ctx, email)
}

func (s *ReviewService) Delete(ctx context.Context, a Actor, id string) (Deleted, error) {
	r, err := s.store.Reviews().FindByID(ctx, id)
	if err != nil {
		return Deleted{}, err
	}
	if r == nil {
		return Deleted{}, fmt.Errorf("%w: review %s", domain.ErrNotFound, id)
	}
	if !a.owns(r.ReviewerEmail) {
		return Deleted{}, fmt.Errorf("%w: review %s belongs to another user", domain.ErrForbidden, id)
	}
	n, err := s.store.Reviews().Delete(ctx, id)
	if err != nil {
		return Deleted{}, err
	}
	if n == 0 {
		return Deleted{}, fmt.Errorf("%w: review %s", domain.ErrNotFound, id)
	}
	return Deleted{DeletedCount: n}, nil
}
