package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"homehunt-server/internal/domain"
)

type WishlistService struct {
	store domain.Store
}

// Add saves a snapshot of the property for the caller.
func (s *WishlistService) Add(ctx context.Context, a Actor, propertyID string) (*domain.WishlistEntry, error) {
	propertyID = strings.TrimSpace(propertyID)
	if propertyID == "" {
		return nil, fmt.Errorf("%w: propertyId is required", domain.ErrInvalid)
	}
	p, err := s.store.Properties().FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: property %s", domain.ErrNotFound, propertyID)
	}
	w := &domain.WishlistEntry{
		ID:                 uuid.NewString(),
		UserEmail:          a.Email,
		PropertyID:         p.ID,
		Title:              p.Title,
		Location:           p.Location,
		Image:              p.Image,
		AgentName:          p.AgentName,
		AgentImage:         p.AgentImage,
		VerificationStatus: p.VerificationStatus,
		MinPrice:           p.MinPrice,
		MaxPrice:           p.MaxPrice,
	}
	if err := s.store.Wishlist().Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *WishlistService) ListByUser(ctx context.Context, email string) ([]domain.WishlistEntry, error) {
	return s.store.Wishlist().ListByUser(ctx, email)
}

func (s *WishlistService) Remove(ctx context.Context, a Actor, id string) (Deleted, error) {
	w, err := s.store.Wishlist().FindByID(ctx, id)
	if err != nil {
		return Deleted{}, err
	}
	if w == nil {
		return Deleted{}, fmt.Errorf("%w: wishlist entry %s", domain.ErrNotFound, id)
	}
	if !a.owns(w.UserEmail) {
		return Deleted{}, fmt.Errorf("%w: wishlist entry %s belongs to another user", domain.ErrForbidden, id)
	}
	n, err := s.store.Wishlist().Delete(ctx, id)
	if err != nil {
		return Deleted{}, err
	}
	if n == 0 {
		return Deleted{}, fmt.Errorf("%w: wishlist entry %s", domain.ErrNotFound, id)
	}
	return Deleted{DeletedCount: n}, nil
}
