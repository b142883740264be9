package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"homehunt-server/internal/core/mq"
	"homehunt-server/internal/domain"
)

const dateLayout = "2006-01-02"

type OfferService struct {
	store  domain.Store
	log    *zap.Logger
	events Publisher
}

type OfferInput struct {
	PropertyID  string
	BuyerName   string
	OfferAmount float64
	BuyingDate  string
}

type AcceptResult struct {
	ModifiedCount int64 `json:"modifiedCount"`
	RejectedCount int64 `json:"rejectedCount"`
}

type offerEvent struct {
	OfferID    string             `json:"offerId"`
	PropertyID string             `json:"propertyId"`
	BuyerEmail string             `json:"buyerEmail"`
	AgentEmail string             `json:"agentEmail"`
	Status     domain.OfferStatus `json:"status"`
	Rejected   int64              `json:"rejectedSiblings,omitempty"`
	At         time.Time          `json:"at"`
}

// Create places a pending offer on a verified property for the caller.
func (s *OfferService) Create(ctx context.Context, a Actor, in OfferInput) (*domain.Offer, error) {
	pid := strings.TrimSpace(in.PropertyID)
	if pid == "" {
		return nil, fmt.Errorf("%w: propertyId is required", domain.ErrInvalid)
	}
	if in.OfferAmount <= 0 {
		return nil, fmt.Errorf("%w: offerAmount must be positive", domain.ErrInvalid)
	}
	if _, err := time.Parse(dateLayout, in.BuyingDate); err != nil {
		return nil, fmt.Errorf("%w: buyingDate must be YYYY-MM-DD", domain.ErrInvalid)
	}

	var o *domain.Offer
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		p, err := tx.Properties().FindByID(ctx, pid)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: property %s", domain.ErrNotFound, pid)
		}
		if p.VerificationStatus != domain.VerificationVerified {
			return fmt.Errorf("%w: property %s is %s", domain.ErrConflict, pid, p.VerificationStatus)
		}
		if in.OfferAmount < p.MinPrice || in.OfferAmount > p.MaxPrice {
			return fmt.Errorf("%w: offerAmount must be within %.2f and %.2f", domain.ErrInvalid, p.MinPrice, p.MaxPrice)
		}
		settled, err := tx.Offers().CountSettled(ctx, pid, "")
		if err != nil {
			return err
		}
		if settled > 0 {
			return fmt.Errorf("%w: property %s already has an accepted offer", domain.ErrConflict, pid)
		}
		o = &domain.Offer{
			ID:          uuid.NewString(),
			PropertyID:  p.ID,
			Title:       p.Title,
			Location:    p.Location,
			Image:       p.Image,
			AgentName:   p.AgentName,
			AgentEmail:  p.AgentEmail,
			BuyerEmail:  a.Email,
			BuyerName:   in.BuyerName,
			OfferAmount: in.OfferAmount,
			BuyingDate:  in.BuyingDate,
			Status:      domain.OfferPending,
		}
		return tx.Offers().Create(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OfferService) ListByBuyer(ctx context.Context, email string) ([]domain.Offer, error) {
	return s.store.Offers().ListByBuyer(ctx, email)
}

func (s *OfferService) ListByAgent(ctx context.Context, email string) ([]domain.Offer, error) {
	return s.store.Offers().ListByAgent(ctx, email)
}

// loadOwned reads a pending offer the actor may decide on.
func loadOwned(ctx context.Context, tx domain.Store, a Actor, id string) (*domain.Offer, error) {
	o, err := tx.Offers().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: offer %s", domain.ErrNotFound, id)
	}
	if !a.owns(o.AgentEmail) {
		return nil, fmt.Errorf("%w: offer %s is for another agent's property", domain.ErrForbidden, id)
	}
	if o.Status != domain.OfferPending {
		return nil, fmt.Errorf("%w: offer %s is %s", domain.ErrConflict, id, o.Status)
	}
	return o, nil
}

// Accept accepts one pending offer and rejects its pending siblings in the same transaction.
func (s *OfferService) Accept(ctx context.Context, a Actor, id string) (AcceptResult, error) {
	var (
		out AcceptResult
		o   *domain.Offer
	)
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		var err error
		if o, err = loadOwned(ctx, tx, a, id); err != nil {
			return err
		}
		offers := tx.Offers()
		settled, err := offers.CountSettled(ctx, o.PropertyID, o.ID)
		if err != nil {
			return err
		}
		if settled > 0 {
			return fmt.Errorf("%w: property %s already has an accepted offer", domain.ErrConflict, o.PropertyID)
		}
		n, err := offers.Transition(ctx, o.ID, domain.OfferPending, domain.OfferAccepted)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: offer %s changed concurrently", domain.ErrConflict, id)
		}
		rejected, err := offers.RejectPendingSiblings(ctx, o.PropertyID, o.ID)
		if err != nil {
			return err
		}
		out = AcceptResult{ModifiedCount: n, RejectedCount: rejected}
		return nil
	})
	if err != nil {
		return AcceptResult{}, err
	}

	transitions.WithLabelValues("offer", string(domain.OfferAccepted)).Inc()
	if out.RejectedCount > 0 {
		transitions.WithLabelValues("offer", string(domain.OfferRejected)).Add(float64(out.RejectedCount))
	}
	s.log.Info("offer accepted",
		zap.String("offer", o.ID), zap.String("property", o.PropertyID), zap.Int64("rejected", out.RejectedCount))
	publish(ctx, s.log, s.events, mq.KeyOfferAccepted, offerEvent{
		OfferID: o.ID, PropertyID: o.PropertyID, BuyerEmail: o.BuyerEmail, AgentEmail: o.AgentEmail,
		Status: domain.OfferAccepted, Rejected: out.RejectedCount, At: time.Now().UTC(),
	})
	return out, nil
}

func (s *OfferService) Reject(ctx context.Context, a Actor, id string) (Modified, error) {
	var (
		out Modified
		o   *domain.Offer
	)
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		var err error
		if o, err = loadOwned(ctx, tx, a, id); err != nil {
			return err
		}
		n, err := tx.Offers().Transition(ctx, o.ID, domain.OfferPending, domain.OfferRejected)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: offer %s changed concurrently", domain.ErrConflict, id)
		}
		out.ModifiedCount = n
		return nil
	})
	if err != nil {
		return Modified{}, err
	}

	transitions.WithLabelValues("offer", string(domain.OfferRejected)).Inc()
	publish(ctx, s.log, s.events, mq.KeyOfferRejected, offerEvent{
		OfferID: o.ID, PropertyID: o.PropertyID, BuyerEmail: o.BuyerEmail, AgentEmail: o.AgentEmail,
		Status: domain.OfferRejected, At: time.Now().UTC(),
	})
	return out, nil
}

// SoldByAgent is the agent's sales report.
func (s *OfferService) SoldByAgent(ctx context.Context, agentEmail string) ([]domain.SoldProperty, error) {
	return s.store.Offers().SoldByAgent(ctx, agentEmail)
}
