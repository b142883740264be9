package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"homehunt-server/internal/core/mq"
	"homehunt-server/internal/core/payment"
	"homehunt-server/internal/domain"
)

const (
	defaultPaymentStatus = "paid"
	// 金额按分比较
	amountTolerance = 0.005
)

type PaymentService struct {
	store   domain.Store
	log     *zap.Logger
	events  Publisher
	gateway IntentGateway
}

type Intent struct {
	ClientSecret string `json:"clientSecret"`
}

func (s *PaymentService) CreateIntent(ctx context.Context, amountInCents int64) (Intent, error) {
	if amountInCents <= 0 {
		return Intent{}, fmt.Errorf("%w: amountInCents must be positive", domain.ErrInvalid)
	}
	if s.gateway == nil {
		return Intent{}, fmt.Errorf("%w: payment gateway", domain.ErrUnavailable)
	}
	secret, err := s.gateway.CreateIntent(ctx, amountInCents)
	if errors.Is(err, payment.ErrNotConfigured) {
		return Intent{}, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	if err != nil {
		return Intent{}, fmt.Errorf("create payment intent: %w", err)
	}
	return Intent{ClientSecret: secret}, nil
}

type PaymentInput struct {
	OfferID       string
	TransactionID string
	Amount        float64
	Email         string
	UserName      string
	Status        string
}

type Recorded struct {
	Inserted bool            `json:"inserted"`
	Payment  *domain.Payment `json:"payment"`
}

// HTTPStatus: 201 for a new payment, 200 for a replay of the same transaction.
func (r Recorded) HTTPStatus() int {
	if r.Inserted {
		return 201
	}
	return 200
}

type paymentEvent struct {
	PaymentID     string    `json:"paymentId"`
	OfferID       string    `json:"offerId"`
	PropertyID    string    `json:"propertyId"`
	TransactionID string    `json:"transactionId"`
	Amount        float64   `json:"amount"`
	Email         string    `json:"email"`
	At            time.Time `json:"at"`
}

// Record stores the payment and marks the offer bought in one transaction.
// Replaying an already recorded transaction returns the stored payment.
func (s *PaymentService) Record(ctx context.Context, a Actor, in PaymentInput) (Recorded, error) {
	offerID := strings.TrimSpace(in.OfferID)
	txID := strings.TrimSpace(in.TransactionID)
	if offerID == "" || txID == "" {
		return Recorded{}, fmt.Errorf("%w: offerId and transactionId are required", domain.ErrInvalid)
	}
	if in.Amount <= 0 {
		return Recorded{}, fmt.Errorf("%w: amount must be positive", domain.ErrInvalid)
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		email = a.Email
	}
	if email != a.Email {
		return Recorded{}, fmt.Errorf("%w: payer email does not match the token", domain.ErrForbidden)
	}
	status := in.Status
	if status == "" {
		status = defaultPaymentStatus
	}

	var (
		out   Recorded
		offer *domain.Offer
	)
	err := s.store.Atomic(ctx, func(tx domain.Store) error {
		o, err := tx.Offers().FindByID(ctx, offerID)
		if err != nil {
			return err
		}
		if o == nil {
			return fmt.Errorf("%w: offer %s", domain.ErrNotFound, offerID)
		}
		if o.BuyerEmail != email {
			return fmt.Errorf("%w: offer %s belongs to another buyer", domain.ErrForbidden, offerID)
		}
		if math.Abs(o.OfferAmount-in.Amount) >= amountTolerance {
			return fmt.Errorf("%w: amount %.2f does not match the offer amount %.2f", domain.ErrInvalid, in.Amount, o.OfferAmount)
		}
		offer = o

		switch o.Status {
		case domain.OfferAccepted:
		case domain.OfferBought:
			prev, err := tx.Payments().FindByOffer(ctx, offerID)
			if err != nil {
				return err
			}
			if prev != nil && prev.TransactionID == txID {
				out = Recorded{Inserted: false, Payment: prev}
				return nil
			}
			return fmt.Errorf("%w: offer %s is already paid", domain.ErrConflict, offerID)
		default:
			return fmt.Errorf("%w: offer %s is %s, not accepted", domain.ErrConflict, offerID, o.Status)
		}

		p := &domain.Payment{
			ID:            uuid.NewString(),
			OfferID:       offerID,
			TransactionID: txID,
			Amount:        in.Amount,
			Email:         email,
			UserName:      in.UserName,
			Status:        status,
			PaidAt:        time.Now().UTC(),
		}
		if err := tx.Payments().Create(ctx, p); err != nil {
			return err
		}
		n, err := tx.Offers().MarkBought(ctx, offerID, txID)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: offer %s changed concurrently", domain.ErrConflict, offerID)
		}
		out = Recorded{Inserted: true, Payment: p}
		return nil
	})
	if err != nil {
		return Recorded{}, err
	}

	if out.Inserted {
		transitions.WithLabelValues("offer", string(domain.OfferBought)).Inc()
		s.log.Info("payment recorded",
			zap.String("offer", offerID), zap.String("tx", txID), zap.Float64("amount", in.Amount))
		publish(ctx, s.log, s.events, mq.KeyPaymentRecorded, paymentEvent{
			PaymentID: out.Payment.ID, OfferID: offerID, PropertyID: offer.PropertyID,
			TransactionID: txID, Amount: in.Amount, Email: email, At: out.Payment.PaidAt,
		})
	}
	return out, nil
}

// GetByOffer is visible to the buyer, the selling agent and admins.
func (s *PaymentService) GetByOffer(ctx context.Context, a Actor, offerID string) (*domain.Payment, error) {
	p, err := s.store.Payments().FindByOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: payment for offer %s", domain.ErrNotFound, offerID)
	}
	if a.owns(p.Email) {
		return p, nil
	}
	o, err := s.store.Offers().FindByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if o != nil && o.AgentEmail == a.Email {
		return p, nil
	}
	return nil, fmt.Errorf("%w: payment for offer %s", domain.ErrForbidden, offerID)
}
