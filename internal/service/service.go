package service

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"homehunt-server/internal/domain"
)

// Publisher emits domain events after a commit.
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// IntentGateway creates a payment intent and returns its client secret.
type IntentGateway interface {
	CreateIntent(ctx context.Context, amountInCents int64) (string, error)
}

// Signer issues bearer tokens.
type Signer interface {
	Issue(email, role string) (string, error)
}

// Actor is the authenticated caller.
type Actor struct {
	Email string
	Role  domain.Role
}

func (a Actor) IsAdmin() bool { return a.Role == domain.RoleAdmin }

// owns reports whether the actor may act on a record owned by email.
func (a Actor) owns(email string) bool { return a.IsAdmin() || (a.Email != "" && a.Email == email) }

var transitions = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "homehunt_status_transitions_total", Help: "Committed status transitions"},
	[]string{"entity", "to"},
)

func init() { prometheus.MustRegister(transitions) }

type Modified struct {
	ModifiedCount int64 `json:"modifiedCount"`
}

type Deleted struct {
	DeletedCount int64 `json:"deletedCount"`
}

type Deps struct {
	Store   domain.Store
	Log     *zap.Logger
	Events  Publisher
	Gateway IntentGateway
	Signer  Signer
}

// Services bundles every resource service over one store.
type Services struct {
	Auth       *AuthService
	Users      *UserService
	Properties *PropertyService
	Wishlist   *WishlistService
	Reviews    *ReviewService
	Offers     *OfferService
	Payments   *PaymentService
}

func New(d Deps) *Services {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	users := &UserService{store: d.Store, log: d.Log}
	return &Services{
		Auth:       &AuthService{users: users, signer: d.Signer},
		Users:      users,
		Properties: &PropertyService{store: d.Store, log: d.Log},
		Wishlist:   &WishlistService{store: d.Store},
		Reviews:    &ReviewService{store: d.Store},
		Offers:     &OfferService{store: d.Store, log: d.Log, events: d.Events},
		Payments:   &PaymentService{store: d.Store, log: d.Log, events: d.Events, gateway: d.Gateway},
	}
}

func publish(ctx context.Context, l *zap.Logger, p Publisher, key string, v any) {
	if p == nil {
		return
	}
	if err := p.PublishJSON(ctx, key, v); err != nil {
		l.Warn("publish event failed", zap.String("key", key), zap.Error(err))
	}
}
