package domain

import (
	"context"
	"time"
)

type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferRejected OfferStatus = "rejected"
	OfferBought   OfferStatus = "bought"
)

type Offer struct {
	ID            string      `gorm:"primaryKey;size:36" json:"_id"`
	PropertyID    string      `gorm:"size:36;not null;index" json:"propertyId"`
	Title         string      `gorm:"size:255" json:"title"`
	Location      string      `gorm:"size:255" json:"location"`
	Image         string      `gorm:"size:512" json:"image"`
	AgentName     string      `gorm:"size:128" json:"agentName"`
	AgentEmail    string      `gorm:"size:191;not null;index" json:"agentEmail"`
	BuyerEmail    string      `gorm:"size:191;not null;index" json:"buyerEmail"`
	BuyerName     string      `gorm:"size:128" json:"buyerName"`
	OfferAmount   float64     `gorm:"not null" json:"offerAmount"`
	BuyingDate    string      `gorm:"size:10" json:"buyingDate"` // YYYY-MM-DD
	Status        OfferStatus `gorm:"size:16;not null;default:pending;index" json:"status"`
	TransactionID string      `gorm:"size:128" json:"transactionId,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// SoldProperty is one row of an agent's sales report.
type SoldProperty struct {
	OfferID       string     `json:"offerId"`
	PropertyID    string     `json:"propertyId"`
	Title         string     `json:"title"`
	Location      string     `json:"location"`
	BuyerEmail    string     `json:"buyerEmail"`
	BuyerName     string     `json:"buyerName"`
	SoldPrice     float64    `json:"soldPrice"`
	TransactionID string     `json:"transactionId"`
	PaidAt        *time.Time `json:"paidAt"`
}

type OfferRepository interface {
	Create(ctx context.Context, o *Offer) error
	FindByID(ctx context.Context, id string) (*Offer, error)
	ListByBuyer(ctx context.Context, email string) ([]Offer, error)
	ListByAgent(ctx context.Context, email string) ([]Offer, error)
	// CountSettled counts offers for propertyID that are accepted or bought, excluding exceptID.
	CountSettled(ctx context.Context, propertyID, exceptID string) (int64, error)
	Transition(ctx context.Context, id string, from, to OfferStatus) (int64, error)
	RejectPendingSiblings(ctx context.Context, propertyID, exceptID string) (int64, error)
	MarkBought(ctx context.Context, id, transactionID string) (int64, error)
	SoldByAgent(ctx context.Context, agentEmail string) ([]SoldProperty, error)
}
