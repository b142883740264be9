package domain

import (
	"context"
	"time"
)

type Payment struct {
	ID            string    `gorm:"primaryKey;size:36" json:"_id"`
	OfferID       string    `gorm:"size:36;not null;uniqueIndex" json:"offerId"`
	TransactionID string    `gorm:"size:128;not null" json:"transactionId"`
	Amount        float64   `gorm:"not null" json:"amount"`
	Email         string    `gorm:"size:191;not null;index" json:"email"`
	UserName      string    `gorm:"size:128" json:"userName"`
	Status        string    `gorm:"size:32;not null" json:"status"`
	PaidAt        time.Time `json:"paidAt"`
}

type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	FindByOffer(ctx context.Context, offerID string) (*Payment, error)
}
