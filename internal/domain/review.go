package domain

import (
	"context"
	"time"
)

type Review struct {
	ID            string    `gorm:"primaryKey;size:36" json:"_id"`
	PropertyID    string    `gorm:"size:36;not null;index" json:"propertyId"`
	PropertyTitle string    `gorm:"size:255" json:"propertyTitle"`
	ReviewerEmail string    `gorm:"size:191;not null;index" json:"reviewerEmail"`
	ReviewerName  string    `gorm:"size:128" json:"reviewerName"`
	ReviewerImage string    `gorm:"size:512" json:"reviewerImage"`
	AgentName     string    `gorm:"size:128" json:"agentName"`
	Rating        int       `gorm:"not null" json:"rating"`
	Comment       string    `gorm:"type:text" json:"comment"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ReviewRepository interface {
	Create(ctx context.Context, r *Review) error
	FindByID(ctx context.Context, id string) (*Review, error)
	ListAll(ctx context.Context) ([]Review, error)
	ListByProperty(ctx context.Context, propertyID string) ([]Review, error)
	ListByReviewer(ctx context.Context, email string) ([]Review, error)
	Delete(ctx context.Context, id string) (int64, error)
}
