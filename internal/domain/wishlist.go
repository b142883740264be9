package domain

import (
	"context"
	"time"
)

// WishlistEntry snapshots the property fields at the time it was saved.
type WishlistEntry struct {
	ID                 string             `gorm:"primaryKey;size:36" json:"_id"`
	UserEmail          string             `gorm:"size:191;not null;index" json:"userEmail"`
	PropertyID         string             `gorm:"size:36;not null" json:"propertyId"`
	Title              string             `gorm:"size:255" json:"title"`
	Location           string             `gorm:"size:255" json:"location"`
	Image              string             `gorm:"size:512" json:"image"`
	AgentName          string             `gorm:"size:128" json:"agentName"`
	AgentImage         string             `gorm:"size:512" json:"agentImage"`
	VerificationStatus VerificationStatus `gorm:"size:16" json:"verificationStatus"`
	MinPrice           float64            `json:"minPrice"`
	MaxPrice           float64            `json:"maxPrice"`
	CreatedAt          time.Time          `json:"createdAt"`
}

func (WishlistEntry) TableName() string { return "wishlist" }

type WishlistRepository interface {
	Create(ctx context.Context, w *WishlistEntry) error
	FindByID(ctx context.Context, id string) (*WishlistEntry, error)
	ListByUser(ctx context.Context, email string) ([]WishlistEntry, error)
	Delete(ctx context.Context, id string) (int64, error)
}
