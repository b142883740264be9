package domain

import (
	"context"
	"time"

	"gorm.io/datatypes"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

type Property struct {
	ID                 string             `gorm:"primaryKey;size:36" json:"_id"`
	Title              string             `gorm:"size:255;not null" json:"title"`
	Location           string             `gorm:"size:255;not null" json:"location"`
	Image              string             `gorm:"size:512" json:"image"`
	Description        string             `gorm:"type:text" json:"description"`
	AgentName          string             `gorm:"size:128" json:"agentName"`
	AgentEmail         string             `gorm:"size:191;not null;index" json:"agentEmail"`
	AgentImage         string             `gorm:"size:512" json:"agentImage"`
	MinPrice           float64            `gorm:"not null" json:"minPrice"`
	MaxPrice           float64            `gorm:"not null" json:"maxPrice"`
	Details            datatypes.JSONMap  `json:"details,omitempty"` // 任意 listing 字段
	VerificationStatus VerificationStatus `gorm:"size:16;not null;default:pending;index" json:"verificationStatus"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// PropertyPatch carries the fields a full update may replace.
type PropertyPatch struct {
	Title       string
	Location    string
	Image       string
	Description string
	AgentName   string
	AgentImage  string
	MinPrice    float64
	MaxPrice    float64
	Details     datatypes.JSONMap
}

type PropertyRepository interface {
	Create(ctx context.Context, p *Property) error
	FindByID(ctx context.Context, id string) (*Property, error)
	List(ctx context.Context) ([]Property, error)
	ListByStatus(ctx context.Context, s VerificationStatus) ([]Property, error)
	ListByAgent(ctx context.Context, agentEmail string) ([]Property, error)
	// UpdateUnlessRejected applies patch only while the stored status is not rejected.
	UpdateUnlessRejected(ctx context.Context, id string, patch PropertyPatch) (int64, error)
	SetStatus(ctx context.Context, id string, to VerificationStatus, from VerificationStatus) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}
