package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"homehunt-server/internal/domain"
)

type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) Users() domain.UserRepository           { return &UserRepo{db: s.db} }
func (s *Store) Properties() domain.PropertyRepository { return &PropertyRepo{db: s.db} }
func (s *Store) Wishlist() domain.WishlistRepository   { return &WishlistRepo{db: s.db} }
func (s *Store) Reviews() domain.ReviewRepository       { return &ReviewRepo{db: s.db} }
func (s *Store) Offers() domain.OfferRepository         { return &OfferRepo{db: s.db} }
func (s *Store) Payments() domain.PaymentRepository     { return &PaymentRepo{db: s.db} }

// Atomic runs fn in one database transaction; an error from fn rolls everything back.
func (s *Store) Atomic(ctx context.Context, fn func(domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Property{},
		&domain.WishlistEntry{},
		&domain.Review{},
		&domain.Offer{},
		&domain.Payment{},
	)
}

// first loads one row; a missing row is (nil, nil).
func first[T any](q *gorm.DB) (*T, error) {
	var v T
	err := q.First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}
