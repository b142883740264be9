package domain

import "context"

// Store groups the repositories; Atomic runs fn against a transaction-bound copy.
type Store interface {
	Users() UserRepository
	Properties() PropertyRepository
	Wishlist() WishlistRepository
	Reviews() ReviewRepository
	Offers() OfferRepository
	Payments() PaymentRepository
	Atomic(ctx context.Context, fn func(Store) error) error
}
