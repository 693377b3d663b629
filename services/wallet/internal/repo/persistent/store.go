package persistent

import (
	"context"

	"readverse/pkg/entitlement"

	"gorm.io/gorm"
)

// Store groups the repositories a money flow touches. Repositories obtained
// from the tx passed to Transaction share one database transaction.
type Store interface {
	Wallets() WalletRepository
	Payments() PaymentRepository
	Topups() TopupRepository
	Donations() DonationRepository
	Withdrawals() WithdrawalRepository
	Stories() StoryRepository
	Users() entitlement.UserStore
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Wallets() WalletRepository         { return NewWalletRepository(s.db) }
func (s *gormStore) Payments() PaymentRepository       { return NewPaymentRepository(s.db) }
func (s *gormStore) Topups() TopupRepository           { return NewTopupRepository(s.db) }
func (s *gormStore) Donations() DonationRepository     { return NewDonationRepository(s.db) }
func (s *gormStore) Withdrawals() WithdrawalRepository { return NewWithdrawalRepository(s.db) }
func (s *gormStore) Stories() StoryRepository          { return NewStoryRepository(s.db) }
func (s *gormStore) Users() entitlement.UserStore      { return entitlement.NewUserStore(s.db) }

// Transaction commits when fn returns nil and rolls back otherwise.
func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
