package persistent

import (
	"context"
	"time"

	"readverse/services/wallet/internal/entity"
	"readverse/services/wallet/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WalletRepository interface {
	GetOrCreate(ctx context.Context, userID string) (*entity.Wallet, error)
	Credit(ctx context.Context, userID string, amount int) (*entity.Wallet, error)
	Debit(ctx context.Context, userID string, amount int) (*entity.Wallet, error)
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) GetOrCreate(ctx context.Context, userID string) (*entity.Wallet, error) {
	now := time.Now()
	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO wallets (user_id, balance, created_at, updated_at) VALUES (?, 0, ?, ?) ON CONFLICT (user_id) DO NOTHING`,
		userID, now, now,
	).Error
	if err != nil {
		return nil, err
	}

	var walletModel model.WalletModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&walletModel).Error; err != nil {
		return nil, err
	}
	return ToWalletEntity(&walletModel), nil
}

// Credit adds amount in a single upsert, creating the wallet on first use.
func (r *walletRepository) Credit(ctx context.Context, userID string, amount int) (*entity.Wallet, error) {
	if amount <= 0 {
		return nil, entity.ErrInvalidAmount
	}

	now := time.Now()
	var walletModel model.WalletModel
	err := r.db.WithContext(ctx).Raw(
		`INSERT INTO wallets (user_id, balance, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET balance = wallets.balance + EXCLUDED.balance, updated_at = EXCLUDED.updated_at
		RETURNING user_id, balance, created_at, updated_at`,
		userID, amount, now, now,
	).Scan(&walletModel).Error
	if err != nil {
		return nil, err
	}
	return ToWalletEntity(&walletModel), nil
}

// Debit is a conditional decrement: the row only changes when the balance
// covers amount, so concurrent debits never both see the same stale balance.
// The CHECK (balance >= 0) on wallets backs this up at the schema level.
func (r *walletRepository) Debit(ctx context.Context, userID string, amount int) (*entity.Wallet, error) {
	if amount <= 0 {
		return nil, entity.ErrInvalidAmount
	}

	var walletModel model.WalletModel
	result := r.db.WithContext(ctx).Model(&walletModel).
		Clauses(clause.Returning{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance - ?", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		current, err := r.GetOrCreate(ctx, userID)
		if err != nil {
			return nil, err
		}
		return nil, &entity.InsufficientFundsError{Balance: current.Balance}
	}

	return ToWalletEntity(&walletModel), nil
}
