package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"readverse/pkg/entitlement"
	"readverse/pkg/logger"
	"readverse/pkg/metrics"
	"readverse/pkg/queue"
	"readverse/services/wallet/internal/entity"
	"readverse/services/wallet/internal/repo/persistent"
)

type WalletUseCase interface {
	GetWallet(ctx context.Context, userID string) (*entity.Wallet, error)
	GetTransactions(ctx context.Context, userID string, limit, offset int) ([]*entity.Payment, error)
	AdminCredit(ctx context.Context, caller *entitlement.Entitlement, userID string, coins int, note string) (*entity.Wallet, error)
}

type walletUseCase struct {
	store     persistent.Store
	publisher EventPublisher
	logger    *logger.Logger
}

func NewWalletUseCase(store persistent.Store, publisher EventPublisher, logger *logger.Logger) WalletUseCase {
	return &walletUseCase{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

func (uc *walletUseCase) GetWallet(ctx context.Context, userID string) (*entity.Wallet, error) {
	wallet, err := uc.store.Wallets().GetOrCreate(ctx, userID)
	if err != nil {
		uc.logger.Error("Failed to get wallet: %v", err)
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return wallet, nil
}

func (uc *walletUseCase) GetTransactions(ctx context.Context, userID string, limit, offset int) ([]*entity.Payment, error) {
	payments, err := uc.store.Payments().ListByUser(ctx, userID, limit, offset)
	if err != nil {
		uc.logger.Error("Failed to get transactions: %v", err)
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return payments, nil
}

func (uc *walletUseCase) AdminCredit(ctx context.Context, caller *entitlement.Entitlement, userID string, coins int, note string) (*entity.Wallet, error) {
	if !caller.IsAdmin() {
		return nil, entity.ErrForbidden
	}
	if coins <= 0 {
		return nil, entity.ErrInvalidAmount
	}

	var wallet *entity.Wallet
	err := uc.store.Transaction(ctx, func(tx persistent.Store) error {
		if _, err := tx.Users().GetUser(ctx, userID); err != nil {
			if errors.Is(err, entitlement.ErrUserNotFound) {
				return entity.ErrNotFound
			}
			return err
		}

		var err error
		wallet, err = tx.Wallets().Credit(ctx, userID, coins)
		if err != nil {
			return err
		}

		return tx.Payments().Create(ctx, &entity.Payment{
			UserID:        userID,
			Kind:          entity.PaymentKindAdminCredit,
			Coins:         coins,
			BalanceBefore: wallet.Balance - coins,
			BalanceAfter:  wallet.Balance,
			Note:          note,
		})
	})
	if err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			uc.logger.Error("Failed to credit wallet %s: %v", userID, err)
		}
		return nil, fmt.Errorf("failed to credit wallet: %w", err)
	}

	metrics.RecordCoins("admin_credit", coins)
	uc.logger.With("admin_id", caller.UserID).Info("Credited %d coins to user %s", coins, userID)
	publish(ctx, uc.publisher, uc.logger, queue.Event{
		Type:       queue.EventWalletCredited,
		UserID:     userID,
		Amount:     coins,
		Attributes: map[string]string{"admin_id": caller.UserID},
		OccurredAt: time.Now().UTC(),
	})

	return wallet, nil
}
