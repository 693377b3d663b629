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

type WithdrawalUseCase interface {
	RequestWithdrawal(ctx context.Context, caller *entitlement.Entitlement, coins int, method, details string) (*entity.WithdrawalResult, error)
	Resolve(ctx context.Context, caller *entitlement.Entitlement, id string, status entity.WithdrawalStatus, adminNote string) (*entity.Withdrawal, error)
	List(ctx context.Context, caller *entitlement.Entitlement, filter entity.WithdrawalFilter, limit, offset int) ([]*entity.Withdrawal, error)
}

type withdrawalUseCase struct {
	store     persistent.Store
	publisher EventPublisher
	logger    *logger.Logger
	now       func() time.Time
}

func NewWithdrawalUseCase(store persistent.Store, publisher EventPublisher, logger *logger.Logger) WithdrawalUseCase {
	return &withdrawalUseCase{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// RequestWithdrawal reserves coins by debiting them immediately.
func (uc *withdrawalUseCase) RequestWithdrawal(ctx context.Context, caller *entitlement.Entitlement, coins int, method, details string) (*entity.WithdrawalResult, error) {
	if caller.Role != entitlement.RoleAuthor && caller.Role != entitlement.RoleAdmin {
		return nil, entity.ErrForbidden
	}
	if coins <= 0 {
		return nil, entity.ErrInvalidAmount
	}

	result := &entity.WithdrawalResult{}
	err := uc.store.Transaction(ctx, func(tx persistent.Store) error {
		wallet, err := tx.Wallets().Debit(ctx, caller.UserID, coins)
		if err != nil {
			return err
		}

		withdrawal := &entity.Withdrawal{
			UserID:  caller.UserID,
			Coins:   coins,
			Method:  method,
			Details: details,
			Status:  entity.WithdrawalStatusPending,
		}
		if err := tx.Withdrawals().Create(ctx, withdrawal); err != nil {
			return err
		}

		if err := tx.Payments().Create(ctx, &entity.Payment{
			UserID:        caller.UserID,
			Kind:          entity.PaymentKindWithdrawalReserve,
			Coins:         -coins,
			BalanceBefore: wallet.Balance + coins,
			BalanceAfter:  wallet.Balance,
			ReferenceID:   withdrawal.ID,
		}); err != nil {
			return err
		}

		result.Withdrawal = withdrawal
		result.Wallet = wallet
		return nil
	})
	if err != nil {
		var insufficient *entity.InsufficientFundsError
		if errors.As(err, &insufficient) {
			metrics.RecordInsufficientFunds("withdrawal")
			return nil, err
		}
		uc.logger.Error("Failed to request withdrawal for %s: %v", caller.UserID, err)
		return nil, fmt.Errorf("failed to request withdrawal: %w", err)
	}

	metrics.RecordCoins("withdrawal_reserve", coins)
	uc.logger.With("user_id", caller.UserID).Info("Withdrawal %s requested for %d coins", result.Withdrawal.ID, coins)
	publish(ctx, uc.publisher, uc.logger, queue.Event{
		Type:        queue.EventWithdrawalRequested,
		UserID:      caller.UserID,
		Amount:      coins,
		ReferenceID: result.Withdrawal.ID,
		OccurredAt:  uc.now().UTC(),
	})

	return result, nil
}

// Resolve moves a withdrawal forward. Declining a pending withdrawal refunds
// the reserved coins; the first approval or processing writes the payout
// audit row, after which the coins never come back.
func (uc *withdrawalUseCase) Resolve(ctx context.Context, caller *entitlement.Entitlement, id string, status entity.WithdrawalStatus, adminNote string) (*entity.Withdrawal, error) {
	if !caller.IsAdmin() {
		return nil, entity.ErrForbidden
	}
	switch status {
	case entity.WithdrawalStatusApproved, entity.WithdrawalStatusDeclined, entity.WithdrawalStatusProcessed:
	default:
		return nil, entity.ErrInvalidStatus
	}

	var withdrawal *entity.Withdrawal
	err := uc.store.Transaction(ctx, func(tx persistent.Store) error {
		var err error
		withdrawal, err = tx.Withdrawals().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		from := withdrawal.Status
		if !from.CanMoveTo(status) {
			return &entity.AlreadyProcessedError{Status: string(from)}
		}

		processedAt := uc.now()
		withdrawal.Status = status
		withdrawal.AdminID = caller.UserID
		withdrawal.AdminNote = adminNote
		withdrawal.ProcessedAt = &processedAt

		if err := tx.Withdrawals().UpdateStatus(ctx, withdrawal, from); err != nil {
			return err
		}

		switch {
		case status == entity.WithdrawalStatusDeclined:
			wallet, err := tx.Wallets().Credit(ctx, withdrawal.UserID, withdrawal.Coins)
			if err != nil {
				return err
			}
			return tx.Payments().Create(ctx, &entity.Payment{
				UserID:        withdrawal.UserID,
				Kind:          entity.PaymentKindWithdrawalRefund,
				Coins:         withdrawal.Coins,
				BalanceBefore: wallet.Balance - withdrawal.Coins,
				BalanceAfter:  wallet.Balance,
				ReferenceID:   withdrawal.ID,
				Note:          adminNote,
			})
		case from == entity.WithdrawalStatusPending:
			wallet, err := tx.Wallets().GetOrCreate(ctx, withdrawal.UserID)
			if err != nil {
				return err
			}
			return tx.Payments().Create(ctx, &entity.Payment{
				UserID:        withdrawal.UserID,
				Kind:          entity.PaymentKindWithdrawalPayout,
				Coins:         withdrawal.Coins,
				BalanceBefore: wallet.Balance,
				BalanceAfter:  wallet.Balance,
				ReferenceID:   withdrawal.ID,
				Note:          string(status),
			})
		}
		return nil
	})
	if err != nil {
		var processed *entity.AlreadyProcessedError
		if !errors.As(err, &processed) && !errors.Is(err, entity.ErrNotFound) {
			uc.logger.Error("Failed to resolve withdrawal %s: %v", id, err)
		}
		return nil, fmt.Errorf("failed to resolve withdrawal: %w", err)
	}

	if status == entity.WithdrawalStatusDeclined {
		metrics.RecordRefund("withdrawal")
	}
	uc.logger.With("admin_id", caller.UserID).Info("Withdrawal %s moved to %s", withdrawal.ID, status)
	publish(ctx, uc.publisher, uc.logger, queue.Event{
		Type:        queue.EventWithdrawalResolved,
		UserID:      withdrawal.UserID,
		Amount:      withdrawal.Coins,
		ReferenceID: withdrawal.ID,
		Attributes:  map[string]string{"status": string(status)},
		OccurredAt:  uc.now().UTC(),
	})

	return withdrawal, nil
}

func (uc *withdrawalUseCase) List(ctx context.Context, caller *entitlement.Entitlement, filter entity.WithdrawalFilter, limit, offset int) ([]*entity.Withdrawal, error) {
	if !caller.IsAdmin() {
		// An empty user id would drop the owner filter entirely
		if caller.UserID == "" {
			return nil, entity.ErrForbidden
		}
		filter.UserID = caller.UserID
	}

	withdrawals, err := uc.store.Withdrawals().List(ctx, filter, limit, offset)
	if err != nil {
		uc.logger.Error("Failed to list withdrawals: %v", err)
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	return withdrawals, nil
}
