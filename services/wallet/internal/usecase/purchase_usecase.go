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

const maxVIPMonths = 24

// Prices are entitlement costs in coins.
type Prices struct {
	VIPMonth int
	VIPDay   int
	Author   int
}

type VIPPurchaseInput struct {
	Months    int
	Days      int
	CostCoins int
}

type PurchaseUseCase interface {
	PurchaseVIP(ctx context.Context, userID string, input VIPPurchaseInput) (*entity.PurchaseResult, error)
	PurchaseAuthor(ctx context.Context, userID string, costCoins int, penName string) (*entity.PurchaseResult, error)
	GetEntitlement(ctx context.Context, userID string) (*entitlement.Entitlement, error)
	SetRole(ctx context.Context, caller *entitlement.Entitlement, userID string, role entitlement.Role, vipUntil *time.Time) (*entitlement.Entitlement, error)
}

type purchaseUseCase struct {
	store     persistent.Store
	resolver  *entitlement.Resolver
	prices    Prices
	publisher EventPublisher
	logger    *logger.Logger
	now       func() time.Time
}

func NewPurchaseUseCase(store persistent.Store, prices Prices, publisher EventPublisher, logger *logger.Logger) PurchaseUseCase {
	return &purchaseUseCase{
		store:     store,
		resolver:  entitlement.NewResolver(store.Users()),
		prices:    prices,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// VIPPrice returns the cost of a VIP term, or ErrInvalidAmount for an empty
// or oversized term.
func (p Prices) VIPPrice(months, days int) (int, error) {
	if months < 0 || days < 0 || months+days == 0 || months > maxVIPMonths || days > 31 {
		return 0, entity.ErrInvalidAmount
	}
	return months*p.VIPMonth + days*p.VIPDay, nil
}

func (uc *purchaseUseCase) PurchaseVIP(ctx context.Context, userID string, input VIPPurchaseInput) (*entity.PurchaseResult, error) {
	price, err := uc.prices.VIPPrice(input.Months, input.Days)
	if err != nil {
		return nil, err
	}
	if input.CostCoins != 0 && input.CostCoins != price {
		return nil, entity.ErrPriceMismatch
	}

	current, err := uc.currentEntitlement(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current.Role == entitlement.RoleAuthor || current.Role == entitlement.RoleAdmin {
		return nil, entity.ErrAlreadyEntitled
	}

	result := &entity.PurchaseResult{}
	err = uc.store.Transaction(ctx, func(tx persistent.Store) error {
		wallet, err := tx.Wallets().Debit(ctx, userID, price)
		if err != nil {
			return err
		}

		user, err := tx.Users().GetUser(ctx, userID)
		if err != nil {
			return upgradeFailed(err)
		}

		now := uc.now()
		start := now
		if user.VIPUntil != nil && user.VIPUntil.After(now) {
			start = *user.VIPUntil
		}
		vipUntil := start.AddDate(0, input.Months, input.Days)

		if err := tx.Users().SetUserRole(ctx, userID, entitlement.RoleVIP, &vipUntil); err != nil {
			return upgradeFailed(err)
		}

		if err := tx.Payments().Create(ctx, &entity.Payment{
			UserID:        userID,
			Kind:          entity.PaymentKindVIPPurchase,
			Coins:         -price,
			BalanceBefore: wallet.Balance + price,
			BalanceAfter:  wallet.Balance,
			Note:          fmt.Sprintf("vip until %s", vipUntil.UTC().Format(time.RFC3339)),
		}); err != nil {
			return err
		}

		result.Wallet = wallet
		result.User = &entitlement.Entitlement{UserID: userID, Role: entitlement.RoleVIP, VIPUntil: &vipUntil}
		return nil
	})
	if err != nil {
		return nil, uc.purchaseError("vip_purchase", userID, price, err)
	}

	metrics.RecordCoins("vip_purchase", price)
	uc.logger.With("user_id", userID).Info("VIP purchased for %d coins until %s", price, result.User.VIPUntil.Format(time.RFC3339))
	publish(ctx, uc.publisher, uc.logger, queue.Event{
		Type:       queue.EventEntitlementGranted,
		UserID:     userID,
		Amount:     price,
		Attributes: map[string]string{"role": string(entitlement.RoleVIP), "vip_until": result.User.VIPUntil.UTC().Format(time.RFC3339)},
		OccurredAt: uc.now().UTC(),
	})

	return result, nil
}

func (uc *purchaseUseCase) PurchaseAuthor(ctx context.Context, userID string, costCoins int, penName string) (*entity.PurchaseResult, error) {
	price := uc.prices.Author
	if costCoins != 0 && costCoins != price {
		return nil, entity.ErrPriceMismatch
	}

	current, err := uc.currentEntitlement(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current.Role == entitlement.RoleAuthor || current.Role == entitlement.RoleAdmin {
		return nil, entity.ErrAlreadyEntitled
	}

	result := &entity.PurchaseResult{}
	err = uc.store.Transaction(ctx, func(tx persistent.Store) error {
		wallet, err := tx.Wallets().Debit(ctx, userID, price)
		if err != nil {
			return err
		}

		if err := tx.Users().SetUserRole(ctx, userID, entitlement.RoleAuthor, nil); err != nil {
			return upgradeFailed(err)
		}
		if err := tx.Users().CreateAuthorProfile(ctx, userID, penName); err != nil {
			return upgradeFailed(err)
		}

		if err := tx.Payments().Create(ctx, &entity.Payment{
			UserID:        userID,
			Kind:          entity.PaymentKindAuthorPurchase,
			Coins:         -price,
			BalanceBefore: wallet.Balance + price,
			BalanceAfter:  wallet.Balance,
		}); err != nil {
			return err
		}

		result.Wallet = wallet
		result.User = &entitlement.Entitlement{UserID: userID, Role: entitlement.RoleAuthor}
		return nil
	})
	if err != nil {
		return nil, uc.purchaseError("author_purchase", userID, price, err)
	}

	metrics.RecordCoins("author_purchase", price)
	uc.logger.With("user_id", userID).Info("Author status purchased for %d coins", price)
	publish(ctx, uc.publisher, uc.logger, queue.Event{
		Type:       queue.EventEntitlementGranted,
		UserID:     userID,
		Amount:     price,
		Attributes: map[string]string{"role": string(entitlement.RoleAuthor)},
		OccurredAt: uc.now().UTC(),
	})

	return result, nil
}

func (uc *purchaseUseCase) GetEntitlement(ctx context.Context, userID string) (*entitlement.Entitlement, error) {
	ent, err := uc.resolver.ResolveRole(ctx, userID)
	if err != nil {
		uc.logger.Error("Failed to resolve entitlement for %s: %v", userID, err)
		return nil, fmt.Errorf("failed to resolve entitlement: %w", err)
	}
	return ent, nil
}

func (uc *purchaseUseCase) SetRole(ctx context.Context, caller *entitlement.Entitlement, userID string, role entitlement.Role, vipUntil *time.Time) (*entitlement.Entitlement, error) {
	if !caller.IsAdmin() {
		return nil, entity.ErrForbidden
	}
	if _, ok := entitlement.ParseRole(string(role)); !ok {
		return nil, entity.ErrInvalidRole
	}
	if role == entitlement.RoleVIP && (vipUntil == nil || !vipUntil.After(uc.now())) {
		return nil, fmt.Errorf("%w: vip_until must be in the future", entity.ErrInvalidRole)
	}

	if err := uc.resolver.SetRole(ctx, userID, role, vipUntil); err != nil {
		if errors.Is(err, entitlement.ErrUserNotFound) {
			return nil, entity.ErrNotFound
		}
		uc.logger.Error("Failed to set role for %s: %v", userID, err)
		return nil, fmt.Errorf("failed to set role: %w", err)
	}

	uc.logger.With("admin_id", caller.UserID).Info("Role of user %s set to %s", userID, role)
	return uc.GetEntitlement(ctx, userID)
}

func (uc *purchaseUseCase) currentEntitlement(ctx context.Context, userID string) (*entitlement.Entitlement, error) {
	ent, err := uc.resolver.ResolveRole(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve entitlement: %w", err)
	}
	if ent.IsGuest() {
		return nil, entity.ErrNotFound
	}
	return ent, nil
}

// purchaseError classifies a failed purchase. A rolled-back transaction has
// already returned the debited coins, so UpgradeFailed counts as a refund.
func (uc *purchaseUseCase) purchaseError(flow, userID string, price int, err error) error {
	var insufficient *entity.InsufficientFundsError
	switch {
	case errors.As(err, &insufficient):
		metrics.RecordInsufficientFunds(flow)
		return err
	case errors.Is(err, entity.ErrUpgradeFailed):
		metrics.RecordRefund(flow)
		uc.logger.Warn("Grant failed for %s, %d coins returned: %v", userID, price, err)
		return entity.ErrUpgradeFailed
	default:
		uc.logger.Error("Purchase %s failed for %s: %v", flow, userID, err)
		return fmt.Errorf("failed to complete purchase: %w", err)
	}
}

func upgradeFailed(err error) error {
	return fmt.Errorf("%w: %v", entity.ErrUpgradeFailed, err)
}
