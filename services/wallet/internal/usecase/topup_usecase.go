package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"readverse/pkg/entitlement"
	"readverse/pkg/logger"
	"readverse/pkg/metrics"
	"readverse/pkg/queue"
	"readverse/services/wallet/internal/entity"
	"readverse/services/wallet/internal/repo/persistent"

	"github.com/google/uuid"
)

type Receipt struct {
	Body        io.Reader
	Filename    string
	ContentType string
}

type SubmitTopupInput struct {
	Coins   int
	Amount  float64
	Method  string
	Note    string
	Receipt *Receipt
}

type TopupUseCase interface {
	Submit(ctx context.Context, userID string, input SubmitTopupInput) (*entity.TopupRequest, error)
	List(ctx context.Context, caller *entitlement.Entitlement, filter entity.TopupFilter, limit, offset int) ([]*entity.TopupRequest, error)
	Approve(ctx context.Context, caller *entitlement.Entitlement, id string, coinsOverride int, adminNote string) (*entity.TopupRequest, error)
	Reject(ctx context.Context, caller *entitlement.Entitlement, id string, adminNote string) (*entity.TopupRequest, error)
}

type topupUseCase struct {
	store     persistent.Store
	receipts  ReceiptStorage
	publisher EventPublisher
	logger    *logger.Logger
	now       func() time.Time
}

func NewTopupUseCase(store persistent.Store, receipts ReceiptStorage, publisher EventPublisher, logger *logger.Logger) TopupUseCase {
	return &topupUseCase{
		store:     store,
		receipts:  receipts,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (uc *topupUseCase) Submit(ctx context.Context, userID string, input SubmitTopupInput) (*entity.TopupRequest, error) {
	if input.Coins <= 0 {
		return nil, entity.ErrInvalidAmount
	}

	req := &entity.TopupRequest{
		UserID: userID,
		Coins:  input.Coins,
		Amount: input.Amount,
		Method: input.Method,
		Note:   input.Note,
		Status: entity.TopupStatusPending,
	}

	var receiptKey string
	if input.Receipt != nil {
		if uc.receipts == nil {
			return nil, fmt.Errorf("receipt uploads are not configured")
		}
		receiptKey = fmt.Sprintf("receipts/%s/%s%s", userID, uuid.New().String(), filepath.Ext(input.Receipt.Filename))
		url, err := uc.receipts.UploadFile(ctx, receiptKey, input.Receipt.Body, input.Receipt.ContentType)
		if err != nil {
			uc.logger.Error("Failed to upload receipt: %v", err)
			return nil, fmt.Errorf("failed to upload receipt: %w", err)
		}
		req.ReceiptURL = url
	}

	if err := uc.store.Topups().Create(ctx, req); err != nil {
		uc.logger.Error("Failed to create top-up request: %v", err)
		if receiptKey != "" {
			if delErr := uc.receipts.DeleteFile(ctx, receiptKey); delErr != nil {
				uc.logger.Warn("Failed to remove orphaned receipt %s: %v", receiptKey, delErr)
			}
		}
		return nil, fmt.Errorf("failed to create top-up request: %w", err)
	}

	uc.logger.With("user_id", userID).Info("Top-up request %s submitted for %d coins", req.ID, req.Coins)
	return req, nil
}

// List restricts non-admin callers to their own requests.
func (uc *topupUseCase) List(ctx context.Context, caller *entitlement.Entitlement, filter entity.TopupFilter, limit, offset int) ([]*entity.TopupRequest, error) {
	if !caller.IsAdmin() {
		// An empty user id would drop the owner filter entirely
		if caller.UserID == "" {
			return nil, entity.ErrForbidden
		}
		filter.UserID = caller.UserID
	}

	requests, err := uc.store.Topups().List(ctx, filter, limit, offset)
	if err != nil {
		uc.logger.Error("Failed to list top-up requests: %v", err)
		return nil, fmt.Errorf("failed to list top-up requests: %w", err)
	}
	return requests, nil
}

func (uc *topupUseCase) Approve(ctx context.Context, caller *entitlement.Entitlement, id string, coinsOverride int, adminNote string) (*entity.TopupRequest, error) {
	if !caller.IsAdmin() {
		return nil, entity.ErrForbidden
	}
	if coinsOverride < 0 {
		return nil, entity.ErrInvalidAmount
	}

	var req *entity.TopupRequest
	var wallet *entity.Wallet
	err := uc.store.Transaction(ctx, func(tx persistent.Store) error {
		var err error
		req, err = tx.Topups().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req.Status != entity.TopupStatusPending {
			return &entity.AlreadyProcessedError{Status: string(req.Status)}
		}

		if coinsOverride > 0 {
			req.Coins = coinsOverride
		}
		processedAt := uc.now()
		req.Status = entity.TopupStatusApproved
		req.AdminID = caller.UserID
		req.AdminNote = adminNote
		req.ProcessedAt = &processedAt

		if err := tx.Topups().MarkProcessed(ctx, req); err != nil {
			return err
		}

		wallet, err = tx.Wallets().Credit(ctx, req.UserID, req.Coins)
		if err != nil {
			return err
		}

		return tx.Payments().Create(ctx, &entity.Payment{
			UserID:        req.UserID,
			Kind:          entity.PaymentKindTopup,
			Coins:         req.Coins,
			BalanceBefore: wallet.Balance - req.Coins,
			BalanceAfter:  wallet.Balance,
			ReferenceID:   req.ID,
			Note:          adminNote,
		})
	})
	if err != nil {
		return nil, uc.wrapResolveError("approve", id, err)
	}

	metrics.RecordCoins("topup", req.Coins)
	uc.logger.With("admin_id", caller.UserID).Info("Top-up %s approved, user %s balance now %d", req.ID, req.UserID, wallet.Balance)
	publish(ctx, uc.publisher, uc.logger, queue.Event{
		Type:        queue.EventTopupApproved,
		UserID:      req.UserID,
		Amount:      req.Coins,
		ReferenceID: req.ID,
		OccurredAt:  processedTime(req),
	})

	return req, nil
}

func (uc *topupUseCase) Reject(ctx context.Context, caller *entitlement.Entitlement, id string, adminNote string) (*entity.TopupRequest, error) {
	if !caller.IsAdmin() {
		return nil, entity.ErrForbidden
	}

	var req *entity.TopupRequest
	err := uc.store.Transaction(ctx, func(tx persistent.Store) error {
		var err error
		req, err = tx.Topups().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req.Status != entity.TopupStatusPending {
			return &entity.AlreadyProcessedError{Status: string(req.Status)}
		}

		processedAt := uc.now()
		req.Status = entity.TopupStatusRejected
		req.AdminID = caller.UserID
		req.AdminNote = adminNote
		req.ProcessedAt = &processedAt

		return tx.Topups().MarkProcessed(ctx, req)
	})
	if err != nil {
		return nil, uc.wrapResolveError("reject", id, err)
	}

	uc.logger.With("admin_id", caller.UserID).Info("Top-up %s rejected", req.ID)
	publish(ctx, uc.publisher, uc.logger, queue.Event{
		Type:        queue.EventTopupRejected,
		UserID:      req.UserID,
		Amount:      req.Coins,
		ReferenceID: req.ID,
		OccurredAt:  processedTime(req),
	})

	return req, nil
}

func (uc *topupUseCase) wrapResolveError(action, id string, err error) error {
	var processed *entity.AlreadyProcessedError
	if !errors.As(err, &processed) && !errors.Is(err, entity.ErrNotFound) {
		uc.logger.Error("Failed to %s top-up %s: %v", action, id, err)
	}
	return fmt.Errorf("failed to %s top-up request: %w", action, err)
}

func processedTime(req *entity.TopupRequest) time.Time {
	if req.ProcessedAt != nil {
		return req.ProcessedAt.UTC()
	}
	return time.Now().UTC()
}
