package http

import (
	"context"
	"time"

	"readverse/pkg/entitlement"
	"readverse/services/wallet/internal/entity"
	"readverse/services/wallet/internal/usecase"

	"github.com/stretchr/testify/mock"
)

type MockWalletUseCase struct {
	mock.Mock
}

func (m *MockWalletUseCase) GetWallet(ctx context.Context, userID string) (*entity.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Wallet), args.Error(1)
}

func (m *MockWalletUseCase) GetTransactions(ctx context.Context, userID string, limit, offset int) ([]*entity.Payment, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Payment), args.Error(1)
}

func (m *MockWalletUseCase) AdminCredit(ctx context.Context, caller *entitlement.Entitlement, userID string, coins int, note string) (*entity.Wallet, error) {
	args := m.Called(ctx, caller, userID, coins, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Wallet), args.Error(1)
}

type MockTopupUseCase struct {
	mock.Mock
}

func (m *MockTopupUseCase) Submit(ctx context.Context, userID string, input usecase.SubmitTopupInput) (*entity.TopupRequest, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TopupRequest), args.Error(1)
}

func (m *MockTopupUseCase) List(ctx context.Context, caller *entitlement.Entitlement, filter entity.TopupFilter, limit, offset int) ([]*entity.TopupRequest, error) {
	args := m.Called(ctx, caller, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.TopupRequest), args.Error(1)
}

func (m *MockTopupUseCase) Approve(ctx context.Context, caller *entitlement.Entitlement, id string, coinsOverride int, adminNote string) (*entity.TopupRequest, error) {
	args := m.Called(ctx, caller, id, coinsOverride, adminNote)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TopupRequest), args.Error(1)
}

func (m *MockTopupUseCase) Reject(ctx context.Context, caller *entitlement.Entitlement, id string, adminNote string) (*entity.TopupRequest, error) {
	args := m.Called(ctx, caller, id, adminNote)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TopupRequest), args.Error(1)
}

type MockDonationUseCase struct {
	mock.Mock
}

func (m *MockDonationUseCase) Donate(ctx context.Context, donorID, storyID string, coins int, message string) (*entity.DonationResult, error) {
	args := m.Called(ctx, donorID, storyID, coins, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DonationResult), args.Error(1)
}

type MockPurchaseUseCase struct {
	mock.Mock
}

func (m *MockPurchaseUseCase) PurchaseVIP(ctx context.Context, userID string, input usecase.VIPPurchaseInput) (*entity.PurchaseResult, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PurchaseResult), args.Error(1)
}

func (m *MockPurchaseUseCase) PurchaseAuthor(ctx context.Context, userID string, costCoins int, penName string) (*entity.PurchaseResult, error) {
	args := m.Called(ctx, userID, costCoins, penName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PurchaseResult), args.Error(1)
}

func (m *MockPurchaseUseCase) GetEntitlement(ctx context.Context, userID string) (*entitlement.Entitlement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entitlement.Entitlement), args.Error(1)
}

func (m *MockPurchaseUseCase) SetRole(ctx context.Context, caller *entitlement.Entitlement, userID string, role entitlement.Role, vipUntil *time.Time) (*entitlement.Entitlement, error) {
	args := m.Called(ctx, caller, userID, role, vipUntil)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entitlement.Entitlement), args.Error(1)
}

type MockWithdrawalUseCase struct {
	mock.Mock
}

func (m *MockWithdrawalUseCase) RequestWithdrawal(ctx context.Context, caller *entitlement.Entitlement, coins int, method, details string) (*entity.WithdrawalResult, error) {
	args := m.Called(ctx, caller, coins, method, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.WithdrawalResult), args.Error(1)
}

func (m *MockWithdrawalUseCase) Resolve(ctx context.Context, caller *entitlement.Entitlement, id string, status entity.WithdrawalStatus, adminNote string) (*entity.Withdrawal, error) {
	args := m.Called(ctx, caller, id, status, adminNote)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalUseCase) List(ctx context.Context, caller *entitlement.Entitlement, filter entity.WithdrawalFilter, limit, offset int) ([]*entity.Withdrawal, error) {
	args := m.Called(ctx, caller, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Withdrawal), args.Error(1)
}

var (
	_ usecase.WalletUseCase     = (*MockWalletUseCase)(nil)
	_ usecase.TopupUseCase      = (*MockTopupUseCase)(nil)
	_ usecase.DonationUseCase   = (*MockDonationUseCase)(nil)
	_ usecase.PurchaseUseCase   = (*MockPurchaseUseCase)(nil)
	_ usecase.WithdrawalUseCase = (*MockWithdrawalUseCase)(nil)
)
