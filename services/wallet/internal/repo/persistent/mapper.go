package persistent

import (
	"readverse/services/wallet/internal/entity"
	"readverse/services/wallet/internal/model"
)

func ToWalletEntity(m *model.WalletModel) *entity.Wallet {
	if m == nil {
		return nil
	}

	return &entity.Wallet{
		UserID:    m.UserID,
		Balance:   m.Balance,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToPaymentEntity(m *model.PaymentModel) *entity.Payment {
	if m == nil {
		return nil
	}

	return &entity.Payment{
		ID:            m.ID,
		UserID:        m.UserID,
		Kind:          entity.PaymentKind(m.Kind),
		Coins:         m.Coins,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		ReferenceID:   deref(m.ReferenceID),
		StoryID:       deref(m.StoryID),
		Note:          m.Note,
		CreatedAt:     m.CreatedAt,
	}
}

func ToPaymentModel(e *entity.Payment) *model.PaymentModel {
	if e == nil {
		return nil
	}

	return &model.PaymentModel{
		ID:            e.ID,
		UserID:        e.UserID,
		Kind:          string(e.Kind),
		Coins:         e.Coins,
		BalanceBefore: e.BalanceBefore,
		BalanceAfter:  e.BalanceAfter,
		ReferenceID:   nullable(e.ReferenceID),
		StoryID:       nullable(e.StoryID),
		Note:          e.Note,
		CreatedAt:     e.CreatedAt,
	}
}

func ToTopupEntity(m *model.TopupRequestModel) *entity.TopupRequest {
	if m == nil {
		return nil
	}

	return &entity.TopupRequest{
		ID:          m.ID,
		UserID:      m.UserID,
		Coins:       m.Coins,
		Amount:      m.Amount,
		Method:      m.Method,
		Note:        m.Note,
		ReceiptURL:  m.ReceiptURL,
		Status:      entity.TopupStatus(m.Status),
		AdminID:     deref(m.AdminID),
		AdminNote:   m.AdminNote,
		CreatedAt:   m.CreatedAt,
		ProcessedAt: m.ProcessedAt,
	}
}

func ToTopupModel(e *entity.TopupRequest) *model.TopupRequestModel {
	if e == nil {
		return nil
	}

	return &model.TopupRequestModel{
		ID:          e.ID,
		UserID:      e.UserID,
		Coins:       e.Coins,
		Amount:      e.Amount,
		Method:      e.Method,
		Note:        e.Note,
		ReceiptURL:  e.ReceiptURL,
		Status:      string(e.Status),
		AdminID:     nullable(e.AdminID),
		AdminNote:   e.AdminNote,
		CreatedAt:   e.CreatedAt,
		ProcessedAt: e.ProcessedAt,
	}
}

func ToDonationEntity(m *model.DonationModel) *entity.Donation {
	if m == nil {
		return nil
	}

	return &entity.Donation{
		ID:        m.ID,
		DonorID:   m.DonorID,
		StoryID:   m.StoryID,
		AuthorID:  m.AuthorID,
		Coins:     m.Coins,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
}

func ToDonationModel(e *entity.Donation) *model.DonationModel {
	if e == nil {
		return nil
	}

	return &model.DonationModel{
		ID:        e.ID,
		DonorID:   e.DonorID,
		StoryID:   e.StoryID,
		AuthorID:  e.AuthorID,
		Coins:     e.Coins,
		Message:   e.Message,
		CreatedAt: e.CreatedAt,
	}
}

func ToWithdrawalEntity(m *model.WithdrawalModel) *entity.Withdrawal {
	if m == nil {
		return nil
	}

	return &entity.Withdrawal{
		ID:          m.ID,
		UserID:      m.UserID,
		Coins:       m.Coins,
		Method:      m.Method,
		Details:     m.Details,
		Status:      entity.WithdrawalStatus(m.Status),
		AdminID:     deref(m.AdminID),
		AdminNote:   m.AdminNote,
		CreatedAt:   m.CreatedAt,
		ProcessedAt: m.ProcessedAt,
	}
}

func ToWithdrawalModel(e *entity.Withdrawal) *model.WithdrawalModel {
	if e == nil {
		return nil
	}

	return &model.WithdrawalModel{
		ID:          e.ID,
		UserID:      e.UserID,
		Coins:       e.Coins,
		Method:      e.Method,
		Details:     e.Details,
		Status:      string(e.Status),
		AdminID:     nullable(e.AdminID),
		AdminNote:   e.AdminNote,
		CreatedAt:   e.CreatedAt,
		ProcessedAt: e.ProcessedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
