package persistent

import (
	"context"

	"readverse/services/wallet/internal/entity"
	"readverse/services/wallet/internal/model"

	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Payment, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	paymentModel := ToPaymentModel(payment)
	if err := r.db.WithContext(ctx).Create(paymentModel).Error; err != nil {
		return err
	}
	payment.ID = paymentModel.ID
	payment.CreatedAt = paymentModel.CreatedAt
	return nil
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Payment, error) {
	var paymentModels []model.PaymentModel
	query := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&paymentModels).Error; err != nil {
		return nil, err
	}

	payments := make([]*entity.Payment, len(paymentModels))
	for i := range paymentModels {
		payments[i] = ToPaymentEntity(&paymentModels[i])
	}
	return payments, nil
}
