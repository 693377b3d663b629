package persistent

import (
	"context"
	"errors"

	"readverse/services/wallet/internal/entity"
	"readverse/services/wallet/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WithdrawalRepository interface {
	Create(ctx context.Context, w *entity.Withdrawal) error
	GetForUpdate(ctx context.Context, id string) (*entity.Withdrawal, error)
	UpdateStatus(ctx context.Context, w *entity.Withdrawal, from entity.WithdrawalStatus) error
	List(ctx context.Context, filter entity.WithdrawalFilter, limit, offset int) ([]*entity.Withdrawal, error)
}

type withdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

func (r *withdrawalRepository) Create(ctx context.Context, w *entity.Withdrawal) error {
	withdrawalModel := ToWithdrawalModel(w)
	if err := r.db.WithContext(ctx).Create(withdrawalModel).Error; err != nil {
		return err
	}
	w.ID = withdrawalModel.ID
	w.CreatedAt = withdrawalModel.CreatedAt
	return nil
}

func (r *withdrawalRepository) GetForUpdate(ctx context.Context, id string) (*entity.Withdrawal, error) {
	var withdrawalModel model.WithdrawalModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&withdrawalModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return ToWithdrawalEntity(&withdrawalModel), nil
}

// UpdateStatus applies w's new status only if the row is still in from.
func (r *withdrawalRepository) UpdateStatus(ctx context.Context, w *entity.Withdrawal, from entity.WithdrawalStatus) error {
	result := r.db.WithContext(ctx).Model(&model.WithdrawalModel{}).
		Where("id = ? AND status = ?", w.ID, string(from)).
		Updates(map[string]interface{}{
			"status":       string(w.Status),
			"admin_id":     nullable(w.AdminID),
			"admin_note":   w.AdminNote,
			"processed_at": w.ProcessedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &entity.AlreadyProcessedError{Status: string(from)}
	}
	return nil
}

func (r *withdrawalRepository) List(ctx context.Context, filter entity.WithdrawalFilter, limit, offset int) ([]*entity.Withdrawal, error) {
	query := r.db.WithContext(ctx).Model(&model.WithdrawalModel{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var withdrawalModels []model.WithdrawalModel
	if err := query.Find(&withdrawalModels).Error; err != nil {
		return nil, err
	}

	withdrawals := make([]*entity.Withdrawal, len(withdrawalModels))
	for i := range withdrawalModels {
		withdrawals[i] = ToWithdrawalEntity(&withdrawalModels[i])
	}
	return withdrawals, nil
}
