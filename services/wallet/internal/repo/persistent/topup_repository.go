package persistent

import (
	"context"
	"errors"

	"readverse/services/wallet/internal/entity"
	"readverse/services/wallet/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TopupRepository interface {
	Create(ctx context.Context, req *entity.TopupRequest) error
	GetForUpdate(ctx context.Context, id string) (*entity.TopupRequest, error)
	MarkProcessed(ctx context.Context, req *entity.TopupRequest) error
	List(ctx context.Context, filter entity.TopupFilter, limit, offset int) ([]*entity.TopupRequest, error)
}

type topupRepository struct {
	db *gorm.DB
}

func NewTopupRepository(db *gorm.DB) TopupRepository {
	return &topupRepository{db: db}
}

func (r *topupRepository) Create(ctx context.Context, req *entity.TopupRequest) error {
	topupModel := ToTopupModel(req)
	if err := r.db.WithContext(ctx).Create(topupModel).Error; err != nil {
		return err
	}
	req.ID = topupModel.ID
	req.CreatedAt = topupModel.CreatedAt
	return nil
}

// GetForUpdate locks the request row until the surrounding transaction ends.
func (r *topupRepository) GetForUpdate(ctx context.Context, id string) (*entity.TopupRequest, error) {
	var topupModel model.TopupRequestModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&topupModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return ToTopupEntity(&topupModel), nil
}

// MarkProcessed moves a pending request to its terminal status. It fails with
// AlreadyProcessedError if another writer got there first.
func (r *topupRepository) MarkProcessed(ctx context.Context, req *entity.TopupRequest) error {
	result := r.db.WithContext(ctx).Model(&model.TopupRequestModel{}).
		Where("id = ? AND status = ?", req.ID, string(entity.TopupStatusPending)).
		Updates(map[string]interface{}{
			"status":       string(req.Status),
			"coins":        req.Coins,
			"admin_id":     nullable(req.AdminID),
			"admin_note":   req.AdminNote,
			"processed_at": req.ProcessedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var current model.TopupRequestModel
		if err := r.db.WithContext(ctx).Select("status").Where("id = ?", req.ID).First(&current).Error; err != nil {
			return err
		}
		return &entity.AlreadyProcessedError{Status: current.Status}
	}
	return nil
}

func (r *topupRepository) List(ctx context.Context, filter entity.TopupFilter, limit, offset int) ([]*entity.TopupRequest, error) {
	query := r.db.WithContext(ctx).Model(&model.TopupRequestModel{})
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

	var topupModels []model.TopupRequestModel
	if err := query.Find(&topupModels).Error; err != nil {
		return nil, err
	}

	requests := make([]*entity.TopupRequest, len(topupModels))
	for i := range topupModels {
		requests[i] = ToTopupEntity(&topupModels[i])
	}
	return requests, nil
}
