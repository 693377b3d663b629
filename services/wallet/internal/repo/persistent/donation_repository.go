package persistent

import (
	"context"

	"readverse/services/wallet/internal/entity"

	"gorm.io/gorm"
)

type DonationRepository interface {
	Create(ctx context.Context, donation *entity.Donation) error
}

type donationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) Create(ctx context.Context, donation *entity.Donation) error {
	donationModel := ToDonationModel(donation)
	if err := r.db.WithContext(ctx).Create(donationModel).Error; err != nil {
		return err
	}
	donation.ID = donationModel.ID
	donation.CreatedAt = donationModel.CreatedAt
	return nil
}
