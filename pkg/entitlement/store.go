package entitlement

import (
	"context"
	"errors"
	"time"

	"readverse/pkg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userStore struct {
	db *gorm.DB
}

// NewUserStore reads and writes entitlement fields on the users table.
// Pass a transaction handle to make role changes part of a larger unit of work.
func NewUserStore(db *gorm.DB) UserStore {
	return &userStore{db: db}
}

func (s *userStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *userStore) SetUserRole(ctx context.Context, userID string, role Role, vipUntil *time.Time) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"role":      string(role),
			"vip_until": vipUntil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *userStore) CreateAuthorProfile(ctx context.Context, userID, penName string) error {
	profile := &models.AuthorProfile{UserID: userID, PenName: penName}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(profile).Error
}
