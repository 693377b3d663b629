package persistent

import (
	"context"
	"errors"

	"readverse/pkg/models"
	"readverse/services/wallet/internal/entity"

	"gorm.io/gorm"
)

type StoryRepository interface {
	// GetStoryAuthor returns "" when the story exists but has no author.
	GetStoryAuthor(ctx context.Context, storyID string) (string, error)
}

type storyRepository struct {
	db *gorm.DB
}

func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) GetStoryAuthor(ctx context.Context, storyID string) (string, error) {
	var story models.Story
	err := r.db.WithContext(ctx).Select("id", "author_id").Where("id = ?", storyID).First(&story).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", entity.ErrNotFound
		}
		return "", err
	}
	if story.AuthorID == nil {
		return "", nil
	}
	return *story.AuthorID, nil
}
