package persistent

import (
	"context"
	"errors"

	"readverse/pkg/models"
	"readverse/services/reader/internal/entity"

	"gorm.io/gorm"
)

type ChapterRepository interface {
	GetChapter(ctx context.Context, storyID, chapterID string) (*entity.Chapter, error)
}

type chapterRepository struct {
	db *gorm.DB
}

func NewChapterRepository(db *gorm.DB) ChapterRepository {
	return &chapterRepository{db: db}
}

func (r *chapterRepository) GetChapter(ctx context.Context, storyID, chapterID string) (*entity.Chapter, error) {
	var chapter models.Chapter
	err := r.db.WithContext(ctx).Where("id = ? AND story_id = ?", chapterID, storyID).First(&chapter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return ToChapterEntity(&chapter), nil
}
