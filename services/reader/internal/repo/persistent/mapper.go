package persistent

import (
	"readverse/pkg/models"
	"readverse/services/reader/internal/entity"
	"readverse/services/reader/internal/model"
)

func ToChapterEntity(m *models.Chapter) *entity.Chapter {
	if m == nil {
		return nil
	}
	return &entity.Chapter{
		ID:        m.ID,
		StoryID:   m.StoryID,
		Number:    m.Number,
		Title:     m.Title,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func ToChapterViewModel(e *entity.ChapterView) *model.ChapterViewModel {
	if e == nil {
		return nil
	}
	return &model.ChapterViewModel{
		IdentityKey: e.IdentityKey,
		StoryID:     e.StoryID,
		ChapterID:   e.ChapterID,
		ViewedAt:    e.ViewedAt,
	}
}
