package persistent

import (
	"context"
	"time"

	"readverse/services/reader/internal/entity"
	"readverse/services/reader/internal/model"

	"gorm.io/gorm"
)

// ViewLedger is append-only: views are never updated or removed.
type ViewLedger interface {
	HasViewedSince(ctx context.Context, identityKey, chapterID string, since time.Time) (bool, error)
	CountDistinctSince(ctx context.Context, identityKey string, since time.Time) (int, error)
	Record(ctx context.Context, view *entity.ChapterView) error
}

type viewLedger struct {
	db *gorm.DB
}

func NewViewLedger(db *gorm.DB) ViewLedger {
	return &viewLedger{db: db}
}

func (l *viewLedger) HasViewedSince(ctx context.Context, identityKey, chapterID string, since time.Time) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).Model(&model.ChapterViewModel{}).
		Where("identity_key = ? AND chapter_id = ? AND viewed_at >= ?", identityKey, chapterID, since).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (l *viewLedger) CountDistinctSince(ctx context.Context, identityKey string, since time.Time) (int, error) {
	var count int64
	err := l.db.WithContext(ctx).Model(&model.ChapterViewModel{}).
		Where("identity_key = ? AND viewed_at >= ?", identityKey, since).
		Distinct("chapter_id").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (l *viewLedger) Record(ctx context.Context, view *entity.ChapterView) error {
	return l.db.WithContext(ctx).Create(ToChapterViewModel(view)).Error
}
