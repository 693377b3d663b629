package persistent

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Store groups the reader repositories so a gate decision can run on one transaction.
type Store interface {
	Views() ViewLedger
	Chapters() ChapterRepository
	// WithIdentityLock runs fn in a transaction holding an advisory lock on
	// identityKey, serializing check-and-record for that reader.
	WithIdentityLock(ctx context.Context, identityKey string, fn func(tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Views() ViewLedger {
	return NewViewLedger(s.db)
}

func (s *gormStore) Chapters() ChapterRepository {
	return NewChapterRepository(s.db)
}

func (s *gormStore) WithIdentityLock(ctx context.Context, identityKey string, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", identityKey).Error; err != nil {
			return fmt.Errorf("failed to lock reader %s: %w", identityKey, err)
		}
		return fn(&gormStore{db: tx})
	})
}
