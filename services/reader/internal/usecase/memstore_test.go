package usecase

import (
	"context"
	"sync"
	"time"

	"readverse/services/reader/internal/entity"
	"readverse/services/reader/internal/repo/persistent"
)

// memStore is an in-memory persistent.Store. The identity lock is a single
// mutex, which is stricter than the per-key advisory lock.
type memStore struct {
	mu       sync.Mutex
	lock     sync.Mutex
	chapters map[string]*entity.Chapter
	views    []entity.ChapterView
}

func newMemStore() *memStore {
	return &memStore{chapters: make(map[string]*entity.Chapter)}
}

func (s *memStore) addChapter(storyID, chapterID string) {
	s.chapters[storyID+"/"+chapterID] = &entity.Chapter{ID: chapterID, StoryID: storyID, Title: chapterID}
}

func (s *memStore) addView(identityKey, chapterID string, at time.Time) {
	s.views = append(s.views, entity.ChapterView{IdentityKey: identityKey, StoryID: "story-1", ChapterID: chapterID, ViewedAt: at})
}

func (s *memStore) viewCount(identityKey string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.views {
		if v.IdentityKey == identityKey {
			n++
		}
	}
	return n
}

func (s *memStore) Views() persistent.ViewLedger           { return s }
func (s *memStore) Chapters() persistent.ChapterRepository { return s }

func (s *memStore) WithIdentityLock(ctx context.Context, identityKey string, fn func(tx persistent.Store) error) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return fn(s)
}

func (s *memStore) GetChapter(ctx context.Context, storyID, chapterID string) (*entity.Chapter, error) {
	chapter, ok := s.chapters[storyID+"/"+chapterID]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return chapter, nil
}

func (s *memStore) HasViewedSince(ctx context.Context, identityKey, chapterID string, since time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.views {
		if v.IdentityKey == identityKey && v.ChapterID == chapterID && !v.ViewedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) CountDistinctSince(ctx context.Context, identityKey string, since time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool)
	for _, v := range s.views {
		if v.IdentityKey == identityKey && !v.ViewedAt.Before(since) {
			seen[v.ChapterID] = true
		}
	}
	return len(seen), nil
}

func (s *memStore) Record(ctx context.Context, view *entity.ChapterView) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = append(s.views, *view)
	return nil
}
