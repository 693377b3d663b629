package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"readverse/pkg/entitlement"
	"readverse/pkg/logger"
	"readverse/pkg/metrics"
	"readverse/services/reader/internal/entity"
	"readverse/services/reader/internal/repo/persistent"
)

const (
	outcomeServed       = "served"
	outcomeReread       = "reread"
	outcomeLimitReached = "limit_reached"
)

type ReaderUseCase interface {
	// ReadChapter decides whether the caller may read the chapter now and
	// records the view when it counts against today's quota. visitorKey
	// identifies guests and is ignored for signed-in readers.
	ReadChapter(ctx context.Context, caller *entitlement.Entitlement, visitorKey, storyID, chapterID string) (*entity.AccessDecision, error)
	Quota(ctx context.Context, caller *entitlement.Entitlement, visitorKey string) (*entity.Quota, error)
}

type Limits struct {
	Guest    int
	User     int
	Location *time.Location
}

type readerUseCase struct {
	store  persistent.Store
	limits Limits
	logger *logger.Logger
	now    func() time.Time
}

func NewReaderUseCase(store persistent.Store, limits Limits, logger *logger.Logger) ReaderUseCase {
	if limits.Location == nil {
		limits.Location = time.UTC
	}
	return &readerUseCase{
		store:  store,
		limits: limits,
		logger: logger,
		now:    time.Now,
	}
}

func (uc *readerUseCase) ReadChapter(ctx context.Context, caller *entitlement.Entitlement, visitorKey, storyID, chapterID string) (*entity.AccessDecision, error) {
	chapter, err := uc.store.Chapters().GetChapter(ctx, storyID, chapterID)
	if err != nil {
		return nil, err
	}

	role := string(caller.Role)
	if caller.Role.Unlimited() {
		metrics.RecordChapterAccess(role, outcomeServed)
		return &entity.AccessDecision{Chapter: chapter}, nil
	}

	identityKey := uc.identityKey(caller, visitorKey)
	limit := uc.limitFor(caller)
	now := uc.now()
	dayStart := uc.dayStart(now)
	reread := false

	err = uc.store.WithIdentityLock(ctx, identityKey, func(tx persistent.Store) error {
		viewed, err := tx.Views().HasViewedSince(ctx, identityKey, chapterID, dayStart)
		if err != nil {
			return fmt.Errorf("failed to check view: %w", err)
		}
		if viewed {
			reread = true
			return nil
		}

		used, err := tx.Views().CountDistinctSince(ctx, identityKey, dayStart)
		if err != nil {
			return fmt.Errorf("failed to count views: %w", err)
		}
		if used >= limit {
			return &entity.LimitReachedError{Guest: caller.IsGuest(), Allowed: limit}
		}

		return tx.Views().Record(ctx, &entity.ChapterView{
			IdentityKey: identityKey,
			StoryID:     storyID,
			ChapterID:   chapterID,
			ViewedAt:    now,
		})
	})
	if err != nil {
		var limitErr *entity.LimitReachedError
		if errors.As(err, &limitErr) {
			metrics.RecordChapterAccess(role, outcomeLimitReached)
			uc.logger.Info("Daily limit of %d chapters reached for %s", limit, identityKey)
		}
		return nil, err
	}

	if reread {
		metrics.RecordChapterAccess(role, outcomeReread)
	} else {
		metrics.RecordChapterAccess(role, outcomeServed)
	}
	return &entity.AccessDecision{Chapter: chapter, AdRequired: true, Reread: reread}, nil
}

func (uc *readerUseCase) Quota(ctx context.Context, caller *entitlement.Entitlement, visitorKey string) (*entity.Quota, error) {
	quota := &entity.Quota{Role: string(caller.Role)}
	if caller.Role.Unlimited() {
		quota.Unlimited = true
		return quota, nil
	}

	used, err := uc.store.Views().CountDistinctSince(ctx, uc.identityKey(caller, visitorKey), uc.dayStart(uc.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to count views: %w", err)
	}
	quota.Used = used
	quota.Limit = uc.limitFor(caller)
	return quota, nil
}

func (uc *readerUseCase) identityKey(caller *entitlement.Entitlement, visitorKey string) string {
	if caller.IsGuest() {
		return visitorKey
	}
	return caller.UserID
}

func (uc *readerUseCase) limitFor(caller *entitlement.Entitlement) int {
	if caller.IsGuest() {
		return uc.limits.Guest
	}
	return uc.limits.User
}

// dayStart is local midnight in the reader timezone.
func (uc *readerUseCase) dayStart(now time.Time) time.Time {
	local := now.In(uc.limits.Location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, uc.limits.Location)
}
