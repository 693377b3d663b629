package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"readverse/pkg/logger"
	"readverse/services/wallet/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
)

const storyAuthorTTL = 10 * time.Minute

// storyAuthors resolves a story's author, caching hits in redis under the
// story hash. A nil redis client disables the cache.
type storyAuthors struct {
	stories     persistent.StoryRepository
	redisClient *redis.Client
	logger      *logger.Logger
}

func newStoryAuthors(stories persistent.StoryRepository, redisClient *redis.Client, logger *logger.Logger) *storyAuthors {
	return &storyAuthors{stories: stories, redisClient: redisClient, logger: logger}
}

func (s *storyAuthors) AuthorOf(ctx context.Context, storyID string) (string, error) {
	key := fmt.Sprintf("story:%s", storyID)

	if s.redisClient != nil {
		authorID, err := s.redisClient.HGet(ctx, key, "author_id").Result()
		if err == nil && authorID != "" {
			return authorID, nil
		}
		if err != nil && !errors.Is(err, redis.Nil) {
			s.logger.Warn("Story cache read failed for %s: %v", storyID, err)
		}
	}

	authorID, err := s.stories.GetStoryAuthor(ctx, storyID)
	if err != nil {
		return "", err
	}

	// Stories without an author are not cached so a later assignment is seen.
	if s.redisClient != nil && authorID != "" {
		if err := s.redisClient.HSet(ctx, key, "author_id", authorID).Err(); err != nil {
			s.logger.Warn("Story cache write failed for %s: %v", storyID, err)
		} else {
			s.redisClient.Expire(ctx, key, storyAuthorTTL)
		}
	}

	return authorID, nil
}
