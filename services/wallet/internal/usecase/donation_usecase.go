package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"readverse/pkg/logger"
	"readverse/pkg/metrics"
	"readverse/pkg/queue"
	"readverse/services/wallet/internal/entity"
	"readverse/services/wallet/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
)

type DonationUseCase interface {
	Donate(ctx context.Context, donorID, storyID string, coins int, message string) (*entity.DonationResult, error)
}

type donationUseCase struct {
	store     persistent.Store
	authors   *storyAuthors
	publisher EventPublisher
	logger    *logger.Logger
}

func NewDonationUseCase(store persistent.Store, redisClient *redis.Client, publisher EventPublisher, logger *logger.Logger) DonationUseCase {
	return &donationUseCase{
		store:     store,
		authors:   newStoryAuthors(store.Stories(), redisClient, logger),
		publisher: publisher,
		logger:    logger,
	}
}

// Donate moves coins from the donor to the story's author. The debit, the
// credit, the donation row and both audit rows commit together.
func (uc *donationUseCase) Donate(ctx context.Context, donorID, storyID string, coins int, message string) (*entity.DonationResult, error) {
	if coins <= 0 {
		return nil, entity.ErrInvalidAmount
	}

	authorID, err := uc.authors.AuthorOf(ctx, storyID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, err
		}
		uc.logger.Error("Failed to resolve author of story %s: %v", storyID, err)
		return nil, fmt.Errorf("failed to resolve story author: %w", err)
	}
	if authorID == "" {
		return nil, entity.ErrStoryHasNoAuthor
	}
	if authorID == donorID {
		return nil, entity.ErrSelfDonation
	}

	result := &entity.DonationResult{}
	err = uc.store.Transaction(ctx, func(tx persistent.Store) error {
		donorWallet, err := tx.Wallets().Debit(ctx, donorID, coins)
		if err != nil {
			return err
		}

		authorWallet, err := tx.Wallets().Credit(ctx, authorID, coins)
		if err != nil {
			return err
		}

		donation := &entity.Donation{
			DonorID:  donorID,
			StoryID:  storyID,
			AuthorID: authorID,
			Coins:    coins,
			Message:  message,
		}
		if err := tx.Donations().Create(ctx, donation); err != nil {
			return err
		}

		if err := tx.Payments().Create(ctx, &entity.Payment{
			UserID:        donorID,
			Kind:          entity.PaymentKindDonationSent,
			Coins:         -coins,
			BalanceBefore: donorWallet.Balance + coins,
			BalanceAfter:  donorWallet.Balance,
			ReferenceID:   donation.ID,
			StoryID:       storyID,
		}); err != nil {
			return err
		}

		if err := tx.Payments().Create(ctx, &entity.Payment{
			UserID:        authorID,
			Kind:          entity.PaymentKindDonationReceived,
			Coins:         coins,
			BalanceBefore: authorWallet.Balance - coins,
			BalanceAfter:  authorWallet.Balance,
			ReferenceID:   donation.ID,
			StoryID:       storyID,
		}); err != nil {
			return err
		}

		result.Donation = donation
		result.DonorWallet = donorWallet
		result.AuthorWallet = authorWallet
		return nil
	})
	if err != nil {
		var insufficient *entity.InsufficientFundsError
		if errors.As(err, &insufficient) {
			metrics.RecordInsufficientFunds("donation")
			return nil, err
		}
		uc.logger.Error("Failed to process donation from %s to story %s: %v", donorID, storyID, err)
		return nil, fmt.Errorf("failed to process donation: %w", err)
	}

	metrics.RecordCoins("donation", coins)
	uc.logger.With("user_id", donorID).Info("Donated %d coins to author %s for story %s", coins, authorID, storyID)
	publish(ctx, uc.publisher, uc.logger, queue.Event{
		Type:        queue.EventDonationSent,
		UserID:      donorID,
		Amount:      coins,
		ReferenceID: result.Donation.ID,
		Attributes:  map[string]string{"author_id": authorID, "story_id": storyID},
		OccurredAt:  time.Now().UTC(),
	})

	return result, nil
}
