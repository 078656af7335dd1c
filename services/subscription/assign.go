package subscription

import (
	"context"
	"errors"
	"fmt"

	"gymbook/database/repository"
	"gymbook/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultSubscriptionService) Assign(ctx context.Context, req AssignRequest) (*models.ClientSubscription, error) {
	if req.SubscriberID == "" || req.SubscriptionPackageID == "" {
		return nil, fmt.Errorf("%w: subscriberId and subscriptionPackageId are required", ErrInvalidInput)
	}
	if req.StartDate.IsZero() || !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: endDate must be after startDate", ErrInvalidInput)
	}
	if !req.WeeklyCheckIns.Unlimited && req.WeeklyCheckIns.Limit <= 0 {
		return nil, fmt.Errorf("%w: weeklyCheckIns must be positive or \"unlimited\"", ErrInvalidInput)
	}

	if _, err := s.Users.GetByID(ctx, req.SubscriberID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubscriberNotFound
		}
		return nil, fmt.Errorf("lookup subscriber: %w", err)
	}

	sub := &models.ClientSubscription{
		ID:                    uuid.New().String(),
		SubscriberID:          req.SubscriberID,
		SubscriptionPackageID: req.SubscriptionPackageID,
		StartDate:             req.StartDate,
		EndDate:               req.EndDate,
		Active:                true,
		WeeklyCheckIns:        req.WeeklyCheckIns,
		CheckIns:              []int{},
		CreatedAt:             s.Clock.Now(),
	}
	if err := s.Repo.Assign(ctx, sub); err != nil {
		return nil, fmt.Errorf("assign subscription: %w", err)
	}

	s.Logger.Info("subscription assigned",
		zap.String("subscriptionID", sub.ID),
		zap.String("subscriberID", sub.SubscriberID),
		zap.Time("endDate", sub.EndDate))
	return sub, nil
}

func (s *DefaultSubscriptionService) GetActive(ctx context.Context, subscriberID string) (*models.ClientSubscription, error) {
	sub, err := s.Repo.GetActiveBySubscriber(ctx, subscriberID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoActiveSubscription
	}
	if err != nil {
		return nil, fmt.Errorf("get active subscription: %w", err)
	}
	return sub, nil
}
