package subscription

import (
	"context"
	"errors"
	"time"

	subscriptionRepo "gymbook/database/repository/subscription"
	userRepo "gymbook/database/repository/user"
	"gymbook/models"
	"gymbook/utils"

	"go.uber.org/zap"
)

var (
	ErrInvalidInput         = errors.New("subscription: invalid input")
	ErrSubscriberNotFound   = errors.New("subscription: subscriber not found")
	ErrNoActiveSubscription = errors.New("subscription: no active subscription")
	ErrCheckInConflict      = errors.New("subscription: check-in counter changed concurrently, retry")
)

type AssignRequest struct {
	SubscriberID          string              `json:"subscriberId"`
	SubscriptionPackageID string              `json:"subscriptionPackageId"`
	StartDate             time.Time           `json:"startDate"`
	EndDate               time.Time           `json:"endDate"`
	WeeklyCheckIns        models.CheckInQuota `json:"weeklyCheckIns"`
}

// SubscriptionService manages memberships and their weekly visit counters.
type SubscriptionService interface {
	// Assign makes a new subscription the subscriber's only active one.
	Assign(ctx context.Context, req AssignRequest) (*models.ClientSubscription, error)
	GetActive(ctx context.Context, subscriberID string) (*models.ClientSubscription, error)
	// RecordCheckIn counts a visit at slotTime against the active
	// subscription. It returns nil, nil when there is nothing to count against.
	RecordCheckIn(ctx context.Context, subscriberID string, slotTime time.Time) (*models.ClientSubscription, error)
}

type DefaultSubscriptionService struct {
	Repo   subscriptionRepo.SubscriptionRepository
	Users  userRepo.UserRepository
	Clock  utils.Clock
	Logger *zap.Logger
}
