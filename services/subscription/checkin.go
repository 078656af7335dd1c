package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymbook/models"

	"go.uber.org/zap"
)

const maxCheckInAttempts = 5

// IncrementWeek returns a copy of counts with counts[week] incremented,
// growing the slice with zeros as needed.
func IncrementWeek(counts []int, week int) []int {
	size := len(counts)
	if week >= size {
		size = week + 1
	}
	out := make([]int, size)
	copy(out, counts)
	out[week]++
	return out
}

func (s *DefaultSubscriptionService) RecordCheckIn(ctx context.Context, subscriberID string, slotTime time.Time) (*models.ClientSubscription, error) {
	for attempt := 1; attempt <= maxCheckInAttempts; attempt++ {
		sub, err := s.GetActive(ctx, subscriberID)
		if errors.Is(err, ErrNoActiveSubscription) {
			s.Logger.Info("check-in without active subscription", zap.String("subscriberID", subscriberID))
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		week := sub.WeekIndex(slotTime)
		if week < 0 {
			s.Logger.Warn("check-in predates subscription start, not counted",
				zap.String("subscriptionID", sub.ID),
				zap.Time("slotTime", slotTime),
				zap.Time("startDate", sub.StartDate))
			return sub, nil
		}

		counts := IncrementWeek(sub.CheckIns, week)
		ok, err := s.Repo.UpdateCheckIns(ctx, sub.ID, sub.Version, counts)
		if err != nil {
			return nil, fmt.Errorf("update check-ins: %w", err)
		}
		if ok {
			sub.CheckIns = counts
			sub.Version++
			if usage := sub.Usage(slotTime); usage.Exceeded {
				s.Logger.Info("weekly check-in quota exceeded",
					zap.String("subscriptionID", sub.ID),
					zap.Int("week", week),
					zap.Int("used", usage.Used),
					zap.Int("limit", sub.WeeklyCheckIns.Limit))
			}
			return sub, nil
		}
		s.Logger.Debug("check-in version conflict, retrying",
			zap.String("subscriptionID", sub.ID), zap.Int("attempt", attempt))
	}
	return nil, ErrCheckInConflict
}
