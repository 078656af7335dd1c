package reminder

import (
	"context"
	"fmt"
	"time"

	"gymbook/config"
	subscriptionRepo "gymbook/database/repository/subscription"
	"gymbook/metrics"
	"gymbook/services/notification"
	"gymbook/utils"

	"go.uber.org/zap"
)

const jobExpiry = "subscription_expiry"

// ExpirySweeper warns members whose active subscription ends within
// ExpiryNoticeDays. Each subscription is warned at most once.
type ExpirySweeper struct {
	Subscriptions subscriptionRepo.SubscriptionRepository
	Notifier      notification.Notifier
	Config        config.Scheduling
	Clock         utils.Clock
	Logger        *zap.Logger
}

func (e *ExpirySweeper) Name() string { return jobExpiry }

func (e *ExpirySweeper) Sweep(ctx context.Context) (int, error) {
	started := time.Now()
	defer func() {
		metrics.SweepDuration.WithLabelValues(jobExpiry).Observe(time.Since(started).Seconds())
	}()

	now := e.Clock.Now()
	until := now.AddDate(0, 0, e.Config.ExpiryNoticeDays)
	expiring, err := e.Subscriptions.ListExpiring(ctx, now, until)
	if err != nil {
		return 0, fmt.Errorf("list expiring subscriptions: %w", err)
	}

	sent := 0
	for _, sub := range expiring {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		claimed, err := e.Subscriptions.TrySetExpiryNotified(ctx, sub.ID)
		if err != nil {
			e.Logger.Error("failed to claim expiry notice", zap.String("subscriptionID", sub.ID), zap.Error(err))
			continue
		}
		if !claimed {
			continue
		}
		e.Notifier.Notify(ctx, []string{sub.SubscriberID}, notification.SubscriptionExpiryMessage(sub.EndDate, e.Config.Location))
		sent++
	}

	metrics.SweepProcessed.WithLabelValues(jobExpiry).Add(float64(sent))
	if sent > 0 {
		e.Logger.Info("expiry notices sent", zap.Int("count", sent))
	}
	return sent, nil
}
