package notification

import (
	"context"
	"errors"
	"fmt"

	userRepo "gymbook/database/repository/user"
	"gymbook/metrics"
	"gymbook/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// FCM accepts at most this many tokens per multicast.
const maxMulticastTokens = 500

// Sender is the slice of *messaging.Client the pusher needs.
type Sender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// PushNotifier sends through FCM and prunes tokens FCM reports as dead.
type PushNotifier struct {
	Users  userRepo.UserRepository
	Sender Sender
	Logger *zap.Logger
	// IsStale decides whether a per-token error means the token should be
	// dropped. Defaults to IsStaleTokenError.
	IsStale func(error) bool
}

func (p *PushNotifier) Notify(ctx context.Context, recipientIDs []string, payload models.NotificationPayload) {
	if err := p.Deliver(ctx, recipientIDs, payload); err != nil {
		p.Logger.Warn("push delivery failed", zap.String("type", string(payload.Type)), zap.Error(err))
	}
}

type tokenOwner struct {
	token string
	owner string
}

// Deliver is Notify with the error returned, for the queue worker.
func (p *PushNotifier) Deliver(ctx context.Context, recipientIDs []string, payload models.NotificationPayload) error {
	targets := p.collectTokens(ctx, recipientIDs)
	if len(targets) == 0 {
		p.Logger.Debug("no device tokens for recipients",
			zap.String("type", string(payload.Type)), zap.Strings("recipients", recipientIDs))
		return nil
	}

	isStale := p.IsStale
	if isStale == nil {
		isStale = IsStaleTokenError
	}

	stale := map[string][]string{}
	var sendErrs []error
	for start := 0; start < len(targets); start += maxMulticastTokens {
		end := start + maxMulticastTokens
		if end > len(targets) {
			end = len(targets)
		}
		batch := targets[start:end]

		resp, err := p.Sender.SendEachForMulticast(ctx, buildMulticast(batch, payload))
		if err != nil {
			metrics.NotificationsSent.WithLabelValues(string(payload.Type), "error").Add(float64(len(batch)))
			sendErrs = append(sendErrs, err)
			continue
		}
		for i, r := range resp.Responses {
			if i >= len(batch) {
				break
			}
			if r.Success {
				metrics.NotificationsSent.WithLabelValues(string(payload.Type), "ok").Inc()
				continue
			}
			metrics.NotificationsSent.WithLabelValues(string(payload.Type), "failed").Inc()
			if r.Error != nil && isStale(r.Error) {
				stale[batch[i].owner] = append(stale[batch[i].owner], batch[i].token)
			}
		}
	}

	for owner, tokens := range stale {
		if err := p.Users.PruneTokens(ctx, owner, tokens); err != nil {
			p.Logger.Warn("failed to prune device tokens", zap.String("userID", owner), zap.Error(err))
			continue
		}
		metrics.TokensPruned.Add(float64(len(tokens)))
		p.Logger.Info("pruned stale device tokens", zap.String("userID", owner), zap.Int("count", len(tokens)))
	}

	if len(sendErrs) > 0 {
		return fmt.Errorf("multicast failed: %w", errors.Join(sendErrs...))
	}
	return nil
}

func (p *PushNotifier) collectTokens(ctx context.Context, recipientIDs []string) []tokenOwner {
	seen := map[string]struct{}{}
	var out []tokenOwner
	for _, id := range recipientIDs {
		u, err := p.Users.GetByID(ctx, id)
		if err != nil {
			p.Logger.Warn("cannot resolve push recipient", zap.String("userID", id), zap.Error(err))
			continue
		}
		for _, tok := range u.FCMTokens {
			if tok == "" {
				continue
			}
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			out = append(out, tokenOwner{token: tok, owner: u.ID})
		}
	}
	return out
}

func buildMulticast(batch []tokenOwner, payload models.NotificationPayload) *messaging.MulticastMessage {
	tokens := make([]string, len(batch))
	for i, t := range batch {
		tokens[i] = t.token
	}
	return &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: payload.Title,
			Body:  payload.Body,
		},
		Data: payload.Data(),
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}
}

// IsStaleTokenError reports FCM errors that mean the token will never work again.
func IsStaleTokenError(err error) bool {
	return messaging.IsUnregistered(err) || messaging.IsInvalidArgument(err) || messaging.IsSenderIDMismatch(err)
}
