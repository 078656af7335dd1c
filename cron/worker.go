package cron

import (
	"time"

	"gymbook/config"
	"gymbook/services/notification"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// QueueRedisOpt points asynq at REDIS_QUEUE_DB.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// StartPushWorker runs the push delivery worker in the background and
// returns the server so the caller can shut it down.
func StartPushWorker(pusher *notification.PushNotifier, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeNotificationPush, notification.HandlePushTask(pusher))

	go func() {
		logger.Info("starting push worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Warn("push worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("push worker gave up; notifications will not be delivered")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}
