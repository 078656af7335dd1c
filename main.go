package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymbook/config"
	"gymbook/cron"
	"gymbook/database"
	bookingRepo "gymbook/database/repository/booking"
	"gymbook/database/repository/memstore"
	slotRepo "gymbook/database/repository/slot"
	subscriptionRepo "gymbook/database/repository/subscription"
	templateRepo "gymbook/database/repository/template"
	userRepoPkg "gymbook/database/repository/user"
	"gymbook/handlers"
	"gymbook/middleware"
	"gymbook/routes"
	"gymbook/services/booking"
	"gymbook/services/notification"
	"gymbook/services/reminder"
	"gymbook/services/schedule"
	"gymbook/services/subscription"
	"gymbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type repositories struct {
	templates     templateRepo.TemplateRepository
	slots         slotRepo.SlotRepository
	bookings      bookingRepo.BookingRepository
	subscriptions subscriptionRepo.SubscriptionRepository
	users         userRepoPkg.UserRepository
}

func openRepositories(ctx context.Context, logger *zap.Logger) (repositories, *mongo.Client) {
	if config.UsesMemoryStorage() {
		logger.Warn("using in-memory storage; data is lost on restart")
		store := memstore.New()
		store.SeedDemo()
		return repositories{
			templates:     store.Templates,
			slots:         store.Slots,
			bookings:      store.Bookings,
			subscriptions: store.Subscriptions,
			users:         store.Users,
		}, nil
	}

	database.InitDB()
	db := database.DB()
	slots := slotRepo.NewMongoSlotRepo(db)
	bookings := bookingRepo.NewMongoBookingRepo(db)
	subscriptions := subscriptionRepo.NewMongoSubscriptionRepo(db)
	users := userRepoPkg.NewMongoUserRepo(db)

	for name, ensure := range map[string]func(context.Context) error{
		"slots":         slots.EnsureIndexes,
		"bookings":      bookings.EnsureIndexes,
		"subscriptions": subscriptions.EnsureIndexes,
		"users":         users.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			logger.Fatal("main: failed to ensure indexes", zap.String("collection", name), zap.Error(err))
		}
	}

	return repositories{
		templates:     templateRepo.NewMongoTemplateRepo(db),
		slots:         slots,
		bookings:      bookings,
		subscriptions: subscriptions,
		users:         users,
	}, database.MongoClient
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	sched, err := config.SchedulingFrom(config.AppConfig)
	if err != nil {
		logger.Fatal("main: invalid scheduling configuration", zap.Error(err))
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	repos, mongoClient := openRepositories(rootCtx, logger)

	// Redis backs the sweep lease and the push queue. Without it the
	// process still runs, with a local lease and direct delivery.
	var redisClients []*redis.Client
	var lease cron.Lease = cron.NewLocalLease()
	redisUp := false
	if err := utils.InitRedis(); err != nil {
		logger.Warn("main: redis unavailable, sweeps use a process-local lease", zap.Error(err))
	} else {
		redisUp = true
		redisClients = append(redisClients, utils.LockClient)
		lease = &cron.RedisLease{Client: utils.LockClient, Owner: uuid.New().String()}
	}
	utils.StartHealthMonitor(rootCtx, redisClients, mongoClient)

	var notifier notification.Notifier = &notification.LogNotifier{Logger: logger}
	var pushWorker *asynq.Server
	var queueClient *asynq.Client
	fcm, err := utils.FirebaseInit(rootCtx)
	switch {
	case err != nil:
		logger.Error("main: firebase init failed, push notifications disabled", zap.Error(err))
	case fcm == nil:
		logger.Info("main: FIREBASE_CREDENTIALS_FILE not set, push notifications are logged only")
	default:
		pusher := &notification.PushNotifier{Users: repos.users, Sender: fcm, Logger: logger}
		notifier = pusher
		if redisUp {
			queueClient = asynq.NewClient(cron.QueueRedisOpt())
			pushWorker = cron.StartPushWorker(pusher, logger)
			notifier = &notification.QueuedNotifier{Client: queueClient, Logger: logger}
		}
	}

	clock := utils.SystemClock{}

	// services.
	scheduleService := &schedule.DefaultScheduleService{
		Templates: repos.templates,
		Slots:     repos.slots,
		Config:    sched,
		Logger:    logger,
	}
	subscriptionService := &subscription.DefaultSubscriptionService{
		Repo:   repos.subscriptions,
		Users:  repos.users,
		Clock:  clock,
		Logger: logger,
	}
	bookingService := &booking.DefaultBookingService{
		Schedule:      scheduleService,
		Slots:         repos.slots,
		Bookings:      repos.bookings,
		Users:         repos.users,
		Subscriptions: subscriptionService,
		Notifier:      notifier,
		Config:        sched,
		Clock:         clock,
		Logger:        logger,
	}

	// sweeps.
	scheduler := cron.NewScheduler(sched.Location, lease, logger)
	if err := scheduler.Register(sched.ReminderSweepSpec, &reminder.ReminderSweeper{
		Bookings: repos.bookings,
		Notifier: notifier,
		Config:   sched,
		Clock:    clock,
		Logger:   logger,
	}); err != nil {
		logger.Fatal("main: failed to schedule reminder sweep", zap.Error(err))
	}
	if err := scheduler.Register(sched.ExpirySweepSpec, &reminder.ExpirySweeper{
		Subscriptions: repos.subscriptions,
		Notifier:      notifier,
		Config:        sched,
		Clock:         clock,
		Logger:        logger,
	}); err != nil {
		logger.Fatal("main: failed to schedule expiry sweep", zap.Error(err))
	}
	scheduler.Start()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(middleware.MetricsMiddleware())

	hb := handlers.NewHandlerBundle(bookingService, subscriptionService, sched, clock)
	routes.RegisterRoutes(router, hb)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("gymbook listening on port %s", config.AppConfig.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	scheduler.Stop(shutdownCtx)
	if pushWorker != nil {
		pushWorker.Shutdown()
	}
	if queueClient != nil {
		_ = queueClient.Close()
	}
	stop()
	if err := database.Disconnect(shutdownCtx); err != nil {
		logger.Error("main: mongo disconnect failed", zap.Error(err))
	}
	if utils.LockClient != nil {
		_ = utils.LockClient.Close()
	}
}
