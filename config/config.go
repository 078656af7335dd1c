package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Storage.
	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	DatabaseName  string `mapstructure:"DATABASE_NAME"`

	// Auth. Tokens are issued by the account service; we only verify them.
	JWTSecret  string `mapstructure:"JWT_SECRET"`
	AdminToken string `mapstructure:"ADMIN_TOKEN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisLockDB   int    `mapstructure:"REDIS_LOCK_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	// Gym schedule.
	GymTimezone       string `mapstructure:"GYM_TIMEZONE"`
	DefaultCapacity   int    `mapstructure:"DEFAULT_CAPACITY"`
	BookingCutoff     string `mapstructure:"BOOKING_CUTOFF"`
	BookingWindowDays int    `mapstructure:"BOOKING_WINDOW_DAYS"`
	OneBookingPerDay  bool   `mapstructure:"ONE_BOOKING_PER_DAY"`
	ReminderLeadMin   string `mapstructure:"REMINDER_LEAD_MIN"`
	ReminderLeadMax   string `mapstructure:"REMINDER_LEAD_MAX"`
	ReminderSweepSpec string `mapstructure:"REMINDER_SWEEP_SPEC"`
	ExpirySweepSpec   string `mapstructure:"EXPIRY_SWEEP_SPEC"`
	ExpiryNoticeDays  int    `mapstructure:"EXPIRY_NOTICE_DAYS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("STORAGE_DRIVER", "mongo")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "gymbook")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("ADMIN_TOKEN", "")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_LOCK_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	viper.SetDefault("GYM_TIMEZONE", "UTC")
	viper.SetDefault("DEFAULT_CAPACITY", 5)
	viper.SetDefault("BOOKING_CUTOFF", "1h")
	viper.SetDefault("BOOKING_WINDOW_DAYS", 7)
	viper.SetDefault("ONE_BOOKING_PER_DAY", true)
	viper.SetDefault("REMINDER_LEAD_MIN", "55m")
	viper.SetDefault("REMINDER_LEAD_MAX", "65m")
	viper.SetDefault("REMINDER_SWEEP_SPEC", "@every 5m")
	viper.SetDefault("EXPIRY_SWEEP_SPEC", "0 9 * * *")
	viper.SetDefault("EXPIRY_NOTICE_DAYS", 3)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

func UsesMemoryStorage() bool {
	return AppConfig.StorageDriver == "memory"
}
