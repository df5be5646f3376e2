package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	App      AppConfig
	Policy   Policy
	Jobs     JobsConfig

	Notifications NotificationsConfig
}

type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:""`
	Name     string `envconfig:"DB_NAME" default:"hris_timepay"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`
	// AutoMigrate runs embedded migrations on API start.
	AutoMigrate bool `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string        `envconfig:"JWT_SECRET" required:"true"`
	AccessExpiration time.Duration `envconfig:"JWT_ACCESS_EXPIRATION" default:"1h"`
}

// AppConfig holds application configuration
type AppConfig struct {
	Port             int           `envconfig:"APP_PORT" default:"8080"`
	Env              string        `envconfig:"APP_ENV" default:"development"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`
	FrontendURL      string        `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`
	ReadTimeout      time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	WriteTimeout     time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	RateLimitPerMin  int           `envconfig:"APP_RATE_LIMIT_PER_MIN" default:"120"`
	CheckInPerMinute int           `envconfig:"APP_CHECKIN_RATE_LIMIT_PER_MIN" default:"10"`
}

// Policy gathers the attendance, leave and payroll rules that vary per deployment.
type Policy struct {
	LateGraceMinutes          int           `envconfig:"LATE_GRACE_MINUTES" default:"10"`
	LateAbsenceThreshold      int           `envconfig:"LATE_ABSENCE_THRESHOLD" default:"3"`
	GeofenceRadiusMeters      float64       `envconfig:"GEOFENCE_RADIUS_METERS" default:"200"`
	WFHMaxDays                int           `envconfig:"WFH_MAX_DAYS" default:"3"`
	LeaveAllowNegativeBalance bool          `envconfig:"LEAVE_ALLOW_NEGATIVE_BALANCE" default:"false"`
	PayrollFinalizeLockTTL    time.Duration `envconfig:"PAYROLL_FINALIZE_LOCK_TTL" default:"30s"`
	HolidayCacheTTL           time.Duration `envconfig:"HOLIDAY_CACHE_TTL" default:"6h"`
}

type JobsConfig struct {
	AbsenceMarkCron string `envconfig:"ABSENCE_MARK_CRON" default:"@daily"`
	Concurrency     int    `envconfig:"JOBS_CONCURRENCY" default:"5"`
}

// NotificationsConfig tunes the batching notification workers.
type NotificationsConfig struct {
	BatchSize     int           `envconfig:"NOTIFICATION_BATCH_SIZE" default:"100"`
	FlushInterval time.Duration `envconfig:"NOTIFICATION_FLUSH_INTERVAL" default:"5s"`
	Workers       int           `envconfig:"NOTIFICATION_WORKERS" default:"2"`
	QueueSize     int           `envconfig:"NOTIFICATION_QUEUE_SIZE" default:"1000"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Policy.LateGraceMinutes < 0 {
		return fmt.Errorf("LATE_GRACE_MINUTES must not be negative")
	}
	if c.Policy.LateAbsenceThreshold < 1 {
		return fmt.Errorf("LATE_ABSENCE_THRESHOLD must be at least 1")
	}
	if c.Policy.GeofenceRadiusMeters <= 0 {
		return fmt.Errorf("GEOFENCE_RADIUS_METERS must be positive")
	}
	if c.Policy.WFHMaxDays < 1 {
		return fmt.Errorf("WFH_MAX_DAYS must be at least 1")
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.App.Env == "production"
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
