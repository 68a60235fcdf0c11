package config

import (
	"errors"
	"io/fs"
	"net"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Booking BookingConfig
	Jobs    JobsConfig
}

type AppConfig struct {
	Port     string
	Env      string
	Timezone string
	LogLevel string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// BookingConfig tunes the calendar windows and the registration number allocator.
type BookingConfig struct {
	PatientWindowDays  int
	DoctorWindowDays   int
	AllocationAttempts int
	AllocationBackoff  time.Duration
	DisplayCacheTTL    time.Duration
}

type JobsConfig struct {
	HousekeepingSpec string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_TIMEZONE", "Asia/Taipei")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("BOOKING_PATIENT_WINDOW_DAYS", 28)
	v.SetDefault("BOOKING_DOCTOR_WINDOW_DAYS", 56)
	v.SetDefault("BOOKING_ALLOCATION_ATTEMPTS", 3)
	v.SetDefault("JOBS_HOUSEKEEPING_SPEC", "5 0 * * *")
}

func LoadConfig() (*Config, error) {
	return load(viper.New(), ".env")
}

func load(v *viper.Viper, file string) (*Config, error) {
	setDefaults(v)
	v.SetConfigFile(file)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Environment-only deployments have no .env file.
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	config := &Config{
		App: AppConfig{
			Port:     v.GetString("APP_PORT"),
			Env:      v.GetString("APP_ENV"),
			Timezone: v.GetString("APP_TIMEZONE"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			AccessExpiry:  durationOr(v.GetString("JWT_ACCESS_EXPIRY"), 15*time.Minute),
			RefreshExpiry: durationOr(v.GetString("JWT_REFRESH_EXPIRY"), 7*24*time.Hour),
		},
		Booking: BookingConfig{
			PatientWindowDays:  v.GetInt("BOOKING_PATIENT_WINDOW_DAYS"),
			DoctorWindowDays:   v.GetInt("BOOKING_DOCTOR_WINDOW_DAYS"),
			AllocationAttempts: v.GetInt("BOOKING_ALLOCATION_ATTEMPTS"),
			AllocationBackoff:  durationOr(v.GetString("BOOKING_ALLOCATION_BACKOFF"), 50*time.Millisecond),
			DisplayCacheTTL:    durationOr(v.GetString("BOOKING_DISPLAY_CACHE_TTL"), 2*time.Minute),
		},
		Jobs: JobsConfig{
			HousekeepingSpec: v.GetString("JOBS_HOUSEKEEPING_SPEC"),
		},
	}

	return config, nil
}

// Location resolves the clinic time zone used to decide "today".
func (c AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// URL renders the connection string used by the migration runner.
func (c DBConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func durationOr(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
