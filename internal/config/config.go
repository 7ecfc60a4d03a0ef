package config

import (
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

var AppEnv Config

type Config struct {
	Port         string
	MongoURI     string
	DBName       string
	JWTSecret    string
	TokenTTL     time.Duration
	CookieSecure bool

	RedisAddr     string
	RedisPassword string
	StatsCacheTTL time.Duration

	KafkaBrokers []string
	NotifyTopic  string

	OrderTransactions       bool
	StrictTransitions       bool
	RevenueExcludeCancelled bool
	ShippingFee             decimal.Decimal
	FreeShippingThreshold   decimal.Decimal
	TaxRate                 decimal.Decimal

	OTPTTL time.Duration

	TraceSampleRatio float64
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = FromEnv()
}

// FromEnv reads the configuration from the process environment without
// touching any .env file.
func FromEnv() Config {
	return Config{
		Port:         getEnvOrDefault("PORT", "5000"),
		MongoURI:     getEnvOrDefault("MONGO_URI", ""),
		DBName:       getEnvOrDefault("DB_NAME", "sportsgear"),
		JWTSecret:    getEnvOrDefault("JWT_SECRET", ""),
		TokenTTL:     getDurationEnv("ACCESS_TOKEN_TTL", 30, 24*time.Hour),
		CookieSecure: getBoolEnv("COOKIE_SECURE", true),

		RedisAddr:     getEnvOrDefault("REDIS_ADDR", ""),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		StatsCacheTTL: getDurationEnv("STATS_CACHE_TTL", 60, time.Second),

		KafkaBrokers: getListEnv("KAFKA_BROKERS"),
		NotifyTopic:  getEnvOrDefault("NOTIFY_TOPIC", "storefront-notifications"),

		OrderTransactions:       getBoolEnv("ORDER_TRANSACTIONS", true),
		StrictTransitions:       getBoolEnv("ORDER_STRICT_TRANSITIONS", false),
		RevenueExcludeCancelled: getBoolEnv("REVENUE_EXCLUDE_CANCELLED", false),
		ShippingFee:             getDecimalEnv("SHIPPING_FEE", decimal.NewFromInt(10)),
		FreeShippingThreshold:   getDecimalEnv("FREE_SHIPPING_THRESHOLD", decimal.NewFromInt(100)),
		TaxRate:                 getDecimalEnv("TAX_RATE", decimal.Zero),

		OTPTTL: getDurationEnv("OTP_TTL", 10, time.Minute),

		TraceSampleRatio: getDecimalEnv("TRACE_SAMPLE_RATIO", decimal.NewFromInt(1)).InexactFloat64(),
	}
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.MongoURI == "" {
		errs = append(errs, errors.New("MONGO_URI is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.TaxRate.IsNegative() || c.ShippingFee.IsNegative() || c.FreeShippingThreshold.IsNegative() {
		errs = append(errs, errors.New("pricing settings must not be negative"))
	}
	return errors.Join(errs...)
}
