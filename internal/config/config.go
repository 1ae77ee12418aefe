package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/iliyamo/dairy-collection/internal/payment"
)

// Config holds all runtime configuration values. Each field
// corresponds to an environment variable. The types reflect how the
// values are used in the application: strings for identifiers and
// secrets, ints for durations and costs.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing

	RateMode payment.Mode // FLAT or FAT_ADJUSTED
	BaseRate string       // per-liter base rate, required in FAT_ADJUSTED mode

	SMSAPIURL        string        // SMS provider endpoint (empty disables delivery)
	SMSAPIKey        string        // SMS provider bearer key
	SMSCountryPrefix string        // default country prefix for bare phone numbers
	OTPTTL           time.Duration // lifetime of one-time codes
	DailySummaryHour int           // local hour (0-23) for the summary batch
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	mode, err := payment.ParseMode(os.Getenv("RATE_MODE"))
	if err != nil {
		log.Fatalf("invalid RATE_MODE: %v", err)
	}
	cfg := Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),

		RateMode: mode,
		BaseRate: os.Getenv("BASE_RATE"),

		SMSAPIURL:        os.Getenv("SMS_API_URL"),
		SMSAPIKey:        os.Getenv("SMS_API_KEY"),
		SMSCountryPrefix: getenvDefault("SMS_COUNTRY_PREFIX", "+91"),
		OTPTTL:           envDurDefault("OTP_TTL", 5*time.Minute),
		DailySummaryHour: envIntDefault("DAILY_SUMMARY_HOUR", 20),
	}
	if cfg.RateMode == payment.ModeFatAdjusted && cfg.BaseRate == "" {
		log.Fatal("BASE_RATE is required when RATE_MODE=FAT_ADJUSTED")
	}
	if cfg.DailySummaryHour < 0 || cfg.DailySummaryHour > 23 {
		log.Fatalf("DAILY_SUMMARY_HOUR out of range: %d", cfg.DailySummaryHour)
	}
	return cfg
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an
// integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}

func envDurDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid duration for %s: %q", key, v)
	}
	return d
}
