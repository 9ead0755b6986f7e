package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Scheduler SchedulerConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig tunes the scheduling engine and its proposal lifecycle.
// Thresholds default to the engine's compiled-in constants; every value can
// be overridden per deployment.
type SchedulerConfig struct {
	ProposalTTL          time.Duration
	ResponseCacheTTL     time.Duration
	SlotIntervalMinutes  int
	SessionMinutes       int
	ServiceWindowStart   string
	ServiceWindowEnd     string
	BaselineSpeedKmh     float64
	RushHourMultiplier   float64
	MorningRushFrom      int
	MorningRushTo        int
	EveningRushFrom      int
	EveningRushTo        int
	TravelBudgetMinutes  int
	MaxAlternatives      int
	AlternativeDayProbes int
	OnePerClientPerDay   bool
	HistoryLookbackDays  int
	ExportDir            string
	Weights              SchedulerWeights
}

// SchedulerWeights overrides the generator's scoring weights. Values must sum
// to 1.0; the engine rejects unbalanced sets.
type SchedulerWeights struct {
	Compatibility      float64
	AvailabilityMargin float64
	Travel             float64
	WorkloadBalance    float64
	Preference         float64
	Continuity         float64
	Contiguity         float64
	Urgency            float64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		ProposalTTL:          parseDuration(v.GetString("SCHEDULER_PROPOSAL_TTL"), 30*time.Minute),
		ResponseCacheTTL:     parseDuration(v.GetString("SCHEDULER_CACHE_TTL"), 5*time.Minute),
		SlotIntervalMinutes:  v.GetInt("SCHEDULER_SLOT_INTERVAL_MINUTES"),
		SessionMinutes:       v.GetInt("SCHEDULER_SESSION_MINUTES"),
		ServiceWindowStart:   v.GetString("SCHEDULER_SERVICE_WINDOW_START"),
		ServiceWindowEnd:     v.GetString("SCHEDULER_SERVICE_WINDOW_END"),
		BaselineSpeedKmh:     v.GetFloat64("SCHEDULER_BASELINE_SPEED_KMH"),
		RushHourMultiplier:   v.GetFloat64("SCHEDULER_RUSH_MULTIPLIER"),
		MorningRushFrom:      v.GetInt("SCHEDULER_MORNING_RUSH_FROM"),
		MorningRushTo:        v.GetInt("SCHEDULER_MORNING_RUSH_TO"),
		EveningRushFrom:      v.GetInt("SCHEDULER_EVENING_RUSH_FROM"),
		EveningRushTo:        v.GetInt("SCHEDULER_EVENING_RUSH_TO"),
		TravelBudgetMinutes:  v.GetInt("SCHEDULER_TRAVEL_BUDGET_MINUTES"),
		MaxAlternatives:      v.GetInt("SCHEDULER_MAX_ALTERNATIVES"),
		AlternativeDayProbes: v.GetInt("SCHEDULER_ALTERNATIVE_DAY_PROBES"),
		OnePerClientPerDay:   v.GetBool("SCHEDULER_ONE_PER_CLIENT_PER_DAY"),
		HistoryLookbackDays:  v.GetInt("SCHEDULER_HISTORY_LOOKBACK_DAYS"),
		ExportDir:            v.GetString("SCHEDULER_EXPORT_DIR"),
		Weights: SchedulerWeights{
			Compatibility:      v.GetFloat64("SCHEDULER_WEIGHT_COMPATIBILITY"),
			AvailabilityMargin: v.GetFloat64("SCHEDULER_WEIGHT_AVAILABILITY_MARGIN"),
			Travel:             v.GetFloat64("SCHEDULER_WEIGHT_TRAVEL"),
			WorkloadBalance:    v.GetFloat64("SCHEDULER_WEIGHT_WORKLOAD_BALANCE"),
			Preference:         v.GetFloat64("SCHEDULER_WEIGHT_PREFERENCE"),
			Continuity:         v.GetFloat64("SCHEDULER_WEIGHT_CONTINUITY"),
			Contiguity:         v.GetFloat64("SCHEDULER_WEIGHT_CONTIGUITY"),
			Urgency:            v.GetFloat64("SCHEDULER_WEIGHT_URGENCY"),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "willowpath_scheduler")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULER_PROPOSAL_TTL", "30m")
	v.SetDefault("SCHEDULER_CACHE_TTL", "5m")
	v.SetDefault("SCHEDULER_SLOT_INTERVAL_MINUTES", 15)
	v.SetDefault("SCHEDULER_SESSION_MINUTES", 60)
	v.SetDefault("SCHEDULER_SERVICE_WINDOW_START", "08:00")
	v.SetDefault("SCHEDULER_SERVICE_WINDOW_END", "18:00")
	v.SetDefault("SCHEDULER_BASELINE_SPEED_KMH", 30.0)
	v.SetDefault("SCHEDULER_RUSH_MULTIPLIER", 1.5)
	v.SetDefault("SCHEDULER_MORNING_RUSH_FROM", 7)
	v.SetDefault("SCHEDULER_MORNING_RUSH_TO", 9)
	v.SetDefault("SCHEDULER_EVENING_RUSH_FROM", 16)
	v.SetDefault("SCHEDULER_EVENING_RUSH_TO", 18)
	v.SetDefault("SCHEDULER_TRAVEL_BUDGET_MINUTES", 60)
	v.SetDefault("SCHEDULER_MAX_ALTERNATIVES", 5)
	v.SetDefault("SCHEDULER_ALTERNATIVE_DAY_PROBES", 3)
	v.SetDefault("SCHEDULER_ONE_PER_CLIENT_PER_DAY", true)
	v.SetDefault("SCHEDULER_HISTORY_LOOKBACK_DAYS", 28)
	v.SetDefault("SCHEDULER_EXPORT_DIR", "./exports")
	v.SetDefault("SCHEDULER_WEIGHT_COMPATIBILITY", 0.20)
	v.SetDefault("SCHEDULER_WEIGHT_AVAILABILITY_MARGIN", 0.10)
	v.SetDefault("SCHEDULER_WEIGHT_TRAVEL", 0.15)
	v.SetDefault("SCHEDULER_WEIGHT_WORKLOAD_BALANCE", 0.15)
	v.SetDefault("SCHEDULER_WEIGHT_PREFERENCE", 0.10)
	v.SetDefault("SCHEDULER_WEIGHT_CONTINUITY", 0.10)
	v.SetDefault("SCHEDULER_WEIGHT_CONTIGUITY", 0.10)
	v.SetDefault("SCHEDULER_WEIGHT_URGENCY", 0.10)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
