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

	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	CAS        CASConfig
	WeChat     WeChatConfig
	Attendance AttendanceConfig
	CORS       CORSConfig
	Log        LogConfig
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

type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

// CASConfig points at the university single-sign-on server.
type CASConfig struct {
	ServerURL  string
	ServiceURL string
	Timeout    time.Duration
}

// WeChatConfig holds WeChat Work corp credentials and token cache tuning.
type WeChatConfig struct {
	CorpID     string
	CorpSecret string
	AgentID    string
	APIBaseURL string
	Timeout    time.Duration
	// TokenSafetyMargin is subtracted from the upstream expires_in so a
	// cached token is refreshed before WeChat invalidates it.
	TokenSafetyMargin time.Duration
}

// AttendanceConfig carries the check-in decision thresholds.
type AttendanceConfig struct {
	// Timezone is the campus civil timezone; check-in instants are
	// interpreted in this zone regardless of the caller's locale.
	Timezone string
	// CheckInRadiusMeters is the strict radius around a session's building
	// within which a check-in counts.
	CheckInRadiusMeters float64
	// CampusRadiusMeters is the looser "roughly on campus" radius used by
	// nearest-building lookups.
	CampusRadiusMeters float64
	// LateThreshold is the grace period after session start during which a
	// check-in is still on time.
	LateThreshold time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
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

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Issuer:     v.GetString("JWT_ISSUER"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CAS = CASConfig{
		ServerURL:  v.GetString("CAS_SERVER_URL"),
		ServiceURL: v.GetString("CAS_SERVICE_URL"),
		Timeout:    parseDuration(v.GetString("CAS_TIMEOUT"), 10*time.Second),
	}

	cfg.WeChat = WeChatConfig{
		CorpID:            v.GetString("WECHAT_CORP_ID"),
		CorpSecret:        v.GetString("WECHAT_CORP_SECRET"),
		AgentID:           v.GetString("WECHAT_AGENT_ID"),
		APIBaseURL:        v.GetString("WECHAT_API_BASE_URL"),
		Timeout:           parseDuration(v.GetString("WECHAT_TIMEOUT"), 10*time.Second),
		TokenSafetyMargin: parseDuration(v.GetString("WECHAT_TOKEN_SAFETY_MARGIN"), 5*time.Minute),
	}

	cfg.Attendance = AttendanceConfig{
		Timezone:            v.GetString("ATTENDANCE_TIMEZONE"),
		CheckInRadiusMeters: v.GetFloat64("ATTENDANCE_CHECKIN_RADIUS_METERS"),
		CampusRadiusMeters:  v.GetFloat64("ATTENDANCE_CAMPUS_RADIUS_METERS"),
		LateThreshold:       parseDuration(v.GetString("ATTENDANCE_LATE_THRESHOLD"), 15*time.Minute),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
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
	v.SetDefault("DB_NAME", "campus_checkin")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "campus-checkin-api")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("CAS_SERVER_URL", "https://authserver.szu.edu.cn/authserver")
	v.SetDefault("CAS_SERVICE_URL", "http://localhost:8080/api/v1/auth/cas")
	v.SetDefault("CAS_TIMEOUT", "10s")

	v.SetDefault("WECHAT_CORP_ID", "")
	v.SetDefault("WECHAT_CORP_SECRET", "")
	v.SetDefault("WECHAT_AGENT_ID", "")
	v.SetDefault("WECHAT_API_BASE_URL", "https://qyapi.weixin.qq.com/cgi-bin")
	v.SetDefault("WECHAT_TIMEOUT", "10s")
	v.SetDefault("WECHAT_TOKEN_SAFETY_MARGIN", "5m")

	v.SetDefault("ATTENDANCE_TIMEZONE", "Asia/Shanghai")
	v.SetDefault("ATTENDANCE_CHECKIN_RADIUS_METERS", 100)
	v.SetDefault("ATTENDANCE_CAMPUS_RADIUS_METERS", 200)
	v.SetDefault("ATTENDANCE_LATE_THRESHOLD", "15m")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
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
