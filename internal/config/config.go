package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envDBHost                = "DB_HOST"
	envDBPort                = "DB_PORT"
	envDBName                = "DB_NAME"
	envDBUser                = "DB_USER"
	envDBPassword            = "DB_PASSWORD"
	envDBSSLMode             = "DB_SSL_MODE"
	envDBMaxConns            = "DB_MAX_CONNS"
	envDBMinConns            = "DB_MIN_CONNS"
	envAuthDomain            = "AUTH_DOMAIN"
	envAuthAudience          = "AUTH_AUDIENCE"
	envAuthAlgorithms        = "AUTH_ALGORITHMS"
	envAuthJWKSURL           = "AUTH_JWKS_URL"
	envAuthJWKSCacheTTL      = "AUTH_JWKS_CACHE_TTL"
	envAuthJWKSFetchTimeout  = "AUTH_JWKS_FETCH_TIMEOUT"
	envAuthClockLeeway       = "AUTH_CLOCK_LEEWAY"
	envRedisURL              = "REDIS_URL"
	envRedisJWKSTTL          = "REDIS_JWKS_TTL"
	envCORSAllowOrigins      = "CORS_ALLOW_ORIGINS"
	envRateLimitRPS          = "RATE_LIMIT_RPS"
	envRateLimitBurst        = "RATE_LIMIT_BURST"
	envEnableProfiling       = "ENABLE_PROFILING"
)

const (
	defaultServerPort         = "8080"
	defaultServerReadTimeout  = 10 * time.Second
	defaultServerWriteTimeout = 10 * time.Second
	defaultServerShutdown     = 10 * time.Second
	defaultDBHost             = "localhost"
	defaultDBPort             = 5432
	defaultDBName             = "drinks"
	defaultDBUser             = "drinks_app"
	defaultDBSSLMode          = "disable"
	defaultDBMaxConns         = 25
	defaultDBMinConns         = 5
	defaultAuthAlgorithms     = "RS256"
	defaultJWKSCacheTTL       = 10 * time.Minute
	defaultJWKSFetchTimeout   = 5 * time.Second
	defaultRedisJWKSTTL       = 10 * time.Minute
	defaultCORSAllowOrigins   = "*"
	defaultRateLimitRPS       = 100
	defaultRateLimitBurst     = 200

	jwksURLFmt   = "https://%s/.well-known/jwks.json"
	issuerURLFmt = "https://%s/"
	listSep      = ","

	errPortRequiredFmt         = "PORT must be set"
	errDBPasswordRequiredFmt   = "DB_PASSWORD must be set"
	errAuthDomainRequiredFmt   = "AUTH_DOMAIN must be set"
	errAuthDomainSchemeFmt     = "AUTH_DOMAIN must be a bare host name, got %q"
	errAuthAudienceRequiredFmt = "AUTH_AUDIENCE must be set"
	errAuthAlgorithmsEmptyFmt  = "AUTH_ALGORITHMS must list at least one algorithm"
	errAuthAlgorithmUnknownFmt = "AUTH_ALGORITHMS contains unsupported algorithm %q"
	errJWKSFetchTimeoutFmt     = "AUTH_JWKS_FETCH_TIMEOUT must be positive"
	errNegativeDurationFmt     = "%s must not be negative"
	errRateLimitFmt            = "RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"
	errInvalidConfigurationFmt = "invalid configuration: %w"
)

// supportedAlgorithms are the asymmetric RSA algorithms the authorizer can verify.
var supportedAlgorithms = map[string]struct{}{
	"RS256": {},
	"RS384": {},
	"RS512": {},
}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Redis    RedisConfig
	HTTP     HTTPConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

// AuthConfig describes the identity provider whose tokens are accepted.
type AuthConfig struct {
	Domain           string
	Audience         string
	Algorithms       []string
	JWKSURL          string
	JWKSCacheTTL     time.Duration
	JWKSFetchTimeout time.Duration
	ClockLeeway      time.Duration
}

type RedisConfig struct {
	URL     string
	JWKSTTL time.Duration
}

type HTTPConfig struct {
	CORSAllowOrigins []string
	RateLimitRPS     int
	RateLimitBurst   int
	EnableProfiling  bool
}

func Load() (*Config, error) {
	domain := strings.TrimSpace(os.Getenv(envAuthDomain))

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
		},
		Database: DatabaseConfig{
			Host:     getEnv(envDBHost, defaultDBHost),
			Port:     getIntEnv(envDBPort, defaultDBPort),
			Database: getEnv(envDBName, defaultDBName),
			User:     getEnv(envDBUser, defaultDBUser),
			Password: os.Getenv(envDBPassword),
			SSLMode:  getEnv(envDBSSLMode, defaultDBSSLMode),
			MaxConns: getIntEnv(envDBMaxConns, defaultDBMaxConns),
			MinConns: getIntEnv(envDBMinConns, defaultDBMinConns),
		},
		Auth: AuthConfig{
			Domain:           domain,
			Audience:         os.Getenv(envAuthAudience),
			Algorithms:       getListEnv(envAuthAlgorithms, defaultAuthAlgorithms),
			JWKSURL:          getEnv(envAuthJWKSURL, jwksURLFor(domain)),
			JWKSCacheTTL:     getDurationEnv(envAuthJWKSCacheTTL, defaultJWKSCacheTTL),
			JWKSFetchTimeout: getDurationEnv(envAuthJWKSFetchTimeout, defaultJWKSFetchTimeout),
			ClockLeeway:      getDurationEnv(envAuthClockLeeway, 0),
		},
		Redis: RedisConfig{
			URL:     os.Getenv(envRedisURL),
			JWKSTTL: getDurationEnv(envRedisJWKSTTL, defaultRedisJWKSTTL),
		},
		HTTP: HTTPConfig{
			CORSAllowOrigins: getListEnv(envCORSAllowOrigins, defaultCORSAllowOrigins),
			RateLimitRPS:     getIntEnv(envRateLimitRPS, defaultRateLimitRPS),
			RateLimitBurst:   getIntEnv(envRateLimitBurst, defaultRateLimitBurst),
			EnableProfiling:  getBoolEnv(envEnableProfiling),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf(errPortRequiredFmt)
	}

	if c.Database.Password == "" {
		return fmt.Errorf(errDBPasswordRequiredFmt)
	}

	if err := c.Auth.Validate(); err != nil {
		return err
	}

	return c.HTTP.Validate()
}

func (a *AuthConfig) Validate() error {
	if a.Domain == "" {
		return fmt.Errorf(errAuthDomainRequiredFmt)
	}

	if strings.Contains(a.Domain, "://") || strings.Contains(a.Domain, "/") {
		return fmt.Errorf(errAuthDomainSchemeFmt, a.Domain)
	}

	if a.Audience == "" {
		return fmt.Errorf(errAuthAudienceRequiredFmt)
	}

	if len(a.Algorithms) == 0 {
		return fmt.Errorf(errAuthAlgorithmsEmptyFmt)
	}

	for _, alg := range a.Algorithms {
		if _, ok := supportedAlgorithms[alg]; !ok {
			return fmt.Errorf(errAuthAlgorithmUnknownFmt, alg)
		}
	}

	if a.JWKSFetchTimeout <= 0 {
		return fmt.Errorf(errJWKSFetchTimeoutFmt)
	}

	if a.JWKSCacheTTL < 0 {
		return fmt.Errorf(errNegativeDurationFmt, envAuthJWKSCacheTTL)
	}

	if a.ClockLeeway < 0 {
		return fmt.Errorf(errNegativeDurationFmt, envAuthClockLeeway)
	}

	return nil
}

// Issuer is the expected iss claim for tokens minted by the configured domain.
func (a *AuthConfig) Issuer() string {
	return fmt.Sprintf(issuerURLFmt, a.Domain)
}

func (h *HTTPConfig) Validate() error {
	if h.RateLimitRPS <= 0 || h.RateLimitBurst <= 0 {
		return fmt.Errorf(errRateLimitFmt)
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func jwksURLFor(domain string) string {
	if domain == "" {
		return ""
	}
	return fmt.Sprintf(jwksURLFmt, domain)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func getListEnv(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)

	var out []string
	for _, part := range strings.Split(raw, listSep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
