package config // package config loads application configuration from environment variables

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration values.  It is built once at
// startup and passed by value; nothing in the service mutates it.
type Config struct {
	Env     string // application environment (dev, test, prod)
	Port    string // HTTP port to listen on
	Version string // reported by GET / and GET /api/docs

	DBUser string
	DBPass string // optional
	DBHost string
	DBPort string
	DBName string

	JWTSecret  string // HS256 signing secret for session tokens
	BcryptCost int    // bcrypt cost for password hashing

	FactoryURL    string // base URL of the pizza factory
	FactoryAPIKey string // bearer key sent to the factory

	RequestTimeout time.Duration // bound for DB work inside a handler
	AuthTimeout    time.Duration // bound for the active-token lookup per request

	AdminName     string // seeded by `migrate` when AdminEmail is set
	AdminEmail    string
	AdminPassword string

	LogLevel       string
	MetricsEnabled bool
}

// Load reads the configuration from the process environment.  Missing or
// malformed required values stop the program with a fatal log message.
func Load() Config {
	cfg, err := Parse(os.LookupEnv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// Parse builds a Config from lookup, which has the signature of
// os.LookupEnv.  Every missing required variable is reported at once.
func Parse(lookup func(string) (string, bool)) (Config, error) {
	p := parser{lookup: lookup}
	cfg := Config{
		Env:     p.must("APP_ENV"),
		Port:    p.must("APP_PORT"),
		Version: p.str("VERSION", "dev"),

		DBUser: p.must("DB_USER"),
		DBPass: p.str("DB_PASS", ""),
		DBHost: p.must("DB_HOST"),
		DBPort: p.must("DB_PORT"),
		DBName: p.must("DB_NAME"),

		JWTSecret:  p.must("JWT_SECRET"),
		BcryptCost: p.mustInt("BCRYPT_COST"),

		FactoryURL:    strings.TrimRight(p.str("FACTORY_URL", "https://pizza-factory.cs329.click"), "/"),
		FactoryAPIKey: p.str("FACTORY_API_KEY", ""),

		RequestTimeout: p.dur("REQUEST_TIMEOUT", 5*time.Second),
		AuthTimeout:    p.dur("AUTH_TIMEOUT", 2*time.Second),

		AdminName:     p.str("ADMIN_NAME", "pizza admin"),
		AdminEmail:    p.str("ADMIN_EMAIL", ""),
		AdminPassword: p.str("ADMIN_PASSWORD", ""),

		LogLevel:       p.str("LOG_LEVEL", "info"),
		MetricsEnabled: p.bool("METRICS_ENABLED", true),
	}
	if len(p.missing) > 0 {
		return Config{}, fmt.Errorf("missing required env vars: %s", strings.Join(p.missing, ", "))
	}
	if len(p.invalid) > 0 {
		return Config{}, fmt.Errorf("invalid env vars: %s", strings.Join(p.invalid, ", "))
	}
	if cfg.AdminEmail != "" && cfg.AdminPassword == "" {
		return Config{}, fmt.Errorf("ADMIN_PASSWORD is required when ADMIN_EMAIL is set")
	}
	return cfg, nil
}

// parser collects problems instead of failing on the first one.
type parser struct {
	lookup  func(string) (string, bool)
	missing []string
	invalid []string
}

func (p *parser) must(key string) string {
	v, ok := p.lookup(key)
	if !ok || v == "" {
		p.missing = append(p.missing, key)
	}
	return v
}

func (p *parser) mustInt(key string) int {
	s := p.must(key)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		p.invalid = append(p.invalid, fmt.Sprintf("%s=%q", key, s))
	}
	return n
}

func (p *parser) str(key, def string) string {
	if v, ok := p.lookup(key); ok && v != "" {
		return v
	}
	return def
}

func (p *parser) bool(key string, def bool) bool {
	v, _ := p.lookup(key)
	return parseBool(v, def)
}

func (p *parser) dur(key string, def time.Duration) time.Duration {
	v, ok := p.lookup(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		p.invalid = append(p.invalid, fmt.Sprintf("%s=%q", key, v))
		return def
	}
	return d
}
