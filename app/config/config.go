package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	// this will automatically load your .env file:
	_ "github.com/joho/godotenv/autoload"
)

const (
	AuthModeStrict     = "strict"
	AuthModePermissive = "permissive"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	ProviderOpenAI = "openai"
	ProviderVertex = "vertex"
)

type Config struct {
	Logs            LogConfig
	Server          ServerConfig
	DB              DBConfig
	Auth            AuthConfig
	Stripe          StripeConfig
	Analysis        AnalysisConfig
	BillingQueueURL string
}

type LogConfig struct {
	Style string // text or json
	Level string
}

type ServerConfig struct {
	Addr string
}

// DBConfig selects the store. URL wins over the individual Postgres fields.
type DBConfig struct {
	Driver   string
	URL      string
	Username string
	Password string
	Host     string
	Port     string
	Name     string
}

type AuthConfig struct {
	Mode              string
	Issuer            string
	Audience          string
	JWKSURL           string
	AuthorizedParties []string
}

type StripeConfig struct {
	SecretKey         string
	WebhookSecret     string
	PriceIDProMonthly string
}

type AnalysisConfig struct {
	Provider        string
	OpenAIAPIKey    string
	Model           string
	VertexProject   string
	VertexLocation  string
	CredentialsFile string
	FetchPage       bool
	Timeout         time.Duration
}

func LoadConfig() (*Config, error) {
	fetchPage, err := envBool("ANALYSIS_FETCH_PAGE", true)
	if err != nil {
		return nil, err
	}

	timeout, err := envDuration("ANALYSIS_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BillingQueueURL: os.Getenv("BILLING_QUEUE_URL"),
		Logs: LogConfig{
			Style: os.Getenv("LOG_STYLE"),
			Level: os.Getenv("LOG_LEVEL"),
		},
		Server: ServerConfig{
			Addr: getEnv("SERVER_ADDR", "0.0.0.0:8000"),
		},
		DB: DBConfig{
			Driver:   getEnv("DB_DRIVER", DriverSQLite),
			URL:      os.Getenv("DATABASE_URL"),
			Username: os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PWD"),
			Host:     os.Getenv("POSTGRES_URL"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			Name:     os.Getenv("POSTGRES_DB"),
		},
		Auth: AuthConfig{
			Mode:     strings.ToLower(getEnv("AUTH_MODE", AuthModePermissive)),
			Issuer:   strings.TrimSpace(os.Getenv("CLERK_ISSUER")),
			Audience: strings.TrimSpace(os.Getenv("CLERK_AUDIENCE")),
			JWKSURL:  strings.TrimSpace(os.Getenv("CLERK_JWKS_URL")),

			AuthorizedParties: splitList(os.Getenv("CLERK_AUTHORIZED_PARTIES")),
		},
		Stripe: StripeConfig{
			SecretKey:         os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret:     os.Getenv("STRIPE_WEBHOOK_SECRET"),
			PriceIDProMonthly: getEnv("STRIPE_PRICE_ID", "price_pro_monthly"),
		},
		Analysis: AnalysisConfig{
			Provider:        strings.ToLower(os.Getenv("ANALYSIS_PROVIDER")),
			OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
			Model:           os.Getenv("ANALYSIS_MODEL"),
			VertexProject:   os.Getenv("GOOGLE_CLOUD_PROJECT"),
			VertexLocation:  getEnv("GOOGLE_CLOUD_LOCATION", "us-central1"),
			CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
			FetchPage:       fetchPage,
			Timeout:         timeout,
		},
	}

	// An OpenAI key alone is enough to pick the provider, as it always was.
	if cfg.Analysis.Provider == "" && cfg.Analysis.OpenAIAPIKey != "" {
		cfg.Analysis.Provider = ProviderOpenAI
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations that cannot start.
func (c *Config) Validate() error {
	switch c.Auth.Mode {
	case AuthModeStrict:
		if c.Auth.Issuer == "" {
			return errors.New("AUTH_MODE=strict requires CLERK_ISSUER")
		}
	case AuthModePermissive:
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.Auth.Mode)
	}

	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DB.Driver)
	}

	switch c.Analysis.Provider {
	case "", ProviderOpenAI, ProviderVertex:
	default:
		return fmt.Errorf("unknown ANALYSIS_PROVIDER %q", c.Analysis.Provider)
	}
	return nil
}

// DSN returns the connection string for the configured driver.
func (c DBConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	if c.Driver == DriverSQLite {
		return "seoscore.db"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=require",
	}
	return u.String()
}

func (c StripeConfig) Enabled() bool {
	return c.SecretKey != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s: %w", key, err)
	}
	return b, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return d, nil
}
