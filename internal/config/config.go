package config

import (
	"emailcleaner/pkg/serrors"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, HTTP server, authentication, database
// connection, the cleaning pipeline, the Telegram bot and graceful shutdown behavior.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`
	// LogLevel overrides the environment's default log level (debug, info, warn, error)
	LogLevel string `env:"LOG_LEVEL" yaml:"logLevel"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"30s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MaxBodyBytes limits the size of request bodies, including uploaded files
		MaxBodyBytes int64 `env:"HTTP_MAX_BODY_BYTES" env-default:"10485760" yaml:"maxBodyBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
	} `yaml:"http"`

	// JWT configures bearer token authentication of the /v1 API
	JWT struct {
		// Enabled turns authentication on
		Enabled bool `env:"JWT_ENABLED" env-default:"false" yaml:"enabled"`
		// PublicKey is the PEM encoded RSA public key used to verify tokens
		PublicKey string `env:"JWT_PUBLIC_KEY" yaml:"publicKey"`
		// PrivateKey is the PEM encoded RSA private key used by the jwt command to sign tokens
		PrivateKey string `env:"JWT_PRIVATE_KEY" yaml:"privateKey"`
	} `yaml:"jwt"`

	// Database contains all database connection related configurations
	Database struct {
		// Enabled makes the reference tables stored in the database part of the reference data
		Enabled bool `env:"DATABASE_ENABLED" env-default:"false" yaml:"enabled"`
		// Username for database authentication
		Username string `env:"DATABASE_USERNAME" env-default:"myuser" yaml:"username"`
		// Password for database authentication
		Password string `env:"DATABASE_PASSWORD" env-default:"mypassword" yaml:"password"`
		// Host is the database server hostname or IP address
		Host string `env:"DATABASE_HOST" env-default:"localhost" yaml:"host"`
		// Port is the database server port number
		Port int `env:"DATABASE_PORT" env-default:"5432" yaml:"port"`
		// SslMode defines the SSL mode for the database connection
		SslMode string `env:"DATABASE_SSL_MODE" env-default:"disable" yaml:"sslMode"`
		// DatabaseName is the name of the database to connect to
		DatabaseName string `env:"DATABASE_NAME" env-default:"emailcleaner" yaml:"name"`
		// MaxOpenConnections limits the number of open connections to the database
		MaxOpenConnections int `env:"DATABASE_MAX_OPEN_CONNECTIONS" env-default:"10" yaml:"maxOpenConnections"`
		// MaxIdleConnections limits the number of connections in the idle connection pool
		MaxIdleConnections int `env:"DATABASE_MAX_IDLE_CONNECTIONS" env-default:"8" yaml:"maxIdleConnections"`
		// ConnMaxLifetime is the maximum amount of time a connection may be reused
		ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"`
		// ConnMaxIdleTime is the maximum amount of time a connection may be idle
		ConnMaxIdleTime time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m" yaml:"connMaxIdleTime"`
	} `yaml:"database"`

	// Cleaner configures the reference data and the domain correction policy.
	// Zero values fall back to the built-in defaults.
	Cleaner struct {
		// Threshold is the minimum similarity (0, 1] for a fuzzy domain correction
		Threshold float64 `env:"CLEANER_THRESHOLD" yaml:"threshold"`
		// DefaultTLD is appended to domains without a dot
		DefaultTLD string `env:"CLEANER_DEFAULT_TLD" yaml:"defaultTld"`
		// Stages is the ordered list of correction stages (typo_map, missing_tld, tld_repair, fuzzy)
		Stages []string `env:"CLEANER_STAGES" yaml:"stages"`
		// TLDRepairs maps a TLD to an alternation of its corruptions, e.g. com: "con|cim"
		TLDRepairs map[string]string `env:"CLEANER_TLD_REPAIRS" yaml:"tldRepairs"`
		// SkipDefaultDomains drops the built-in reference table so only DomainsFile and the database count
		SkipDefaultDomains bool `env:"CLEANER_SKIP_DEFAULT_DOMAINS" yaml:"skipDefaultDomains"`
		// DomainsFile is an optional YAML file with additional domains and typos
		DomainsFile string `env:"CLEANER_DOMAINS_FILE" yaml:"domainsFile"`
	} `yaml:"cleaner"`

	// Bot contains the Telegram bot settings
	Bot struct {
		// Token is the Bot API token issued by BotFather
		Token string `env:"BOT_TOKEN" yaml:"token"`
		// APIURL is the Bot API base URL
		APIURL string `env:"BOT_API_URL" env-default:"https://api.telegram.org" yaml:"apiUrl"`
		// PollTimeout is the long polling timeout of getUpdates
		PollTimeout time.Duration `env:"BOT_POLL_TIMEOUT" env-default:"30s" yaml:"pollTimeout"`
		// Workers is the number of updates handled concurrently
		Workers int `env:"BOT_WORKERS" env-default:"8" yaml:"workers"`
		// MaxRetries bounds retries of a rate limited reply
		MaxRetries int `env:"BOT_MAX_RETRIES" env-default:"3" yaml:"maxRetries"`
		// InlineLimit is the largest result replied as a message instead of a document
		InlineLimit int `env:"BOT_INLINE_LIMIT" env-default:"50" yaml:"inlineLimit"`
		// MaxFileBytes limits the size of documents the bot downloads
		MaxFileBytes int64 `env:"BOT_MAX_FILE_BYTES" env-default:"10485760" yaml:"maxFileBytes"`
		// SendRate is the sustained number of outgoing messages per second
		SendRate float64 `env:"BOT_SEND_RATE" env-default:"25" yaml:"sendRate"`
		// HealthAddr is the address of the liveness endpoint served next to the bot
		HealthAddr string `env:"PORT" env-default:":8080" yaml:"healthAddr"`
	} `yaml:"bot"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config struct.
// Variables from a .env file in the working directory, when present, are loaded
// into the environment first; already set variables win.
// An empty path reads the configuration from the environment only.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not read .env file: %w", err)
	}

	var cfg Config
	var err error
	if configPath == "" {
		err = cleanenv.ReadEnv(&cfg)
	} else {
		err = cleanenv.ReadConfig(configPath, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings that can be verified without touching the outside world.
func (c *Config) Validate() error {
	var errs []error
	if c.Cleaner.Threshold < 0 || c.Cleaner.Threshold > 1 {
		errs = append(errs, fmt.Errorf("cleaner.threshold must be within [0, 1], got %v", c.Cleaner.Threshold))
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("http.maxBodyBytes must be positive"))
	}
	if c.Bot.Workers <= 0 {
		errs = append(errs, errors.New("bot.workers must be positive"))
	}
	if c.Bot.InlineLimit < 0 {
		errs = append(errs, errors.New("bot.inlineLimit must not be negative"))
	}
	if c.Bot.SendRate <= 0 {
		errs = append(errs, errors.New("bot.sendRate must be positive"))
	}
	if c.JWT.Enabled && c.JWT.PublicKey == "" {
		errs = append(errs, errors.New("jwt.publicKey is required when jwt is enabled"))
	}

	if len(errs) > 0 {
		return serrors.Wrap(serrors.ErrConfiguration, errors.Join(errs...), "invalid config")
	}

	return nil
}
