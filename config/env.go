package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	AppConfig struct {
		Name           string        `mapstructure:"name"`
		Environment    string        `mapstructure:"environment"`
		Port           int           `mapstructure:"port"`
		Secure         bool          `mapstructure:"secure"` // https links when true
		RequestTimeout time.Duration `mapstructure:"request_timeout"`

		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	}

	AuthConfig struct {
		Secret            string `mapstructure:"secret"`
		AuthorizedDomains string `mapstructure:"authorized_domains"` // comma-separated
		AuthorizedEmails  string `mapstructure:"authorized_emails"`  // comma-separated
	}

	SessionConfig struct {
		Refresh bool          `mapstructure:"refresh"`
		TTL     time.Duration `mapstructure:"ttl"`
	}

	WebconfConfig struct {
		BaseURL          string `mapstructure:"base_url"`
		AccessToken      string `mapstructure:"access_token"`
		AccessTokenParam string `mapstructure:"access_token_param"`
		RoomPrefix       string `mapstructure:"room_prefix"`
		Rooms            bool   `mapstructure:"rooms"`
	}

	MailConfig struct {
		Sender     string `mapstructure:"sender"`
		SenderName string `mapstructure:"sender_name"`
		Service    string `mapstructure:"service"`
		Host       string `mapstructure:"host"`
		Port       int    `mapstructure:"port"`
		Secure     bool   `mapstructure:"secure"`
		User       string `mapstructure:"user"`
		Pass       string `mapstructure:"pass"`
		Debug      bool   `mapstructure:"debug"`
	}

	FlashConfig struct {
		Store    string        `mapstructure:"store"` // memory | redis
		TTL      time.Duration `mapstructure:"ttl"`
		Capacity int           `mapstructure:"capacity"`
	}

	RedisConfig struct {
		Type       string `mapstructure:"type"` // NORMAL | SENTINEL
		Addrs      string `mapstructure:"addrs"`
		MasterName string `mapstructure:"master_name"`
		Password   string `mapstructure:"password"`
	}

	LoggerConfig struct {
		Level       string `mapstructure:"level"`
		FilePath    string `mapstructure:"filepath"`
		MaxSize     int    `mapstructure:"max_size"`
		MaxAge      int    `mapstructure:"max_age"`
		MaxBackups  int    `mapstructure:"max_backups"`
		Compress    bool   `mapstructure:"compress"`
		Environment string
	}

	CORSConfig struct {
		Enabled        bool   `mapstructure:"enabled"`
		AllowedOrigins string `mapstructure:"allowed_origins"` // comma-separated
		MaxAge         int    `mapstructure:"max_age"`
	}

	MetricsConfig struct {
		Enabled bool   `mapstructure:"enabled"`
		Path    string `mapstructure:"path"`
	}
)

type Env struct {
	AppConfig     AppConfig     `mapstructure:"app"`
	AuthConfig    AuthConfig    `mapstructure:"auth"`
	SessionConfig SessionConfig `mapstructure:"session"`
	WebconfConfig WebconfConfig `mapstructure:"webconf"`
	MailConfig    MailConfig    `mapstructure:"mail"`
	FlashConfig   FlashConfig   `mapstructure:"flash"`
	RedisConfig   RedisConfig   `mapstructure:"redis"`
	LoggerConfig  LoggerConfig  `mapstructure:"logging"`
	CORSConfig    CORSConfig    `mapstructure:"cors"`
	MetricsConfig MetricsConfig `mapstructure:"metrics"`
}

// bindings maps every config key to the environment variable it is read from.
// Names follow the variables the service has always been deployed with.
var bindings = map[string]string{
	"app.name":                   "APP_NAME",
	"app.environment":            "APP_ENV",
	"app.port":                   "PORT",
	"app.secure":                 "SECURE",
	"app.request_timeout":        "REQUEST_TIMEOUT",
	"app.shutdown_timeout":       "SHUTDOWN_TIMEOUT",
	"auth.secret":                "SESSION_SECRET",
	"auth.authorized_domains":    "AUTHORIZED_DOMAINS",
	"auth.authorized_emails":     "AUTHORIZED_EMAILS",
	"session.refresh":            "SESSION_REFRESH",
	"session.ttl":                "SESSION_TTL",
	"webconf.base_url":           "WEBCONF_BASE_URL",
	"webconf.access_token":       "WEBCONF_ACCESS_TOKEN",
	"webconf.access_token_param": "WEBCONF_ACCESS_TOKEN_PARAM",
	"webconf.room_prefix":        "ROOM_PREFIX",
	"webconf.rooms":              "WEBCONF_ROOMS",
	"mail.sender":                "MAIL_SENDER",
	"mail.sender_name":           "MAIL_SENDER_NAME",
	"mail.service":               "MAIL_SERVICE",
	"mail.host":                  "MAIL_HOST",
	"mail.port":                  "MAIL_PORT",
	"mail.secure":                "MAIL_SECURE",
	"mail.user":                  "MAIL_USER",
	"mail.pass":                  "MAIL_PASS",
	"mail.debug":                 "MAIL_DEBUG",
	"flash.store":                "FLASH_STORE",
	"flash.ttl":                  "FLASH_TTL",
	"flash.capacity":             "FLASH_CAPACITY",
	"redis.type":                 "REDIS_TYPE",
	"redis.addrs":                "REDIS_ADDRS",
	"redis.master_name":          "REDIS_MASTER_NAME",
	"redis.password":             "REDIS_PASSWORD",
	"logging.level":              "LOG_LEVEL",
	"logging.filepath":           "LOG_FILE",
	"logging.max_size":           "LOG_MAX_SIZE",
	"logging.max_age":            "LOG_MAX_AGE",
	"logging.max_backups":        "LOG_MAX_BACKUPS",
	"logging.compress":           "LOG_COMPRESS",
	"cors.enabled":               "CORS_ENABLED",
	"cors.allowed_origins":       "CORS_ALLOWED_ORIGINS",
	"cors.max_age":               "CORS_MAX_AGE",
	"metrics.enabled":            "METRICS_ENABLED",
	"metrics.path":               "METRICS_PATH",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "webconf-gate")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8100)
	v.SetDefault("app.secure", true)
	v.SetDefault("app.request_timeout", "15s")
	v.SetDefault("app.shutdown_timeout", "10s")
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.authorized_domains", "beta.gouv.fr,modernisation.gouv.fr")
	v.SetDefault("auth.authorized_emails", "")
	v.SetDefault("session.refresh", true)
	v.SetDefault("session.ttl", "168h")
	v.SetDefault("webconf.base_url", "https://webconf.numerique.gouv.fr")
	v.SetDefault("webconf.access_token", "")
	v.SetDefault("webconf.access_token_param", "token")
	v.SetDefault("webconf.room_prefix", "WebConf")
	v.SetDefault("webconf.rooms", true)
	v.SetDefault("mail.sender", "webconf@beta.gouv.fr")
	v.SetDefault("mail.sender_name", "Webconf BetaGouv")
	v.SetDefault("mail.service", "")
	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.secure", false)
	v.SetDefault("mail.user", "")
	v.SetDefault("mail.pass", "")
	v.SetDefault("mail.debug", false)
	v.SetDefault("flash.store", "memory")
	v.SetDefault("flash.ttl", "5m")
	v.SetDefault("flash.capacity", 10000)
	v.SetDefault("redis.type", "NORMAL")
	v.SetDefault("redis.addrs", "localhost:6379")
	v.SetDefault("redis.master_name", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.filepath", "")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.compress", false)
	v.SetDefault("cors.enabled", false)
	v.SetDefault("cors.allowed_origins", "")
	v.SetDefault("cors.max_age", 43200)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.path", "/metrics")
}

// Load reads the optional config.yaml found in configPaths (default ./config) and
// overlays the environment on top of it. The returned Env is meant to be built once
// in main and handed to constructors; nothing in the module reads it globally.
func Load(configPaths ...string) (*Env, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(configPaths) == 0 {
		configPaths = []string{"./config"}
	}
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}

	setDefaults(v)
	for key, name := range bindings {
		if err := v.BindEnv(key, name); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var env Env
	if err := v.Unmarshal(&env); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	env.LoggerConfig.Environment = env.AppConfig.Environment
	if env.IsProduction() && env.LoggerConfig.Level == "debug" {
		env.LoggerConfig.Level = "info"
	}

	if err := env.Validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

// Validate reports the first setting that would make the service unusable.
func (e *Env) Validate() error {
	if e.AuthConfig.Secret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if e.MailConfig.Service == "" && e.MailConfig.Host == "" {
		return errors.New("either MAIL_SERVICE or MAIL_HOST must be set")
	}
	if e.MailConfig.Sender == "" {
		return errors.New("MAIL_SENDER is required")
	}
	if e.WebconfConfig.BaseURL == "" {
		return errors.New("WEBCONF_BASE_URL is required")
	}
	switch e.FlashConfig.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown flash store %q", e.FlashConfig.Store)
	}
	if e.FlashConfig.TTL <= 0 {
		return errors.New("FLASH_TTL must be positive")
	}
	if e.SessionConfig.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	return nil
}

func (e *Env) IsProduction() bool {
	return e.AppConfig.Environment == "production"
}

// Scheme returns the scheme used when building links back to this service.
func (e *Env) Scheme() string {
	if e.AppConfig.Secure {
		return "https"
	}
	return "http"
}

func (a AuthConfig) Domains() []string {
	return SplitList(a.AuthorizedDomains)
}

func (a AuthConfig) Emails() []string {
	return SplitList(a.AuthorizedEmails)
}

func (c CORSConfig) Origins() []string {
	return SplitList(c.AllowedOrigins)
}

// SplitList parses a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// PrintStartupConfig writes a short summary of the effective configuration.
// Secrets are never printed.
func PrintStartupConfig(env *Env) {
	line := strings.Repeat("=", 40)
	fmt.Println(line)
	fmt.Println("🚀 Application Configuration")
	fmt.Println(line)

	fmt.Printf("%-15s: %s\n", "App Name", env.AppConfig.Name)
	fmt.Printf("%-15s: %s\n", "Environment", env.AppConfig.Environment)
	fmt.Printf("%-15s: %d\n", "Port", env.AppConfig.Port)
	fmt.Printf("%-15s: %s\n", "Log Level", env.LoggerConfig.Level)
	fmt.Printf("%-15s: %s\n", "Webconf", env.WebconfConfig.BaseURL)
	fmt.Printf("%-15s: %s\n", "Flash Store", env.FlashConfig.Store)
	fmt.Printf("%-15s: %t\n", "Refresh", env.SessionConfig.Refresh)

	fmt.Println(line)
}
