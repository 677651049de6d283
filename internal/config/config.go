// internal/config/config.go
package config

import (
	"log/slog"
	"time"
	_ "time/tzdata" // distroless イメージには zoneinfo が無い

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	// Timezone は IANA 名。時刻依存のゲーミフィケーション (早起き、ISO 週) はこのゾーンで評価される
	Timezone string `mapstructure:"timezone"`
}

type JWTConfig struct {
	SecretKey      string        `mapstructure:"secret_key"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

// GitHubConfig は記録ファイルの送信先です。Repo は "owner/name" 形式。
type GitHubConfig struct {
	Token      string `mapstructure:"token"`
	Repo       string `mapstructure:"repo"`
	Branch     string `mapstructure:"branch"`
	APIBaseURL string `mapstructure:"api_base_url"`
}

type NotifierConfig struct {
	Type string `mapstructure:"type"` // "log" | "ses"
}

type SESConfig struct {
	Region          string `mapstructure:"region"`
	AuthType        string `mapstructure:"auth_type"` // "static_credentials" | "iam_role"
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	From            string `mapstructure:"from"`
	To              string `mapstructure:"to"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	CORS     CORSConfig     `mapstructure:"cors"`
	App      AppConfig      `mapstructure:"app"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	GitHub   GitHubConfig   `mapstructure:"github"`
	Notifier NotifierConfig `mapstructure:"notifier"`
	SES      SESConfig      `mapstructure:"ses"`
}

var Cfg Config

func LoadConfig(path string) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(".")

	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	// デプロイ環境で使われている名前の環境変数をそのまま受け付ける
	v.BindEnv("github.token", "GITHUB_TOKEN")
	v.BindEnv("github.repo", "GITHUB_REPO")
	v.BindEnv("github.branch", "GITHUB_BRANCH")
	v.BindEnv("github.api_base_url", "GITHUB_API_URL")
	v.BindEnv("database.url", "DATABASE_URL")
	v.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")
	v.BindEnv("notifier.type", "NOTIFIER_TYPE")
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("app.timezone", "APP_TIMEZONE")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Warn("Config file not found. Using default settings or environment variables if available.")
		} else {
			slog.Error("Error reading config file", slog.Any("error", err))
			return err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("Error unmarshalling config", slog.Any("error", err))
		return err
	}
	applyDefaults(&cfg)
	Cfg = cfg

	slog.Info("Config loaded successfully",
		slog.String("port", Cfg.Server.Port),
		slog.String("github_repo", Cfg.GitHub.Repo),
		slog.String("github_branch", Cfg.GitHub.Branch),
		slog.Bool("github_token_set", Cfg.GitHub.Token != ""),
		slog.String("notifier", Cfg.Notifier.Type),
		slog.String("timezone", Cfg.App.Timezone),
	)
	return nil
}

// applyDefaults fills every unset value.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		slog.Info("Server port not set, using default", slog.String("port", DefaultServerPort))
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Database.URL == "" {
		slog.Warn("Database URL is not set, using local SQLite file", slog.String("url", DefaultDatabaseURL))
		cfg.Database.URL = DefaultDatabaseURL
	}
	if cfg.App.Name == "" {
		cfg.App.Name = AppName
	}
	if cfg.App.Timezone == "" {
		cfg.App.Timezone = DefaultTimezone
	}
	if cfg.JWT.SecretKey == "" {
		slog.Warn("JWT secret key is not set; session tokens use an insecure development key")
		cfg.JWT.SecretKey = DefaultJWTSecretKey
	}
	if cfg.JWT.AccessTokenTTL <= 0 {
		cfg.JWT.AccessTokenTTL = DefaultAccessTokenTTL
	}
	if cfg.GitHub.Branch == "" {
		cfg.GitHub.Branch = DefaultGitHubBranch
	}
	if cfg.Notifier.Type == "" {
		cfg.Notifier.Type = DefaultNotifierType
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
	if len(cfg.CORS.AllowedMethods) == 0 {
		cfg.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	if len(cfg.CORS.AllowedHeaders) == 0 {
		cfg.CORS.AllowedHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"}
	}
	if len(cfg.CORS.ExposedHeaders) == 0 {
		cfg.CORS.ExposedHeaders = []string{"Content-Disposition"}
	}
	if cfg.CORS.MaxAge == 0 {
		cfg.CORS.MaxAge = 300
	}
}

// Location resolves App.Timezone. An unknown zone falls back to UTC.
func (c *Config) Location() *time.Location {
	name := c.App.Timezone
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		slog.Warn("Unknown timezone, using UTC", slog.String("timezone", name), slog.Any("error", err))
		return time.UTC
	}
	return loc
}
