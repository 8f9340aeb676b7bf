package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	Log      LogConfig      `mapstructure:"log"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	MCP      MCPConfig      `mapstructure:"mcp"`
	App      AppConfig      `mapstructure:"app"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Mode    string `mapstructure:"mode"` // gin mode: debug, release, test
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// S3Config points at the bucket holding exercise images. An empty bucket name
// disables object storage; only absolute image URLs are served then.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

func (c S3Config) Enabled() bool {
	return c.BucketName != ""
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// AuthConfig lists the emails that register with the admin role. From the
// environment it is a comma separated list (AUTH_ADMIN_EMAILS).
type AuthConfig struct {
	AdminEmails []string `mapstructure:"admin_emails"`
}

// RemoteConfig is the PostgREST endpoint mirroring user state.
// Sync is disabled unless both URL and APIKey are set.
type RemoteConfig struct {
	URL     string        `mapstructure:"url"`
	APIKey  string        `mapstructure:"api_key"`
	Table   string        `mapstructure:"table"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func (c RemoteConfig) Enabled() bool {
	return c.URL != "" && c.APIKey != ""
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	JSON        bool   `mapstructure:"json"`
	File        string `mapstructure:"file"`
	Stdout      bool   `mapstructure:"stdout"`
	Environment string `mapstructure:"environment"`
	SentryDSN   string `mapstructure:"sentry_dsn"`
}

// RedisConfig enables rate limiting of the auth endpoints when Address is set.
type RedisConfig struct {
	Address       string `mapstructure:"address"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	AuthPerMinute int    `mapstructure:"auth_per_minute"`
}

func (c RedisConfig) Enabled() bool {
	return c.Address != ""
}

type CacheConfig struct {
	SyncBytes int `mapstructure:"sync_bytes"` // freecache size for last-sent sync payloads
}

type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
}

type MCPConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type AppConfig struct {
	Timezone string `mapstructure:"timezone"` // month and day boundaries
}

// Location resolves the configured timezone, defaulting to UTC.
func (c AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

var defaults = map[string]any{
	"server.address":        ":8080",
	"server.mode":           "release",
	"database.uri":          "mongodb://localhost:27017",
	"database.name":         "meustreinos",
	"s3.endpoint":           "",
	"s3.region":             "us-east-1",
	"s3.access_key_id":      "",
	"s3.secret_access_key":  "",
	"s3.bucket_name":        "",
	"s3.use_ssl":            true,
	"jwt.secret":            "",
	"jwt.expiration":        "24h",
	"auth.admin_emails":     []string{},
	"remote.url":            "",
	"remote.api_key":        "",
	"remote.table":          "benfit_user_state",
	"remote.timeout":        "10s",
	"log.level":             "info",
	"log.json":              false,
	"log.file":              "",
	"log.stdout":            true,
	"log.environment":       "development",
	"log.sentry_dsn":        "",
	"redis.address":         "",
	"redis.password":        "",
	"redis.db":              0,
	"redis.auth_per_minute": 20,
	"cache.sync_bytes":      4 * 1024 * 1024,
	"metrics.namespace":     "meustreinos",
	"mcp.enabled":           false,
	"app.timezone":          "UTC",
}

// LoadConfig reads configuration from path/config.yaml, then environment variables
// (server.address -> SERVER_ADDRESS). A missing file is not an error.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	// every key needs a default, otherwise AutomaticEnv never sees it during Unmarshal
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		err = nil
	} else if err != nil {
		return
	}

	err = v.Unmarshal(&config)
	return
}
