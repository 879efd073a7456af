package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Storage  StorageConfig  `mapstructure:"storage"`
	AMQP     AMQPConfig     `mapstructure:"amqp"`
	Elastic  ElasticConfig  `mapstructure:"elastic"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Editor   EditorConfig   `mapstructure:"editor"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Name        string `mapstructure:"name"`
	Port        string `mapstructure:"port"`
	BodyLimitMB int    `mapstructure:"body_limit_mb"`
}

type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	TimeZone string `mapstructure:"timezone"`
}

// RedisConfig is optional; an empty address disables the taxonomy cache and
// cross-instance catalog notifications.
type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type StorageConfig struct {
	Driver          string `mapstructure:"driver"` // local or s3
	LocalDir        string `mapstructure:"local_dir"`
	LocalURLPrefix  string `mapstructure:"local_url_prefix"`
	S3Region        string `mapstructure:"s3_region"`
	S3Bucket        string `mapstructure:"s3_bucket"`
	S3Prefix        string `mapstructure:"s3_prefix"`
	S3PublicBaseURL string `mapstructure:"s3_public_base_url"`
}

type AMQPConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type ElasticConfig struct {
	URL   string `mapstructure:"url"`
	Index string `mapstructure:"index"`
}

type TracingConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type EditorConfig struct {
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Environment string `mapstructure:"environment"`
}

var defaults = map[string]interface{}{
	"server.name":                "go-catalog-admin",
	"server.port":                "3000",
	"server.body_limit_mb":       64,
	"database.url":               "",
	"database.host":              "localhost",
	"database.port":              "5432",
	"database.user":              "postgres",
	"database.password":          "",
	"database.name":              "catalog",
	"database.timezone":          "UTC",
	"redis.address":              "",
	"redis.password":             "",
	"redis.db":                   0,
	"redis.ttl":                  "10m",
	"storage.driver":             "local",
	"storage.local_dir":          "./storage/uploads",
	"storage.local_url_prefix":   "/uploads",
	"storage.s3_region":          "",
	"storage.s3_bucket":          "",
	"storage.s3_prefix":          "uploads",
	"storage.s3_public_base_url": "",
	"amqp.url":                   "",
	"amqp.exchange":              "catalog.events",
	"elastic.url":                "",
	"elastic.index":              "products",
	"tracing.endpoint":           "",
	"jwt.secret":                 "your-super-secret-key-change-in-production",
	"jwt.ttl":                    "24h",
	"editor.session_ttl":         "30m",
	"log.level":                  "info",
	"log.environment":            "development",
}

// Environment names kept from the first deployments, checked before the
// derived SECTION_KEY names.
var legacyEnv = map[string][]string{
	"server.port":       {"PORT"},
	"database.host":     {"DB_HOST"},
	"database.port":     {"DB_PORT"},
	"database.user":     {"DB_USER"},
	"database.password": {"DB_PASSWORD"},
	"database.name":     {"DB_NAME"},
}

// Load reads .env (if present), then config.yaml from dir (if present), then
// the environment. Later sources win.
func Load(dir string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		envs := append([]string{strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, names...)
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
