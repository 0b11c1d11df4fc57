package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTP   HTTPConfig   `mapstructure:"http"`
	DB     DBConfig     `mapstructure:"db"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Log    LogConfig    `mapstructure:"log"`
	Logo   LogoConfig   `mapstructure:"logo"`
	S3     S3Config     `mapstructure:"s3"`
	Limits LimitsConfig `mapstructure:"limits"`
}

type HTTPConfig struct {
	Addr    string `mapstructure:"addr"`
	GinMode string `mapstructure:"gin_mode"`
}

type DBConfig struct {
	Driver   string `mapstructure:"driver"`
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
	AdminLogins     []string      `mapstructure:"admin_logins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type LogoConfig struct {
	Storage   string `mapstructure:"storage"`
	Dir       string `mapstructure:"dir"`
	URLPrefix string `mapstructure:"url_prefix"`
	MaxBytes  int64  `mapstructure:"max_bytes"`
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	PublicURL string `mapstructure:"public_url"`
	Prefix    string `mapstructure:"prefix"`
}

type LimitsConfig struct {
	Home      int `mapstructure:"home"`
	Dividends int `mapstructure:"dividends"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	StorageLocal = "local"
	StorageS3    = "s3"
)

var ErrMissingSecret = errors.New("JWT_SECRET is required")

// envKeys maps config keys to the environment variables that can set them.
var envKeys = map[string][]string{
	"http.addr":              {"HTTP_ADDR"},
	"http.gin_mode":          {"GIN_MODE"},
	"db.driver":              {"DB_DRIVER"},
	"db.dsn":                 {"DB_DSN"},
	"db.host":                {"DB_HOST"},
	"db.port":                {"DB_PORT"},
	"db.user":                {"DB_USER"},
	"db.password":            {"DB_PASSWORD"},
	"db.name":                {"DB_NAME"},
	"db.sslmode":             {"DB_SSLMODE"},
	"db.timezone":            {"DB_TIMEZONE"},
	"redis.addr":             {"REDIS_ADDR"},
	"redis.password":         {"REDIS_PASSWORD"},
	"redis.db":               {"REDIS_DB"},
	"auth.jwt_secret":        {"JWT_SECRET"},
	"auth.access_token_ttl":  {"ACCESS_TOKEN_TTL"},
	"auth.refresh_token_ttl": {"REFRESH_TOKEN_TTL"},
	"auth.admin_logins":      {"ADMIN_LOGINS"},
	"log.level":              {"LOG_LEVEL"},
	"log.format":             {"LOG_FORMAT"},
	"logo.storage":           {"LOGO_STORAGE"},
	"logo.dir":               {"LOGO_DIR"},
	"logo.url_prefix":        {"LOGO_URL_PREFIX"},
	"logo.max_bytes":         {"LOGO_MAX_BYTES"},
	"s3.bucket":              {"S3_BUCKET"},
	"s3.region":              {"S3_REGION"},
	"s3.endpoint":            {"S3_ENDPOINT"},
	"s3.access_key":          {"S3_ACCESS_KEY"},
	"s3.secret_key":          {"S3_SECRET_KEY"},
	"s3.public_url":          {"S3_PUBLIC_URL"},
	"s3.prefix":              {"S3_PREFIX"},
	"limits.home":            {"HOME_LIMIT"},
	"limits.dividends":       {"DIVIDEND_LIMIT"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.gin_mode", "release")
	v.SetDefault("db.driver", DriverPostgres)
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "stocks")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.access_token_ttl", "24h")
	v.SetDefault("auth.refresh_token_ttl", "168h")
	v.SetDefault("auth.admin_logins", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("logo.storage", StorageLocal)
	v.SetDefault("logo.dir", "./static/images/logo")
	v.SetDefault("logo.url_prefix", "/images/logo")
	v.SetDefault("logo.max_bytes", 2<<20)
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.public_url", "")
	v.SetDefault("s3.prefix", "logos/")
	v.SetDefault("limits.home", 10)
	v.SetDefault("limits.dividends", 10)
}

// Load reads .env (when present), an optional YAML file named by CONFIG_FILE
// and the process environment, in increasing order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	for key, envs := range envKeys {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Auth.AdminLogins = cleanList(cfg.Auth.AdminLogins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return ErrMissingSecret
	}
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.DB.Driver == DriverSQLite && c.DB.DSN == "" {
		return errors.New("DB_DSN is required for the sqlite driver")
	}
	switch c.Logo.Storage {
	case StorageLocal:
	case StorageS3:
		if c.S3.Bucket == "" {
			return errors.New("S3_BUCKET is required for s3 logo storage")
		}
	default:
		return fmt.Errorf("unsupported LOGO_STORAGE %q", c.Logo.Storage)
	}
	if c.Limits.Home <= 0 || c.Limits.Dividends <= 0 {
		return errors.New("list limits must be positive")
	}
	if c.Logo.MaxBytes <= 0 {
		return errors.New("LOGO_MAX_BYTES must be positive")
	}
	return nil
}

// PostgresDSN builds a libpq style DSN unless DB_DSN overrides it.
func (c DBConfig) PostgresDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone)
}

// IsAdminLogin reports whether login is listed in ADMIN_LOGINS. Logins are
// unique case-sensitively, so the match is exact.
func (c AuthConfig) IsAdminLogin(login string) bool {
	for _, l := range c.AdminLogins {
		if l == login {
			return true
		}
	}
	return false
}

// cleanList splits comma separated entries coming from a single env value
// and drops blanks.
func cleanList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
