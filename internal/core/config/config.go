package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
	CORSOrigins     []string `mapstructure:"cors_origins"`
}
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type JWT struct {
	AccessSecret       string `mapstructure:"access_secret"`
	RefreshSecret      string `mapstructure:"refresh_secret"`
	Issuer             string
	AccessTokenTTLSec  int `mapstructure:"access_token_ttl_sec"`
	RefreshTokenTTLSec int `mapstructure:"refresh_token_ttl_sec"`
	LeewaySec          int `mapstructure:"leeway_sec"`
}

func (j JWT) AccessTTL() time.Duration  { return time.Duration(j.AccessTokenTTLSec) * time.Second }
func (j JWT) RefreshTTL() time.Duration { return time.Duration(j.RefreshTokenTTLSec) * time.Second }
func (j JWT) Leeway() time.Duration     { return time.Duration(j.LeewaySec) * time.Second }

type Auth struct {
	BcryptCost       int    `mapstructure:"bcrypt_cost"`
	CookieName       string `mapstructure:"cookie_name"`
	CookiePath       string `mapstructure:"cookie_path"`
	CookieSecure     bool   `mapstructure:"cookie_secure"`
	LoginMaxAttempts int    `mapstructure:"login_max_attempts"`
	LoginWindowSec   int    `mapstructure:"login_window_sec"`
}

type Redis struct {
	Enable        bool   `mapstructure:"enable"`
	Addr          string `mapstructure:"addr"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	CatalogTTLSec int    `mapstructure:"catalog_ttl_sec"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Config struct {
	App   App
	Log   Log
	JWT   JWT
	Auth  Auth
	DB    DB
	Redis Redis `mapstructure:"redis"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sentle-driving-backend")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 5000)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 10)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.http.cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 5001)

	v.SetDefault("log.level", "info")

	v.SetDefault("jwt.issuer", "sentle-driving")
	v.SetDefault("jwt.access_token_ttl_sec", 900)
	v.SetDefault("jwt.refresh_token_ttl_sec", 604800)

	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("auth.cookie_name", "refresh_token")
	v.SetDefault("auth.cookie_path", "/auth")
	v.SetDefault("auth.login_max_attempts", 10)
	v.SetDefault("auth.login_window_sec", 900)

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 10)
	v.SetDefault("db.connmaxlifetimemin", 60)

	v.SetDefault("redis.catalog_ttl_sec", 30)
}

// Read loads path (yaml) with APP_* environment overrides and validates it.
func Read(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func Load(path string) *Config {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	c, err := Read(path)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return c
}

func (c *Config) Validate() error {
	var errs []error
	if len(c.JWT.AccessSecret) < 16 {
		errs = append(errs, errors.New("jwt.access_secret must be at least 16 characters"))
	}
	if len(c.JWT.RefreshSecret) < 16 {
		errs = append(errs, errors.New("jwt.refresh_secret must be at least 16 characters"))
	}
	if c.JWT.AccessSecret != "" && c.JWT.AccessSecret == c.JWT.RefreshSecret {
		errs = append(errs, errors.New("jwt.access_secret and jwt.refresh_secret must differ"))
	}
	if c.JWT.AccessTokenTTLSec <= 0 || c.JWT.RefreshTokenTTLSec <= 0 {
		errs = append(errs, errors.New("jwt token ttls must be positive"))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, errors.New("auth.bcrypt_cost must be between 4 and 31"))
	}
	if c.DB.DSN == "" {
		errs = append(errs, errors.New("db.dsn is required"))
	}
	return errors.Join(errs...)
}
