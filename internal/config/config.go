package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	DB       DBConfig       `mapstructure:"db"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Server   ServerConfig   `mapstructure:"server"`
	Session  SessionConfig  `mapstructure:"session"`
	Security SecurityConfig `mapstructure:"security"`
	Log      LogConfig      `mapstructure:"log"`
	CORS     CORSConfig     `mapstructure:"cors"`
	AppHost  string         `mapstructure:"host"`
}

type DBConfig struct {
	Source   string `mapstructure:"source" validate:"required"`
	MaxConns int32  `mapstructure:"max_conns" validate:"min=1"`
}

type JWTConfig struct {
	Secret    string        `mapstructure:"secret" validate:"required,min=16"`
	AccessTTL time.Duration `mapstructure:"access_ttl" validate:"min=1m"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"min=1s"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"min=1s"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" validate:"min=1s"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=1s"`
}

type SessionConfig struct {
	CookieName string        `mapstructure:"cookie_name" validate:"required"`
	TTL        time.Duration `mapstructure:"ttl" validate:"min=1m"`
	Secure     bool          `mapstructure:"secure"`
}

// SecurityConfig holds the CSRF key. CSRF protection is disabled when the key is empty.
type SecurityConfig struct {
	CSRFKey string `mapstructure:"csrf_key" validate:"omitempty,len=32"`
}

type LogConfig struct {
	Level       string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Development bool   `mapstructure:"development"`
	FilePath    string `mapstructure:"file_path"`
	MaxSizeMB   int    `mapstructure:"max_size_mb" validate:"min=0"`
	MaxBackups  int    `mapstructure:"max_backups" validate:"min=0"`
	MaxAgeDays  int    `mapstructure:"max_age_days" validate:"min=0"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.max_conns", 10)
	v.SetDefault("jwt.access_ttl", time.Hour)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", time.Minute)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("session.cookie_name", "quotes_session")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("cors.allowed_origins", []string{"*"})
}

func Load() (*Config, error) {
	return LoadFrom("./configs", "/configs")
}

// LoadFrom reads settings.yml from the first matching path, then overlays
// environment variables (db.source -> DB_SOURCE).
func LoadFrom(paths ...string) (*Config, error) {
	v := viper.New()
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("settings")
	v.SetConfigType("yml")
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// AutomaticEnv only sees keys viper already knows about.
	for _, key := range []string{"db.source", "jwt.secret", "security.csrf_key", "host", "log.file_path"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}
