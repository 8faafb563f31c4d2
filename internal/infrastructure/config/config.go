package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	sharedConfig "github.com/davomat-inc/davomat/internal/shared/config"
)

const envPrefix = "DAVOMAT"

var (
	appConfig   *sharedConfig.Config
	appConfigMu sync.RWMutex
)

// Load reads configs/config.yaml (when present) and DAVOMAT_* environment
// variables, applies defaults and validates the result. Extra search paths
// are tried before the standard ones.
func Load(env string, searchPaths ...string) (*sharedConfig.Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Allow env parameter to override server mode if provided
	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var cfg sharedConfig.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	normalize(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &cfg
	appConfigMu.Unlock()

	return &cfg, nil
}

// Get returns the loaded configuration
func Get() *sharedConfig.Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// Validate checks ranges, required secrets and derived formats.
func Validate(cfg *sharedConfig.Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("ttl", func(fl validator.FieldLevel) bool {
		_, err := sharedConfig.ParseTTL(fl.Field().String())
		return err == nil
	}); err != nil {
		return fmt.Errorf("failed to register ttl validator: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed on %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func normalize(cfg *sharedConfig.Config) {
	cfg.Auth.Cookie.SameSite = strings.ToLower(strings.TrimSpace(cfg.Auth.Cookie.SameSite))
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.timezone", "Asia/Tashkent")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Database defaults
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.username", "davomat")
	v.SetDefault("database.password", "davomat")
	v.SetDefault("database.database", "davomat_dev")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Auth defaults. Secrets and pepper have no defaults and must be configured.
	v.SetDefault("auth.jwt.access_secret", "")
	v.SetDefault("auth.jwt.refresh_secret", "")
	v.SetDefault("auth.jwt.access_ttl", "15m")
	v.SetDefault("auth.jwt.refresh_ttl_days", 30)
	v.SetDefault("auth.cookie.name", "refresh_token")
	v.SetDefault("auth.cookie.secure", false)
	v.SetDefault("auth.cookie.same_site", "lax")
	v.SetDefault("auth.cookie.domain", "")
	v.SetDefault("auth.refresh_hash_pepper", "")

	// Throttle defaults
	v.SetDefault("throttle.ttl_seconds", 60)
	v.SetDefault("throttle.default_limit", 120)
	v.SetDefault("throttle.login_limit", 8)
	v.SetDefault("throttle.refresh_limit", 30)

	// Redis is optional; an empty host selects the in-memory limiter
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Jobs defaults
	v.SetDefault("jobs.auto_lock_interval", "1m")
}
