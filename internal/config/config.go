package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const envPrefix = "VIASTORE"

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Database *DatabaseConfig `mapstructure:"database"`
	Redis    *RedisConfig    `mapstructure:"redis"`
	Lookup   *LookupConfig   `mapstructure:"lookup"`
}

type APIConfig struct {
	Environment        string        `mapstructure:"environment"`
	Port               string        `mapstructure:"port"`
	BaseURL            string        `mapstructure:"base_url"`
	JWTSigningKey      string        `mapstructure:"jwt_signing_key"`
	JWTTTL             time.Duration `mapstructure:"jwt_ttl"`
	SessionTTL         time.Duration `mapstructure:"session_ttl"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	CookieSecure       bool          `mapstructure:"cookie_secure"`
	AllowedCORSDomains []string      `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	// DSN wins over the individual fields when set.
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LookupConfig struct {
	Timeout               time.Duration `mapstructure:"timeout"`
	CacheTTL              time.Duration `mapstructure:"cache_ttl"`
	TouchChain            []string      `mapstructure:"touch_chain"`
	InfoChain             []string      `mapstructure:"info_chain"`
	UserAgent             string        `mapstructure:"user_agent"`
	GoogleURL             string        `mapstructure:"google_url"`
	OpenFoodFactsURL      string        `mapstructure:"openfoodfacts_url"`
	OpenFoodFactsNamePath string        `mapstructure:"openfoodfacts_name_path"`
	AutodocURL            string        `mapstructure:"autodoc_url"`
	BrowserEnabled        bool          `mapstructure:"browser_enabled"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "dev")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.base_url", "localhost:8080")
	v.SetDefault("api.jwt_signing_key", "")
	v.SetDefault("database.dsn", "")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("lookup.browser_enabled", false)
	v.SetDefault("api.jwt_ttl", 24*time.Hour)
	v.SetDefault("api.session_ttl", 12*time.Hour)
	v.SetDefault("api.shutdown_timeout", 10*time.Second)
	v.SetDefault("api.allowed_cors_domains", []string{"http://localhost:8080"})
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("lookup.timeout", 5*time.Second)
	v.SetDefault("lookup.cache_ttl", 24*time.Hour)
	v.SetDefault("lookup.touch_chain", []string{"openfoodfacts", "autodoc", "browser"})
	v.SetDefault("lookup.info_chain", []string{"catalog", "google"})
	v.SetDefault("lookup.user_agent", "Mozilla/5.0")
	v.SetDefault("lookup.google_url", "https://www.google.com/search")
	v.SetDefault("lookup.openfoodfacts_url", "https://world.openfoodfacts.org")
	v.SetDefault("lookup.openfoodfacts_name_path", "$.product.product_name")
	v.SetDefault("lookup.autodoc_url", "https://www.autodoc.de/search")
}

// Load reads the YAML file at path, layered under VIASTORE_* environment
// variables. A missing file is not an error: defaults and env still apply.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	fileRead := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
		}
		fileRead = false
	}

	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if conf.API.JWTSigningKey == "" {
		return nil, errors.New("api.jwt_signing_key is required")
	}

	if fileRead {
		watch(v)
	}

	return conf, nil
}

// watch logs edits to the config file. Only the lookup section is worth
// reporting; everything else needs a restart.
func watch(v *viper.Viper) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		var lookup LookupConfig
		if err := v.UnmarshalKey("lookup", &lookup); err != nil {
			zap.L().Warn("config reload failed", zap.String("file", e.Name), zap.Error(err))
			return
		}
		zap.L().Info("config file changed, restart to apply",
			zap.String("file", e.Name),
			zap.Strings("touch_chain", lookup.TouchChain),
			zap.Strings("info_chain", lookup.InfoChain),
		)
	})
	v.WatchConfig()
}
