package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "WOOTBRIDGE"

const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

// Config is loaded once at startup and treated as read-only afterwards.
type Config struct {
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
	HTTP      struct {
		Listen string `json:"listen"`
	} `json:"http"`
	Chatwoot struct {
		BaseURL  string        `json:"base_url"`
		APIToken string        `json:"api_token"`
		InboxID  string        `json:"inbox_id"`
		Timeout  time.Duration `json:"timeout"`
	} `json:"chatwoot"`
	Store struct {
		Driver     string `json:"driver"`
		Collection string `json:"collection"`
		EmailField string `json:"email_field"`
		Limit      int    `json:"limit"`
	} `json:"store"`
	Mongo struct {
		URI        string `json:"uri"`
		Host       string `json:"host"`
		Port       int    `json:"port"`
		User       string `json:"user"`
		Password   string `json:"password"`
		AuthSource string `json:"auth_source"`
		Database   string `json:"database"`
	} `json:"mongo"`
	SQLite struct {
		Path string `json:"path"`
	} `json:"sqlite"`
}

// envNames keeps the variable names used by existing deployments. Keys not
// listed here are read from WOOTBRIDGE_<KEY> with dots replaced by
// underscores.
var envNames = map[string]string{
	"log_level":          "LOG_LEVEL",
	"http.listen":        "HTTP_LISTEN",
	"chatwoot.base_url":  "CHATWOOT_BASE_URL",
	"chatwoot.api_token": "CHATWOOT_API_TOKEN",
	"chatwoot.inbox_id":  "CHATWOOT_INBOX_ID",
	"store.driver":       "STORE_DRIVER",
	"mongo.uri":          "MONGO_URI",
	"mongo.host":         "MONGO_HOST",
	"mongo.port":         "MONGO_PORT",
	"mongo.user":         "MONGO_USER",
	"mongo.password":     "MONGO_PASSWORD",
	"mongo.auth_source":  "MONGO_AUTH_SOURCE",
	"mongo.database":     "MONGO_DB",
	"sqlite.path":        "SQLITE_PATH",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("http.listen", ":8000")
	v.SetDefault("chatwoot.base_url", "https://app.chatwoot.com")
	v.SetDefault("chatwoot.api_token", "")
	v.SetDefault("chatwoot.inbox_id", "")
	v.SetDefault("chatwoot.timeout", 10*time.Second)
	v.SetDefault("store.driver", DriverMongo)
	v.SetDefault("store.collection", "tasks")
	v.SetDefault("store.email_field", "request.notification_email")
	v.SetDefault("store.limit", 5)
	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.host", "localhost")
	v.SetDefault("mongo.port", 27017)
	v.SetDefault("mongo.user", "")
	v.SetDefault("mongo.password", "")
	v.SetDefault("mongo.auth_source", "admin")
	v.SetDefault("mongo.database", "wootbridge")
	v.SetDefault("sqlite.path", "wootbridge.db")
}

// Load reads configuration from defaults, the optional file at path and the
// environment, in increasing order of precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	for key, name := range envNames {
		if err := v.BindEnv(key, name); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", name, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	cfg.LogLevel = v.GetString("log_level")
	cfg.LogFormat = v.GetString("log_format")
	cfg.HTTP.Listen = v.GetString("http.listen")
	cfg.Chatwoot.BaseURL = strings.TrimRight(v.GetString("chatwoot.base_url"), "/")
	cfg.Chatwoot.APIToken = v.GetString("chatwoot.api_token")
	cfg.Chatwoot.InboxID = strings.TrimSpace(v.GetString("chatwoot.inbox_id"))
	cfg.Chatwoot.Timeout = v.GetDuration("chatwoot.timeout")
	cfg.Store.Driver = strings.ToLower(v.GetString("store.driver"))
	cfg.Store.Collection = v.GetString("store.collection")
	cfg.Store.EmailField = v.GetString("store.email_field")
	cfg.Store.Limit = v.GetInt("store.limit")
	cfg.Mongo.URI = v.GetString("mongo.uri")
	cfg.Mongo.Host = v.GetString("mongo.host")
	cfg.Mongo.Port = v.GetInt("mongo.port")
	cfg.Mongo.User = v.GetString("mongo.user")
	cfg.Mongo.Password = v.GetString("mongo.password")
	cfg.Mongo.AuthSource = v.GetString("mongo.auth_source")
	cfg.Mongo.Database = v.GetString("mongo.database")
	cfg.SQLite.Path = v.GetString("sqlite.path")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with. A missing API
// token is allowed; requests that need it are answered with a 400.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMongo, DriverSQLite:
	default:
		return fmt.Errorf("unknown store driver %q (want %s or %s)", c.Store.Driver, DriverMongo, DriverSQLite)
	}
	if c.HTTP.Listen == "" {
		return fmt.Errorf("http.listen must not be empty")
	}
	if c.Chatwoot.BaseURL == "" {
		return fmt.Errorf("chatwoot.base_url must not be empty")
	}
	if c.Chatwoot.Timeout <= 0 {
		return fmt.Errorf("chatwoot.timeout must be positive")
	}
	if c.Store.Limit <= 0 {
		return fmt.Errorf("store.limit must be positive")
	}
	return nil
}

// ToMap converts the config into a nested map using its JSON field names.
func ToMap(cfg *Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return m, nil
}

// ListValues returns every config value as a flat dot-keyed map, with
// secrets masked when mask is set.
func ListValues(cfg *Config, mask bool) (map[string]any, error) {
	m, err := ToMap(cfg)
	if err != nil {
		return nil, err
	}
	flat := Flatten(m)
	flat["chatwoot.timeout"] = cfg.Chatwoot.Timeout.String()
	if mask {
		flat = MaskSecrets(flat)
	}
	return flat, nil
}
