package querybridge

import (
	"strings"

	"github.com/spf13/viper"

	qberrors "github.com/querybridge/querybridge/pkg/querybridge/errors"
)

// ServerConfig describes one configured backend.
type ServerConfig struct {
	// Engine is "solr", "postgres" or "sqlite".
	Engine string `mapstructure:"engine"`

	// URLs are the solr base URLs, rotated round-robin.
	URLs []string `mapstructure:"urls"`
	// DSN is the sql connection string.
	DSN string `mapstructure:"dsn"`

	// Collection is the default collection (solr) or table (sql).
	Collection string `mapstructure:"collection"`
	// SearchFields is the field-scoping allow-list (solr) or the
	// columns matched by free-text terms (sql).
	SearchFields []string `mapstructure:"search_fields"`
	// Profile names the solr operator profile ("standard", "legacy").
	Profile string `mapstructure:"profile"`
	// TimeoutMS bounds solr requests; 0 uses the connector default.
	TimeoutMS int `mapstructure:"timeout_ms"`
}

// Config is the full server map.
type Config struct {
	Servers map[string]ServerConfig `mapstructure:"servers"`
}

var knownEngines = map[string]bool{"solr": true, "postgres": true, "sqlite": true}

// LoadConfig reads configuration from an optional YAML file, with
// QUERYBRIDGE_-prefixed environment variables taking precedence.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("QUERYBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, qberrors.Wrap(qberrors.ErrConfig, "read config "+path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, qberrors.Wrap(qberrors.ErrConfig, "unmarshal config", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every configured server for a usable engine and the
// engine-appropriate connection settings.
func (c Config) Validate() error {
	for name, sc := range c.Servers {
		if !knownEngines[sc.Engine] {
			return qberrors.NewError(qberrors.ErrConfig, "server "+name+": unknown engine "+sc.Engine)
		}
		switch sc.Engine {
		case "solr":
			if len(sc.URLs) == 0 {
				return qberrors.NewError(qberrors.ErrConfig, "server "+name+": solr needs at least one url")
			}
		default:
			if sc.DSN == "" {
				return qberrors.NewError(qberrors.ErrConfig, "server "+name+": sql engine needs a dsn")
			}
			if sc.Collection == "" {
				return qberrors.NewError(qberrors.ErrConfig, "server "+name+": sql engine needs a table")
			}
		}
	}
	return nil
}
