// Package config loads RecordDB settings with koanf.
//
// Precedence (highest to lowest): flags > env vars > config file > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/nickyhof/RecordDB/core"
	"github.com/spf13/pflag"
)

const (
	// DefaultConfigFile is looked up in the working directory when no
	// explicit file is given.
	DefaultConfigFile = "recorddb.yaml"

	DefaultKey    = "int"
	DefaultReplay = "abort"
	DefaultPort   = 3306

	EnvPrefix = "RECORDDB_"
)

// Config is the resolved configuration shared by the CLI, server and bindings.
type Config struct {
	Key         string        `koanf:"key"`
	Replay      string        `koanf:"replay"`
	HistoryFile string        `koanf:"history_file"`
	ArchiveDir  string        `koanf:"archive_dir"`
	Verbose     bool          `koanf:"verbose"`
	Identity    core.Identity `koanf:"identity"`
	S3          S3Config      `koanf:"s3"`
	Server      ServerConfig  `koanf:"server"`
}

type S3Config struct {
	Region    string `koanf:"region"`
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
}

// ServerConfig holds the TCP server settings. An empty JWTSecret disables
// authentication.
type ServerConfig struct {
	Port      int    `koanf:"port"`
	JWTSecret string `koanf:"jwt_secret"`
	Issuer    string `koanf:"issuer"`
	Audience  string `koanf:"audience"`
	TLSCert   string `koanf:"tls_cert"`
	TLSKey    string `koanf:"tls_key"`
}

// flagKeys maps flag names that differ from their config key.
var flagKeys = map[string]string{
	"port":       "server.port",
	"jwt-secret": "server.jwt_secret",
	"tls-cert":   "server.tls_cert",
	"tls-key":    "server.tls_key",
	"name":       "identity.name",
	"email":      "identity.email",
	"archive":    "archive_dir",
}

// Load reads configuration from defaults, the config file, RECORDDB_
// environment variables and explicitly set flags.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"key":            DefaultKey,
		"replay":         DefaultReplay,
		"history_file":   defaultHistoryFile(),
		"archive_dir":    "",
		"verbose":        false,
		"identity.name":  "RecordDB",
		"identity.email": "recorddb@localhost",
		"server.port":    DefaultPort,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	} else if cfgFile != "" {
		return nil, fmt.Errorf("config file not found: %s", cfgFile)
	}

	// 3. Environment: RECORDDB_S3__ACCESS_KEY -> s3.access_key
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the engine cannot start with.
func (cfg *Config) Validate() error {
	switch strings.ToLower(cfg.Key) {
	case "int", "string":
	default:
		return fmt.Errorf("invalid key kind %q (expected int or string)", cfg.Key)
	}
	switch strings.ToLower(cfg.Replay) {
	case "", "abort", "continue":
	default:
		return fmt.Errorf("invalid replay policy %q (expected abort or continue)", cfg.Replay)
	}
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}
	if (cfg.Server.TLSCert == "") != (cfg.Server.TLSKey == "") {
		return fmt.Errorf("tls_cert and tls_key must be set together")
	}
	return nil
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}

// envKey turns RECORDDB_SERVER__JWT_SECRET into server.jwt_secret. A double
// underscore separates nesting levels since keys contain single underscores.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func flagKey(name string) string {
	if key, ok := flagKeys[name]; ok {
		return key
	}
	return strings.ReplaceAll(name, "-", "_")
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".recorddb_history")
}
