package internal

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultConfigFile   = "primdb.yaml"
	DefaultPrompt       = ">>> "
	DefaultHistoryLimit = 500
	DefaultLogLevel     = "warn"

	// ConfigEnv overrides the config file path.
	ConfigEnv = "PRIMDB_CONFIG"
)

type PrimdbConfig struct {
	AppName string `mapstructure:"app_name"`

	Storage struct {
		Workdir  string `mapstructure:"workdir"`
		MetaFile string `mapstructure:"meta_file"`
		DataDir  string `mapstructure:"data_dir"`
	} `mapstructure:"storage"`

	Repl struct {
		Prompt       string `mapstructure:"prompt"`
		HistoryFile  string `mapstructure:"history_file"`
		HistoryLimit int    `mapstructure:"history_limit"`
	} `mapstructure:"repl"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// LoadConfig reads path when given, otherwise $PRIMDB_CONFIG, otherwise
// primdb.yaml in the working directory if it exists. A missing default file
// is not an error; defaults and PRIMDB_* env vars still apply.
func LoadConfig(path string) (*PrimdbConfig, error) {
	v := viper.New()

	v.SetDefault("app_name", "primdb")
	v.SetDefault("storage.workdir", ".")
	v.SetDefault("storage.meta_file", "db_meta.json")
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("repl.prompt", DefaultPrompt)
	v.SetDefault("repl.history_file", "")
	v.SetDefault("repl.history_limit", DefaultHistoryLimit)
	v.SetDefault("log.level", DefaultLogLevel)

	v.SetEnvPrefix("PRIMDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := true
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}
	if path == "" {
		path, explicit = DefaultConfigFile, false
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg PrimdbConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
