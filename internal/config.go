package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type DitabaseConfig struct {
	AppName string `mapstructure:"app_name"`

	Shell struct {
		Prompt      string `mapstructure:"prompt"`
		HistoryPath string `mapstructure:"history_path"`
		HistoryMax  int    `mapstructure:"history_max"`
	} `mapstructure:"shell"`

	Logging struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logging"`
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() *DitabaseConfig {
	cfg := &DitabaseConfig{AppName: "ditabase"}
	cfg.Shell.Prompt = "ditabase> "
	cfg.Shell.HistoryPath = defaultHistoryPath()
	cfg.Shell.HistoryMax = 2000
	cfg.Logging.Level = "info"
	return cfg
}

func LoadConfig(path string) (*DitabaseConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".ditabase_history"
	}
	return filepath.Join(home, ".ditabase_history")
}
