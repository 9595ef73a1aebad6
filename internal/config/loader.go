package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mvp-joe/tagscan/internal/ignore"
	"github.com/mvp-joe/tagscan/internal/index"
)

// Load reads configuration for the given root with the priority
// (highest first): environment variables (TAGSCAN_*), the config file
// .tagscan/config.yml, built-in defaults. A missing config file is
// fine; the defaults make the tool usable with zero setup.
func Load(rootDir string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(rootDir, ".tagscan"))

	v.SetEnvPrefix("TAGSCAN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("languages", []string{})
	v.SetDefault("paths.include", []string{})
	v.SetDefault("paths.ignore", []string{})
	v.SetDefault("ignore_files", ignore.DefaultRuleFiles)
	v.SetDefault("index_file", index.DefaultFile)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "")
}
