package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (CORTEX_REFACTOR_*)
// 2. Config file (explicit path, or .cortex-refactor/config.yml in the
//    working directory)
// 3. Default values
func Load(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".cortex-refactor")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("CORTEX_REFACTOR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("naming.allow_underscore_prefix")
	v.BindEnv("history.enabled")
	v.BindEnv("history.path")

	cfg := Default()
	v.SetDefault("naming.allow_underscore_prefix", cfg.Naming.AllowUnderscorePrefix)
	v.SetDefault("analysis.builtins", cfg.Analysis.Builtins)
	v.SetDefault("analysis.side_effect_calls", cfg.Analysis.SideEffectCalls)
	v.SetDefault("history.enabled", cfg.History.Enabled)
	v.SetDefault("history.path", cfg.History.Path)

	if err := v.ReadInConfig(); err != nil {
		// No config file found is fine; a broken one is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
