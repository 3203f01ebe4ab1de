package config

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces the environment knobs, e.g. WSLSNAP_TOOL.
const EnvPrefix = "WSLSNAP"

// Runtime holds process-level settings taken from the environment. None of
// it is persisted.
type Runtime struct {
	Tool       string `mapstructure:"tool"`
	LogLevel   string `mapstructure:"log_level"`
	ConfigPath string `mapstructure:"config"`
}

// LoadRuntime reads WSLSNAP_TOOL, WSLSNAP_LOG_LEVEL and WSLSNAP_CONFIG.
// An unset Tool is left empty for the client to default. ConfigPath falls
// back to DefaultPath when unset.
func LoadRuntime() (Runtime, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("tool", "")
	v.SetDefault("log_level", "")
	v.SetDefault("config", "")

	var rt Runtime
	if err := v.Unmarshal(&rt); err != nil {
		return Runtime{}, errors.Wrap(err, "decode environment")
	}

	if rt.ConfigPath == "" {
		p, err := DefaultPath()
		if err != nil {
			return Runtime{}, err
		}
		rt.ConfigPath = p
	} else {
		p, err := ExpandPath(rt.ConfigPath)
		if err != nil {
			return Runtime{}, err
		}
		rt.ConfigPath = p
	}
	return rt, nil
}
