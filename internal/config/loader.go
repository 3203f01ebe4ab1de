package config

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	// FileName is the config file kept in the user's home directory.
	FileName = ".wsl_snapshot_config.json"
	// DefaultBackupSubdir is created under the home directory on first run.
	DefaultBackupSubdir = "wsl_backups"

	keyBackupDir = "backup_dir"
)

// ErrLoadConfig indicates a failure to read the configuration file.
var ErrLoadConfig = errors.New("config load failed")

// ErrConfigParse indicates the configuration file exists but is not valid JSON.
var ErrConfigParse = errors.New("config parse failed")

// ErrConfigWrite indicates the configuration file could not be written.
var ErrConfigWrite = errors.New("config write failed")

// Config is the only persisted state: where backups live.
type Config struct {
	BackupDir string `mapstructure:"backup_dir" json:"backup_dir"`
}

// DefaultPath returns ~/.wsl_snapshot_config.json.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "resolve home directory")
	}
	return filepath.Join(home, FileName), nil
}

// Default returns the configuration written on first run.
func Default() (Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return Config{}, errors.Wrap(err, "resolve home directory")
	}
	return Config{BackupDir: filepath.Join(home, DefaultBackupSubdir)}, nil
}

// Load reads the configuration at path. When the file does not exist the
// default configuration is written there and returned. A file that exists but
// does not parse fails with ErrConfigParse; it is never reset.
func Load(path string) (Config, error) {
	def, err := Default()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := Save(path, def); err != nil {
			return Config{}, err
		}
		return def, nil
	}
	if err != nil {
		return Config{}, errors.Mark(errors.Wrapf(err, "read config %s", path), ErrLoadConfig)
	}

	v := viper.New()
	v.SetConfigType("json")
	v.SetDefault(keyBackupDir, def.BackupDir)

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return Config{}, errors.Mark(errors.Wrapf(err, "parse config %s", path), ErrConfigParse)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Mark(errors.Wrapf(err, "decode config %s", path), ErrConfigParse)
	}

	if cfg.BackupDir == "" {
		cfg.BackupDir = def.BackupDir
	}
	if cfg.BackupDir, err = ExpandPath(cfg.BackupDir); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save overwrites path with cfg as indented JSON.
func Save(path string, cfg Config) error {
	v := viper.New()
	v.SetConfigType("json")
	v.Set(keyBackupDir, cfg.BackupDir)

	if err := v.WriteConfigAs(path); err != nil {
		return errors.Mark(errors.Wrapf(err, "write config %s", path), ErrConfigWrite)
	}
	return nil
}

// SetBackupDir stores dir as an absolute path, expanding a leading ~.
func (c *Config) SetBackupDir(dir string) error {
	expanded, err := ExpandPath(dir)
	if err != nil {
		return err
	}
	c.BackupDir = expanded
	return nil
}

// ExpandPath expands a leading ~ and makes p absolute. An empty path stays empty.
func ExpandPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", errors.Wrapf(err, "expand path %q", p)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(err, "absolute path for %q", expanded)
	}
	return abs, nil
}
