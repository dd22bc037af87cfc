package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config selects and locates the storage backend.
type Config interface {
	// BasePath is the diskv directory. Sessions are kept there for every driver.
	BasePath() string
	Driver() Driver
	// DSN is the sqlite file or postgres connection string.
	DSN() string
}

// LoadConfig reads .journal.yaml from JOURNAL_CONFIG_PATH, the working
// directory or the home directory, with JOURNAL_* environment overrides.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.journal.db")
	viper.SetDefault("storage.driver", string(DriverDiskv))
	viper.SetDefault("storage.dsn", "")
	viper.SetConfigName(".journal") // .yaml is implicit
	viper.SetEnvPrefix("JOURNAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if override := os.Getenv("JOURNAL_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}
	viper.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	dsn := viper.GetString("storage.dsn")
	driver := Driver(viper.GetString("storage.driver"))
	if driver == DriverSQLite && dsn == "" {
		dsn = filepath.Join(path, "journal.sqlite")
	}
	if dsn != "" && driver == DriverSQLite {
		if dsn, err = homedir.Expand(dsn); err != nil {
			return nil, fmt.Errorf("store: expand dsn: %w", err)
		}
	}

	return &fileConfig{Path: path, Backend: driver, Source: dsn}, nil
}

type fileConfig struct {
	Path    string `json:"path"`
	Backend Driver `json:"driver"`
	Source  string `json:"dsn"`
}

func (f *fileConfig) BasePath() string { return f.Path }

func (f *fileConfig) Driver() Driver { return f.Backend }

func (f *fileConfig) DSN() string { return f.Source }

// StaticConfig is a Config with fixed values.
type StaticConfig struct {
	Path    string
	Backend Driver
	Source  string
}

func (s StaticConfig) BasePath() string { return s.Path }

func (s StaticConfig) Driver() Driver { return s.Backend }

func (s StaticConfig) DSN() string { return s.Source }
