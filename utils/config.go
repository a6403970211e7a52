package utils

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/noelzubin/vocabnotes/logger"
	"github.com/noelzubin/vocabnotes/search/engine"
	"github.com/noelzubin/vocabnotes/search/fuzzy"
	"github.com/noelzubin/vocabnotes/search/tokenizer"
	"github.com/spf13/viper"
)

const (
	EnvPrefix     = "VOCABNOTES"
	ConfigPathEnv = "VOCABNOTES_CONFIG"
)

// Config is the configuration for the application
type Config struct {
	RootPath string       `mapstructure:"root_path"` // Directory holding the notebook files.
	Editor   string       `mapstructure:"editor"`    // Editor to open a notebook file with
	Log      LogConfig    `mapstructure:"log"`
	Search   SearchConfig `mapstructure:"search"`
}

type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // empty logs to stderr
}

// SearchConfig mirrors engine.Options in config file form.
type SearchConfig struct {
	MinScore        float64 `mapstructure:"min_score"`
	StructuralBoost float64 `mapstructure:"structural_boost"` // negative disables
	MaxResults      int     `mapstructure:"max_results"`
	StructuralLimit int     `mapstructure:"structural_limit"`
	Tokenizer       string  `mapstructure:"tokenizer"` // auto, segmenter or fallback
	Backend         string  `mapstructure:"backend"`   // memory or bleve
	DensityFloor    float64 `mapstructure:"density_floor"`
}

// DefaultConfigPath is $VOCABNOTES_CONFIG, or the config.yaml under the
// user's config directory.
func DefaultConfigPath() string {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return p
	}
	homedir, _ := os.UserHomeDir()
	return filepath.Join(homedir, ".config", "vocabnotes", "config.yaml")
}

// NewConfig returns a new Config object by reading from the default config
// file, exiting if it cannot be read.
func NewConfig() *Config {
	config, err := LoadConfig("")
	if err != nil {
		log.Fatalf("failed to load config: %+v", err)
	}
	return config
}

// LoadConfig reads the config file at path, or the default path when empty.
// A missing default file is not an error; every key has a default and can
// be overridden from the environment, e.g. VOCABNOTES_SEARCH_BACKEND.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	v.SetConfigFile(path)
	if _, err := os.Stat(path); err == nil || explicit || os.Getenv(ConfigPathEnv) != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WithHint(errors.Wrapf(err, "read config file %s", path),
				"create the file or unset "+ConfigPathEnv)
		}
		logger.Debugw("Read config file", "path", path)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.Wrapf(err, "parse config file %s", path)
	}
	config.RootPath = expandHome(config.RootPath)
	config.Log.File = expandHome(config.Log.File)

	if _, err := config.SearchOptions(); err != nil {
		return nil, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	homedir, _ := os.UserHomeDir()
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	d := engine.DefaultOptions()
	v.SetDefault("root_path", filepath.Join(homedir, ".local", "share", "vocabnotes"))
	v.SetDefault("editor", editor)
	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("search.min_score", d.MinScore)
	v.SetDefault("search.structural_boost", d.StructuralBoost)
	v.SetDefault("search.max_results", d.MaxResults)
	v.SetDefault("search.structural_limit", d.StructuralLimit)
	v.SetDefault("search.tokenizer", string(d.Strategy))
	v.SetDefault("search.backend", string(d.Backend))
	v.SetDefault("search.density_floor", d.Fuzzy.DensityFloor)
}

// SearchOptions maps the search section onto engine options, logging
// through the global logger.
func (c *Config) SearchOptions() (engine.Options, error) {
	strategy, err := tokenizer.ParseStrategy(c.Search.Tokenizer)
	if err != nil {
		return engine.Options{}, errors.Wrap(err, "search.tokenizer")
	}
	backend, err := engine.ParseBackend(c.Search.Backend)
	if err != nil {
		return engine.Options{}, errors.Wrap(err, "search.backend")
	}

	fuzzyCfg := fuzzy.DefaultConfig()
	if c.Search.DensityFloor > 0 {
		fuzzyCfg.DensityFloor = c.Search.DensityFloor
	}

	return engine.Options{
		MinScore:        c.Search.MinScore,
		StructuralBoost: c.Search.StructuralBoost,
		MaxResults:      c.Search.MaxResults,
		StructuralLimit: c.Search.StructuralLimit,
		Strategy:        strategy,
		Backend:         backend,
		Fuzzy:           fuzzyCfg,
		Logger:          logger.Named("search"),
	}, nil
}

// LoggerOptions maps the log section onto logger options.
func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{JSON: c.Log.JSON, Level: c.Log.Level, File: c.Log.File}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		homedir, _ := os.UserHomeDir()
		return filepath.Join(homedir, strings.TrimPrefix(path, "~"))
	}
	return path
}
