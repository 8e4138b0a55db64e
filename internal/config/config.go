// Package config loads intervio settings from a YAML file, a .env file,
// INTERVIO_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "INTERVIO"

	defaultConfigName = "intervio"
	defaultEnvFile    = ".env"
)

type Config struct {
	DB        string          `mapstructure:"db"`
	LogsDir   string          `mapstructure:"logs_dir"`
	Log       LogConfig       `mapstructure:"log"`
	Interview InterviewConfig `mapstructure:"interview"`
	LLM       LLMConfig       `mapstructure:"llm"`
}

type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

type InterviewConfig struct {
	InterviewerName     string   `mapstructure:"interviewer_name"`
	MaxHistory          int      `mapstructure:"max_history"`
	DefaultTechnologies []string `mapstructure:"default_technologies"`
}

type LLMConfig struct {
	// Timeout bounds one generation call.
	Timeout time.Duration `mapstructure:"timeout"`
}

// Options controls where Load looks for settings.
type Options struct {
	// ConfigFile is an explicit YAML path. When empty, intervio.yaml in the
	// working directory is used if present.
	ConfigFile string

	// EnvFile defaults to .env. A missing file is ignored.
	EnvFile string

	// Flags, when set, are bound over file and env values: --db, --debug
	// and --json.
	Flags *pflag.FlagSet
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"db":    "db",
	"debug": "log.debug",
	"json":  "log.json",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db", "")
	v.SetDefault("logs_dir", "logs")
	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
	v.SetDefault("interview.interviewer_name", "Alex")
	v.SetDefault("interview.max_history", 50)
	v.SetDefault("interview.default_technologies", []string{})
	v.SetDefault("llm.timeout", 30*time.Second)
}

// Load reads the configuration. Precedence, highest first: changed flags,
// environment, config file, defaults.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = defaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the interview cannot run with.
func (c *Config) Validate() error {
	if c.Interview.MaxHistory <= 0 {
		return fmt.Errorf("interview.max_history must be positive, got %d", c.Interview.MaxHistory)
	}
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("llm.timeout must not be negative, got %s", c.LLM.Timeout)
	}
	for i, t := range c.Interview.DefaultTechnologies {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("interview.default_technologies[%d] is blank", i)
		}
	}
	return nil
}
