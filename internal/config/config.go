package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dshills/voxcmd/internal/logging"
)

// Listener modes.
const (
	ModeUDP        = "udp"
	ModeYNCBouyomi = "ync_bouyomi"
)

// Setting keys, as used in the config file and for VOXCMD_* variables.
const (
	KeyGrammar          = "grammar"
	KeyKeywords         = "keywords"
	KeyTable            = "table"
	KeyMode             = "mode"
	KeyHost             = "host"
	KeyPort             = "port"
	KeyTest             = "test"
	KeyLogLevel         = "log_level"
	KeyStepOrderTimeout = "step_order_timeout"
	KeyLongPress        = "long_press"
	KeyKeyInterval      = "key_interval"
	KeySettingsFile     = "settings_file"
	KeyWatch            = "watch"
	KeyFoldWidth        = "fold_width"
	KeyOverrides        = "bindings.overrides"
)

// EnvPrefix prefixes environment variables, e.g. VOXCMD_PORT.
const EnvPrefix = "voxcmd"

// DefaultFileName is the config file looked up in the home directory.
const DefaultFileName = ".voxcmd"

// Config is the resolved runtime configuration.
type Config struct {
	Grammar          string        `mapstructure:"grammar"`
	Keywords         string        `mapstructure:"keywords"`
	Table            string        `mapstructure:"table"`
	Mode             string        `mapstructure:"mode"`
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	Test             bool          `mapstructure:"test"`
	LogLevel         string        `mapstructure:"log_level"`
	StepOrderTimeout time.Duration `mapstructure:"step_order_timeout"`
	LongPress        time.Duration `mapstructure:"long_press"`
	KeyInterval      time.Duration `mapstructure:"key_interval"`
	SettingsFile     string        `mapstructure:"settings_file"`
	Watch            bool          `mapstructure:"watch"`
	FoldWidth        bool          `mapstructure:"fold_width"`
	Bindings         Bindings      `mapstructure:"bindings"`
}

// Bindings holds user key-binding settings.
type Bindings struct {
	// Overrides maps command names to key names and wins over every other
	// binding source.
	Overrides map[string]string `mapstructure:"overrides"`

	// Flags holds --bind values. They win over Overrides and are never
	// read from the config file.
	Flags map[string]string `mapstructure:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Grammar:          "readyornot",
		Mode:             ModeUDP,
		Host:             "127.0.0.1",
		Port:             25555,
		LogLevel:         "info",
		StepOrderTimeout: 10 * time.Second,
		LongPress:        time.Second,
		KeyInterval:      60 * time.Millisecond,
	}
}

// SetDefaults registers the built-in values on v. Every key needs a default
// so that VOXCMD_* variables are picked up by Load.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyGrammar, d.Grammar)
	v.SetDefault(KeyKeywords, d.Keywords)
	v.SetDefault(KeyTable, d.Table)
	v.SetDefault(KeyMode, d.Mode)
	v.SetDefault(KeyHost, d.Host)
	v.SetDefault(KeyPort, d.Port)
	v.SetDefault(KeyTest, d.Test)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyStepOrderTimeout, d.StepOrderTimeout)
	v.SetDefault(KeyLongPress, d.LongPress)
	v.SetDefault(KeyKeyInterval, d.KeyInterval)
	v.SetDefault(KeySettingsFile, d.SettingsFile)
	v.SetDefault(KeyWatch, d.Watch)
	v.SetDefault(KeyFoldWidth, d.FoldWidth)
	v.SetDefault(KeyOverrides, map[string]string{})
}

// BindEnv makes v read VOXCMD_* variables; nested keys use underscores.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// ReadFile reads the config file into v. An explicit path must exist; the
// default file in the home directory is optional. It returns the file used,
// or "" if none was read.
func ReadFile(v *viper.Viper, path string) (string, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", nil
		}
		v.AddConfigPath(home)
		v.SetConfigName(DefaultFileName)
		v.SetConfigType("toml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return "", fmt.Errorf("read config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Load decodes the merged settings of v.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	if c.Bindings.Overrides == nil {
		c.Bindings.Overrides = map[string]string{}
	}
	return c, nil
}

// Validate reports every invalid setting. The result wraps
// ErrValidationFailed.
func (c Config) Validate() error {
	var errs []error
	bad := func(path, msg string, value any, code ValidationErrorCode) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value, Code: code})
	}

	if strings.TrimSpace(c.Grammar) == "" {
		bad(KeyGrammar, "a grammar name is required", c.Grammar, ErrCodeRequiredMissing)
	}
	switch c.Mode {
	case ModeUDP, ModeYNCBouyomi:
	default:
		bad(KeyMode, fmt.Sprintf("must be %q or %q", ModeUDP, ModeYNCBouyomi), c.Mode, ErrCodeInvalidEnum)
	}
	if strings.TrimSpace(c.Host) == "" {
		bad(KeyHost, "a listen host is required", c.Host, ErrCodeRequiredMissing)
	}
	if c.Port < 1 || c.Port > 65535 {
		bad(KeyPort, "must be between 1 and 65535", c.Port, ErrCodeOutOfRange)
	}
	if !logging.ValidLevel(c.LogLevel) {
		bad(KeyLogLevel, "must be debug, info, warn or error", c.LogLevel, ErrCodeInvalidEnum)
	}
	if c.StepOrderTimeout <= 0 {
		bad(KeyStepOrderTimeout, "must be positive", c.StepOrderTimeout, ErrCodeOutOfRange)
	}
	if c.LongPress < 0 {
		bad(KeyLongPress, "must not be negative", c.LongPress, ErrCodeOutOfRange)
	}
	if c.KeyInterval < 0 {
		bad(KeyKeyInterval, "must not be negative", c.KeyInterval, ErrCodeOutOfRange)
	}
	for command, name := range c.Bindings.Overrides {
		if strings.TrimSpace(command) == "" {
			bad(KeyOverrides, "empty command name", name, ErrCodeRequiredMissing)
		}
	}
	for command, name := range c.Bindings.Flags {
		if strings.TrimSpace(command) == "" {
			bad("bind", "empty command name", name, ErrCodeRequiredMissing)
		}
	}
	return errors.Join(errs...)
}

// Addr returns host:port for the listener.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
