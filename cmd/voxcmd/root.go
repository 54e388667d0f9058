package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/voxcmd/internal/config"
	"github.com/dshills/voxcmd/internal/grammar"
	"github.com/dshills/voxcmd/internal/logging"
)

var (
	cfgFile   string
	bindFlags map[string]string
	configErr error
)

func init() {
	cobra.OnInitialize(initConfig)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "voxcmd",
		Short: "Turn spoken orders into game key presses",
		Long: `voxcmd receives recognized speech from a speech-to-text tool, classifies
each utterance against a per-game keyword grammar and presses the keys that
issue the matching in-game command.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	d := config.Default()
	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.voxcmd.toml)")
	flags.String("grammar", d.Grammar, "grammar name (see 'voxcmd grammars')")
	flags.String("keywords", "", "keyword file overriding built-in categories (TOML or YAML)")
	flags.String("table", "", "command table file for the table grammar")
	flags.String("settings-file", "", "game input settings file (Input.ini)")
	flags.String("mode", d.Mode, "listener mode: udp or ync_bouyomi")
	flags.String("host", d.Host, "listen host")
	flags.Int("port", d.Port, "listen port")
	flags.Bool("test", d.Test, "log key presses instead of pressing them")
	flags.String("log-level", d.LogLevel, "log level (debug, info, warn, error)")
	flags.Bool("watch", d.Watch, "reload the keyword file when it changes")
	flags.Bool("fold-width", d.FoldWidth, "fold full-width characters before classifying")
	flags.StringToStringVar(&bindFlags, "bind", nil, "bind a command to a key, e.g. --bind gold=f9 (repeatable)")

	for key, flag := range map[string]string{
		config.KeyGrammar:      "grammar",
		config.KeyKeywords:     "keywords",
		config.KeyTable:        "table",
		config.KeySettingsFile: "settings-file",
		config.KeyMode:         "mode",
		config.KeyHost:         "host",
		config.KeyPort:         "port",
		config.KeyTest:         "test",
		config.KeyLogLevel:     "log-level",
		config.KeyWatch:        "watch",
		config.KeyFoldWidth:    "fold-width",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		newRunCmd(),
		newClassifyCmd(),
		newKeysCmd(),
		newBindingsCmd(),
		newGrammarsCmd(),
	)
	return root
}

// initConfig reads in the config file and VOXCMD_* variables.
func initConfig() {
	v := viper.GetViper()
	config.SetDefaults(v)
	config.BindEnv(v)

	used, err := config.ReadFile(v, cfgFile)
	if err != nil {
		configErr = err
		return
	}
	if used != "" && v.GetString(config.KeyLogLevel) == "debug" {
		fmt.Fprintln(os.Stderr, "Using config file:", used)
	}
}

// loadConfig returns the validated configuration and a logger for it.
func loadConfig() (config.Config, *logging.Logger, error) {
	if configErr != nil {
		return config.Config{}, nil, configErr
	}
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, nil, err
	}
	cfg.Bindings.Flags = bindFlags
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.LogLevel)
	return cfg, logging.New(logCfg), nil
}

func grammarOptions(cfg config.Config, log *logging.Logger) grammar.Options {
	return grammar.Options{
		KeywordsFile: cfg.Keywords,
		TableFile:    cfg.Table,
		SettingsFile: cfg.SettingsFile,
		Overrides:    cfg.Bindings.Overrides,
		FlagBindings: cfg.Bindings.Flags,
		Logger:       log,
	}
}
