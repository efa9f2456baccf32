package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/n2code/vsprojm"
	"github.com/n2code/vsprojm/cmd/vsprojm/flags"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configFileName = ".vsprojm" //.yaml
	envPrefix      = "VSPROJM"
)

func (c *cli) loadConfig(cmd *cobra.Command) error {
	if configFile, _ := cmd.Flags().GetString(flags.Config); configFile != "" {
		c.config.SetConfigFile(configFile)
	} else {
		c.config.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			c.config.AddConfigPath(home)
		}
		c.config.SetConfigName(configFileName)
		c.config.SetConfigType("yaml")
	}

	if err := c.config.ReadInConfig(); err != nil {
		enoent := errors.Is(err, os.ErrNotExist)
		var notFound viper.ConfigFileNotFoundError
		if !enoent && !errors.As(err, &notFound) {
			return fmt.Errorf("config read '%s': %w", c.config.ConfigFileUsed(), err)
		}
	}

	c.config.BindPFlag(flags.ProjectKey, cmd.Flags().Lookup(flags.Project))
	c.config.BindPFlag(flags.VerboseKey, cmd.Flags().Lookup(flags.Verbose))
	c.config.BindPFlag(flags.QuietKey, cmd.Flags().Lookup(flags.Quiet))
	c.config.SetDefault(flags.DefaultFilterKey, vsprojm.DefaultFilterName)

	c.config.SetEnvPrefix(envPrefix)
	c.config.AutomaticEnv()
	return nil
}

// setupLogging sends diagnostics to stderr, user-facing output does not go through the logger.
func (c *cli) setupLogging() {
	level := slog.LevelWarn
	switch {
	case c.config.GetBool(flags.VerboseKey):
		level = slog.LevelDebug
	case c.config.GetBool(flags.QuietKey):
		level = slog.LevelError
	}
	c.logger = slog.New(tint.NewHandler(c.stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    !c.fancy,
	}))
	slog.SetDefault(c.logger)
}
