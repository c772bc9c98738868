package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "ruleengine",
		Short:        "ruleengine",
		SilenceUsage: true,
		Long:         `CLI for validating, compiling, running, and inspecting fraud rule programs.`,
	}

	configPath string
	logLevel   string
)

// Execute executes the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to an optional YAML config file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "logrus level: debug, info, warn, error")
	return rootCmd.Execute()
}

// applyLogLevel loads the optional config file (if --config was given),
// then applies --log-level over it, then defaults to info. The CLI flag
// always wins over the config file.
func applyLogLevel() {
	cfg, err := loadConfig(configPath)
	if err != nil {
		logrus.WithError(err).Warn("failed to load config file, falling back to defaults")
		cfg = &fileConfig{}
	}

	effective := logLevel
	if effective == "" {
		effective = cfg.LogLevel
	}
	if effective == "" {
		effective = "info"
	}

	level, err := logrus.ParseLevel(effective)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
