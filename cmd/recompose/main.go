// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the recompose CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/recompose/internal/catalog"
	"github.com/pdiddy/recompose/internal/logging"
	"github.com/pdiddy/recompose/internal/process"
	"github.com/pdiddy/recompose/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// closeLog releases the log file opened by the root pre-run hook.
var closeLog = func() error { return nil }

// rootCmd is the base command for the recompose CLI.
var rootCmd = &cobra.Command{
	Use:   "recompose",
	Short: "Turn books-received citation paragraphs into structured records",
	Long: `recompose reads a Word document of books-received citations, splits each
paragraph at its italic title, and extracts authors or editors, title and
series, and publication details into structured records.

Paragraphs that cannot be segmented are logged and skipped. Zones that fail
validation are left empty in the record and named in the status line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, closeFn, err := logging.Setup(cfg.Log, os.Stderr)
		if err != nil {
			return err
		}
		closeLog = closeFn
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./recompose.yaml or ~/.config/recompose/recompose.yaml)")
	flags.String("log", "", "write logs to FILE (bare --log uses "+logging.DefaultFile+")")
	flags.Lookup("log").NoOptDefVal = logging.DefaultFile
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text or json")

	viper.BindPFlag("log.file", flags.Lookup("log"))
	viper.BindPFlag("log.level", flags.Lookup("log-level"))
	viper.BindPFlag("log.format", flags.Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("recompose")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "recompose"))
		}
	}

	viper.SetEnvPrefix("RECOMPOSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("parse.preview_length", process.DefaultPreviewLength)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("catalog.dir", catalog.DefaultDir)
	v.SetDefault("catalog.max_results", catalog.DefaultMaxResults)
}

// loadConfig merges defaults, the config file, environment, and bound
// flags into a Config.
func loadConfig() (types.Config, error) {
	setDefaults(viper.GetViper())
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("reading configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
