// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pkpass-converter CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pkpass-converter/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built from configuration before any subcommand runs.
var logger = logging.Nop()

// rootCmd is the base command for the pkpass-converter CLI.
var rootCmd = &cobra.Command{
	Use:   "pkpass-converter",
	Short: "Convert Apple Wallet passes into printable PDF tickets",
	Long: `pkpass-converter turns a folder of Apple Wallet event passes (.pkpass)
into one single-page A4 PDF ticket per pass, with the event details and a QR
code of the pass barcode.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(logging.Options{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
		})
		if err != nil {
			return err
		}
		logger = l
		slog.SetDefault(l)
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("config loaded", slog.String("path", used))
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pkpass-converter.yaml or ~/.config/pkpass-converter/pkpass-converter.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "log format: console or json")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pkpass-converter")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pkpass-converter"))
		}
	}

	viper.SetEnvPrefix("PKPASS_CONVERTER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
