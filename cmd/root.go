// Package cmd implements the CLI commands for doccorpus using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/doccorpus/logger"
)

var rootCmd = &cobra.Command{
	Use:   "doccorpus",
	Short: "Turn a Markdown documentation tree into a training corpus",
	Long: `doccorpus walks a directory of Markdown documentation, strips
frontmatter, code, macros, links and markup, linearizes tables into
"Header: value" lines and writes one JSON record per file.

Usage:
  doccorpus build <docs-dir> [flags]`,
	SilenceUsage:      true,
	PersistentPreRunE: preRun,
}

// configErr is set by initConfig and reported by preRun.
var configErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.doccorpus.yaml or ./.doccorpus.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().Bool("log-json", false, "log as JSON lines")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
}

func initConfig() {
	configErr = loadConfig(viper.GetViper(), viper.GetString("config"))
}

// loadConfig points v at cfgFile, or at .doccorpus.yaml in the home or
// working directory, and reads it. A missing default config is fine; a
// broken or explicit one is not.
func loadConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".doccorpus")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("DOCCORPUS")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

func preRun(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return configErr
	}
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("log_json"),
	})
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
