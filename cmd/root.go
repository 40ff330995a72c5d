// Package cmd holds the trackcore command line.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jengzang/trackcore-go/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "trackcore",
	Short:         "Activity tracking backend: GPX/FIT import, segments, corrections",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := readConfigFile(); err != nil {
			return err
		}
		bindFlags(cmd, viper.GetViper())

		var err error
		cfg, err = config.Load(viper.GetViper())
		return err
	},
}

// Execute runs the root command. It is called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./.trackcore.yml or $HOME/.trackcore.yml)")
	pf.String("db-path", "./data/tracks.db", "path of the sqlite database")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "json", "log format (json, console)")
	pf.String("elevation-url", "https://api.open-elevation.com/api/v1/lookup",
		"elevation lookup endpoint used by altitude correction, empty to disable")
	pf.Duration("elevation-timeout", 30*time.Second, "timeout of one elevation request")
	pf.String("hr-zones", "120,140,160,180", "default heart rate zone thresholds")

	rootCmd.AddCommand(
		newServeCmd(),
		newImportCmd(),
		newWatchCmd(),
		newSearchCmd(),
		newCorrectCmd(),
		newExportCmd(),
	)
}

// readConfigFile loads the config file named by --config or, without it,
// an optional .trackcore.yml from the working or home directory.
func readConfigFile() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		return nil
	}

	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.SetConfigType("yaml")
	viper.SetConfigName(".trackcore")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

// bindFlags makes every flag of cmd, inherited ones included, a viper key
// so that an explicitly set flag beats the environment and the config file.
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || f.Name == "help" {
			return
		}
		if err := v.BindPFlag(f.Name, f); err != nil {
			fmt.Fprintf(os.Stderr, "could not bind flag %s: %v\n", f.Name, err)
		}
	})
}
