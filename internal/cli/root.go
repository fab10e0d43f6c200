// internal/cli/root.go
package plsummary

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mwiater/plsummary/internal/appconfig"
	"github.com/mwiater/plsummary/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
)

var rootCmd = &cobra.Command{
	Use:   "plsummary",
	Short: "plsummary — geomean summaries of exported pageload telemetry",
	Long: `plsummary ingests browser pageload telemetry exported as CSV from the
telemetry dashboard, groups it by platform, application, variant and
pageload type, buckets data points by time gap, and produces a rolling
geometric-mean summary as JSON plus an HTML chart page.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1) Load config (file or defaults)
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		// 2) If user did NOT set a flag, copy the config value into the flag so
		//    both pflags and viper reflect the same, final value.
		if !cmd.Flags().Changed("debug") {
			_ = cmd.Flags().Set("debug", strconv.FormatBool(viper.GetBool("debug")))
		}

		// 3) Materialize the fully merged configuration into currentConfig
		//    (flags > config > defaults). This gives other packages a stable snapshot.
		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.Normalize()
		currentConfig = &cfg

		logging.SetDebug(cfg.Debug)
		return nil
	},
}

// Execute runs the root command, exiting nonzero on any error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	// Bind flags to Viper keys (flags override config)
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config and sets safe defaults.
func ensureConfigLoaded() error {
	viper.SetDefault("debug", false)
	viper.SetDefault("timespan", appconfig.DefaultTimespan)
	viper.SetDefault("platforms", []string{})
	viper.SetDefault("output", ".")
	viper.SetDefault("chartOutput", "")
	viper.SetDefault("noChart", false)
	viper.SetDefault("logFile", "")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
			// No file: fine, we'll use defaults/flags
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// getConfig returns the loaded application configuration for other packages.
func getConfig() *appconfig.Config {
	if currentConfig == nil {
		return appconfig.Default()
	}
	return currentConfig
}

// DebugEnabled reports the merged debug setting.
func DebugEnabled() bool { return viper.GetBool("debug") }
