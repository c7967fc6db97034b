package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "parva",
	Short: "Lunisolar calendar engine for Nepal",
	Long: `Parva derives tithi, lunar months with Adhik Maas, Bikram Sambat dates and
the daily panchanga from sidereal Sun and Moon longitudes, and annotates every
answer with its confidence.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default .parva.yaml)")
	flags.String("db", "", "SQLite cache and provenance database (default parva.db)")
	flags.String("oracle", "", "remote ephemeris service address (default in-process analytic)")
	flags.String("bs-table", "", "TOML file replacing the embedded official BS table")
	flags.Float64("threshold", 0, "tithi boundary threshold as a fraction of a tithi (default 0.01)")

	_ = viper.BindPFlag("db_path", flags.Lookup("db"))
	_ = viper.BindPFlag("oracle.addr", flags.Lookup("oracle"))
	_ = viper.BindPFlag("bs_table", flags.Lookup("bs-table"))
	_ = viper.BindPFlag("boundary_threshold", flags.Lookup("threshold"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".parva")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("PARVA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}
