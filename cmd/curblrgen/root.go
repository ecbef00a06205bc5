package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "curblrgen",
	Short: "curblrgen turns a sign inventory into a CurbLR document",
	Long:  "Ingests a denormalised parking-sign inventory table and emits a CurbLR GeoJSON document describing curb regulations segmented along streets.",
}

// Execute runs the root command.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.curblrgen/config.yaml)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(checkChainsCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		dir := filepath.Join(home, ".curblrgen")
		_ = os.MkdirAll(dir, 0o755)
		viper.AddConfigPath(dir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetDefault("database_path", "curblrgen_roadnet.sqlite")
	viper.SetDefault("use_mutex", false)
	viper.SetDefault("max_csv_bytes", 0)

	_ = viper.ReadInConfig()
}
