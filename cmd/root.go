package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/canscope/canscope/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `	  ___ __ _ _ __  ___  ___ ___  _ __   ___
	 / __/ _` + "`" + ` | '_ \/ __|/ __/ _ \| '_ \ / _ \
	| (_| (_| | | | \__ \ (_| (_) | |_) |  __/
	 \___\__,_|_| |_|___/\___\___/| .__/ \___|
	                              |_|

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "canscope",
	Short: "Browser compatibility checker for web projects.",
	Long: LOGO + `canscope tells you whether the web-platform features your project uses
actually work on the browsers you need to support, straight from your
command line. It scans your sources, checks each detected feature against
support data, and scores the whole project per target.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "tool config file (default is $HOME/.canscope.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("project-config", "p", "", "project compat config file (default is ./.canscope.json)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".canscope")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in. Absence is fine; defaults apply.
	_ = viper.ReadInConfig()

	// Tool-level settings (the project compat config is separate; see pkg/config)
	viper.SetDefault("datasource.url", "")
	viper.SetDefault("cache.ttl", "1h")
	viper.SetDefault("cache.dbpath", "")
	viper.SetDefault("check.concurrency", 5)

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}
