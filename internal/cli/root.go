// Package cli defines the jobmatch command tree.
package cli

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const app = "jobmatch"

var rootCmd = &cobra.Command{
	Use:   app,
	Short: "jobmatch aggregates remote job postings and ranks them against your skills",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		log.Fatalf("binding debug flag: %v", err)
	}
	if err := viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json")); err != nil {
		log.Fatalf("binding json flag: %v", err)
	}
}
