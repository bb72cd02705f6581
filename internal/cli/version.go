package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the jobmatch version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(app, version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
