package main

import (
	"fmt"

	"github.com/quentel/fitflow"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of fitflow",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fitflow version %s\n", fitflow.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
