package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const codenerdVersion = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the codenerd version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("codenerd", codenerdVersion)
		return nil
	},
}
