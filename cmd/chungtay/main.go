package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chungtay",
	Short: "ChungTay — community donation platform",
	Long:  "ChungTay is a community donation platform: fundraising cases, supports, and moderation over a REST and websocket API.",
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(dbIndexCmd)
	rootCmd.AddCommand(dbSeedCmd)
}
