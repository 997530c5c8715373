package main

import (
	"github.com/spf13/cobra"

	"chungtay/internal/server"
)

// chungtay serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and websocket server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start()
	},
}
