package cmd

import (
	"github.com/spf13/cobra"

	"csvscope/internal"
	"csvscope/internal/config"
	"csvscope/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the csvscope web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger := internal.NewDefaultLogger()
		server, err := ui.NewServer(cfg, logger)
		if err != nil {
			return err
		}
		return server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
