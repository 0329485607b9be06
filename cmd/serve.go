package cmd

import (
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the baseline API and metrics",
	RunE:  serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	svc, err := loadService(nil)
	if err != nil {
		return err
	}
	defer closeService(svc)
	return svc.Run(ctx)
}
