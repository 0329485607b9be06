package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/songpengyi/enertalk-alwayson-calculator/app"
	"github.com/songpengyi/enertalk-alwayson-calculator/config"
	"github.com/songpengyi/enertalk-alwayson-calculator/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "alwayson",
	Short:         "Always-on baseline load calculator",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json); environment only when empty")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadService(mutate func(*config.Config)) (*app.Service, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if mutate != nil {
		mutate(cfg)
	}
	return app.New(cfg)
}

func closeService(svc *app.Service) {
	if err := svc.Close(); err != nil {
		logger.New("main").Errorf("service close: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
