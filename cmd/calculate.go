package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/songpengyi/enertalk-alwayson-calculator/config"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/baseline"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/factory"
	"github.com/songpengyi/enertalk-alwayson-calculator/pkg/export"
)

var (
	siteHash    string
	baseTimeArg string
	fixturePath string
	textOutput  bool
	format      string
)

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate the always-on baseline of one site",
	RunE:  calculate,
}

func init() {
	calculateCmd.Flags().StringVar(&siteHash, "site", "", "site hash")
	calculateCmd.Flags().StringVar(&baseTimeArg, "base-time", "", "base time, RFC3339 or epoch milliseconds (default now)")
	calculateCmd.Flags().StringVar(&fixturePath, "fixture", "", "read usages from a JSON or YAML fixture instead of the configured provider")
	calculateCmd.Flags().BoolVar(&textOutput, "text", false, "print only the baseline value (same as --format text)")
	calculateCmd.Flags().StringVar(&format, "format", export.FormatJSON, "output format: json, csv (retained samples) or text")
	_ = calculateCmd.MarkFlagRequired("site")
	rootCmd.AddCommand(calculateCmd)
}

func calculate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	var base *time.Time
	if baseTimeArg != "" {
		t, err := parseBaseTime(baseTimeArg)
		if err != nil {
			return fmt.Errorf("%w: --base-time: %w", baseline.ErrValidation, err)
		}
		base = &t
	}
	svc, err := loadService(func(cfg *config.Config) {
		if fixturePath != "" {
			cfg.Provider = factory.ModuleConfig{Type: "static", Conf: map[string]any{"path": fixturePath}}
		}
	})
	if err != nil {
		return err
	}
	defer closeService(svc)

	res, err := svc.Calculate(ctx, siteHash, base)
	if err != nil {
		return err
	}
	if textOutput {
		format = export.FormatText
	}
	return export.Write(cmd.OutOrStdout(), format, res)
}

func parseBaseTime(v string) (time.Time, error) {
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}
	return time.Parse(time.RFC3339, v)
}
