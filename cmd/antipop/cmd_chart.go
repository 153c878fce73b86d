package main

import (
	"fmt"

	"antipop/internal/chart"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	chartTicks      int
	chartPowerOnAt  int
	chartPowerOffAt int
	chartOut        string
)

// chartCmd simulates and exports the SDZ history chart
var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Simulate the circuit and export the SDZ voltage chart",
	Long: `Runs the circuit headless and writes the voltage history as an image.
The format follows the file extension: .png, .svg or .pdf.

Example:
  antipop chart --ticks 120 --out startup.svg`,
	Args: cobra.NoArgs,
	RunE: runChart,
}

func init() {
	chartCmd.Flags().IntVar(&chartTicks, "ticks", 120, "Number of ticks to simulate")
	chartCmd.Flags().IntVar(&chartPowerOnAt, "power-on-at", 0, "Tick at which power is switched on (-1 never)")
	chartCmd.Flags().IntVar(&chartPowerOffAt, "power-off-at", -1, "Tick at which power is switched off (-1 never)")
	chartCmd.Flags().StringVarP(&chartOut, "out", "o", "sdz.png", "Output file (.png, .svg, .pdf)")
}

func runChart(cmd *cobra.Command, args []string) error {
	if _, err := chart.FormatFromPath(chartOut); err != nil {
		return err
	}
	sess, err := newSession(cfg)
	if err != nil {
		return err
	}
	final := simulate(sess, powerSchedule{Ticks: chartTicks, PowerOnAt: chartPowerOnAt, PowerOffAt: chartPowerOffAt}, nil)

	opts := chart.DefaultOptions()
	opts.Threshold = final.Params.MuteThreshold
	if err := chart.Save(final.Samples, opts, chartOut); err != nil {
		return err
	}
	logger.Info("Chart exported", zap.String("path", chartOut), zap.Int("samples", len(final.Samples)))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d samples to %s\n", len(final.Samples), chartOut)
	return nil
}
