package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/koulakhilesh/OpenEnergy/app"
	"github.com/koulakhilesh/OpenEnergy/config"
	"github.com/koulakhilesh/OpenEnergy/infra/logger"
)

var jsonOutput bool

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the configured simulation once",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	results, err := svc.Run(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	var total float64
	for _, r := range results {
		total += r.DailyPnL
		fmt.Printf("%s  pnl=%.2f\n", r.Date.Format("2006-01-02"), r.DailyPnL)
	}
	state := svc.Battery().Snapshot()
	fmt.Printf("total pnl=%.2f soc=%.3f soh=%.5f cycles=%.3f\n",
		total, state.SOC, state.SOH, state.CycleCount)
	return nil
}
