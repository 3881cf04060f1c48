package main

import (
	"context"
	"fmt"
	"io"

	"upbit-trade-dashboard/internal/analytics"
	"upbit-trade-dashboard/internal/config"
	"upbit-trade-dashboard/internal/database"
	"upbit-trade-dashboard/internal/logger"
	"upbit-trade-dashboard/internal/render"
	"upbit-trade-dashboard/internal/upbit"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type reportOptions struct {
	configPath   string
	coin         string
	reflectionID uint
	livePrices   bool
}

func newRootCmd() *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:           "report",
		Short:         "Print the trading dashboard to the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "./configs", "directory holding config.yml")
	cmd.Flags().StringVar(&opts.coin, "coin", string(analytics.ViewBoth), "view to show: Both, BTC or ETH")
	cmd.Flags().UintVar(&opts.reflectionID, "reflection", 0, "show the details of the reflection with this id")
	cmd.Flags().BoolVar(&opts.livePrices, "live", false, "value holdings at live Upbit prices")

	return cmd
}

func runReport(ctx context.Context, out io.Writer, opts *reportOptions) error {
	view, err := analytics.ParseView(opts.coin)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}

	log, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("could not initialize logger: %w", err)
	}
	defer log.Sync()

	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		return err
	}
	store := database.NewTradeStore(db)
	defer store.Close()

	var prices analytics.PriceSource
	if opts.livePrices || cfg.Upbit.Enabled {
		prices = upbit.NewRestClient(&cfg.Upbit, log)
	}

	engine := analytics.NewEngine(log, &cfg.Dashboard, store, prices, nil)
	dash, err := engine.Build(ctx, view)
	if err != nil {
		log.Error("Failed to build dashboard", zap.Error(err))
		return err
	}

	return writeReport(out, dash, cfg.Dashboard.TimeFormat, opts.reflectionID)
}

func writeReport(out io.Writer, dash *analytics.Dashboard, timeFormat string, reflectionID uint) error {
	if reflectionID == 0 {
		_, err := io.WriteString(out, render.Report(dash, timeFormat))
		return err
	}

	entry, ok := analytics.SelectReflection(dash.Reflections, reflectionID)
	if !ok {
		return fmt.Errorf("no reflection with id %d in view %s", reflectionID, dash.View)
	}
	_, err := fmt.Fprintln(out, render.ReflectionDetail(entry))
	return err
}
