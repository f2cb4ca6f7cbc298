package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-compass/internal/observability"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the dashboard summary and recommended careers",
	RunE:  runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	a, err := newApp(ctx, appConfig, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	bundle, err := a.facade.DashboardBundle(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to load dashboard: %w", err)
	}

	p := observability.NewPrinter(cmd.OutOrStdout())
	source := sourceOf(bundle.SummaryFallback)
	p.PrintDashboard(&bundle.Summary, source)
	p.PrintRecommendations(bundle.Careers)
	return nil
}
