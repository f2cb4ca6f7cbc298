package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-compass/internal/observability"
	"github.com/jonathan/career-compass/internal/types"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs <role>",
	Short: "Generate job listings for a role",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runJobs,
}

func init() {
	rootCmd.AddCommand(jobsCmd)
}

func runJobs(cmd *cobra.Command, args []string) error {
	role := strings.Join(args, " ")

	ctx := commandContext(cmd)
	a, err := newApp(ctx, appConfig, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	listings, source, err := a.facade.JobListings(ctx, role)
	if err != nil {
		return fmt.Errorf("failed to list jobs: %w", err)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintJobListings(role, listings, source)
	return nil
}

func sourceOf(fallback bool) types.Source {
	if fallback {
		return types.SourceFallback
	}
	return types.SourceReal
}
