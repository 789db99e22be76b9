package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/himanishpuri/HarmonicDNA/pkg/logger"
)

func init() {
	runsCmd.AddCommand(runsListCmd, runsShowCmd, runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect stored comparison runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.GetLogger()
		svc, err := createService(cmd)
		if err != nil {
			return fmt.Errorf("failed to create service: %w", err)
		}
		defer svc.Close()

		runs, err := svc.ListRuns()
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("\n📭 No runs in database")
			return nil
		}

		fmt.Printf("\n📚 Found %s run(s):\n\n", humanize.Comma(int64(len(runs))))
		for i, r := range runs {
			fmt.Printf("%d. %s (ID: %s)\n", i+1, r.Label, r.ID)
			fmt.Printf("   Cosine: %.4f | %s\n\n", r.Cosine, humanize.Time(r.CreatedAt))
		}
		log.Infof("Listed %d runs", len(runs))
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run_id>",
	Short: "Show one stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := createService(cmd)
		if err != nil {
			return fmt.Errorf("failed to create service: %w", err)
		}
		defer svc.Close()

		run, err := svc.GetRun(args[0])
		if err != nil {
			return err
		}
		printRun(run)
		return nil
	},
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run_id>",
	Short: "Delete a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.GetLogger()
		svc, err := createService(cmd)
		if err != nil {
			return fmt.Errorf("failed to create service: %w", err)
		}
		defer svc.Close()

		run, err := svc.GetRun(args[0])
		if err != nil {
			return err
		}
		if err := svc.DeleteRun(run.ID); err != nil {
			return fmt.Errorf("failed to delete run: %w", err)
		}

		fmt.Printf("\n✅ Successfully deleted run:\n")
		fmt.Printf("   ID:    %s\n", run.ID)
		fmt.Printf("   Label: %s\n", run.Label)
		log.Infof("Deleted run ID=%s (%q)", run.ID, run.Label)
		return nil
	},
}
