package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna"
	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/metrics"
	"github.com/himanishpuri/HarmonicDNA/pkg/logger"
)

var jsonOutput bool

func init() {
	analyzeCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print the record as JSON")
	analyzeCmd.AddCommand(analyzeMIDICmd, analyzeAudioCmd)
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a single MIDI file or recording",
}

var analyzeMIDICmd = &cobra.Command{
	Use:   "midi <file.mid>",
	Short: "Build and measure the symbolic transition graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd, args[0], func(ctx context.Context, svc harmonicdna.Service, path string) (*metrics.Record, error) {
			return svc.AnalyzeMIDI(ctx, path)
		})
	},
}

var analyzeAudioCmd = &cobra.Command{
	Use:   "audio <file>",
	Short: "Build and measure the acoustic transition graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd, args[0], func(ctx context.Context, svc harmonicdna.Service, path string) (*metrics.Record, error) {
			return svc.AnalyzeAudio(ctx, path)
		})
	},
}

type analyzeFunc func(ctx context.Context, svc harmonicdna.Service, path string) (*metrics.Record, error)

func runAnalyze(cmd *cobra.Command, path string, analyze analyzeFunc) error {
	log := logger.GetLogger()
	if !jsonOutput {
		printBanner()
	}

	size, err := fileSize(path)
	if err != nil {
		return err
	}

	// single analyses are never stored
	noStore = true
	svc, err := createService(cmd)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer svc.Close()

	if !jsonOutput {
		fmt.Printf("🔍 Analyzing %s (%s)...\n", path, size)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	rec, err := analyze(ctx, svc, path)
	if err != nil {
		return err
	}
	log.Infof("Analysis complete: %d nodes, %d edges", rec.Nodes, rec.Edges)

	if jsonOutput {
		return printJSON(rec)
	}
	printRecord("Metrics", rec)
	return nil
}
