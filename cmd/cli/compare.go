package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/himanishpuri/HarmonicDNA/pkg/logger"
)

var compareLabel string

func init() {
	compareCmd.Flags().StringVar(&compareLabel, "label", "", "Piece name (defaults to the MIDI file name)")
	compareCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the comparison as JSON")
	rootCmd.AddCommand(compareCmd)
}

var compareCmd = &cobra.Command{
	Use:   "compare <file.mid> <recording>",
	Short: "Compare the symbolic and acoustic renderings of a piece",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.GetLogger()
		midiPath, audioPath := args[0], args[1]

		label := compareLabel
		if label == "" {
			label = strings.TrimSuffix(filepath.Base(midiPath), filepath.Ext(midiPath))
		}

		for _, p := range args {
			if _, err := fileSize(p); err != nil {
				return err
			}
		}

		if !jsonOutput {
			printBanner()
			fmt.Println("🔧 Initializing service...")
		}
		svc, err := createService(cmd)
		if err != nil {
			return fmt.Errorf("failed to create service: %w", err)
		}
		defer svc.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		start := time.Now()
		res, err := svc.CompareFiles(ctx, label, midiPath, audioPath)
		if err != nil {
			return err
		}
		log.Infof("Comparison of %q finished in %s", label, time.Since(start).Round(time.Millisecond))

		if jsonOutput {
			return printJSON(res)
		}
		printComparison(res)
		return nil
	},
}
