package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna"
	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/metrics"
	"github.com/himanishpuri/HarmonicDNA/pkg/models"
)

// fileSize checks that path is a regular file and returns its size for display.
func fileSize(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("cannot open %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	return humanize.Bytes(uint64(info.Size())), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatVector(vec []float64) string {
	parts := make([]string, len(vec))
	for i, v := range vec {
		parts[i] = fmt.Sprintf("%.3f", v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func printRecord(title string, rec *metrics.Record) {
	printSnapshot(title, harmonicdna.Snapshot("", -1, rec))
}

func printSnapshot(title string, s models.MetricsSnapshot) {
	fmt.Printf("\n🎵 %s\n", title)
	if s.Chords >= 0 {
		fmt.Printf("   Chords:          %s\n", humanize.Comma(int64(s.Chords)))
	}
	fmt.Printf("   Nodes / Edges:   %s / %s\n", humanize.Comma(int64(s.Nodes)), humanize.Comma(int64(s.Edges)))
	fmt.Printf("   Density:         %.4f\n", s.Density)
	fmt.Printf("   Reciprocity:     real=%.4f null=%.4f rho=%.4f\n", s.RReal, s.RNull, s.RhoNorm)
	fmt.Printf("   Mean entropy:    %.4f\n", s.MeanEntropy)
	fmt.Printf("   Efficiency:      unweighted=%.4f weighted=%.4f\n", s.EffUnweighted, s.EffWeighted)
	fmt.Printf("   Interval vector: %s\n", formatVector(s.IntervalVec))
}

func printComparison(res *harmonicdna.ComparisonResult) {
	run := res.Run("", "")
	fmt.Printf("\n✅ Compared %q (seed %d)\n", res.Label, res.Seed)
	printSnapshot("Symbolic (MIDI)", run.Symbolic)
	printSnapshot("Acoustic (audio)", run.Acoustic)
	fmt.Printf("\n📐 Interval cosine similarity: %.4f\n", res.Cosine)
	if res.RunID != "" {
		fmt.Printf("💾 Stored as run %s\n", res.RunID)
	}
}

func printRun(run *models.Run) {
	fmt.Printf("\n📄 Run %s\n", run.ID)
	fmt.Printf("   Label:   %s\n", run.Label)
	fmt.Printf("   Files:   %s / %s\n", run.MIDIFile, run.AudioFile)
	fmt.Printf("   Seed:    %d\n", run.Seed)
	fmt.Printf("   Created: %s (%s)\n", run.CreatedAt.Format("2006-01-02 15:04:05"), humanize.Time(run.CreatedAt))
	printSnapshot("Symbolic (MIDI)", run.Symbolic)
	printSnapshot("Acoustic (audio)", run.Acoustic)
	fmt.Printf("\n📐 Interval cosine similarity: %.4f\n", run.Cosine)
}
