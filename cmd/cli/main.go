package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna"
	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/chord"
	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/reciprocity"
	"github.com/himanishpuri/HarmonicDNA/pkg/logger"
)

// Global flags
var (
	dbPath       string
	tempDir      string
	sampleRate   int
	tolerance    float64
	threshold    float64
	nullTrials   int
	workers      int
	seed         uint64
	pitchClasses bool
	noStore      bool
)

var rootCmd = &cobra.Command{
	Use:           "harmonicdna",
	Short:         "Harmonic transition graphs for MIDI and audio",
	Long:          "HarmonicDNA builds pitch transition graphs from MIDI files and recordings and compares their structure.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// flags win over the environment
		if !cmd.Flags().Changed("db") {
			dbPath = getEnvOrDefault("HARMONIC_DB_PATH", dbPath)
		}
		if !cmd.Flags().Changed("temp") {
			tempDir = getEnvOrDefault("HARMONIC_TEMP_DIR", tempDir)
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dbPath, "db", "harmonicdna.sqlite3", "Path to the SQLite database file (env: HARMONIC_DB_PATH)")
	pf.StringVar(&tempDir, "temp", os.TempDir(), "Directory for temporary audio conversion files (env: HARMONIC_TEMP_DIR)")
	pf.IntVar(&sampleRate, "rate", 22050, "Audio sample rate for processing")
	pf.Float64Var(&tolerance, "tolerance", chord.DefaultTolerance, "Onset tolerance in seconds for symbolic chords")
	pf.Float64Var(&threshold, "threshold", chord.DefaultThreshold, "Relative chroma activation threshold")
	pf.IntVar(&nullTrials, "trials", reciprocity.DefaultTrials, "Number of null-model samples")
	pf.IntVar(&workers, "workers", 0, "Parallel null-model workers (0 = number of CPUs)")
	pf.Uint64Var(&seed, "seed", 0, "Null-model seed (random when unset)")
	pf.BoolVar(&pitchClasses, "pitch-classes", false, "Fold MIDI pitches onto pitch classes")
	pf.BoolVar(&noStore, "no-store", false, "Do not persist comparison runs")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// createService creates a new HarmonicDNA service with configured options
func createService(cmd *cobra.Command) (harmonicdna.Service, error) {
	opts := []harmonicdna.Option{
		harmonicdna.WithDBPath(dbPath),
		harmonicdna.WithTempDir(tempDir),
		harmonicdna.WithSampleRate(sampleRate),
		harmonicdna.WithTolerance(tolerance),
		harmonicdna.WithThreshold(threshold),
		harmonicdna.WithNullTrials(nullTrials),
		harmonicdna.WithPitchClasses(pitchClasses),
	}
	if workers > 0 {
		opts = append(opts, harmonicdna.WithWorkers(workers))
	}
	if cmd.Flags().Changed("seed") {
		opts = append(opts, harmonicdna.WithSeed(seed))
	}
	if noStore {
		opts = append(opts, harmonicdna.WithoutStorage())
	}
	return harmonicdna.NewService(opts...)
}

func main() {
	log := logger.GetLogger()

	if err := godotenv.Load(); err != nil {
		log.Debugf("No .env file found, using environment variables")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("❌ %v\n", err)
		log.Errorf("Command failed: %v", err)
		os.Exit(1)
	}
}

func printBanner() {
	banner := `
 _   _                                  _      ____  _   _    _
| | | | __ _ _ __ _ __ ___   ___  _ __ (_) ___|  _ \| \ | |  / \
| |_| |/ _' | '__| '_ ' _ \ / _ \| '_ \| |/ __| | | |  \| | / _ \
|  _  | (_| | |  | | | | | | (_) | | | | | (__| |_| | |\  |/ ___ \
|_| |_|\__,_|_|  |_| |_| |_|\___/|_| |_|_|\___|____/|_| \_/_/   \_\

           Harmonic Transition Graph CLI
`
	fmt.Println(banner)
}
