//go:build !js && !wasm

package main

import (
	"flag"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna"
	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/reciprocity"
)

var (
	port           int
	dbPath         string
	tempDir        string
	sampleRate     int
	nullTrials     int
	allowedOrigins string
)

func init() {
	flag.IntVar(&port, "port", 0, "HTTP server port (env: PORT, default 8080)")
	flag.StringVar(&dbPath, "db", "", "Path to SQLite database (env: HARMONIC_DB_PATH)")
	flag.StringVar(&tempDir, "temp", "", "Temporary directory for uploads (env: HARMONIC_TEMP_DIR)")
	flag.IntVar(&sampleRate, "rate", 22050, "Audio sample rate")
	flag.IntVar(&nullTrials, "trials", reciprocity.DefaultTrials, "Number of null-model samples")
	flag.StringVar(&allowedOrigins, "origins", "*", "Comma-separated list of allowed CORS origins (use * for all)")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseOrigins(raw string) []string {
	if raw == "*" {
		return []string{"*"}
	}
	origins := strings.Split(raw, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	flag.Parse()

	// environment fills whatever was not given on the command line
	if port == 0 {
		p, err := strconv.Atoi(getEnvOrDefault("PORT", "8080"))
		if err != nil {
			log.Fatalf("Invalid PORT: %v", err)
		}
		port = p
	}
	if dbPath == "" {
		dbPath = getEnvOrDefault("HARMONIC_DB_PATH", "harmonicdna.sqlite3")
	}
	if tempDir == "" {
		tempDir = getEnvOrDefault("HARMONIC_TEMP_DIR", os.TempDir())
	}

	service, err := harmonicdna.NewService(
		harmonicdna.WithDBPath(dbPath),
		harmonicdna.WithTempDir(tempDir),
		harmonicdna.WithSampleRate(sampleRate),
		harmonicdna.WithNullTrials(nullTrials),
	)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}
	defer service.Close()

	config := &ServerConfig{
		Port:           port,
		DBPath:         dbPath,
		TempDir:        tempDir,
		SampleRate:     sampleRate,
		AllowedOrigins: parseOrigins(allowedOrigins),
	}

	server := NewServer(service, config)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
