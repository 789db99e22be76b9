package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/himanishpuri/HarmonicDNA/pkg/utils"
)

type ConvertWAVConfig struct {
	SampleRate int
}

// ConvertToMonoWAV runs ffmpeg to produce a 16-bit mono WAV of inputPath in outputDir.
func ConvertToMonoWAV(
	ctx context.Context,
	inputPath string,
	outputDir string,
	cfg ConvertWAVConfig,
) (string, error) {

	if cfg.SampleRate == 0 {
		cfg.SampleRate = 22050
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	if err := utils.MakeDir(outputDir); err != nil {
		return "", err
	}

	baseName := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outputPath := filepath.Join(outputDir, baseName+".wav")

	tmpPath := outputPath + ".tmp.wav"
	defer os.Remove(tmpPath)

	cmd := exec.CommandContext(
		ctx,
		"ffmpeg",
		"-y",
		"-v", "quiet",
		"-i", inputPath,
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", cfg.SampleRate),
		"-c:a", "pcm_s16le",
		tmpPath,
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("ffmpeg failed: %v (%s)", err, out)
	}

	if err := utils.MoveFile(tmpPath, outputPath); err != nil {
		return "", err
	}

	return outputPath, nil
}

// LoadConfig tells Load where to put converted files and what rate to ask ffmpeg for.
type LoadConfig struct {
	TempDir    string
	SampleRate int
}

// Load returns peak-normalized mono samples for path. WAV files are decoded directly,
// anything else goes through ConvertToMonoWAV first and the converted copy is removed.
func Load(ctx context.Context, path string, cfg LoadConfig) ([]float64, int, error) {
	wavPath := path
	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		converted, err := ConvertToMonoWAV(ctx, path, cfg.TempDir, ConvertWAVConfig{SampleRate: cfg.SampleRate})
		if err != nil {
			return nil, 0, fmt.Errorf("failed to convert %s: %w", filepath.Base(path), err)
		}
		defer utils.DeleteFile(converted)
		wavPath = converted
	}

	samples, sampleRate, err := ReadWavAsFloat64(wavPath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read wav: %w", err)
	}
	return NormalizePeak(samples), sampleRate, nil
}
