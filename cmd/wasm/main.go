//go:build js && wasm

package main

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"syscall/js"

	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/audio"
	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/chord"
	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/graph"
	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/metrics"
	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/reciprocity"
)

// Error codes returned to JavaScript
const (
	ErrorNone = iota
	ErrorInvalidArgs
	ErrorProcessing
	ErrorChromaFailed
	ErrorGraphFailed
	ErrorMetricsFailed
)

// analyzeAudio computes the acoustic metrics record for raw samples.
// Arguments: audioArray, sampleRate, channels[, threshold[, seed]]
// Returns: {error: number, data: object | string}
func analyzeAudio(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return makeErrorResponse(ErrorInvalidArgs, "Expected 3 arguments: audioArray, sampleRate, channels")
	}

	audioDataJS := args[0]
	sampleRateJS := args[1]
	channelsJS := args[2]

	if audioDataJS.Type() != js.TypeObject {
		return makeErrorResponse(ErrorInvalidArgs, "audioArray must be an Array or Float64Array")
	}
	if sampleRateJS.Type() != js.TypeNumber {
		return makeErrorResponse(ErrorInvalidArgs, "sampleRate must be a number")
	}
	if channelsJS.Type() != js.TypeNumber {
		return makeErrorResponse(ErrorInvalidArgs, "channels must be a number")
	}

	sampleRate := sampleRateJS.Int()
	channels := channelsJS.Int()
	if sampleRate <= 0 {
		return makeErrorResponse(ErrorInvalidArgs, fmt.Sprintf("Invalid sample rate: %d", sampleRate))
	}
	if channels < 1 || channels > 2 {
		return makeErrorResponse(ErrorInvalidArgs, fmt.Sprintf("Channels must be 1 (mono) or 2 (stereo), got: %d", channels))
	}

	threshold, seed, errResp, ok := optionalArgs(args, 3)
	if !ok {
		return errResp
	}

	length := audioDataJS.Length()
	if length == 0 {
		return makeErrorResponse(ErrorInvalidArgs, "audioArray is empty")
	}

	samples := make([]float64, length)
	for i := 0; i < length; i++ {
		val := audioDataJS.Index(i)
		if val.Type() != js.TypeNumber {
			return makeErrorResponse(ErrorInvalidArgs, fmt.Sprintf("audioArray element %d is not a number", i))
		}
		samples[i] = val.Float()
	}

	if channels == 2 {
		samples = stereoToMono(samples)
	}

	chroma, err := audio.Chromagram(audio.NormalizePeak(samples), sampleRate, audio.ChromaConfig{})
	if err != nil {
		return makeErrorResponse(ErrorChromaFailed, fmt.Sprintf("Failed to compute chromagram: %v", err))
	}
	return analyzeChromaMatrix(chroma, threshold, seed)
}

// analyzeChroma computes the acoustic metrics record for a 12-row chromagram.
// Arguments: chroma (array of 12 arrays)[, threshold[, seed]]
func analyzeChroma(this js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		return makeErrorResponse(ErrorInvalidArgs, "Expected a chroma array of 12 rows")
	}
	rowsJS := args[0]
	if rowsJS.Length() != chord.PitchClassCount {
		return makeErrorResponse(ErrorInvalidArgs, fmt.Sprintf("chroma must have %d rows, got %d", chord.PitchClassCount, rowsJS.Length()))
	}

	threshold, seed, errResp, ok := optionalArgs(args, 1)
	if !ok {
		return errResp
	}

	chroma := make([][]float64, chord.PitchClassCount)
	for pc := range chroma {
		row := rowsJS.Index(pc)
		if row.Type() != js.TypeObject {
			return makeErrorResponse(ErrorInvalidArgs, fmt.Sprintf("chroma row %d is not an array", pc))
		}
		chroma[pc] = make([]float64, row.Length())
		for f := range chroma[pc] {
			val := row.Index(f)
			if val.Type() != js.TypeNumber {
				return makeErrorResponse(ErrorInvalidArgs, fmt.Sprintf("chroma[%d][%d] is not a number", pc, f))
			}
			chroma[pc][f] = val.Float()
		}
	}
	return analyzeChromaMatrix(chroma, threshold, seed)
}

func given(args []js.Value, i int) bool {
	return len(args) > i && !args[i].IsUndefined() && !args[i].IsNull()
}

// optionalArgs reads the trailing threshold and seed arguments starting at index i.
func optionalArgs(args []js.Value, i int) (float64, uint64, js.Value, bool) {
	threshold := chord.DefaultThreshold
	if given(args, i) {
		if args[i].Type() != js.TypeNumber {
			return 0, 0, makeErrorResponse(ErrorInvalidArgs, "threshold must be a number"), false
		}
		threshold = args[i].Float()
	}

	seed := rand.Uint64()
	if given(args, i+1) {
		if args[i+1].Type() != js.TypeNumber {
			return 0, 0, makeErrorResponse(ErrorInvalidArgs, "seed must be a number"), false
		}
		seed = uint64(args[i+1].Int())
	}
	return threshold, seed, js.Undefined(), true
}

func analyzeChromaMatrix(chroma [][]float64, threshold float64, seed uint64) js.Value {
	seq, err := chord.FromChroma(chroma, threshold)
	if err != nil {
		return makeErrorResponse(ErrorInvalidArgs, fmt.Sprintf("Invalid chroma: %v", err))
	}

	g, err := graph.Build(seq)
	if err != nil {
		return makeErrorResponse(ErrorGraphFailed, fmt.Sprintf("Failed to build graph: %v", err))
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	// browsers run a single thread
	rec, err := metrics.Compute(g, rng, reciprocity.WithWorkers(1))
	if err != nil {
		return makeErrorResponse(ErrorMetricsFailed, fmt.Sprintf("Failed to compute metrics: %v", err))
	}

	payload, err := json.Marshal(struct {
		*metrics.Record
		Chords int    `json:"n_chords"`
		Seed   uint64 `json:"seed"`
	}{rec, len(seq), seed})
	if err != nil {
		return makeErrorResponse(ErrorProcessing, fmt.Sprintf("Failed to encode result: %v", err))
	}

	result := js.Global().Get("Object").New()
	result.Set("error", ErrorNone)
	result.Set("data", js.Global().Get("JSON").Call("parse", string(payload)))
	return result
}

func stereoToMono(stereo []float64) []float64 {
	if len(stereo)%2 != 0 {
		stereo = stereo[:len(stereo)-1]
	}

	mono := make([]float64, len(stereo)/2)
	for i := range mono {
		mono[i] = (stereo[i*2] + stereo[i*2+1]) / 2.0
	}
	return mono
}

func makeErrorResponse(errorCode int, message string) js.Value {
	result := js.Global().Get("Object").New()
	result.Set("error", errorCode)
	result.Set("data", message)
	return result
}

func main() {
	console := js.Global().Get("console")
	if !console.IsUndefined() {
		console.Call("log", "🔧 HarmonicDNA WASM module initializing...")
	}

	done := make(chan struct{})

	js.Global().Set("analyzeAudio", js.FuncOf(analyzeAudio))
	js.Global().Set("analyzeChroma", js.FuncOf(analyzeChroma))

	if !console.IsUndefined() {
		console.Call("log", "📝 analyzeAudio and analyzeChroma registered")
	}

	window := js.Global().Get("window")
	if !window.IsUndefined() {
		eventInit := js.Global().Get("Object").New()
		event := js.Global().Get("CustomEvent").New("wasmReady", eventInit)
		window.Call("dispatchEvent", event)
	} else if !console.IsUndefined() {
		console.Call("error", "❌ window object is undefined!")
	}

	if !console.IsUndefined() {
		console.Call("log", "✅ HarmonicDNA WASM module loaded and ready")
	}

	<-done
}
