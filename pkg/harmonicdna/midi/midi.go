// Package midi reads Standard MIDI Files into symbolic notes.
package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/himanishpuri/HarmonicDNA/pkg/harmonicdna/chord"
)

// DrumChannel is the zero-based General MIDI percussion channel (channel 10).
const DrumChannel = 9

// ErrParse is wrapped when a file cannot be decoded as SMF.
var ErrParse = errors.New("midi: cannot parse file")

// ReadNotes loads the file at path and returns its note starts.
func ReadNotes(path string) ([]chord.Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read midi file: %w", err)
	}
	return ReadNotesFrom(bytes.NewReader(data))
}

// ReadNotesFrom decodes an SMF stream. Each note-on with a non-zero velocity becomes a
// Note; onsets are absolute seconds under the file's tempo map. Notes are tagged with
// the part "track<i>/ch<c>" and flagged as drums on DrumChannel.
func ReadNotesFrom(r io.Reader) (notes []chord.Note, err error) {
	// the smf reader can panic on truncated input
	defer func() {
		if rec := recover(); rec != nil {
			notes = nil
			err = fmt.Errorf("%w: %v", ErrParse, rec)
		}
	}()

	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	notes = make([]chord.Note, 0)
	for i, track := range s.Tracks {
		var absTicks int64
		for _, ev := range track {
			absTicks += int64(ev.Delta)

			var ch, key, vel uint8
			if !gomidi.Message(ev.Message).GetNoteStart(&ch, &key, &vel) {
				continue
			}
			notes = append(notes, chord.Note{
				Onset: float64(s.TimeAt(absTicks)) / 1e6,
				Pitch: int(key),
				Part:  fmt.Sprintf("track%d/ch%d", i, ch),
				Drum:  ch == DrumChannel,
			})
		}
	}
	return notes, nil
}
