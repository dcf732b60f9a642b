package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"
)

// ErrNoDuration is returned when a file was readable but reported no length.
var ErrNoDuration = errors.New("media duration unavailable")

// Duration reports the playback length of the audio file at path. WAV files
// are decoded directly; other formats are handed to ffprobeBinary.
func Duration(ctx context.Context, ffprobeBinary, path string) (time.Duration, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		d, err := wavDuration(path)
		if err == nil {
			return d, nil
		}
		// Some .wav files carry codecs go-audio cannot read.
		if !errors.Is(err, errInvalidWAV) {
			return 0, err
		}
	}

	result, err := Probe(ctx, ffprobeBinary, path)
	if err != nil {
		return 0, err
	}
	seconds := result.DurationSeconds()
	if seconds <= 0 {
		return 0, ErrNoDuration
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

var errInvalidWAV = errors.New("invalid wav file")

func wavDuration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return 0, errInvalidWAV
	}
	if err := decoder.FwdToPCM(); err != nil {
		return 0, fmt.Errorf("%w: %w", errInvalidWAV, err)
	}
	bytesPerSecond := int64(decoder.SampleRate) * int64(decoder.NumChans) * int64(decoder.BitDepth) / 8
	if bytesPerSecond <= 0 || decoder.PCMLen() <= 0 {
		return 0, ErrNoDuration
	}
	return time.Duration(float64(decoder.PCMLen()) / float64(bytesPerSecond) * float64(time.Second)), nil
}
