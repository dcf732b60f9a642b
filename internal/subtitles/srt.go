package subtitles

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"murmur/internal/fileutil"
)

// Segment is one timed span of recognized speech.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// timestampEpsilon absorbs binary float error so that 59.999 yields 999
// milliseconds instead of 998. It only touches the fractional part, so it can
// never carry into the seconds field.
const timestampEpsilon = 1e-6

// FormatTimestamp renders seconds as HH:MM:SS,mmm. Sub-millisecond precision
// is truncated, never rounded. Negative and non-finite inputs are not guarded.
func FormatTimestamp(seconds float64) string {
	whole := math.Floor(seconds)
	millis := min(int64((seconds-whole)*1000+timestampEpsilon), 999)
	total := int64(whole)
	secs := total % 60
	minutes := (total / 60) % 60
	hours := total / 3600
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// ParseTimestamp converts an SRT timestamp back into seconds. Both "," and "."
// are accepted before the millisecond field.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	secs, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+secs) + float64(millis)/1000, nil
}

// Encode writes segments as numbered SRT cues in the order given. Cue text is
// trimmed of surrounding whitespace.
func Encode(w io.Writer, segments []Segment) error {
	for i, seg := range segments {
		if _, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n",
			i+1,
			FormatTimestamp(seg.Start),
			FormatTimestamp(seg.End),
			strings.TrimSpace(seg.Text),
		); err != nil {
			return fmt.Errorf("write cue %d: %w", i+1, err)
		}
	}
	return nil
}

// WriteFile creates or replaces path with the SRT rendering of segments.
func WriteFile(path string, segments []Segment) error {
	if err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Encode(w, segments)
	}); err != nil {
		return fmt.Errorf("write srt %s: %w", path, err)
	}
	return nil
}
