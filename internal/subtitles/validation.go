package subtitles

import (
	"fmt"
	"math"
	"os"
	"strings"
)

const durationToleranceSeconds = 10.0

// Validate reports ordering problems in segments without altering them.
// An empty result means the segments are monotonic and non-overlapping.
func Validate(segments []Segment) []string {
	var issues []string
	for i, seg := range segments {
		if seg.End < seg.Start {
			issues = append(issues, fmt.Sprintf("end_before_start: cue=%d start=%s end=%s",
				i+1, FormatTimestamp(seg.Start), FormatTimestamp(seg.End)))
		}
		if i == 0 {
			continue
		}
		prev := segments[i-1]
		if seg.Start < prev.Start {
			issues = append(issues, fmt.Sprintf("non_monotonic_start: cue=%d start=%s previous=%s",
				i+1, FormatTimestamp(seg.Start), FormatTimestamp(prev.Start)))
		} else if seg.Start < prev.End {
			issues = append(issues, fmt.Sprintf("overlap: cue=%d start=%s previous_end=%s",
				i+1, FormatTimestamp(seg.Start), FormatTimestamp(prev.End)))
		}
	}
	return issues
}

// ValidateFile checks a written SRT file for format issues. When
// audioSeconds is positive the last cue is also compared against the audio
// length. An empty result means validation passed.
func ValidateFile(path string, audioSeconds float64) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("read_error: %v", err)}
	}

	if countCues(string(data)) == 0 {
		return []string{"empty_subtitle_file"}
	}

	var issues []string
	first, last, found := cueBounds(string(data))
	if !found {
		issues = append(issues, "no_valid_timestamps")
		return issues
	}
	if last < first {
		issues = append(issues, "timestamp_range_inverted")
	}

	// Trailing silence is normal; only cues running past the audio are suspect.
	if audioSeconds > 0 && last-audioSeconds > durationToleranceSeconds {
		issues = append(issues, fmt.Sprintf("duration_mismatch: delta=%.1fs", audioSeconds-last))
	}
	return issues
}

func countCues(content string) int {
	content = strings.TrimSpace(strings.ReplaceAll(content, "\r\n", "\n"))
	if content == "" {
		return 0
	}
	count := 0
	for _, block := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	return count
}

func cueBounds(content string) (float64, float64, bool) {
	first := math.Inf(1)
	var last float64
	found := false
	for _, line := range strings.Split(content, "\n") {
		if !strings.Contains(line, "-->") {
			continue
		}
		parts := strings.Split(line, "-->")
		if len(parts) != 2 {
			continue
		}
		if start, err := ParseTimestamp(parts[0]); err == nil {
			if start < first {
				first = start
			}
			found = true
		}
		if end, err := ParseTimestamp(parts[1]); err == nil && end > last {
			last = end
		}
	}
	if !found {
		return 0, last, false
	}
	return first, last, true
}
