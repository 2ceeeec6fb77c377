package subtitle

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parses clock fields captured by a format regex; frac is right-padded
// to milliseconds so "5", "50" and "500" all mean half a second
func parseClockParts(hours, minutes, seconds, frac string) (time.Duration, error) {
	h := 0
	if hours != "" {
		var err error
		h, err = strconv.Atoi(hours)
		if err != nil {
			return 0, err
		}
	}
	m, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, err
	}
	s, err := strconv.Atoi(seconds)
	if err != nil {
		return 0, err
	}
	ms, err := fractionMillis(frac)
	if err != nil {
		return 0, err
	}
	return FromClockTime(h, m, s, ms)
}

func fractionMillis(frac string) (int, error) {
	if frac == "" {
		return 0, nil
	}
	if len(frac) > 3 {
		frac = frac[:3]
	}
	frac += strings.Repeat("0", 3-len(frac))
	return strconv.Atoi(frac)
}

// splits a timestamp into clock fields, rounding half up to unit
func splitClock(d time.Duration, unit time.Duration) (h, m, s, frac int) {
	if d < 0 {
		d = 0
	}
	n := int64((d + unit/2) / unit)
	perSecond := int64(time.Second / unit)
	frac = int(n % perSecond)
	total := n / perSecond
	s = int(total % 60)
	m = int(total / 60 % 60)
	h = int(total / 3600)
	return h, m, s, frac
}

// HH:MM:SS<sep>mmm
func formatMillisClock(d time.Duration, sep string) string {
	h, m, s, ms := splitClock(d, time.Millisecond)
	return fmt.Sprintf("%02d:%02d:%02d%s%03d", h, m, s, sep, ms)
}

// HH:MM:SS.cc, or H:MM:SS.cc when short is set
func formatCentisClock(d time.Duration, short bool) string {
	h, m, s, cs := splitClock(d, 10*time.Millisecond)
	if short {
		return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
	}
	return fmt.Sprintf("%02d:%02d:%02d.%02d", h, m, s, cs)
}

// normalizes input text: drops a BOM, converts CRLF and CR to LF
func normalizeText(data []byte) string {
	text := strings.TrimPrefix(string(data), "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// splits text into blank-line separated blocks of trimmed-right lines
func splitBlocks(text string) [][]string {
	var blocks [][]string
	var current []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}
