package subtitle

import (
	"fmt"
	"regexp"
	"strings"
)

// SubViewer 2.0 format
type SubViewer struct{}

var (
	subViewerTimingRegex = regexp.MustCompile(
		`^(\d{1,2}):(\d{2}):(\d{2})\.(\d{1,3})\s*,\s*(\d{1,2}):(\d{2}):(\d{2})\.(\d{1,3})$`,
	)
	subViewerBreakRegex = regexp.MustCompile(`(?i)\[br\]`)
)

const subViewerHeader = `[INFORMATION]
[TITLE]
[AUTHOR]
[SOURCE]
[PRG]
[FILEPATH]
[DELAY]0
[CD TRACK]0
[COMMENT]
[END INFORMATION]
[SUBTITLE]
[COLF]&HFFFFFF,[STYLE]no,[SIZE]18,[FONT]Arial
`

// parses SubViewer; header lines in brackets are skipped, fractions
// are centiseconds (dot separator only) and [br] separates lines
func (p *SubViewer) Parse(data []byte) (*Track, error) {
	track := &Track{}
	recognized := false

	for _, block := range splitBlocks(normalizeText(data)) {
		for i := 0; i < len(block); i++ {
			m := subViewerTimingRegex.FindStringSubmatch(strings.TrimSpace(block[i]))
			if m == nil {
				continue
			}
			recognized = true

			j := i + 1
			for j < len(block) && !subViewerTimingRegex.MatchString(strings.TrimSpace(block[j])) {
				j++
			}
			if cue, ok := parseSubViewerEntry(m, block[i+1:j]); ok {
				track.add(cue)
			}
			i = j - 1
		}
	}

	if !recognized {
		return nil, ErrUnrecognized
	}
	return track.result()
}

func parseSubViewerEntry(m []string, text []string) (Cue, bool) {
	start, err := parseClockParts(m[1], m[2], m[3], m[4])
	if err != nil {
		return Cue{}, false
	}
	end, err := parseClockParts(m[5], m[6], m[7], m[8])
	if err != nil {
		return Cue{}, false
	}

	var lines []Line
	for _, raw := range text {
		for _, part := range subViewerBreakRegex.Split(raw, -1) {
			if part = strings.TrimSpace(part); part != "" {
				lines = append(lines, PlainLine(part))
			}
		}
	}
	if len(lines) == 0 {
		return Cue{}, false
	}

	cue, err := NewCue(start, end, lines)
	if err != nil {
		return Cue{}, false
	}
	return cue, true
}

func (w *SubViewer) Serialize(track *Track) string {
	if track.Len() == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(subViewerHeader)
	for _, cue := range track.Cues {
		texts := make([]string, len(cue.Lines))
		for i, line := range cue.Lines {
			texts[i] = subViewerBreakRegex.ReplaceAllString(line.Text(), "[ br ]")
		}
		sb.WriteString(fmt.Sprintf("%s,%s\n%s\n\n",
			formatCentisClock(cue.Start, false),
			formatCentisClock(cue.End, false),
			strings.Join(texts, "[br]")))
	}
	return sb.String()
}

func (w *SubViewer) Extension() string {
	return ".sub"
}
