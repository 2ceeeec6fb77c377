package subtitle

import (
	"fmt"
	"regexp"
	"strings"
)

// SubRip format
type SRT struct{}

var (
	srtTimingRegex = regexp.MustCompile(
		`^\s*(\d+):(\d{1,2}):(\d{1,2})[,.](\d{1,3})\s*-->\s*(\d+):(\d{1,2}):(\d{1,2})[,.](\d{1,3})`,
	)
	assOverrideRegex = regexp.MustCompile(`\{\\[^}]*\}`)
	srtMarkup        = markupMode{newlineBreaks: true}
)

// parses blank-line separated SubRip blocks; comma and dot are both
// accepted as the millisecond separator
func (p *SRT) Parse(data []byte) (*Track, error) {
	track := &Track{}
	for _, block := range splitBlocks(normalizeText(data)) {
		if cue, ok := parseSRTBlock(block); ok {
			track.add(cue)
		}
	}
	return track.result()
}

func parseSRTBlock(lines []string) (Cue, bool) {
	timing := 0
	if !srtTimingRegex.MatchString(lines[0]) {
		// leading index line; its value is not authoritative
		timing = 1
	}
	if timing >= len(lines) {
		return Cue{}, false
	}

	m := srtTimingRegex.FindStringSubmatch(lines[timing])
	if m == nil {
		return Cue{}, false
	}
	start, err := parseClockParts(m[1], m[2], m[3], m[4])
	if err != nil {
		return Cue{}, false
	}
	end, err := parseClockParts(m[5], m[6], m[7], m[8])
	if err != nil {
		return Cue{}, false
	}

	text := strings.Join(lines[timing+1:], "\n")
	text = assOverrideRegex.ReplaceAllString(text, "")
	textLines := parseMarkup(text, srtMarkup)
	if len(textLines) == 0 {
		return Cue{}, false
	}

	cue, err := NewCue(start, end, textLines)
	if err != nil {
		return Cue{}, false
	}
	return cue, true
}

func (w *SRT) Serialize(track *Track) string {
	if track.Len() == 0 {
		return ""
	}

	var sb strings.Builder
	for i, cue := range track.Cues {
		// index (1-based)
		sb.WriteString(fmt.Sprintf("%d\n", i+1))

		// timestamps: 00:00:00,000 --> 00:00:00,000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatMillisClock(cue.Start, ","),
			formatMillisClock(cue.End, ",")))

		for _, line := range cue.Lines {
			sb.WriteString(renderHTMLLine(line, false))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (w *SRT) Extension() string {
	return ".srt"
}
