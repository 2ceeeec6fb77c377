package subtitle

import (
	"regexp"
	"strings"
)

// WebVTT format, parse only
type VTT struct{}

var (
	vttTimingRegex = regexp.MustCompile(
		`^\s*(?:(\d+):)?(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(?:(\d+):)?(\d{2}):(\d{2})\.(\d{3})`,
	)
	vttMarkup = markupMode{decodeEntities: true, newlineBreaks: true}
)

// parses WebVTT; a WEBVTT header is mandatory and only the dot
// millisecond separator is accepted. Cue settings are ignored.
func (p *VTT) Parse(data []byte) (*Track, error) {
	text := normalizeText(data)
	if !hasVTTHeader(text) {
		return nil, ErrUnrecognized
	}

	blocks := splitBlocks(text)
	track := &Track{}
	// first block is the header
	for _, block := range blocks[1:] {
		head := strings.TrimSpace(block[0])
		if strings.HasPrefix(head, "NOTE") ||
			strings.HasPrefix(head, "STYLE") ||
			strings.HasPrefix(head, "REGION") {
			continue
		}
		if cue, ok := parseVTTBlock(block); ok {
			track.add(cue)
		}
	}
	return track.result()
}

// WEBVTT must stand alone or be followed by a space or tab
func hasVTTHeader(text string) bool {
	rest, ok := strings.CutPrefix(strings.TrimLeft(text, " \t\n"), "WEBVTT")
	if !ok {
		return false
	}
	return rest == "" || rest[0] == '\n' || rest[0] == ' ' || rest[0] == '\t'
}

func parseVTTBlock(lines []string) (Cue, bool) {
	timing := -1
	for i := 0; i < len(lines) && i < 2; i++ {
		if strings.Contains(lines[i], "-->") {
			timing = i
			break
		}
	}
	if timing < 0 {
		return Cue{}, false
	}

	m := vttTimingRegex.FindStringSubmatch(lines[timing])
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

	textLines := parseMarkup(strings.Join(lines[timing+1:], "\n"), vttMarkup)
	if len(textLines) == 0 {
		return Cue{}, false
	}
	cue, err := NewCue(start, end, textLines)
	if err != nil {
		return Cue{}, false
	}
	return cue, true
}
