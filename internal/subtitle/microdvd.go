package subtitle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// frame rate assumed for MicroDVD input without a rate header
const DefaultFrameRate = 25.0

// MicroDVD format: {start}{end}text with frame-number timing
type MicroDVD struct {
	FrameRate float64
}

var (
	microDVDLineRegex = regexp.MustCompile(`^\{(\d+)\}\{(\d+)\}(.*)$`)
	microDVDCodeRegex = regexp.MustCompile(`\{([a-zA-Z]):([^}]*)\}`)
)

func (f *MicroDVD) rate() float64 {
	if f.FrameRate <= 0 {
		return DefaultFrameRate
	}
	return f.FrameRate
}

// parses MicroDVD; a leading {1}{1}<rate> entry overrides the frame rate
func (p *MicroDVD) Parse(data []byte) (*Track, error) {
	rate := p.rate()
	track := &Track{}
	recognized := false

	for _, line := range strings.Split(normalizeText(data), "\n") {
		m := microDVDLineRegex.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		first := !recognized
		recognized = true

		if first {
			if declared, ok := parseMicroDVDRate(m); ok {
				rate = declared
				continue
			}
		}

		startFrame, err1 := strconv.Atoi(m[1])
		endFrame, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil {
			continue
		}
		start, err := FromFrameTime(startFrame, rate)
		if err != nil {
			continue
		}
		end, err := FromFrameTime(endFrame, rate)
		if err != nil {
			continue
		}

		lines := parseMicroDVDText(m[3])
		if len(lines) == 0 {
			continue
		}
		cue, err := NewCue(start, end, lines)
		if err != nil {
			continue
		}
		track.add(cue)
	}

	if !recognized {
		return nil, ErrUnrecognized
	}
	return track.result()
}

func parseMicroDVDRate(m []string) (float64, bool) {
	if m[1] != m[2] || (m[1] != "0" && m[1] != "1") {
		return 0, false
	}
	rate, err := strconv.ParseFloat(strings.TrimSpace(m[3]), 64)
	if err != nil || rate <= 0 {
		return 0, false
	}
	return rate, true
}

// splits "|"-separated lines and applies {y:…} and {c:$BBGGRR} codes;
// lower-case codes style one line, upper-case codes every line
func parseMicroDVDText(text string) []Line {
	var global Style
	parts := strings.Split(text, "|")
	styles := make([]Style, len(parts))

	for i, part := range parts {
		for _, code := range microDVDCodeRegex.FindAllStringSubmatch(part, -1) {
			key := code[1]
			target := &styles[i]
			if strings.ToUpper(key) == key {
				target = &global
			}
			applyMicroDVDCode(strings.ToLower(key), code[2], target)
		}
		parts[i] = strings.TrimSpace(microDVDCodeRegex.ReplaceAllString(part, ""))
	}

	var lines []Line
	for i, part := range parts {
		if part == "" {
			continue
		}
		style := styles[i]
		style.Bold = style.Bold || global.Bold
		style.Italic = style.Italic || global.Italic
		style.Underline = style.Underline || global.Underline
		if style.Color == "" {
			style.Color = global.Color
		}
		lines = append(lines, Line{Spans: []Span{{Text: part, Style: style}}})
	}
	return lines
}

func applyMicroDVDCode(key, value string, style *Style) {
	switch key {
	case "y":
		for _, flag := range strings.Split(strings.ToLower(value), ",") {
			switch strings.TrimSpace(flag) {
			case "b":
				style.Bold = true
			case "i":
				style.Italic = true
			case "u":
				style.Underline = true
			}
		}
	case "c":
		// $BBGGRR
		bgr := strings.TrimPrefix(strings.TrimSpace(value), "$")
		if len(bgr) == 6 {
			style.Color = normalizeColor(bgr[4:6] + bgr[2:4] + bgr[0:2])
		}
	}
}

func (w *MicroDVD) Serialize(track *Track) string {
	if track.Len() == 0 {
		return ""
	}
	rate := w.rate()

	var sb strings.Builder
	if rate != DefaultFrameRate {
		sb.WriteString(fmt.Sprintf("{1}{1}%s\n", strconv.FormatFloat(rate, 'f', -1, 64)))
	}
	for _, cue := range track.Cues {
		texts := make([]string, len(cue.Lines))
		for i, line := range cue.Lines {
			texts[i] = microDVDCodes(line.CommonStyle()) +
				strings.ReplaceAll(line.Text(), "|", "/")
		}
		sb.WriteString(fmt.Sprintf("{%d}{%d}%s\n",
			toFrames(cue.Start, rate),
			toFrames(cue.End, rate),
			strings.Join(texts, "|")))
	}
	return sb.String()
}

func microDVDCodes(style Style) string {
	var flags []string
	if style.Bold {
		flags = append(flags, "b")
	}
	if style.Italic {
		flags = append(flags, "i")
	}
	if style.Underline {
		flags = append(flags, "u")
	}

	var codes string
	if len(flags) > 0 {
		codes = "{y:" + strings.Join(flags, ",") + "}"
	}
	if hex, ok := colorHex(style.Color); ok {
		codes += "{c:$" + strings.ToUpper(hex[4:6]+hex[2:4]+hex[0:2]) + "}"
	}
	return codes
}

func (w *MicroDVD) Extension() string {
	return ".sub"
}
