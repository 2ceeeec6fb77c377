package subtitle

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// SubStationAlpha format (SSA v4 and ASS v4+)
type SSA struct {
	Title    string
	FontName string
	FontSize int
}

func NewSSA() *SSA {
	return &SSA{
		Title:    "Kayla Converted Subtitles",
		FontName: "Arial",
		FontSize: 20,
	}
}

var ssaTimeRegex = regexp.MustCompile(`^(\d+):(\d{1,2}):(\d{1,2})[.:](\d{1,3})$`)

// column layout of the [Events] section
type ssaEventFormat struct {
	columns  []string
	startIdx int
	endIdx   int
	textIdx  int
}

func newSSAEventFormat(line string) (*ssaEventFormat, error) {
	f := &ssaEventFormat{startIdx: -1, endIdx: -1, textIdx: -1}
	columns := strings.Split(strings.TrimPrefix(line, "Format:"), ",")
	for i, col := range columns {
		columns[i] = strings.TrimSpace(col)
		switch strings.ToLower(columns[i]) {
		case "start":
			f.startIdx = i
		case "end":
			f.endIdx = i
		case "text":
			f.textIdx = i
		}
	}
	f.columns = columns
	if f.startIdx < 0 || f.endIdx < 0 || f.textIdx < 0 {
		return nil, fmt.Errorf("format line missing Start, End or Text column")
	}
	return f, nil
}

// parses an [Events] section; the Text column takes the rest of the
// line, so it may contain commas
func (p *SSA) Parse(data []byte) (*Track, error) {
	var format *ssaEventFormat
	inEvents := false
	sawEvents := false
	track := &Track{}

	for _, line := range strings.Split(normalizeText(data), "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			section := strings.ToLower(strings.Trim(trimmed, "[]"))
			inEvents = section == "events"
			sawEvents = sawEvents || inEvents
			continue
		}
		if !inEvents {
			continue
		}

		if strings.HasPrefix(trimmed, "Format:") {
			f, err := newSSAEventFormat(trimmed)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrUnrecognized, err)
			}
			format = f
			continue
		}

		if format != nil && strings.HasPrefix(trimmed, "Dialogue:") {
			if cue, ok := format.parseDialogue(trimmed); ok {
				track.add(cue)
			}
		}
	}

	if !sawEvents || format == nil {
		return nil, ErrUnrecognized
	}
	return track.result()
}

func (f *ssaEventFormat) parseDialogue(line string) (Cue, bool) {
	content := strings.TrimSpace(strings.TrimPrefix(line, "Dialogue:"))
	fields := splitASSFields(content, len(f.columns))
	if len(fields) < len(f.columns) {
		return Cue{}, false
	}

	start, err := parseSSATime(fields[f.startIdx])
	if err != nil {
		return Cue{}, false
	}
	end, err := parseSSATime(fields[f.endIdx])
	if err != nil {
		return Cue{}, false
	}

	lines := parseSSAText(fields[f.textIdx])
	if len(lines) == 0 {
		return Cue{}, false
	}
	cue, err := NewCue(start, end, lines)
	if err != nil {
		return Cue{}, false
	}
	return cue, true
}

func splitASSFields(content string, numFields int) []string {
	if numFields <= 0 {
		return nil
	}

	parts := make([]string, 0, numFields)
	remaining := content

	for i := 0; i < numFields-1; i++ {
		idx := strings.Index(remaining, ",")
		if idx == -1 {
			parts = append(parts, remaining)
			return parts
		}
		parts = append(parts, remaining[:idx])
		remaining = remaining[idx+1:]
	}

	return append(parts, remaining)
}

// H:MM:SS.cc
func parseSSATime(ts string) (time.Duration, error) {
	m := ssaTimeRegex.FindStringSubmatch(strings.TrimSpace(ts))
	if m == nil {
		return 0, fmt.Errorf("invalid timestamp %q", ts)
	}
	return parseClockParts(m[1], m[2], m[3], m[4])
}

// converts dialogue text with override blocks into styled lines
func parseSSAText(text string) []Line {
	var b lineBuilder
	var style Style

	writeText := func(chunk string) {
		chunk = strings.ReplaceAll(chunk, `\h`, " ")
		chunk = strings.ReplaceAll(chunk, `\n`, `\N`)
		for i, part := range strings.Split(chunk, `\N`) {
			if i > 0 {
				b.newLine()
			}
			b.write(part, style)
		}
	}

	for text != "" {
		open := strings.IndexByte(text, '{')
		if open < 0 {
			writeText(text)
			break
		}
		closing := strings.IndexByte(text[open:], '}')
		if closing < 0 {
			writeText(text)
			break
		}
		writeText(text[:open])
		applySSAOverrides(text[open+1:open+closing], &style)
		text = text[open+closing+1:]
	}

	return b.finish(true)
}

func applySSAOverrides(block string, style *Style) {
	for _, tag := range strings.Split(block, `\`) {
		tag = strings.TrimSpace(tag)
		switch {
		case tag == "r":
			*style = Style{}
		case strings.HasPrefix(tag, "b") && isSSAToggle(tag[1:]):
			style.Bold = tag[1:] != "0"
		case strings.HasPrefix(tag, "i") && isSSAToggle(tag[1:]):
			style.Italic = tag[1:] != "0"
		case strings.HasPrefix(tag, "u") && isSSAToggle(tag[1:]):
			style.Underline = tag[1:] != "0"
		case strings.HasPrefix(tag, "1c"):
			applySSAColor(tag[2:], style)
		case strings.HasPrefix(tag, "c"):
			applySSAColor(tag[1:], style)
		}
	}
}

// \b also takes font weights such as \b700
func isSSAToggle(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// &HBBGGRR& or &HAABBGGRR&; an empty value resets to the style color
func applySSAColor(value string, style *Style) {
	value = strings.TrimSpace(value)
	if value == "" {
		style.Color = ""
		return
	}
	if color, ok := parseSSAColor(value); ok {
		style.Color = color
	}
}

func parseSSAColor(value string) (string, bool) {
	hex := strings.Trim(value, "&")
	if !strings.HasPrefix(hex, "H") && !strings.HasPrefix(hex, "h") {
		return "", false
	}
	hex = hex[1:]
	if len(hex) < 6 || len(hex) > 8 {
		return "", false
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return "", false
		}
	}
	bgr := hex[len(hex)-6:]
	return normalizeColor(bgr[4:6] + bgr[2:4] + bgr[0:2]), true
}

// braces would open override blocks; an empty block after each
// backslash keeps \N, \n and \h from being read back as escapes
var ssaTextEscaper = strings.NewReplacer("{", "(", "}", ")", `\`, `\{}`)

// writes the track as an ASS v4+ script
func (w *SSA) Serialize(track *Track) string {
	if track.Len() == 0 {
		return ""
	}

	var sb strings.Builder

	// script info section
	sb.WriteString("[Script Info]\n")
	sb.WriteString(fmt.Sprintf("Title: %s\n", w.Title))
	sb.WriteString("ScriptType: v4.00+\n")
	sb.WriteString("Collisions: Normal\n")
	sb.WriteString("PlayDepth: 0\n\n")

	// v4+ styles section
	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	sb.WriteString(fmt.Sprintf("Style: Default,%s,%d,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1\n\n",
		w.FontName, w.FontSize))

	// events section
	sb.WriteString("[Events]\n")
	sb.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for _, cue := range track.Cues {
		sb.WriteString(fmt.Sprintf("Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			formatCentisClock(cue.Start, true),
			formatCentisClock(cue.End, true),
			renderSSAText(cue.Lines)))
	}
	return sb.String()
}

// renders lines joined by \N, emitting overrides only where style changes
func renderSSAText(lines []Line) string {
	var sb strings.Builder
	var current Style

	for i, line := range lines {
		if i > 0 {
			sb.WriteString(`\N`)
		}
		for _, span := range line.Spans {
			sb.WriteString(ssaOverrides(current, span.Style))
			current = span.Style
			sb.WriteString(ssaTextEscaper.Replace(span.Text))
		}
	}
	return sb.String()
}

func ssaOverrides(from, to Style) string {
	var tags []string
	toggle := func(name string, was, is bool) {
		if was == is {
			return
		}
		if is {
			tags = append(tags, `\`+name+"1")
		} else {
			tags = append(tags, `\`+name+"0")
		}
	}
	toggle("b", from.Bold, to.Bold)
	toggle("i", from.Italic, to.Italic)
	toggle("u", from.Underline, to.Underline)

	if from.Color != to.Color {
		if hex, ok := colorHex(to.Color); ok {
			tags = append(tags, `\c&H`+strings.ToUpper(hex[4:6]+hex[2:4]+hex[0:2])+"&")
		} else {
			tags = append(tags, `\c`)
		}
	}

	if len(tags) == 0 {
		return ""
	}
	return "{" + strings.Join(tags, "") + "}"
}

func (w *SSA) Extension() string {
	return ".ssa"
}
