package subtitle

import (
	"html"
	"regexp"
	"strings"
)

// controls how HTML-like inline markup is read for one format
type markupMode struct {
	decodeEntities bool // decode &amp; and friends in text runs
	newlineBreaks  bool // "\n" starts a new line; otherwise whitespace collapses
	breakTags      bool // <br> starts a new line
}

var (
	colorAttrRegex = regexp.MustCompile(`(?i)color\s*=\s*["']?([^"'\s>]+)`)
	hexColorRegex  = regexp.MustCompile(`^#?([0-9a-fA-F]{6}|[0-9a-fA-F]{3})$`)
	spaceRunRegex  = regexp.MustCompile(`\s+`)
	htmlEscaper    = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

// WebVTT cue timestamp tags such as <00:01.500>
var timestampTagRegex = regexp.MustCompile(`^\d+:\d{2}`)

type styleState struct {
	bold      int
	italic    int
	underline int
	colors    []string
}

func (s *styleState) current() Style {
	style := Style{
		Bold:      s.bold > 0,
		Italic:    s.italic > 0,
		Underline: s.underline > 0,
	}
	if len(s.colors) > 0 {
		style.Color = s.colors[len(s.colors)-1]
	}
	return style
}

func (s *styleState) pushColor(color string) {
	if color == "" && len(s.colors) > 0 {
		color = s.colors[len(s.colors)-1]
	}
	s.colors = append(s.colors, color)
}

func (s *styleState) popColor() {
	if len(s.colors) > 0 {
		s.colors = s.colors[:len(s.colors)-1]
	}
}

func decrement(n *int) {
	if *n > 0 {
		*n--
	}
}

// accumulates styled text into lines, merging adjacent equal styles
type lineBuilder struct {
	lines [][]Span
}

func (b *lineBuilder) newLine() {
	b.lines = append(b.lines, nil)
}

func (b *lineBuilder) write(text string, style Style) {
	if text == "" {
		return
	}
	if len(b.lines) == 0 {
		b.newLine()
	}
	last := len(b.lines) - 1
	spans := b.lines[last]
	if n := len(spans); n > 0 && spans[n-1].Style == style {
		spans[n-1].Text += text
	} else {
		spans = append(spans, Span{Text: text, Style: style})
	}
	b.lines[last] = spans
}

// finish drops empty lines; with trim set, outer whitespace of every
// line is removed
func (b *lineBuilder) finish(trim bool) []Line {
	var lines []Line
	for _, spans := range b.lines {
		if trim {
			spans = trimSpans(spans)
		}
		line := Line{Spans: spans}
		if strings.TrimSpace(line.Text()) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func trimSpans(spans []Span) []Span {
	for len(spans) > 0 {
		spans[0].Text = strings.TrimLeft(spans[0].Text, " \t")
		if spans[0].Text != "" {
			break
		}
		spans = spans[1:]
	}
	for len(spans) > 0 {
		n := len(spans) - 1
		spans[n].Text = strings.TrimRight(spans[n].Text, " \t")
		if spans[n].Text != "" {
			break
		}
		spans = spans[:n]
	}
	return spans
}

// parses text carrying <b>, <i>, <u>, <font color>, WebVTT <c.class>
// and optionally <br>; any other tag is dropped
func parseMarkup(text string, mode markupMode) []Line {
	var b lineBuilder
	var state styleState

	writeText := func(chunk string) {
		if mode.decodeEntities {
			chunk = html.UnescapeString(chunk)
			chunk = strings.ReplaceAll(chunk, "\u00a0", " ")
		}
		if !mode.newlineBreaks {
			chunk = spaceRunRegex.ReplaceAllString(chunk, " ")
			b.write(chunk, state.current())
			return
		}
		for i, part := range strings.Split(chunk, "\n") {
			if i > 0 {
				b.newLine()
			}
			b.write(part, state.current())
		}
	}

	for text != "" {
		open := strings.IndexByte(text, '<')
		if open < 0 {
			writeText(text)
			break
		}
		closing := strings.IndexByte(text[open:], '>')
		if closing < 0 {
			writeText(text)
			break
		}
		inner := text[open+1 : open+closing]
		if !looksLikeTag(inner) {
			writeText(text[:open+1])
			text = text[open+1:]
			continue
		}
		writeText(text[:open])
		applyTag(inner, &state, &b, mode)
		text = text[open+closing+1:]
	}

	return b.finish(!mode.newlineBreaks)
}

func looksLikeTag(inner string) bool {
	if inner == "" {
		return false
	}
	c := inner[0]
	if c >= '0' && c <= '9' {
		return timestampTagRegex.MatchString(inner)
	}
	return c == '/' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func applyTag(tag string, state *styleState, b *lineBuilder, mode markupMode) {
	tag = strings.TrimSpace(tag)
	closing := strings.HasPrefix(tag, "/")
	tag = strings.TrimPrefix(tag, "/")

	name := tag
	if i := strings.IndexAny(name, " \t\n/"); i >= 0 {
		name = name[:i]
	}
	var classes []string
	if i := strings.IndexByte(name, '.'); i >= 0 {
		classes = strings.Split(name[i+1:], ".")
		name = name[:i]
	}

	switch strings.ToLower(name) {
	case "b", "strong":
		if closing {
			decrement(&state.bold)
		} else {
			state.bold++
		}
	case "i", "em":
		if closing {
			decrement(&state.italic)
		} else {
			state.italic++
		}
	case "u":
		if closing {
			decrement(&state.underline)
		} else {
			state.underline++
		}
	case "font":
		if closing {
			state.popColor()
			return
		}
		color := ""
		if m := colorAttrRegex.FindStringSubmatch(tag); m != nil {
			color = normalizeColor(m[1])
		}
		state.pushColor(color)
	case "c":
		if closing {
			state.popColor()
			return
		}
		color := ""
		for _, class := range classes {
			if isColorName(class) {
				color = normalizeColor(class)
				break
			}
		}
		state.pushColor(color)
	case "br":
		if mode.breakTags {
			b.newLine()
		}
	}
}

// the named colors every HTML-ish subtitle renderer understands
var colorNames = map[string]string{
	"white":   "#ffffff",
	"lime":    "#00ff00",
	"cyan":    "#00ffff",
	"red":     "#ff0000",
	"yellow":  "#ffff00",
	"magenta": "#ff00ff",
	"blue":    "#0000ff",
	"black":   "#000000",
	"green":   "#008000",
	"gray":    "#808080",
	"silver":  "#c0c0c0",
}

func isColorName(name string) bool {
	_, ok := colorNames[strings.ToLower(name)]
	return ok
}

// normalizes hex colors to "#rrggbb" and names to lower case
func normalizeColor(color string) string {
	color = strings.Trim(strings.TrimSpace(color), `"'`)
	if m := hexColorRegex.FindStringSubmatch(color); m != nil {
		hex := strings.ToLower(m[1])
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		return "#" + hex
	}
	return strings.ToLower(color)
}

// resolves a color to six hex digits "rrggbb", if possible
func colorHex(color string) (string, bool) {
	if hex, ok := colorNames[color]; ok {
		color = hex
	}
	if m := hexColorRegex.FindStringSubmatch(color); m != nil && len(m[1]) == 6 {
		return strings.ToLower(m[1]), true
	}
	return "", false
}

// renders a line with HTML-like inline tags; escape is set for SGML
// targets where '&', '<' and '>' must be entities
func renderHTMLLine(l Line, escape bool) string {
	var sb strings.Builder
	for _, span := range l.Spans {
		text := span.Text
		if escape {
			text = htmlEscaper.Replace(text)
		}
		s := span.Style
		if s.Color != "" {
			sb.WriteString(`<font color="` + s.Color + `">`)
		}
		if s.Bold {
			sb.WriteString("<b>")
		}
		if s.Italic {
			sb.WriteString("<i>")
		}
		if s.Underline {
			sb.WriteString("<u>")
		}
		sb.WriteString(text)
		if s.Underline {
			sb.WriteString("</u>")
		}
		if s.Italic {
			sb.WriteString("</i>")
		}
		if s.Bold {
			sb.WriteString("</b>")
		}
		if s.Color != "" {
			sb.WriteString("</font>")
		}
	}
	return sb.String()
}
