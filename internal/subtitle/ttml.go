package subtitle

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Timed Text Markup Language (TTML/DFXP), parse only
type TTML struct{}

var (
	ttmlClockRegex  = regexp.MustCompile(`^(\d+):(\d{2}):(\d{2})(?:\.(\d+)|:(\d+(?:\.\d+)?))?$`)
	ttmlOffsetRegex = regexp.MustCompile(`^(\d+(?:\.\d+)?)(h|ms|m|s|f|t)$`)
)

// timing parameters declared on the <tt> root
type ttmlParams struct {
	frameRate float64
	tickRate  float64
}

func (p *ttmlParams) read(attrs []xml.Attr) {
	if v, err := strconv.ParseFloat(ttmlAttr(attrs, "frameRate"), 64); err == nil && v > 0 {
		p.frameRate = v
	}
	if v, err := strconv.ParseFloat(ttmlAttr(attrs, "tickRate"), 64); err == nil && v > 0 {
		p.tickRate = v
	}
}

// time container offsets for <body> and <div>
type ttmlContainer struct {
	name   string
	offset time.Duration
}

// parses TTML <p> elements; timing is inherited from enclosing <body>
// and <div> begin offsets, and styles may be referenced by id
func (p *TTML) Parse(data []byte) (*Track, error) {
	dec := xml.NewDecoder(strings.NewReader(normalizeText(data)))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	params := ttmlParams{frameRate: 30, tickRate: 10_000_000}
	styles := make(map[string]Style)
	var containers []ttmlContainer
	rootSeen := false
	track := &Track{}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if !rootSeen {
				return nil, fmt.Errorf("%w: %v", ErrUnrecognized, err)
			}
			// keep the cues read before the syntax error
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if !rootSeen {
				if t.Name.Local != "tt" {
					return nil, ErrUnrecognized
				}
				rootSeen = true
				params.read(t.Attr)
				continue
			}

			base := time.Duration(0)
			if n := len(containers); n > 0 {
				base = containers[n-1].offset
			}

			switch t.Name.Local {
			case "style":
				if id := ttmlAttr(t.Attr, "id"); id != "" {
					styles[id] = applyTTMLStyle(Style{}, t.Attr, styles)
				}
			case "body", "div":
				offset := base
				if begin, err := parseTTMLTime(ttmlAttr(t.Attr, "begin"), params); err == nil {
					offset += begin
				}
				containers = append(containers, ttmlContainer{name: t.Name.Local, offset: offset})
			case "p":
				if cue, ok := parseTTMLParagraph(dec, t, base, params, styles); ok {
					track.add(cue)
				}
			}

		case xml.EndElement:
			if n := len(containers); n > 0 && containers[n-1].name == t.Name.Local {
				containers = containers[:n-1]
			}
		}
	}

	if !rootSeen {
		return nil, ErrUnrecognized
	}
	return track.result()
}

func parseTTMLParagraph(
	dec *xml.Decoder,
	start xml.StartElement,
	base time.Duration,
	params ttmlParams,
	styles map[string]Style,
) (Cue, bool) {
	var b lineBuilder
	stack := []Style{applyTTMLStyle(Style{}, start.Attr, styles)}

	for depth := 1; depth > 0; {
		tok, err := dec.Token()
		if err != nil {
			return Cue{}, false
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "br" {
				b.newLine()
			}
			stack = append(stack, applyTTMLStyle(stack[len(stack)-1], t.Attr, styles))
		case xml.EndElement:
			depth--
			stack = stack[:len(stack)-1]
		case xml.CharData:
			text := spaceRunRegex.ReplaceAllString(string(t), " ")
			b.write(text, stack[len(stack)-1])
		}
	}

	begin, err := parseTTMLTime(ttmlAttr(start.Attr, "begin"), params)
	if err != nil {
		return Cue{}, false
	}
	var end time.Duration
	if expr := ttmlAttr(start.Attr, "end"); expr != "" {
		if end, err = parseTTMLTime(expr, params); err != nil {
			return Cue{}, false
		}
	} else if expr := ttmlAttr(start.Attr, "dur"); expr != "" {
		dur, err := parseTTMLTime(expr, params)
		if err != nil {
			return Cue{}, false
		}
		end = begin + dur
	} else {
		return Cue{}, false
	}

	lines := b.finish(true)
	if len(lines) == 0 {
		return Cue{}, false
	}
	cue, err := NewCue(roundMillis(base+begin), roundMillis(base+end), lines)
	if err != nil {
		return Cue{}, false
	}
	return cue, true
}

// layers referenced styles and inline tts:* attributes over parent
func applyTTMLStyle(parent Style, attrs []xml.Attr, styles map[string]Style) Style {
	style := parent
	for _, id := range strings.Fields(ttmlAttr(attrs, "style")) {
		ref, ok := styles[id]
		if !ok {
			continue
		}
		style.Bold = style.Bold || ref.Bold
		style.Italic = style.Italic || ref.Italic
		style.Underline = style.Underline || ref.Underline
		if ref.Color != "" {
			style.Color = ref.Color
		}
	}

	switch ttmlAttr(attrs, "fontWeight") {
	case "bold":
		style.Bold = true
	case "normal":
		style.Bold = false
	}
	switch ttmlAttr(attrs, "fontStyle") {
	case "italic", "oblique":
		style.Italic = true
	case "normal":
		style.Italic = false
	}
	if decoration := ttmlAttr(attrs, "textDecoration"); decoration != "" {
		style.Underline = strings.Contains(decoration, "underline") &&
			!strings.Contains(decoration, "noUnderline")
	}
	if color := ttmlAttr(attrs, "color"); color != "" {
		style.Color = ttmlColor(color)
	}
	return style
}

// accepts #rrggbb, #rrggbbaa, rgb()/rgba() and named colors
func ttmlColor(color string) string {
	color = strings.TrimSpace(color)
	if strings.HasPrefix(color, "#") && len(color) == 9 {
		color = color[:7]
	}
	lower := strings.ToLower(color)
	if strings.HasPrefix(lower, "rgb") {
		open := strings.IndexByte(lower, '(')
		closing := strings.IndexByte(lower, ')')
		if open > 0 && closing > open {
			parts := strings.Split(lower[open+1:closing], ",")
			if len(parts) >= 3 {
				var rgb [3]int
				for i := 0; i < 3; i++ {
					v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
					if err != nil || v < 0 || v > 255 {
						return lower
					}
					rgb[i] = v
				}
				return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
			}
		}
	}
	return normalizeColor(color)
}

// parses clock-time and offset-time expressions
func parseTTMLTime(expr string, params ttmlParams) (time.Duration, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0, fmt.Errorf("empty time expression")
	}

	if m := ttmlClockRegex.FindStringSubmatch(expr); m != nil {
		h, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		secs, _ := strconv.Atoi(m[3])
		ms := 0
		if m[4] != "" {
			var err error
			if ms, err = fractionMillis(m[4]); err != nil {
				return 0, err
			}
		} else if m[5] != "" {
			frames, err := strconv.ParseFloat(m[5], 64)
			if err != nil {
				return 0, err
			}
			ms = int(math.Round(frames * 1000 / params.frameRate))
			if ms >= 1000 {
				return 0, fmt.Errorf("frame count %s exceeds frame rate", m[5])
			}
		}
		return FromClockTime(h, mins, secs, ms)
	}

	if m := ttmlOffsetRegex.FindStringSubmatch(expr); m != nil {
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, err
		}
		var seconds float64
		switch m[2] {
		case "h":
			seconds = value * 3600
		case "m":
			seconds = value * 60
		case "s":
			seconds = value
		case "ms":
			seconds = value / 1000
		case "f":
			seconds = value / params.frameRate
		case "t":
			seconds = value / params.tickRate
		}
		return roundMillis(time.Duration(seconds * float64(time.Second))), nil
	}

	return 0, fmt.Errorf("unsupported time expression %q", expr)
}

func ttmlAttr(attrs []xml.Attr, local string) string {
	for _, a := range attrs {
		if a.Name.Local == local {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}
