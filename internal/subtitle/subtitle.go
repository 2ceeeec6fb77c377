package subtitle

import (
	"errors"
	"math"
	"strings"
	"time"
)

var (
	ErrInvalidTiming    = errors.New("invalid cue timing")
	ErrInvalidFrameRate = errors.New("frame rate must be positive")
	ErrUnrecognized     = errors.New("input not recognized as this format")
	ErrNoCues           = errors.New("no valid cues found")
)

// inline emphasis carried by a span of text
type Style struct {
	Bold      bool
	Italic    bool
	Underline bool
	Color     string // "#rrggbb" or lower-case color name
}

func (s Style) IsZero() bool {
	return s == Style{}
}

// run of text sharing one style
type Span struct {
	Text  string
	Style Style
}

// represents one displayed text line
type Line struct {
	Spans []Span
}

// builds an unstyled line
func PlainLine(text string) Line {
	return Line{Spans: []Span{{Text: text}}}
}

// plain text of the line with styling dropped
func (l Line) Text() string {
	var sb strings.Builder
	for _, s := range l.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// style attributes shared by every non-empty span of the line
func (l Line) CommonStyle() Style {
	var common Style
	first := true
	for _, s := range l.Spans {
		if s.Text == "" {
			continue
		}
		if first {
			common = s.Style
			first = false
			continue
		}
		common.Bold = common.Bold && s.Style.Bold
		common.Italic = common.Italic && s.Style.Italic
		common.Underline = common.Underline && s.Style.Underline
		if common.Color != s.Style.Color {
			common.Color = ""
		}
	}
	return common
}

// represents single subtitle entry
type Cue struct {
	Index int
	Start time.Duration
	End   time.Duration
	Lines []Line
}

// validates timing and builds a cue; the only way parsers create cues
func NewCue(start, end time.Duration, lines []Line) (Cue, error) {
	if start < 0 || end < start {
		return Cue{}, ErrInvalidTiming
	}
	return Cue{Start: start, End: end, Lines: lines}, nil
}

// plain text lines joined with "\n"
func (c Cue) Text() string {
	texts := make([]string, len(c.Lines))
	for i, l := range c.Lines {
		texts[i] = l.Text()
	}
	return strings.Join(texts, "\n")
}

// represents complete subtitle track
type Track struct {
	Cues []Cue
}

func (t *Track) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Cues)
}

func (t *Track) add(c Cue) {
	c.Index = len(t.Cues) + 1
	t.Cues = append(t.Cues, c)
}

// result returns the track, or ErrNoCues when nothing was parsed
func (t *Track) result() (*Track, error) {
	if t.Len() == 0 {
		return nil, ErrNoCues
	}
	return t, nil
}

// converts a frame number to a timestamp at the given rate
func FromFrameTime(frame int, rate float64) (time.Duration, error) {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, ErrInvalidFrameRate
	}
	if frame < 0 {
		return 0, ErrInvalidTiming
	}
	ms := math.Round(float64(frame) * 1000 / rate)
	return time.Duration(ms) * time.Millisecond, nil
}

// converts a wall-clock timestamp to a duration
func FromClockTime(hours, minutes, seconds, millis int) (time.Duration, error) {
	if hours < 0 || minutes < 0 || seconds < 0 || millis < 0 {
		return 0, ErrInvalidTiming
	}
	if minutes >= 60 || seconds >= 60 || millis >= 1000 {
		return 0, ErrInvalidTiming
	}
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}

// converts a timestamp to a frame number, rounding half up
func toFrames(d time.Duration, rate float64) int {
	ms := float64(d) / float64(time.Millisecond)
	return int(math.Floor(ms*rate/1000 + 0.5))
}

// rounds a duration to millisecond precision
func roundMillis(d time.Duration) time.Duration {
	return d.Round(time.Millisecond)
}
