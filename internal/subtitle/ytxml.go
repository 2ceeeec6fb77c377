package subtitle

import (
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"
	"time"
)

// YouTube timed-text XML, parse only
type YtXML struct{}

// <transcript><text start dur> and format 3 <timedtext><body><p t d>
type ytDocument struct {
	XMLName xml.Name
	Texts   []ytText `xml:"text"`
	Body    struct {
		Paragraphs []ytParagraph `xml:"p"`
	} `xml:"body"`
}

type ytText struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}

type ytParagraph struct {
	T     string `xml:"t,attr"`
	D     string `xml:"d,attr"`
	Inner string `xml:",innerxml"`
}

var ytMarkup = markupMode{decodeEntities: true, newlineBreaks: true, breakTags: true}

// parses YouTube XML; text is entity-decoded twice because YouTube
// escapes caption markup inside the XML
func (p *YtXML) Parse(data []byte) (*Track, error) {
	dec := xml.NewDecoder(strings.NewReader(normalizeText(data)))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var doc ytDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognized, err)
	}

	track := &Track{}
	switch doc.XMLName.Local {
	case "transcript":
		for _, t := range doc.Texts {
			if cue, ok := parseYtText(t); ok {
				track.add(cue)
			}
		}
	case "timedtext":
		for _, para := range doc.Body.Paragraphs {
			if cue, ok := parseYtParagraph(para); ok {
				track.add(cue)
			}
		}
	default:
		return nil, ErrUnrecognized
	}
	return track.result()
}

func parseYtText(t ytText) (Cue, bool) {
	start, err := parseSeconds(t.Start)
	if err != nil {
		return Cue{}, false
	}
	dur, err := parseSeconds(t.Dur)
	if err != nil {
		return Cue{}, false
	}
	return newYtCue(start, start+dur, t.Text)
}

func parseYtParagraph(para ytParagraph) (Cue, bool) {
	startMS, err := strconv.Atoi(strings.TrimSpace(para.T))
	if err != nil {
		return Cue{}, false
	}
	durMS, err := strconv.Atoi(strings.TrimSpace(para.D))
	if err != nil {
		return Cue{}, false
	}
	start := time.Duration(startMS) * time.Millisecond
	end := start + time.Duration(durMS)*time.Millisecond
	return newYtCue(start, end, html.UnescapeString(para.Inner))
}

func newYtCue(start, end time.Duration, text string) (Cue, bool) {
	lines := parseMarkup(text, ytMarkup)
	if len(lines) == 0 {
		return Cue{}, false
	}
	cue, err := NewCue(start, end, lines)
	if err != nil {
		return Cue{}, false
	}
	return cue, true
}

// decimal seconds, rounded to the millisecond
func parseSeconds(value string) (time.Duration, error) {
	seconds, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, err
	}
	return roundMillis(time.Duration(seconds * float64(time.Second))), nil
}
