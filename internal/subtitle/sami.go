package subtitle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// SAMI format
type SAMI struct{}

// display time given to a final SYNC block with no successor
const samiLastCueDuration = 2 * time.Second

var (
	samiSyncRegex = regexp.MustCompile(`(?i)<sync\s+start\s*=\s*["']?(\d+)["']?[^>]*>`)
	samiBodyEnd   = regexp.MustCompile(`(?i)</body>|</sami>`)
	samiMarkup    = markupMode{decodeEntities: true, breakTags: true}
)

// parses SAMI; each <SYNC Start=ms> block lasts until the next one and
// blocks holding only &nbsp; are gaps
func (p *SAMI) Parse(data []byte) (*Track, error) {
	text := normalizeText(data)
	if loc := samiBodyEnd.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}

	syncs := samiSyncRegex.FindAllStringSubmatchIndex(text, -1)
	if len(syncs) == 0 {
		return nil, ErrUnrecognized
	}

	track := &Track{}
	for i, loc := range syncs {
		startMS, err := strconv.Atoi(text[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		start := time.Duration(startMS) * time.Millisecond

		contentEnd := len(text)
		end := start + samiLastCueDuration
		if i+1 < len(syncs) {
			next := syncs[i+1]
			contentEnd = next[0]
			nextMS, err := strconv.Atoi(text[next[2]:next[3]])
			if err != nil {
				continue
			}
			end = time.Duration(nextMS) * time.Millisecond
		}

		lines := parseMarkup(text[loc[1]:contentEnd], samiMarkup)
		if len(lines) == 0 {
			continue
		}
		cue, err := NewCue(start, end, lines)
		if err != nil {
			continue
		}
		track.add(cue)
	}

	return track.result()
}

const samiHeader = `<SAMI>
<HEAD>
<TITLE>Kayla Converted Subtitles</TITLE>
<STYLE TYPE="text/css">
<!--
P { font-family: Arial; font-weight: normal; color: white; background-color: black; text-align: center; }
.ENCC { Name: English; lang: en-US; SAMIType: CC; }
-->
</STYLE>
</HEAD>
<BODY>
`

func (w *SAMI) Serialize(track *Track) string {
	if track.Len() == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(samiHeader)
	for i, cue := range track.Cues {
		texts := make([]string, len(cue.Lines))
		for j, line := range cue.Lines {
			texts[j] = renderHTMLLine(line, true)
		}
		sb.WriteString(fmt.Sprintf("<SYNC Start=%d>\n<P Class=ENCC>%s\n",
			cue.Start.Milliseconds(), strings.Join(texts, "<br>")))

		// clear the screen unless the next cue replaces this one in time
		if i+1 < len(track.Cues) && track.Cues[i+1].Start <= cue.End {
			continue
		}
		sb.WriteString(fmt.Sprintf("<SYNC Start=%d>\n<P Class=ENCC>&nbsp;\n",
			cue.End.Milliseconds()))
	}
	sb.WriteString("</BODY>\n</SAMI>\n")
	return sb.String()
}

func (w *SAMI) Extension() string {
	return ".smi"
}
