package subtitle

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestParseTTML(t *testing.T) {
	content := `<?xml version="1.0" encoding="utf-8"?>
<tt xmlns="http://www.w3.org/ns/ttml" xmlns:tts="http://www.w3.org/ns/ttml#styling" xmlns:ttp="http://www.w3.org/ns/ttml#parameter" ttp:frameRate="25" ttp:tickRate="10000000">
  <head>
    <styling>
      <style xml:id="s1" tts:fontStyle="italic"/>
    </styling>
  </head>
  <body>
    <div>
      <p begin="00:00:01.000" end="00:00:02.500">Hello<br/>World</p>
      <p begin="30000000t" dur="10000000t" style="s1">Styled <span tts:fontWeight="bold" tts:color="#FF0000FF">bold</span></p>
      <p begin="00:00:05:12" end="6s">Frames</p>
      <p begin="7s">No end</p>
    </div>
    <div begin="10s">
      <p begin="1s" end="2s">Offset</p>
    </div>
  </body>
</tt>
`
	track, err := (&TTML{}).Parse([]byte(content))
	if err != nil {
		t.Fatalf("failed to parse TTML: %v", err)
	}
	if track.Len() != 4 {
		t.Fatalf("expected 4 cues, got %d", track.Len())
	}

	first := track.Cues[0]
	if first.Start != time.Second || first.End != 2500*time.Millisecond {
		t.Errorf("cue 0: expected 1s-2.5s, got %v-%v", first.Start, first.End)
	}
	if first.Text() != "Hello\nWorld" {
		t.Errorf("cue 0: expected <br> split, got %q", first.Text())
	}

	second := track.Cues[1]
	if second.Start != 3*time.Second || second.End != 4*time.Second {
		t.Errorf("cue 1: expected 3s-4s from ticks, got %v-%v", second.Start, second.End)
	}
	wantSpans := []Span{
		{Text: "Styled ", Style: Style{Italic: true}},
		{Text: "bold", Style: Style{Bold: true, Italic: true, Color: "#ff0000"}},
	}
	if !reflect.DeepEqual(second.Lines[0].Spans, wantSpans) {
		t.Errorf("cue 1: expected %+v, got %+v", wantSpans, second.Lines[0].Spans)
	}

	if track.Cues[2].Start != 5480*time.Millisecond {
		t.Errorf("cue 2: expected 5.48s from frames, got %v", track.Cues[2].Start)
	}

	last := track.Cues[3]
	if last.Start != 11*time.Second || last.End != 12*time.Second {
		t.Errorf("cue 3: expected div offset applied, got %v-%v", last.Start, last.End)
	}
}

func TestParseTTMLRejectsOtherXML(t *testing.T) {
	content := `<?xml version="1.0"?><transcript><text start="1" dur="1">Hi</text></transcript>`
	if _, err := (&TTML{}).Parse([]byte(content)); !errors.Is(err, ErrUnrecognized) {
		t.Errorf("expected ErrUnrecognized, got %v", err)
	}
}

func TestParseTTMLTime(t *testing.T) {
	params := ttmlParams{frameRate: 25, tickRate: 10_000_000}
	tests := []struct {
		expr string
		want time.Duration
	}{
		{"1.5s", 1500 * time.Millisecond},
		{"250ms", 250 * time.Millisecond},
		{"2m", 2 * time.Minute},
		{"1h", time.Hour},
		{"50f", 2 * time.Second},
		{"10000000t", time.Second},
		{"00:01:02.5", time.Minute + 2500*time.Millisecond},
		{"00:00:01:05", 1200 * time.Millisecond},
	}
	for _, tt := range tests {
		got, err := parseTTMLTime(tt.expr, params)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.expr, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.expr, tt.want, got)
		}
	}

	for _, expr := range []string{"", "bad", "00:00:01:30"} {
		if _, err := parseTTMLTime(expr, params); err == nil {
			t.Errorf("%q: expected error", expr)
		}
	}
}

func TestTTMLColor(t *testing.T) {
	tests := map[string]string{
		"#FF8800":           "#ff8800",
		"#ff880080":         "#ff8800",
		"rgb(255, 0, 0)":    "#ff0000",
		"rgba(0,255,0,128)": "#00ff00",
		"Yellow":            "yellow",
	}
	for in, want := range tests {
		if got := ttmlColor(in); got != want {
			t.Errorf("ttmlColor(%q): expected %q, got %q", in, want, got)
		}
	}
}
