package subtitle

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

var fakeColors = []string{"", "#ff0000", "#00ff00"}

// builds a track of gapped cues with whole-line styles
func fakeTrack(faker *gofakeit.Faker, n int, styled bool) *Track {
	track := &Track{}
	at := time.Second
	for i := 0; i < n; i++ {
		start := at + time.Duration(faker.Number(0, 5000))*time.Millisecond
		end := start + time.Duration(faker.Number(500, 4000))*time.Millisecond
		at = end + 100*time.Millisecond

		lines := make([]Line, faker.Number(1, 2))
		for j := range lines {
			var style Style
			if styled {
				style = Style{
					Bold:      faker.Bool(),
					Italic:    faker.Bool(),
					Underline: faker.Bool(),
					Color:     fakeColors[faker.Number(0, len(fakeColors)-1)],
				}
			}
			lines[j] = Line{Spans: []Span{{Text: faker.Sentence(5), Style: style}}}
		}
		track.add(Cue{Start: start, End: end, Lines: lines})
	}
	return track
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		parser    Parser
		writer    Serializer
		tolerance time.Duration
		styled    bool
	}{
		{name: "SubRip", parser: &SRT{}, writer: &SRT{}, styled: true},
		{name: "SAMI", parser: &SAMI{}, writer: &SAMI{}, styled: true},
		{name: "SubStationAlpha", parser: NewSSA(), writer: NewSSA(), tolerance: 5 * time.Millisecond, styled: true},
		{name: "MicroDVD", parser: &MicroDVD{}, writer: &MicroDVD{}, tolerance: 20 * time.Millisecond, styled: true},
		{name: "SubViewer", parser: &SubViewer{}, writer: &SubViewer{}, tolerance: 5 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := fakeTrack(gofakeit.New(42), 20, tt.styled)

			got, err := tt.parser.Parse([]byte(tt.writer.Serialize(want)))
			if err != nil {
				t.Fatalf("failed to parse serialized track: %v", err)
			}
			if got.Len() != want.Len() {
				t.Fatalf("expected %d cues, got %d", want.Len(), got.Len())
			}

			for i := range want.Cues {
				w, g := want.Cues[i], got.Cues[i]
				if absDuration(w.Start-g.Start) > tt.tolerance || absDuration(w.End-g.End) > tt.tolerance {
					t.Errorf("cue %d: expected %v-%v, got %v-%v", i, w.Start, w.End, g.Start, g.End)
				}
				if w.Text() != g.Text() {
					t.Errorf("cue %d: expected %q, got %q", i, w.Text(), g.Text())
				}
				if !tt.styled {
					continue
				}
				for j := range w.Lines {
					if ws, gs := w.Lines[j].CommonStyle(), g.Lines[j].CommonStyle(); ws != gs {
						t.Errorf("cue %d line %d: expected style %+v, got %+v", i, j, ws, gs)
					}
				}
			}
		})
	}
}

func TestRoundTripEscapes(t *testing.T) {
	tests := []struct {
		name   string
		format interface {
			Parser
			Serializer
		}
		text string
		want string
	}{
		{name: "MicroDVD pipe", format: &MicroDVD{}, text: "a|b", want: "a/b"},
		{name: "SSA backslashes", format: NewSSA(), text: `C:\new\Notes`, want: `C:\new\Notes`},
		{name: "SSA hard space", format: NewSSA(), text: `keep \h here`, want: `keep \h here`},
		{name: "SSA braces", format: NewSSA(), text: "a {b} c", want: "a (b) c"},
		{name: "SubViewer break", format: &SubViewer{}, text: "a [br] b", want: "a [ br ] b"},
		{name: "SAMI entities", format: &SAMI{}, text: "Tom & Jerry <3 >", want: "Tom & Jerry <3 >"},
		{name: "SubRip angle brackets", format: &SRT{}, text: "I <3 you > them", want: "I <3 you > them"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := &Track{}
			track.add(Cue{
				Start: time.Second,
				End:   2 * time.Second,
				Lines: []Line{{Spans: []Span{{Text: tt.text}}}},
			})

			got, err := tt.format.Parse([]byte(tt.format.Serialize(track)))
			if err != nil {
				t.Fatalf("failed to parse serialized track: %v", err)
			}
			if got.Len() != 1 {
				t.Fatalf("expected 1 cue, got %d", got.Len())
			}
			cue := got.Cues[0]
			if len(cue.Lines) != 1 {
				t.Fatalf("expected 1 line, got %d: %q", len(cue.Lines), cue.Text())
			}
			if cue.Text() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, cue.Text())
			}
		})
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
