package subtitle

import (
	"strings"
	"sync"
)

// represents a subtitle format identifier
type Format string

const (
	FormatMicroDVD        Format = "MicroDVD"
	FormatSAMI            Format = "SAMI"
	FormatSubStationAlpha Format = "SubStationAlpha"
	FormatSubViewer       Format = "SubViewer"
	FormatTimedText       Format = "TimedText"
	FormatWebVTT          Format = "WebVTT"
	FormatYtXML           Format = "YtXml"
	FormatSubRip          Format = "SubRip"

	// target used when no format is requested
	DefaultFormat = FormatSubRip
)

// interface for parsing raw subtitle text into a track
type Parser interface {
	Parse(data []byte) (*Track, error)
}

// interface for rendering a track as subtitle text
type Serializer interface {
	// returns "" for an empty track
	Serialize(track *Track) string
	// canonical file extension, including the dot
	Extension() string
}

// describes one registered format; either capability may be nil
type Descriptor struct {
	Format     Format
	Extensions string // "|"-separated, e.g. ".ssa|.ass"
	FrameRate  float64
	Parser     Parser
	Serializer Serializer
}

// reports whether ext is one of the descriptor's extensions; the
// comparison is case-sensitive
func (d Descriptor) MatchesExtension(ext string) bool {
	if ext == "" {
		return false
	}
	for _, candidate := range strings.Split(d.Extensions, "|") {
		if candidate == ext {
			return true
		}
	}
	return false
}

// ordered, read-only set of formats; registration order breaks ties
// between formats sharing an extension
type Registry struct {
	descriptors []Descriptor
}

func NewRegistry(descriptors ...Descriptor) *Registry {
	return &Registry{descriptors: append([]Descriptor(nil), descriptors...)}
}

// registry construction options
type Options struct {
	// frame rate used by the MicroDVD serializer; 0 means DefaultFrameRate
	FrameRate float64
}

// builds the registry with every supported format
func NewDefaultRegistry(opts Options) *Registry {
	rate := opts.FrameRate
	if rate <= 0 {
		rate = DefaultFrameRate
	}
	microDVD := &MicroDVD{FrameRate: rate}
	ssa := NewSSA()
	srt := &SRT{}

	return NewRegistry(
		Descriptor{
			Format:     FormatMicroDVD,
			Extensions: ".sub",
			FrameRate:  rate,
			Parser:     &MicroDVD{FrameRate: DefaultFrameRate},
			Serializer: microDVD,
		},
		Descriptor{
			Format:     FormatSAMI,
			Extensions: ".smi|.sami",
			Parser:     &SAMI{},
			Serializer: &SAMI{},
		},
		Descriptor{
			Format:     FormatSubStationAlpha,
			Extensions: ".ssa|.ass",
			Parser:     ssa,
			Serializer: ssa,
		},
		Descriptor{
			Format:     FormatSubViewer,
			Extensions: ".sub",
			Parser:     &SubViewer{},
			Serializer: &SubViewer{},
		},
		Descriptor{
			Format:     FormatTimedText,
			Extensions: ".ttml|.dfxp|.xml",
			Parser:     &TTML{},
		},
		Descriptor{
			Format:     FormatWebVTT,
			Extensions: ".vtt",
			Parser:     &VTT{},
		},
		Descriptor{
			Format:     FormatYtXML,
			Extensions: ".xml",
			Parser:     &YtXML{},
		},
		Descriptor{
			Format:     FormatSubRip,
			Extensions: ".srt",
			Parser:     srt,
			Serializer: srt,
		},
	)
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// process-wide registry with default options
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewDefaultRegistry(Options{})
	})
	return defaultRegistry
}

// every registered descriptor in registration order
func (r *Registry) Descriptors() []Descriptor {
	return append([]Descriptor(nil), r.descriptors...)
}

// descriptors with a parser matching ext, in registration order
func (r *Registry) ParsersForExtension(ext string) []Descriptor {
	var out []Descriptor
	for _, d := range r.descriptors {
		if d.Parser != nil && d.MatchesExtension(ext) {
			out = append(out, d)
		}
	}
	return out
}

// first registered parser matching ext
func (r *Registry) ParserForExtension(ext string) (Parser, bool) {
	candidates := r.ParsersForExtension(ext)
	if len(candidates) == 0 {
		return nil, false
	}
	return candidates[0].Parser, true
}

// serializer registered under name; "" selects DefaultFormat
func (r *Registry) SerializerFor(name string) (Descriptor, bool) {
	if name == "" {
		name = string(DefaultFormat)
	}
	for _, d := range r.descriptors {
		if string(d.Format) == name && d.Serializer != nil {
			return d, true
		}
	}
	return Descriptor{}, false
}
