package convert

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mgpai22/kayla/internal/logging"
	"github.com/mgpai22/kayla/internal/subtitle"
)

var (
	ErrInputNotFound           = errors.New("input not found")
	ErrOutputDirectoryNotFound = errors.New("output directory not found")
	ErrUnsupportedFormat       = errors.New("unsupported format")
	ErrUnparsableInput         = errors.New("unparsable input")
	ErrWriteError              = errors.New("write failed")
)

// runs the parse -> serialize -> write pipeline for subtitle files
type Converter struct {
	registry *subtitle.Registry
	fs       FileSystem
	logger   *logging.Logger
}

// nil arguments fall back to the default registry, the OS file system
// and a no-op logger
func NewConverter(
	registry *subtitle.Registry,
	fs FileSystem,
	logger *logging.Logger,
) *Converter {
	if registry == nil {
		registry = subtitle.Default()
	}
	if fs == nil {
		fs = OSFileSystem{}
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Converter{registry: registry, fs: fs, logger: logger}
}

// converts inputPath to format and returns the written path. When
// outputPath is an existing directory, or ends with a separator, the
// file is named after the input with the target format's extension.
func (c *Converter) Convert(inputPath, outputPath, format string) (string, error) {
	if !c.fs.Exists(inputPath) || c.fs.IsDir(inputPath) {
		return "", fmt.Errorf("%w: %s", ErrInputNotFound, inputPath)
	}

	target, err := c.target(format)
	if err != nil {
		return "", err
	}

	data, err := c.fs.ReadFile(inputPath)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read %s: %v", ErrInputNotFound, inputPath, err)
	}

	name := filepath.Base(inputPath)
	content, err := c.render(name, filepath.Ext(name), data, target)
	if err != nil {
		return "", err
	}

	if c.fs.IsDir(outputPath) || isDirPath(outputPath) {
		outputPath = filepath.Join(outputPath, outputName(name, target))
	}
	if filepath.Clean(outputPath) == filepath.Clean(inputPath) {
		return "", fmt.Errorf("%w: refusing to overwrite input %s", ErrWriteError, inputPath)
	}

	if err := c.fs.WriteFile(outputPath, []byte(content)); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrWriteError, outputPath, err)
	}

	c.logger.Infow("Converted file",
		"input", inputPath,
		"output", outputPath,
		"format", target.Format,
	)
	return outputPath, nil
}

// resolves the serializer for format; "" selects SubRip
func (c *Converter) target(format string) (subtitle.Descriptor, error) {
	target, ok := c.registry.SerializerFor(format)
	if !ok {
		return subtitle.Descriptor{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return target, nil
}

// tries every parser registered for ext in order; the first one whose
// track serializes to non-empty output wins
func (c *Converter) render(
	name, ext string,
	data []byte,
	target subtitle.Descriptor,
) (string, error) {
	candidates := c.registry.ParsersForExtension(ext)
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no parser for extension %q", ErrUnparsableInput, ext)
	}

	for _, candidate := range candidates {
		track, err := candidate.Parser.Parse(data)
		if err != nil {
			c.logger.Debugw("Parser rejected input",
				"file", name,
				"parser", candidate.Format,
				"error", err,
			)
			continue
		}

		content := target.Serializer.Serialize(track)
		if content == "" {
			continue
		}

		c.logger.Debugw("Parsed subtitle file",
			"file", name,
			"parser", candidate.Format,
			"cues", track.Len(),
		)
		return content, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnparsableInput, name)
}

func outputName(inputName string, target subtitle.Descriptor) string {
	stem := strings.TrimSuffix(inputName, filepath.Ext(inputName))
	return stem + target.Serializer.Extension()
}
