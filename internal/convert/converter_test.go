package convert

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleSRT = `1
00:00:01,000 --> 00:00:02,000
Hello
`

const sampleSubViewer = `[INFORMATION]
[END INFORMATION]
[SUBTITLE]
00:00:01.00,00:00:02.00
From SubViewer
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestConvertSRTToMicroDVD(t *testing.T) {
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "a.srt")
	writeFile(t, input, sampleSRT)
	outDir := filepath.Join(tmpDir, "out")
	if err := os.Mkdir(outDir, 0755); err != nil {
		t.Fatalf("failed to create output dir: %v", err)
	}

	got, err := NewConverter(nil, nil, nil).Convert(input, outDir, "MicroDVD")
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	want := filepath.Join(outDir, "a.sub")
	if got != want {
		t.Errorf("expected output %s, got %s", want, got)
	}
	if content := readFile(t, want); content != "{25}{50}Hello\n" {
		t.Errorf("expected {25}{50}Hello, got %q", content)
	}
}

func TestConvertExplicitOutputFile(t *testing.T) {
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "movie.srt")
	writeFile(t, input, sampleSRT)
	output := filepath.Join(tmpDir, "nested", "custom.txt")

	got, err := NewConverter(nil, nil, nil).Convert(input, output, "SAMI")
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if got != output {
		t.Errorf("expected output %s, got %s", output, got)
	}
	if content := readFile(t, output); !strings.Contains(content, "<SYNC Start=1000>") {
		t.Errorf("expected SAMI output, got:\n%s", content)
	}
}

func TestConvertDefaultsToSubRip(t *testing.T) {
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "talk.vtt")
	writeFile(t, input, "WEBVTT\n\n00:01.000 --> 00:02.000\n<b>Hi</b>\n")

	got, err := NewConverter(nil, nil, nil).Convert(input, tmpDir, "")
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if filepath.Base(got) != "talk.srt" {
		t.Errorf("expected talk.srt, got %s", got)
	}
	want := "1\n00:00:01,000 --> 00:00:02,000\n<b>Hi</b>\n\n"
	if content := readFile(t, got); content != want {
		t.Errorf("expected %q, got %q", want, content)
	}
}

func TestConvertSubFallsBackToSubViewer(t *testing.T) {
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "old.sub")
	writeFile(t, input, sampleSubViewer)

	got, err := NewConverter(nil, nil, nil).Convert(input, tmpDir, "SubRip")
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if content := readFile(t, got); !strings.Contains(content, "From SubViewer") {
		t.Errorf("expected SubViewer text, got %q", content)
	}
}

func TestConvertErrors(t *testing.T) {
	tmpDir := t.TempDir()
	srt := filepath.Join(tmpDir, "a.srt")
	writeFile(t, srt, sampleSRT)
	unknown := filepath.Join(tmpDir, "a.xyz")
	writeFile(t, unknown, sampleSRT)
	garbage := filepath.Join(tmpDir, "b.srt")
	writeFile(t, garbage, "nothing to see here\n")

	tests := []struct {
		name    string
		input   string
		output  string
		format  string
		wantErr error
	}{
		{"missing input", filepath.Join(tmpDir, "missing.srt"), tmpDir, "SubRip", ErrInputNotFound},
		{"directory input", tmpDir, tmpDir, "SubRip", ErrInputNotFound},
		{"unknown extension", unknown, tmpDir, "SubRip", ErrUnparsableInput},
		{"no cues", garbage, tmpDir, "MicroDVD", ErrUnparsableInput},
		{"parse-only format", srt, tmpDir, "WebVTT", ErrUnsupportedFormat},
		{"unknown format", srt, tmpDir, "Bogus", ErrUnsupportedFormat},
		{"overwrite input", srt, tmpDir, "SubRip", ErrWriteError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewConverter(nil, nil, nil).Convert(tt.input, tt.output, tt.format)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if got != "" {
				t.Errorf("expected no output path, got %s", got)
			}
		})
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("failed to list dir: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("expected no files written, found %d entries", len(entries))
	}
}

// fails every write
type readOnlyFS struct {
	OSFileSystem
}

func (readOnlyFS) WriteFile(string, []byte) error {
	return errors.New("read-only file system")
}

func TestConvertWriteError(t *testing.T) {
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "a.srt")
	writeFile(t, input, sampleSRT)

	_, err := NewConverter(nil, readOnlyFS{}, nil).Convert(input, tmpDir, "SAMI")
	if !errors.Is(err, ErrWriteError) {
		t.Errorf("expected ErrWriteError, got %v", err)
	}
}

func TestConvertTrailingSeparatorNamesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "a.srt")
	writeFile(t, input, sampleSRT)

	outDir := filepath.Join(tmpDir, "out") + string(filepath.Separator)
	got, err := NewConverter(nil, nil, nil).Convert(input, outDir, "SAMI")
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	want := filepath.Join(tmpDir, "out", "a.smi")
	if got != want {
		t.Errorf("expected output %s, got %s", want, got)
	}
	if content := readFile(t, want); !strings.Contains(content, "Hello") {
		t.Errorf("expected converted text in %s, got:\n%s", want, content)
	}
}

func TestWriteFileRejectsDirectoryPath(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "x") + "/"

	if err := (OSFileSystem{}).WriteFile(target, []byte("data")); err == nil {
		t.Fatal("expected error writing to a directory path")
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "x")); !os.IsNotExist(err) {
		t.Errorf("expected nothing created at %s, got %v", target, err)
	}
}
