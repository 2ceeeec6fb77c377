package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConvertCommand(t *testing.T) {
	t.Setenv("KAYLA_FORMAT", "SAMI")
	t.Setenv("KAYLA_FRAME_RATE", "25")

	dir := t.TempDir()
	input := filepath.Join(dir, "clip.srt")
	content := "1\n00:00:01,000 --> 00:00:02,000\nHello\n"
	if err := os.WriteFile(input, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	rootCmd.SetArgs([]string{"convert", input, "-f", "MicroDVD", "--frame-rate", "50"})
	if err := Execute(); err != nil {
		t.Fatalf("convert command failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "clip.sub"))
	if err != nil {
		t.Fatalf("expected output next to input: %v", err)
	}
	if want := "{1}{1}50\n{50}{100}Hello\n"; string(data) != want {
		t.Errorf("expected %q, got %q", want, string(data))
	}
}

func TestYesNo(t *testing.T) {
	if yesNo(true) != "yes" || yesNo(false) != "no" {
		t.Error("unexpected yesNo output")
	}
}
