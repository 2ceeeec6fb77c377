package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    Config
		wantErr bool
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			want: Default(),
		},
		{
			name: "overrides",
			env: map[string]string{
				"KAYLA_FORMAT":       "MicroDVD",
				"KAYLA_FRAME_RATE":   "23.976",
				"KAYLA_CONCURRENCY":  "4",
				"KAYLA_FFMPEG_PATH":  " /opt/ffmpeg ",
				"KAYLA_FFPROBE_PATH": "/opt/ffprobe",
			},
			want: Config{
				Format:      "MicroDVD",
				FrameRate:   23.976,
				Concurrency: 4,
				FFmpegPath:  "/opt/ffmpeg",
				FFprobePath: "/opt/ffprobe",
			},
		},
		{
			name:    "zero frame rate",
			env:     map[string]string{"KAYLA_FRAME_RATE": "0"},
			wantErr: true,
		},
		{
			name:    "non-numeric frame rate",
			env:     map[string]string{"KAYLA_FRAME_RATE": "fast"},
			wantErr: true,
		},
		{
			name:    "negative concurrency",
			env:     map[string]string{"KAYLA_CONCURRENCY": "-2"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromEnv(func(key string) string { return tt.env[key] })
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	// register cleanup that restores the variable, then clear it so the
	// .env file is not shadowed
	t.Setenv("KAYLA_FRAME_RATE", "")
	os.Unsetenv("KAYLA_FRAME_RATE")

	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("KAYLA_FRAME_RATE=29.97\n"), 0644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.FrameRate != 29.97 {
		t.Errorf("expected frame rate 29.97, got %v", cfg.FrameRate)
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	t.Setenv("KAYLA_FORMAT", "SAMI")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("missing env file should be ignored: %v", err)
	}
	if cfg.Format != "SAMI" {
		t.Errorf("expected format SAMI, got %s", cfg.Format)
	}
}
