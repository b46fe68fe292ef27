package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/linegraph/pkg/errors"
)

const testScript = `
width = 80
height = 40
frames = 3

[[event]]
frame = 1
kind = "motion"
x = 40
y = 20
`

func TestLoadScriptOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drag.toml")
	if err := os.WriteFile(path, []byte(testScript), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name                  string
		path                  string
		width, height, frames int
		wantW, wantH, wantN   int
	}{
		{"empty", "", 0, 0, 0, 0, 0, 0},
		{"file", path, 0, 0, 0, 80, 40, 3},
		{"size override", path, 120, 60, 0, 120, 60, 3},
		{"half size ignored", path, 120, 0, 0, 80, 40, 3},
		{"frames override", path, 0, 0, 5, 80, 40, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := loadScript(tt.path, tt.width, tt.height, tt.frames)
			if err != nil {
				t.Fatal(err)
			}
			if s.Width != tt.wantW || s.Height != tt.wantH || s.Frames != tt.wantN {
				t.Errorf("script = %dx%d x%d, want %dx%d x%d",
					s.Width, s.Height, s.Frames, tt.wantW, tt.wantH, tt.wantN)
			}
		})
	}

	if _, err := loadScript(filepath.Join(t.TempDir(), "missing.toml"), 0, 0, 0); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing script error = %v", err)
	}
}

func TestWriteFrames(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := writeFrames(dir, "png", [][]byte{[]byte("a"), []byte("b")})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "frame_0001.png"), filepath.Join(dir, "frame_0002.png")}
	for i, p := range paths {
		if p != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, p, want[i])
		}
		if _, err := os.Stat(p); err != nil {
			t.Errorf("frame %d not written: %v", i, err)
		}
	}
}

func TestRunRender(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "drag.toml")
	if err := os.WriteFile(script, []byte(testScript), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	opts := &renderOpts{
		output: filepath.Join(dir, "frames"),
		format: "jpg",
		scale:  0.5,
		cache:  cacheOpts{noCache: true},
	}
	if err := c.runRender(context.Background(), script, opts); err != nil {
		t.Fatalf("runRender() error = %v", err)
	}
	entries, err := os.ReadDir(opts.output)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 || entries[2].Name() != "frame_0003.jpg" {
		t.Errorf("written = %v, want 3 jpg frames", entries)
	}

	opts.format = "gif"
	if err := c.runRender(context.Background(), script, opts); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("runRender(gif) error = %v", err)
	}
}

func TestTraceLastFrame(t *testing.T) {
	c := New(io.Discard, LogInfo)
	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatal(err)
	}

	s, _ := loadScript("", 80, 40, 3)
	ops, err := traceLastFrame(cfg, s, false, c.Logger)
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) == 0 {
		t.Fatal("an animated source redraws every frame")
	}
	if last := ops[len(ops)-1].String(); last == "" {
		t.Error("ops should be printable")
	}

	cfg.Source.Name = "eq"
	s, _ = loadScript("", 80, 40, 3)
	ops, _ = traceLastFrame(cfg, s, false, c.Logger)
	if len(ops) != 0 {
		t.Errorf("static source recorded %d ops on an idle frame", len(ops))
	}
	s, _ = loadScript("", 80, 40, 3)
	ops, _ = traceLastFrame(cfg, s, true, c.Logger)
	if len(ops) == 0 {
		t.Error("--full should trace a redraw")
	}
}
