package host

import (
	"image"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/handles"
	"github.com/matzehuels/linegraph/pkg/linegraph"
	"github.com/matzehuels/linegraph/pkg/source/demo"
)

const dragScript = `
width = 100
height = 60
frames = 4

[[event]]
frame = 2
kind = "release"
x = 71.75
y = 30

[[event]]
frame = 1
kind = "press"
x = 50
y = 30

[[event]]
frame = 1
kind = "motion"
x = 71.75
y = 30
`

func TestParseScript(t *testing.T) {
	s, err := ParseScript([]byte(dragScript))
	if err != nil {
		t.Fatalf("ParseScript() error = %v", err)
	}
	if s.Width != 100 || s.Height != 60 || s.Frames != 4 {
		t.Errorf("script = %dx%d, %d frames", s.Width, s.Height, s.Frames)
	}
	if s.Hash == "" {
		t.Error("Hash is empty")
	}

	var kinds []string
	for _, e := range s.At(1) {
		kinds = append(kinds, e.Kind)
	}
	if !slices.Equal(kinds, []string{"press", "motion"}) {
		t.Errorf("At(1) = %v, want [press motion]", kinds)
	}
	if got := s.At(0); len(got) != 0 {
		t.Errorf("At(0) = %v, want none", got)
	}
	if got := s.At(2); len(got) != 1 || got[0].Kind != "release" {
		t.Errorf("At(2) = %v", got)
	}
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "frames = ["},
		{"unknown key", "speed = 2"},
		{"negative frames", "frames = -1"},
		{"bad size", "width = 10\nheight = 0"},
		{"unknown kind", "frames = 2\n[[event]]\nkind = \"wobble\""},
		{"event out of range", "frames = 2\n[[event]]\nframe = 2\nkind = \"leave\""},
		{"bad resize", "[[event]]\nkind = \"resize\"\nwidth = 0\nheight = 10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript([]byte(tt.data))
			if !errors.Is(err, errors.ErrCodeInvalidScript) {
				t.Errorf("ParseScript() error = %v, want %s", err, errors.ErrCodeInvalidScript)
			}
		})
	}
}

func TestEventWidget(t *testing.T) {
	ev, err := Event{Kind: "double", X: 3, Y: 4}.Widget()
	if err != nil || ev.Kind != linegraph.Press || !ev.Double {
		t.Errorf("double = %+v, %v", ev, err)
	}
	ev, _ = Event{Kind: "scroll", Up: true}.Widget()
	if ev.Kind != linegraph.Scroll || !ev.Up {
		t.Errorf("scroll = %+v", ev)
	}
	if !(Event{Kind: "force"}).Force() {
		t.Error("force event not recognized")
	}
}

func TestSetDefaults(t *testing.T) {
	s := &Script{Events: []Event{{Frame: 4, Kind: "leave"}}}
	s.SetDefaults(320, 160)
	if s.Width != 320 || s.Height != 160 || s.Frames != 5 {
		t.Errorf("SetDefaults() = %dx%d, %d frames", s.Width, s.Height, s.Frames)
	}

	s = &Script{Width: 50, Height: 40, Frames: 2}
	s.SetDefaults(320, 160)
	if s.Width != 50 || s.Frames != 2 {
		t.Errorf("SetDefaults() overrode %dx%d, %d frames", s.Width, s.Height, s.Frames)
	}
}

func TestLoadScript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "drag.toml")
	if err := os.WriteFile(path, []byte(dragScript), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScript(path); err != nil {
		t.Errorf("LoadScript() error = %v", err)
	}
	_, err := LoadScript(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("LoadScript(missing) error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	if r.Cursor() != linegraph.CursorArrow || r.Pending() {
		t.Error("zero Recorder should be idle with an arrow cursor")
	}
	r.QueueDraw()
	r.QueueDraw()
	r.SetCursor(linegraph.CursorHand)
	if r.Draws() != 2 || !r.TakeDraw() || r.TakeDraw() {
		t.Errorf("Draws() = %d, pending not taken once", r.Draws())
	}
	if r.Cursor() != linegraph.CursorHand || len(r.Cursors()) != 1 {
		t.Errorf("cursors = %v", r.Cursors())
	}
}

func TestPlayStatic(t *testing.T) {
	p := NewPlayer(linegraph.DefaultConfig(), demo.New(demo.Options{Static: true}))
	var frames []*image.RGBA
	for i, f := range p.Play(&Script{Width: 80, Height: 40, Frames: 3}) {
		if i != len(frames) {
			t.Errorf("frame index = %d, want %d", i, len(frames))
		}
		frames = append(frames, f)
	}
	if err := p.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("frames = %d, want 3", len(frames))
	}
	if p.Host.Draws() != 1 {
		t.Errorf("Draws() = %d, want 1", p.Host.Draws())
	}
	if frames[1] != frames[0] || frames[2] != frames[0] {
		t.Error("idle steps should repeat the last frame")
	}
	if frames[0].Rect != image.Rect(0, 0, 80, 40) {
		t.Errorf("frame bounds = %v", frames[0].Rect)
	}
}

func TestPlayAnimated(t *testing.T) {
	src := demo.New(demo.Options{Seed: 1})
	p := NewPlayer(linegraph.DefaultConfig(), src)
	if p.Ticker == nil {
		t.Fatal("analyzer should be ticked")
	}
	var frames []*image.RGBA
	for _, f := range p.Play(&Script{Width: 80, Height: 40, Frames: 4}) {
		frames = append(frames, f)
	}
	if src.Ticks() != 4 || p.Host.Draws() != 4 {
		t.Errorf("ticks = %d, draws = %d, want 4, 4", src.Ticks(), p.Host.Draws())
	}
	if frames[3] == frames[2] {
		t.Error("every tick should produce a new frame")
	}
	if p.Widget.Generation() != 4 {
		t.Errorf("Generation() = %d, want 4", p.Widget.Generation())
	}
}

func TestPlayDrag(t *testing.T) {
	s, err := ParseScript([]byte(dragScript))
	if err != nil {
		t.Fatal(err)
	}
	p := NewPlayer(linegraph.DefaultConfig(), demo.New(demo.Options{Static: true}))
	h := handles.Empty()
	h.Active, h.X, h.DefaultX = true, 0.5, 0.5
	if err := p.Widget.SetHandle(0, h); err != nil {
		t.Fatal(err)
	}

	if _, err := p.Last(s); err != nil {
		t.Fatalf("Last() error = %v", err)
	}
	got, _ := p.Widget.Handle(0)
	if math.Abs(got.X-0.75) > 1e-9 {
		t.Errorf("handle X = %v, want 0.75", got.X)
	}
	if !slices.Contains(p.Host.Cursors(), linegraph.CursorHand) {
		t.Errorf("cursors = %v, want a hand", p.Host.Cursors())
	}
	// initial draw, drag, release
	if p.Host.Draws() < 3 {
		t.Errorf("Draws() = %d, want at least 3", p.Host.Draws())
	}
}

func TestPlayForce(t *testing.T) {
	p := NewPlayer(linegraph.DefaultConfig(), demo.New(demo.Options{Static: true}))
	s := &Script{Width: 80, Height: 40, Frames: 3, Events: []Event{{Frame: 2, Kind: "force"}}}
	if _, err := p.Last(s); err != nil {
		t.Fatal(err)
	}
	// the initial draw, then the force request and the step's own refresh
	if p.Host.Draws() != 3 {
		t.Errorf("Draws() = %d, want 3", p.Host.Draws())
	}
}

func TestPlayResize(t *testing.T) {
	p := NewPlayer(linegraph.DefaultConfig(), demo.New(demo.Options{Static: true}))
	s := &Script{Width: 80, Height: 40, Frames: 2, Events: []Event{{Frame: 1, Kind: "resize", Width: 60, Height: 30}}}
	last, err := p.Last(s)
	if err != nil {
		t.Fatal(err)
	}
	if last.Rect != image.Rect(0, 0, 60, 30) {
		t.Errorf("last frame = %v, want 60x30", last.Rect)
	}
}

func TestPlayError(t *testing.T) {
	p := NewPlayer(linegraph.DefaultConfig(), demo.New(demo.Options{Static: true}))
	s := &Script{Width: 80, Height: 40, Frames: 3, Events: []Event{{Frame: 1, Kind: "wobble"}}}
	n := 0
	for range p.Play(s) {
		n++
	}
	if n != 1 {
		t.Errorf("frames before error = %d, want 1", n)
	}
	if !errors.Is(p.Err(), errors.ErrCodeInvalidScript) {
		t.Errorf("Err() = %v, want %s", p.Err(), errors.ErrCodeInvalidScript)
	}

	_, err := p.Last(&Script{Width: 0, Height: 0, Frames: 1})
	if !errors.Is(err, errors.ErrCodeInvalidSize) {
		t.Errorf("Last(empty size) error = %v, want %s", err, errors.ErrCodeInvalidSize)
	}
}
