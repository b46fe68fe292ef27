package trace

import (
	"strings"
	"testing"
)

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.Clear("grid")
	r.Copy("grid", "cache", 1)
	r.Reset()
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
	if r.Ops() != nil {
		t.Error("Ops() on nil recorder should be nil")
	}
}

func TestRecorderOrder(t *testing.T) {
	r := New()
	r.Copy("background", "grid", 1)
	r.Draw("grid", "cache", "grid", 3)
	r.Shift("moving1", "moving0", 0, -1)
	r.Present("realtime")
	r.Overlay("handles")

	want := []string{
		"copy background->grid 1.00",
		"draw cache grid->grid x3",
		"shift moving1->moving0 +0,-1",
		"present realtime",
		"overlay handles",
	}
	got := strings.Split(strings.TrimSpace(r.String()), "\n")
	if len(got) != len(want) {
		t.Fatalf("String() has %d lines, want %d:\n%s", len(got), len(want), r.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}

	ops := r.Ops()
	ops[0].Src = "mutated"
	if r.Ops()[0].Src != "background" {
		t.Error("Ops() should return a copy")
	}

	r.Reset()
	if r.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", r.Len())
	}
}

func TestToDOT(t *testing.T) {
	ops := []Op{
		{Kind: KindClear, Dst: "moving0"},
		{Kind: KindCopy, Src: "cache", Dst: "realtime", Alpha: 0.4},
		{Kind: KindPresent, Src: "realtime"},
	}
	dot := ToDOT(ops)

	for _, want := range []string{
		"digraph G {",
		`"op0" [shape=point];`,
		`"op0" -> "moving0" [label="1 clear"];`,
		`"cache" -> "realtime" [label="2 copy 0.40"];`,
		`"realtime" -> "output" [label="3 present"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q in:\n%s", want, dot)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00"><g/></svg>`)
	got := string(normalizeViewBox(in))
	if !strings.Contains(got, `width="62" height="116"`) {
		t.Errorf("normalizeViewBox() = %s", got)
	}
	if !strings.Contains(got, "<g/>") {
		t.Error("normalizeViewBox() should keep the body")
	}

	plain := []byte("<svg><g/></svg>")
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("normalizeViewBox() should leave svgs without viewBox untouched")
	}
}
