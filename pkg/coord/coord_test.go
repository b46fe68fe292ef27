package coord

import (
	"image"
	"testing"
)

func TestNew(t *testing.T) {
	m := New(100, 80, 5, 10)
	want := Mapper{OX: 5, OY: 10, SX: 90, SY: 60}
	if m != want {
		t.Errorf("New = %+v, want %+v", m, want)
	}
	if got := m.Rect(); got != image.Rect(5, 10, 95, 70) {
		t.Errorf("Rect = %v, want %v", got, image.Rect(5, 10, 95, 70))
	}
}

func TestGridX(t *testing.T) {
	m := New(100, 100, 5, 5)
	tests := []struct {
		pos  float32
		want float64
	}{
		{0, 5},
		{0.5, 50},
		{1, 95},
		{0.25, 28}, // 22.5 rounds away from zero
	}
	for _, tt := range tests {
		if got := m.GridX(tt.pos); got != tt.want {
			t.Errorf("GridX(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestY(t *testing.T) {
	m := New(100, 100, 5, 5) // SY=90, half=45
	tests := []struct {
		v    float32
		want float64
	}{
		{0, 50},
		{1, 6},
		{-1, 94},
		{0.5, 28},
	}
	for _, tt := range tests {
		if got := m.Y(tt.v); got != tt.want {
			t.Errorf("Y(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestGridY(t *testing.T) {
	m := New(100, 101, 5, 5) // SY=91, half=45
	tests := []struct {
		pos  float32
		want float64
	}{
		{0, 50},
		{1, 6},
		{0.25, 39}, // 50 - 11 exactly
		{0.3, 36},  // 50 - 13.2 floors to 36
		{-0.3, 63}, // 50 + 13.2 floors to 63
	}
	for _, tt := range tests {
		if got := m.GridY(tt.pos); got != tt.want {
			t.Errorf("GridY(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestX(t *testing.T) {
	m := New(50, 50, 3, 3)
	if got := m.X(0); got != 3 {
		t.Errorf("X(0) = %v, want 3", got)
	}
	if got := m.X(m.SX - 1); got != 46 {
		t.Errorf("X(last) = %v, want 46", got)
	}
	if got := m.DotX(0.5); got != 25 {
		t.Errorf("DotX(0.5) = %v, want 25", got)
	}
}

func TestContains(t *testing.T) {
	m := New(20, 20, 2, 2)
	tests := []struct {
		x, y float64
		want bool
	}{
		{2, 2, true},
		{17.9, 17.9, true},
		{18, 10, false},
		{10, 1.5, false},
		{-1, -1, false},
	}
	for _, tt := range tests {
		if got := m.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestHandleExtent(t *testing.T) {
	tests := []struct {
		sx, sy int
		hx, hy int
	}{
		{100, 100, 99, 99},
		{101, 100, 101, 99},
		{1, 2, 1, 1},
	}
	for _, tt := range tests {
		m := Mapper{SX: tt.sx, SY: tt.sy}
		hx, hy := m.HandleExtent()
		if hx != tt.hx || hy != tt.hy {
			t.Errorf("HandleExtent(%d, %d) = %d, %d, want %d, %d", tt.sx, tt.sy, hx, hy, tt.hx, tt.hy)
		}
	}
}

func TestHandleRoundTrip(t *testing.T) {
	m := New(110, 110, 5, 5) // SX=100, extent 99
	for _, v := range []float64{0, 0.25, 0.5, 0.75, 1} {
		px := m.HandleX(v)
		py := m.HandleY(v)
		gx, gy := m.Inverse(px, py)
		if d := gx - v; d > 0.01 || d < -0.01 {
			t.Errorf("Inverse(HandleX(%v)) = %v, want ~%v", v, gx, v)
		}
		if d := gy - v; d > 0.01 || d < -0.01 {
			t.Errorf("Inverse(HandleY(%v)) = %v, want ~%v", v, gy, v)
		}
	}
	if got := m.HandleX(0.5); got != 55 {
		t.Errorf("HandleX(0.5) = %v, want 55", got)
	}
	if ox, oy := m.HandleOffset(1, 0); ox != 99 || oy != 0 {
		t.Errorf("HandleOffset(1, 0) = %d, %d, want 99, 0", ox, oy)
	}
}
