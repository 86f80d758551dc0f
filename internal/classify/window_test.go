package classify

import "testing"

func TestWindowContains(t *testing.T) {
	w := NewWindow(10, 15, 11, 0, "9:30 AM")

	cases := []struct {
		name    string
		minutes int
		want    bool
	}{
		{"before start", 10*60 + 14, false},
		{"at start", 10*60 + 15, true},
		{"inside", 10*60 + 40, true},
		{"at end", 11 * 60, true},
		{"after end", 11*60 + 1, false},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Contains(tt.minutes); got != tt.want {
				t.Errorf("Contains(%d) = %v, want %v", tt.minutes, got, tt.want)
			}
		})
	}
}

func TestWindowSpill(t *testing.T) {
	plain := NewWindow(19, 0, 23, 59, "5:30 PM")
	if plain.ContainsSpill(30) {
		t.Error("window without spill accepted a rolled-over timestamp")
	}

	spill := plain.WithSpill(6, 0)
	if !spill.ContainsSpill(0) {
		t.Error("spill window rejected midnight")
	}
	if !spill.ContainsSpill(6 * 60) {
		t.Error("spill window rejected its own bound")
	}
	if spill.ContainsSpill(6*60 + 1) {
		t.Error("spill window accepted a timestamp past its bound")
	}
	if spill.Start != plain.Start || spill.End != plain.End {
		t.Error("WithSpill changed the base bounds")
	}
}

func TestWindowString(t *testing.T) {
	w := NewWindow(9, 5, 10, 30, "")
	if got := w.String(); got != "09:05-10:30" {
		t.Errorf("String() = %q", got)
	}
}
