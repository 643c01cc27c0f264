package utils

import (
	"testing"
	"time"
)

func TestCoalesceString(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want string
	}{
		{"empty slice", []string{}, ""},
		{"all empty", []string{"", "", ""}, ""},
		{"first non-empty", []string{"zh", "", "en"}, "zh"},
		{"second non-empty", []string{"", "en", "zh"}, "en"},
		{"single", []string{"x"}, "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoalesceString(tt.in...); got != tt.want {
				t.Errorf("CoalesceString(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultInt(t *testing.T) {
	if got := DefaultInt(0, 10); got != 10 {
		t.Errorf("DefaultInt(0, 10) = %d", got)
	}
	if got := DefaultInt(3, 10); got != 3 {
		t.Errorf("DefaultInt(3, 10) = %d", got)
	}
}

func TestDefaultFloat(t *testing.T) {
	if got := DefaultFloat(0, 0.7); got != 0.7 {
		t.Errorf("DefaultFloat(0, 0.7) = %v", got)
	}
	if got := DefaultFloat(0.5, 0.7); got != 0.5 {
		t.Errorf("DefaultFloat(0.5, 0.7) = %v", got)
	}
}

func TestParseDuration(t *testing.T) {
	if got := ParseDuration("", time.Minute); got != time.Minute {
		t.Errorf("empty -> default, got %v", got)
	}
	if got := ParseDuration("bogus", time.Minute); got != time.Minute {
		t.Errorf("bogus -> default, got %v", got)
	}
	if got := ParseDuration("30m", time.Minute); got != 30*time.Minute {
		t.Errorf("30m parsed as %v", got)
	}
}

func TestBoolOrDefault(t *testing.T) {
	if !BoolOrDefault(nil, true) {
		t.Error("nil should fall back to default true")
	}
	f := false
	if BoolOrDefault(&f, true) {
		t.Error("explicit false should win over default")
	}
}
