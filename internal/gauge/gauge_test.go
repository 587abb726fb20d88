package gauge

import (
	"fmt"
	"math"
	"testing"
)

func TestDecode_Steps(t *testing.T) {
	for n := 0; n <= 7; n++ {
		token := fmt.Sprintf("bar--step-%d", n)
		want := float64(n) / 8.0
		if got := Decode(token); got != want {
			t.Errorf("Decode(%q) = %v, want %v", token, got, want)
		}
	}
}

func TestDecode_MaxAndUnrecognized(t *testing.T) {
	tests := []struct {
		token string
		want  float64
	}{
		{"bar--max", 1.0},
		{"", 0.0},
		{"bar", 0.0},
		{"bar--step-", 0.0},
		{"bar--step-8", 0.0},
		{"bar--step-9", 0.0},
		{"bar--step-12", 0.0},
		{"bar--step-x", 0.0},
		{"bar--maximum", 0.0},
		{"BAR--MAX", 0.0},
		{"server-card__bar", 0.0},
		{"step-3", 0.0},
	}
	for _, tt := range tests {
		if got := Decode(tt.token); got != tt.want {
			t.Errorf("Decode(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestParse_Kinds(t *testing.T) {
	if l := Parse("bar--max"); l.Kind != Max {
		t.Errorf("Parse(bar--max).Kind = %v, want Max", l.Kind)
	}
	if l := Parse("bar--step-5"); l.Kind != Step || l.N != 5 {
		t.Errorf("Parse(bar--step-5) = %+v, want {Step 5}", l)
	}
	if l := Parse("junk"); l.Kind != Absent {
		t.Errorf("Parse(junk).Kind = %v, want Absent", l.Kind)
	}
}

func TestFraction_MaxIsExactlyOne(t *testing.T) {
	if f := MaxLevel().Fraction(); f != 1.0 {
		t.Errorf("MaxLevel().Fraction() = %v, want exactly 1.0", f)
	}
	// step 4 must be exactly representable: 0.5, no float noise
	if f := Decode("bar--step-4"); math.Abs(f-0.5) > 0 {
		t.Errorf("Decode(bar--step-4) = %v, want 0.5", f)
	}
}

func TestFindToken(t *testing.T) {
	tests := []struct {
		name      string
		classAttr string
		want      string
		wantOK    bool
	}{
		{"single encoded token", "bar--step-3", "bar--step-3", true},
		{"mixed with layout classes", "server-card__bar bar--step-6 bar--dark", "bar--step-6", true},
		{"max among others", "server-card__bar bar--max", "bar--max", true},
		{"no gauge token", "server-card__bar bar--dark", "", false},
		{"empty attribute", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindToken(tt.classAttr)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("FindToken(%q) = (%q, %v), want (%q, %v)",
					tt.classAttr, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
