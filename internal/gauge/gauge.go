package gauge

import (
	"strings"
)

// Token vocabulary. stepPrefix is followed by a single digit 0–7.
const (
	stepPrefix = "bar--step-"
	maxToken   = "bar--max"
)

// steps is the number of discrete fill steps in the gauge; a step token
// encodes n/steps of full progress.
const steps = 8

// Kind discriminates the parsed indicator variants.
type Kind int

const (
	// Absent means no recognizable indicator was present. Decodes to 0.
	Absent Kind = iota
	// Step means a discrete fill step 0–7.
	Step
	// Max means the gauge is full, including the mid-transition state where
	// the bar has not been re-gauged yet.
	Max
)

// Level is the decoded gauge indicator.
type Level struct {
	Kind Kind
	// N is the step number, meaningful only when Kind == Step.
	N int
}

// MaxLevel returns the full-gauge Level. Used by the extractor when a
// transition marker forces maximum progress regardless of the bar's own token.
func MaxLevel() Level { return Level{Kind: Max} }

// Parse maps an indicator token to its Level. Unrecognized forms, including
// step numbers outside 0–7, parse as Absent. Parse never fails.
func Parse(token string) Level {
	if token == maxToken {
		return Level{Kind: Max}
	}
	rest, ok := strings.CutPrefix(token, stepPrefix)
	if !ok || len(rest) != 1 {
		return Level{}
	}
	n := int(rest[0] - '0')
	if n >= steps { // non-digit bytes wrap far above the step range
		return Level{}
	}
	return Level{Kind: Step, N: n}
}

// Fraction returns the normalized progress in [0, 1]: n/8 for a step token,
// 1.0 for the maximum token, 0.0 for an absent indicator.
func (l Level) Fraction() float64 {
	switch l.Kind {
	case Max:
		return 1.0
	case Step:
		return float64(l.N) / steps
	default:
		return 0.0
	}
}

// Decode is the one-shot form of Parse followed by Fraction.
func Decode(token string) float64 {
	return Parse(token).Fraction()
}

// FindToken scans a whitespace-separated class attribute and returns the
// first token matching the gauge vocabulary. The progress bar element carries
// several class tokens (layout, theme); only the gauge-encoding one matters.
func FindToken(classAttr string) (string, bool) {
	for _, tok := range strings.Fields(classAttr) {
		if Parse(tok).Kind != Absent {
			return tok, true
		}
	}
	return "", false
}
