package tutor

import (
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"Beginner", LevelBeginner},
		{"Intermediate", LevelIntermediate},
		{"Advanced", LevelAdvanced},
		{"", LevelBeginner},
		{"expert", LevelBeginner},
		{"beginner", LevelBeginner},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestSystemInstruction(t *testing.T) {
	for _, level := range []Level{LevelBeginner, LevelIntermediate, LevelAdvanced} {
		instruction := SystemInstruction(level)

		if !strings.Contains(instruction, "User Level: "+string(level)) {
			t.Errorf("%s instruction missing level", level)
		}
		// The downstream parsers depend on these exact phrases.
		if !strings.Contains(instruction, `"Question X of 10:"`) {
			t.Errorf("%s instruction missing question protocol", level)
		}
		if !strings.Contains(instruction, "FINAL PROGRESS REPORT") {
			t.Errorf("%s instruction missing report marker", level)
		}
		if !strings.Contains(instruction, "FLUENCY SCORE: [X]/100") {
			t.Errorf("%s instruction missing score format", level)
		}
	}
}
