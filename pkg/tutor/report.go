package tutor

import (
	"regexp"
	"strconv"
	"strings"
)

// Report is a parsed final progress report.
type Report struct {
	Fluency    int
	Grammar    int
	Vocabulary int
	Feedback   string
}

var (
	fluencyPattern    = regexp.MustCompile(`(?i)FLUENCY SCORE:\s*\[?(\d{1,3})\]?\s*/\s*100`)
	grammarPattern    = regexp.MustCompile(`(?i)GRAMMAR SCORE:\s*\[?(\d{1,3})\]?\s*/\s*100`)
	vocabularyPattern = regexp.MustCompile(`(?i)VOCABULARY SCORE:\s*\[?(\d{1,3})\]?\s*/\s*100`)
	feedbackPattern   = regexp.MustCompile(`(?is)Feedback:\s*(.+)$`)
)

// ParseReport extracts the three scores and trailing feedback from a final
// transcript entry. Returns false unless all three scores are present and in
// range.
func ParseReport(text string) (Report, bool) {
	fluency, ok := matchScore(fluencyPattern, text)
	if !ok {
		return Report{}, false
	}
	grammar, ok := matchScore(grammarPattern, text)
	if !ok {
		return Report{}, false
	}
	vocabulary, ok := matchScore(vocabularyPattern, text)
	if !ok {
		return Report{}, false
	}

	report := Report{
		Fluency:    fluency,
		Grammar:    grammar,
		Vocabulary: vocabulary,
	}
	if m := feedbackPattern.FindStringSubmatch(text); m != nil {
		report.Feedback = strings.TrimSpace(m[1])
	}
	return report, true
}

func matchScore(p *regexp.Regexp, text string) (int, bool) {
	m := p.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n > 100 {
		return 0, false
	}
	return n, true
}
