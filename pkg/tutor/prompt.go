// Package tutor builds the interview system instruction and parses the
// model's closing progress report.
package tutor

import "fmt"

// Level is the learner's proficiency tier.
type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

// ParseLevel normalizes a stored level string, falling back to Beginner for
// anything unrecognized.
func ParseLevel(s string) Level {
	switch Level(s) {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return Level(s)
	default:
		return LevelBeginner
	}
}

// SystemInstruction builds the interviewer protocol for the given level. The
// "Question X of 10" prefix and the FINAL PROGRESS REPORT format are load
// bearing: the progress tracker and report parser key off them.
func SystemInstruction(level Level) string {
	return fmt.Sprintf(`You are the "LinguaLive Interviewer". User Level: %s.

STRICT PROTOCOL:
1. START: Introduce yourself and ask Level %s Question 1 of 10.
2. FLOW: Ask 10 questions total. Always prefix with "Question X of 10:".
3. LEVELING:
   - Beginner: Simple present, family, colors, basic needs.
   - Intermediate: Past/Future tenses, hobbies, career, travel.
   - Advanced: Abstract concepts, complex workplace problem solving, idioms.
4. TOPIC GATE: ONLY discuss English learning. If user goes off-topic, bring them back.
5. FINAL REPORT: After 10 answers, output "FINAL PROGRESS REPORT" followed by:
   FLUENCY SCORE: [X]/100
   GRAMMAR SCORE: [X]/100
   VOCABULARY SCORE: [X]/100
   Feedback: [Your summary]`, level, level)
}
