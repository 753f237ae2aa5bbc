package live

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// FinalReportPhase is the counter value once the closing report begins.
// Numbered questions occupy 1 through QuestionCount.
const (
	QuestionCount    = 10
	FinalReportPhase = QuestionCount + 1
)

var questionPattern = regexp.MustCompile(`(?i)question\s+(\d+)\s+of\s+10`)

const finalReportMarker = "FINAL PROGRESS REPORT"

// Tracker derives interview progress from the model-side transcription
// stream. It accumulates tokens per turn so a phrase split across deltas
// still matches. The counter never decreases, and once the final report
// marker is seen it stays at FinalReportPhase for the rest of the session.
type Tracker struct {
	mu       sync.Mutex
	turn     strings.Builder
	question int
	terminal bool
	onChange func(question int)
}

// NewTracker creates a progress tracker. onChange fires whenever the counter
// moves, with the new value; it may be nil.
func NewTracker(onChange func(question int)) *Tracker {
	return &Tracker{onChange: onChange}
}

// AddOutput scans a model transcription token against the turn so far.
func (t *Tracker) AddOutput(text string) {
	t.mu.Lock()
	t.turn.WriteString(text)
	accumulated := t.turn.String()

	changed := false
	if !t.terminal && strings.Contains(strings.ToUpper(accumulated), finalReportMarker) {
		t.terminal = true
		t.question = FinalReportPhase
		changed = true
	}

	if !t.terminal {
		for _, m := range questionPattern.FindAllStringSubmatch(accumulated, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil || n < 1 || n > QuestionCount {
				continue
			}
			if n > t.question {
				t.question = n
				changed = true
			}
		}
	}

	question := t.question
	cb := t.onChange
	t.mu.Unlock()

	if changed && cb != nil {
		cb(question)
	}
}

// CommitTurn clears the per-turn accumulation buffer. Counter state is kept.
func (t *Tracker) CommitTurn() {
	t.mu.Lock()
	t.turn.Reset()
	t.mu.Unlock()
}

// Question returns the current counter value. 0 means no question seen yet.
func (t *Tracker) Question() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.question
}

// Terminal reports whether the final report marker has been seen.
func (t *Tracker) Terminal() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.terminal
}

// Reset returns the tracker to its initial state.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.turn.Reset()
	t.question = 0
	t.terminal = false
	t.mu.Unlock()
}
