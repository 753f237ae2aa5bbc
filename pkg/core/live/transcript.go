package live

import (
	"strings"
	"sync"
	"time"
)

// Role identifies the speaker of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TranscriptEntry is one committed utterance. Entries are immutable once
// appended.
type TranscriptEntry struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Assembler accumulates transcription tokens for both directions and flushes
// them into ordered entries at turn boundaries.
type Assembler struct {
	mu      sync.Mutex
	input   strings.Builder
	output  strings.Builder
	entries []TranscriptEntry
	now     func() time.Time
}

// NewAssembler creates an empty transcript assembler.
func NewAssembler() *Assembler {
	return &Assembler{now: time.Now}
}

// AddInput appends a user-side transcription token to the pending buffer.
func (a *Assembler) AddInput(text string) {
	a.mu.Lock()
	a.input.WriteString(text)
	a.mu.Unlock()
}

// AddOutput appends a model-side transcription token to the pending buffer.
func (a *Assembler) AddOutput(text string) {
	a.mu.Lock()
	a.output.WriteString(text)
	a.mu.Unlock()
}

// CommitTurn flushes both pending buffers into entries, user side first.
// Sides that trim to empty are skipped. Returns the newly committed entries;
// calling it again without new tokens commits nothing.
func (a *Assembler) CommitTurn() []TranscriptEntry {
	a.mu.Lock()
	defer a.mu.Unlock()

	var committed []TranscriptEntry
	if text := strings.TrimSpace(a.input.String()); text != "" {
		committed = append(committed, TranscriptEntry{
			Role:      RoleUser,
			Content:   text,
			Timestamp: a.now(),
		})
	}
	if text := strings.TrimSpace(a.output.String()); text != "" {
		committed = append(committed, TranscriptEntry{
			Role:      RoleAssistant,
			Content:   text,
			Timestamp: a.now(),
		})
	}
	a.input.Reset()
	a.output.Reset()

	a.entries = append(a.entries, committed...)
	return committed
}

// Entries returns a copy of all committed entries in order.
func (a *Assembler) Entries() []TranscriptEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]TranscriptEntry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Len returns the number of committed entries.
func (a *Assembler) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}
