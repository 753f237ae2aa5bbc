package live

import (
	"testing"
)

func TestCommitTurnOrdersUserFirst(t *testing.T) {
	a := NewAssembler()
	a.AddOutput("I am ")
	a.AddOutput("doing well.")
	a.AddInput("How are ")
	a.AddInput("you?")

	committed := a.CommitTurn()
	if len(committed) != 2 {
		t.Fatalf("committed %d entries, want 2", len(committed))
	}
	if committed[0].Role != RoleUser || committed[0].Content != "How are you?" {
		t.Errorf("first entry = %s %q, want user entry", committed[0].Role, committed[0].Content)
	}
	if committed[1].Role != RoleAssistant || committed[1].Content != "I am doing well." {
		t.Errorf("second entry = %s %q, want assistant entry", committed[1].Role, committed[1].Content)
	}
	if committed[1].Timestamp.Before(committed[0].Timestamp) {
		t.Error("assistant timestamp precedes user timestamp")
	}
}

func TestCommitTurnSkipsEmptySides(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		output string
		want   int
	}{
		{"both empty", "", "", 0},
		{"whitespace only", "  \n", "\t ", 0},
		{"assistant only", "", "Hello! Welcome to your interview.", 1},
		{"user only", "hello", "  ", 1},
		{"both present", "hi", "hello", 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := NewAssembler()
			a.AddInput(tc.input)
			a.AddOutput(tc.output)
			if got := len(a.CommitTurn()); got != tc.want {
				t.Errorf("committed %d entries, want %d", got, tc.want)
			}
		})
	}
}

func TestCommitTurnIdempotent(t *testing.T) {
	a := NewAssembler()
	a.AddInput("hello")
	a.AddOutput("hi there")

	if got := len(a.CommitTurn()); got != 2 {
		t.Fatalf("first commit = %d entries, want 2", got)
	}
	if got := len(a.CommitTurn()); got != 0 {
		t.Errorf("second commit = %d entries, want 0", got)
	}
	if a.Len() != 2 {
		t.Errorf("total entries = %d, want 2", a.Len())
	}
}

func TestCommitTurnTrims(t *testing.T) {
	a := NewAssembler()
	a.AddInput("  hello ")
	a.AddInput("there  \n")

	committed := a.CommitTurn()
	if committed[0].Content != "hello there" {
		t.Errorf("content = %q, want %q", committed[0].Content, "hello there")
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	a := NewAssembler()
	a.AddInput("one")
	a.CommitTurn()

	entries := a.Entries()
	entries[0].Content = "mutated"

	if a.Entries()[0].Content != "one" {
		t.Error("caller mutation leaked into the assembler")
	}
}

func TestEntriesAccumulateAcrossTurns(t *testing.T) {
	a := NewAssembler()
	a.AddOutput("Question 1")
	a.CommitTurn()
	a.AddInput("my answer")
	a.AddOutput("Question 2")
	a.CommitTurn()

	entries := a.Entries()
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	want := []Role{RoleAssistant, RoleUser, RoleAssistant}
	for i, r := range want {
		if entries[i].Role != r {
			t.Errorf("entry %d role = %s, want %s", i, entries[i].Role, r)
		}
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Timestamp.Before(entries[i-1].Timestamp) {
			t.Errorf("entry %d timestamp out of order", i)
		}
	}
}
