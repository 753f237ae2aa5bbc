package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lingualive/lingualive/pkg/core/live"
)

func TestFetchProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ai/profile/student_123" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(Profile{CurrentLevel: "Intermediate", XP: 240})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/ai/", zerolog.Nop())
	profile, err := c.FetchProfile(context.Background(), "student_123")
	if err != nil {
		t.Fatalf("FetchProfile: %v", err)
	}
	if profile.CurrentLevel != "Intermediate" || profile.XP != 240 {
		t.Errorf("profile = %+v", profile)
	}
}

func TestProfileOrDefault(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
		},
		{
			name: "empty object",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{}"))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			c := NewClient(srv.URL, zerolog.Nop())
			profile := c.ProfileOrDefault(context.Background(), "student_123")
			if profile != DefaultProfile() {
				t.Errorf("profile = %+v, want default", profile)
			}
		})
	}
}

func TestProfileOrDefaultUnreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", zerolog.Nop())
	if got := c.ProfileOrDefault(context.Background(), "x"); got != DefaultProfile() {
		t.Errorf("profile = %+v, want default", got)
	}
}

func TestSyncTranscript(t *testing.T) {
	var calls int
	var received syncRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method != http.MethodPost || r.URL.Path != "/message" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	entries := []live.TranscriptEntry{
		{Role: live.RoleUser, Content: "hello", Timestamp: time.Now()},
		{Role: live.RoleAssistant, Content: "Welcome!", Timestamp: time.Now()},
	}

	c := NewClient(srv.URL, zerolog.Nop())
	if err := c.SyncTranscript(context.Background(), "student_123", entries); err != nil {
		t.Fatalf("SyncTranscript: %v", err)
	}

	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if received.UserID != "student_123" {
		t.Errorf("userId = %q", received.UserID)
	}
	if received.Message != "SESSION_COMPLETE_TRANSCRIPT" {
		t.Errorf("message = %q", received.Message)
	}
	if len(received.FullTranscript) != 2 ||
		received.FullTranscript[0].Role != live.RoleUser ||
		received.FullTranscript[1].Role != live.RoleAssistant {
		t.Errorf("transcript = %+v", received.FullTranscript)
	}
}

func TestSyncTranscriptErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())
	if err := c.SyncTranscript(context.Background(), "u", nil); err == nil {
		t.Error("want error on 502")
	}
}
