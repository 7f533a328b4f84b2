package storage

import (
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestCreateSessionPath(t *testing.T) {
	id := "82f06b15-1111-2222-3333-444455556666"

	tests := []struct {
		name     string
		strategy SessionNamingStrategy
		label    string
		pattern  string
	}{
		{"uuid", SessionUUID, "", `^sessions/82f06b15-1111-2222-3333-444455556666$`},
		{"timestamp", SessionTimestamp, "", `^sessions/\d{4}-\d{2}-\d{2}_\d{4}_82f06b15$`},
		{"descriptive", SessionDescriptive, "The Long Night: Part I", `^sessions/\d{4}-\d{2}-\d{2}_\d{4}_the-long-night-part-i_82f06b15$`},
		{"descriptive empty label", SessionDescriptive, "???", `^sessions/\d{4}-\d{2}-\d{2}_\d{4}_manuscript_82f06b15$`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filepath.ToSlash(CreateSessionPath("", id, tt.label, tt.strategy))
			if !regexp.MustCompile(tt.pattern).MatchString(got) {
				t.Errorf("CreateSessionPath() = %q, want match for %s", got, tt.pattern)
			}
		})
	}
}

func TestParseSessionNaming(t *testing.T) {
	tests := map[string]SessionNamingStrategy{
		"":            SessionUUID,
		"uuid":        SessionUUID,
		"Timestamp":   SessionTimestamp,
		"descriptive": SessionDescriptive,
		"bogus":       SessionUUID,
	}
	for in, want := range tests {
		if got := ParseSessionNaming(in); got != want {
			t.Errorf("ParseSessionNaming(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSanitizeForFilename(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Hello World", 30, "hello-world"},
		{"  --a//b--  ", 30, "a-b"},
		{"abcdefghij klmnop", 11, "abcdefghij"},
		{"", 30, "manuscript"},
	}
	for _, tt := range tests {
		if got := sanitizeForFilename(tt.in, tt.max); got != tt.want {
			t.Errorf("sanitizeForFilename(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestNewSessionIDUnique(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()
	if a == b || len(a) != 36 {
		t.Errorf("NewSessionID() = %q, %q", a, b)
	}
	if !strings.Contains(string(SessionMetadata(a, "Title", 3)), a) {
		t.Error("SessionMetadata does not mention the session id")
	}
}
