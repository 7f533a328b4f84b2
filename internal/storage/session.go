package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SessionNamingStrategy defines how archived analysis directories are named
type SessionNamingStrategy int

const (
	// SessionUUID uses the full session id; unknown names fall back to it
	SessionUUID SessionNamingStrategy = iota
	// SessionTimestamp uses timestamp + short id (the configured default)
	SessionTimestamp
	// SessionDescriptive uses timestamp + sanitized manuscript title + short id
	SessionDescriptive
)

// ParseSessionNaming maps a config value to a strategy; unknown values fall
// back to SessionUUID
func ParseSessionNaming(name string) SessionNamingStrategy {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "timestamp":
		return SessionTimestamp
	case "descriptive":
		return SessionDescriptive
	default:
		return SessionUUID
	}
}

// NewSessionID returns a fresh session identifier
func NewSessionID() string {
	return uuid.New().String()
}

// CreateSessionPath returns the directory, relative to baseDir, that an
// analysis session is archived under
func CreateSessionPath(baseDir, sessionID, label string, strategy SessionNamingStrategy) string {
	shortID := sessionID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	switch strategy {
	case SessionTimestamp:
		// 2025-07-16_1530_82f06b15
		timestamp := time.Now().Format("2006-01-02_1504")
		return filepath.Join(baseDir, "sessions", fmt.Sprintf("%s_%s", timestamp, shortID))

	case SessionDescriptive:
		// 2025-07-16_1530_the-long-night_82f06b15
		timestamp := time.Now().Format("2006-01-02_1504")
		return filepath.Join(baseDir, "sessions", fmt.Sprintf("%s_%s_%s", timestamp, sanitizeForFilename(label, 30), shortID))

	default:
		return filepath.Join(baseDir, "sessions", sessionID)
	}
}

// sanitizeForFilename reduces s to lowercase letters, digits and single
// hyphens, at most maxLen bytes long
func sanitizeForFilename(s string, maxLen int) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == ' ', r == '-', r == '_', r == '/', r == '\\', r == ':', r == '.':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	out := strings.Trim(b.String(), "-")
	if len(out) > maxLen {
		out = strings.TrimRight(out[:maxLen], "-")
	}
	if out == "" {
		out = "manuscript"
	}
	return out
}

// SessionMetadata renders the README stored next to an archived analysis
func SessionMetadata(sessionID, title string, pointCount int) []byte {
	metadata := fmt.Sprintf(`# Analysis Session

**Session ID**: %s
**Date**: %s
**Manuscript**: %s
**Scenes**: %d

## Files

- report.json: curve points, statistics, diagnostics and suggestions
- report.txt: the same report formatted for reading
`, sessionID, time.Now().Format("2006-01-02 15:04:05"), title, pointCount)

	return []byte(metadata)
}
