package logging

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// GenerateSessionID returns a run identifier of the form
// YYYYMMDD_HHMMSS_xxxx, e.g. 20251217_205106_a7b3.
func GenerateSessionID() string {
	suffix := make([]byte, 2)
	_, _ = rand.Read(suffix)
	return time.Now().Format("20060102_150405") + "_" + hex.EncodeToString(suffix)
}

// ShortSessionID returns the random suffix of a session id.
func ShortSessionID(sessionID string) string {
	if len(sessionID) < 4 {
		return sessionID
	}
	return sessionID[len(sessionID)-4:]
}
