// Package audit records who did what to which booking resource.
package audit

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Entry represents an audit log entry.
type Entry struct {
	ID              string          `json:"id"`
	AgencyCompanyID string          `json:"agencyCompanyId,omitempty"`
	Actor           string          `json:"actor"`
	Role            string          `json:"role"`
	Action          string          `json:"action"`
	ResourceType    string          `json:"resourceType"`
	ResourceID      string          `json:"resourceId"`
	Metadata        json.RawMessage `json:"metadata,omitempty"`
	PayloadDigest   string          `json:"payloadDigest,omitempty"`
	IP              string          `json:"ip,omitempty"`
	UserAgent       string          `json:"userAgent,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Logger writes audit entries.
type Logger interface {
	Log(ctx context.Context, entry Entry) error
}

// NewID generates a random audit id.
func NewID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return "audit-" + hex.EncodeToString(buf)
}

// DigestJSON computes a SHA256 hex digest for metadata payloads.
func DigestJSON(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
