// Package identity generates entity identifiers. Ids carry a short type
// prefix over a UUID so collisions stay negligible under concurrent
// creation, unlike the timestamp-derived ids they replace.
package identity

import (
	"strings"

	"github.com/google/uuid"
)

// New returns a prefixed unique id, e.g. "SO-9F3B2C...".
func New(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + strings.ToUpper(raw)
}

// NewOrderID returns a shift order id.
func NewOrderID() string { return New("SO") }

// NewStatementID returns a monthly statement id.
func NewStatementID() string { return New("ST") }
