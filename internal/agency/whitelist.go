package agency

import "strings"

// ContactMethod identifies how an agent is reached.
type ContactMethod string

const (
	ContactPhone ContactMethod = "phone"
	ContactEmail ContactMethod = "email"
)

// NormalizeContactMethod validates a contact method string.
func NormalizeContactMethod(value string) (ContactMethod, bool) {
	switch ContactMethod(value) {
	case ContactPhone, ContactEmail:
		return ContactMethod(value), true
	default:
		return "", false
	}
}

// WhitelistedAgent binds a contact to a single agency company.
type WhitelistedAgent struct {
	AgencyCompanyID string `yaml:"agency_company_id"`
	Phone           string `yaml:"phone,omitempty"`
	Email           string `yaml:"email,omitempty"`
	Notes           string `yaml:"notes,omitempty"`
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// NormalizePhone strips formatting characters, a leading "+" and a leading
// "86" country prefix. This is a single hardcoded prefix strip, not E.164
// normalization.
func NormalizePhone(value string) string {
	trimmed := strings.TrimSpace(value)
	var b strings.Builder
	for i, r := range trimmed {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	normalized := strings.TrimPrefix(b.String(), "+")
	return strings.TrimPrefix(normalized, "86")
}

// NormalizeContact normalizes a raw contact value for the given method.
func NormalizeContact(method ContactMethod, value string) string {
	if method == ContactEmail {
		return NormalizeEmail(value)
	}
	return NormalizePhone(value)
}

// AgentKey builds the canonical agent key used to scope order history.
func AgentKey(method ContactMethod, value string) string {
	return string(method) + ":" + NormalizeContact(method, value)
}

// Whitelist resolves agent contacts against a static agent list.
type Whitelist struct {
	agents []WhitelistedAgent
}

// NewWhitelist constructs a whitelist over the given agents.
func NewWhitelist(agents []WhitelistedAgent) *Whitelist {
	return &Whitelist{agents: agents}
}

// Resolve returns the owning agency company id for a contact, or "" when the
// contact is not whitelisted. A phone lookup never matches an email entry.
func (w *Whitelist) Resolve(method ContactMethod, value string) string {
	if w == nil {
		return ""
	}
	normalized := NormalizeContact(method, value)
	if normalized == "" {
		return ""
	}
	for _, agent := range w.agents {
		if method == ContactEmail {
			if agent.Email != "" && NormalizeEmail(agent.Email) == normalized {
				return agent.AgencyCompanyID
			}
			continue
		}
		if agent.Phone != "" && NormalizePhone(agent.Phone) == normalized {
			return agent.AgencyCompanyID
		}
	}
	return ""
}

// IsWhitelisted reports whether the contact resolves to a company.
func (w *Whitelist) IsWhitelisted(method ContactMethod, value string) bool {
	return w.Resolve(method, value) != ""
}
