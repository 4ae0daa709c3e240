package domain

import "strings"

// EmailInput is the inbound email record submitted for classification.
// All fields are optional at the transport level; Validate decides whether
// the record carries enough signal to classify.
type EmailInput struct {
	Subject  string `json:"subject"`
	From     string `json:"from"`
	To       string `json:"to,omitempty"`
	Body     string `json:"body"`
	Snippet  string `json:"snippet,omitempty"`
	HTMLBody string `json:"htmlBody,omitempty"`
}

// InputStatus is the outcome of input validation.
type InputStatus int

const (
	InputOK InputStatus = iota
	InputInvalid
	InputInsufficient
)

// Validate checks the record deterministically. A nil receiver maps to the
// validation_error outcome, an email with no subject and no body maps to
// insufficient_content. Everything else is classifiable.
func (e *EmailInput) Validate() InputStatus {
	if e == nil {
		return InputInvalid
	}
	if strings.TrimSpace(e.Subject) == "" && strings.TrimSpace(e.Body) == "" {
		return InputInsufficient
	}
	return InputOK
}

// SearchText returns the text fields used for trigger matching, lowercased.
func (e *EmailInput) SearchText() (subject, snippet, body string) {
	return strings.ToLower(e.Subject), strings.ToLower(e.Snippet), strings.ToLower(e.Body)
}

// IsSelfSent reports whether the sender and recipient resolve to the same
// mailbox (local part and domain both equal, case-insensitive).
func (e *EmailInput) IsSelfSent() bool {
	if e.From == "" || e.To == "" {
		return false
	}
	from := normalizeAddress(e.From)
	to := normalizeAddress(e.To)
	return from != "" && from == to
}

// normalizeAddress extracts and lowercases the bare address from forms like
// "Name <user@host>" or "user@host".
func normalizeAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if i := strings.LastIndex(addr, "<"); i >= 0 {
		addr = addr[i+1:]
		addr = strings.TrimSuffix(addr, ">")
	}
	addr = strings.ToLower(strings.TrimSpace(addr))
	if !strings.Contains(addr, "@") {
		return ""
	}
	return addr
}

// SenderDomain returns the lowercased domain part of the sender address,
// or "" when the sender is missing or malformed.
func (e *EmailInput) SenderDomain() string {
	if e == nil {
		return ""
	}
	addr := normalizeAddress(e.From)
	if i := strings.LastIndex(addr, "@"); i >= 0 {
		return addr[i+1:]
	}
	return ""
}
