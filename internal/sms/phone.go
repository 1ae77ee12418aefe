// Package sms holds phone-number normalization and the thin client
// for the external SMS provider.
package sms

import (
	"errors"
	"strings"
)

// ErrInvalidPhone is returned when a phone number has too few digits
// to be deliverable after normalization.
var ErrInvalidPhone = errors.New("invalid phone number")

const minSubscriberDigits = 7

// Normalize converts raw user input into international format with a
// leading "+". Inputs already carrying a country code (either "+CC…"
// or "00CC…") keep it; bare national numbers get defaultPrefix (e.g.
// "+91") prepended. Spaces, dashes and parentheses are stripped.
// Two inputs that normalize equal are treated as the same phone by
// supplier linking, so this must stay deterministic.
func Normalize(raw, defaultPrefix string) (string, error) {
	s := strings.TrimSpace(raw)
	plus := strings.HasPrefix(s, "+")

	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	// "00" is the common dialed form of "+".
	if !plus && strings.HasPrefix(digits, "00") {
		digits = digits[2:]
		plus = true
	}
	if len(digits) < minSubscriberDigits {
		return "", ErrInvalidPhone
	}
	if plus {
		return "+" + digits, nil
	}
	prefix := strings.TrimPrefix(strings.TrimSpace(defaultPrefix), "+")
	return "+" + prefix + digits, nil
}

// PseudoEmail folds a normalized phone number into the email-shaped
// identifier stored in the users table, so the generic email/password
// credential columns work unchanged for phone login.
func PseudoEmail(normalizedPhone string) string {
	return strings.TrimPrefix(normalizedPhone, "+") + "@sms.local"
}
