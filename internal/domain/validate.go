package domain

import "regexp"

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[0-9]{10}$`)
	pinRe   = regexp.MustCompile(`^[0-9]{4}$`)
)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool { return emailRe.MatchString(s) }

// ValidPhone reports whether s is a 10-digit phone number.
func ValidPhone(s string) bool { return phoneRe.MatchString(s) }

// ValidPIN reports whether s is a 4-digit PIN.
func ValidPIN(s string) bool { return pinRe.MatchString(s) }
