package validation

import (
	"regexp"
	"unicode"
)

// PasswordStrength grades a password for display next to a signup form.
type PasswordStrength int

const (
	Weak PasswordStrength = iota
	Medium
	Strong
)

func (p PasswordStrength) String() string {
	switch p {
	case Strong:
		return "Strong"
	case Medium:
		return "Medium"
	default:
		return "Weak"
	}
}

// PasswordRequirements describes what a Strong password needs.
const PasswordRequirements = "Password should have at least 8 characters and include uppercase, lowercase, numbers, and special characters."

// MinPasswordLength is the shortest password the register flow accepts.
const MinPasswordLength = 8

// OTPLength is the number of digits in a one-time passcode.
const OTPLength = 6

var emailPattern = regexp.MustCompile(
	`^[a-zA-Z0-9+._%\-]{1,256}` +
		`@` +
		`[a-zA-Z0-9][a-zA-Z0-9\-]{0,64}` +
		`(\.[a-zA-Z0-9][a-zA-Z0-9\-]{0,25})+$`,
)

// IsValidEmail reports whether s looks like local@domain.tld.
func IsValidEmail(s string) bool {
	return s != "" && emailPattern.MatchString(s)
}

// PasswordStrengthOf grades s: anything shorter than 8 characters is Weak,
// otherwise all four character classes make it Strong and two or three
// make it Medium.
func PasswordStrengthOf(s string) PasswordStrength {
	if len([]rune(s)) < MinPasswordLength {
		return Weak
	}
	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r):
			special = true
		}
	}
	n := 0
	for _, ok := range []bool{lower, upper, digit, special} {
		if ok {
			n++
		}
	}
	switch {
	case n == 4:
		return Strong
	case n >= 2:
		return Medium
	default:
		return Weak
	}
}

// IsValidOTP reports whether s is exactly six ASCII digits.
func IsValidOTP(s string) bool {
	if len(s) != OTPLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// PasswordsMatch compares a password with its confirmation.
func PasswordsMatch(a, b string) bool {
	return a == b
}
