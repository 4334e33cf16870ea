// Package phone provides Turkish mobile number utilities.
// This is part of the platform layer and contains no business logic.
//
// Three forms are supported:
//
//	storage   05XXXXXXXXX     (11 digits, national prefix)
//	messaging +905XXXXXXXXX   (E.164, used for WhatsApp)
//	display   05XX XXX XX XX  (grouped national form)
package phone

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const (
	defaultRegion  = "TR"
	countryCode    = "90"
	nationalPrefix = "0"
)

// Target selects the output form of Normalize.
type Target string

const (
	TargetStorage   Target = "storage"
	TargetMessaging Target = "messaging"
	TargetDisplay   Target = "display"
)

// IsValidTarget reports whether t is a known target form.
func IsValidTarget(t Target) bool {
	switch t {
	case TargetStorage, TargetMessaging, TargetDisplay:
		return true
	}
	return false
}

var (
	nonDigit      = regexp.MustCompile(`\D`)
	mobileBare    = regexp.MustCompile(`^5[0-9]{9}$`)
	mobileNat     = regexp.MustCompile(`^05[0-9]{9}$`)
	mobileIntl    = regexp.MustCompile(`^905[0-9]{9}$`)
	displayLayout = regexp.MustCompile(`^0[0-9]{3} [0-9]{3} [0-9]{2} [0-9]{2}$`)
)

// Digits strips every non-digit character from input.
func Digits(input string) string {
	return nonDigit.ReplaceAllString(input, "")
}

// ToStorageForm converts input to the canonical national form 0XXXXXXXXXX.
// Unrecognized shapes are returned digit-stripped; callers validate separately.
func ToStorageForm(input string) string {
	digits := Digits(input)

	switch {
	case len(digits) == 12 && strings.HasPrefix(digits, countryCode):
		return nationalPrefix + digits[2:]
	case len(digits) == 10:
		return nationalPrefix + digits
	case len(digits) == 11 && strings.HasPrefix(digits, nationalPrefix):
		return digits
	}

	return digits
}

// ToMessagingForm converts input to the international form +90XXXXXXXXXX.
// Unrecognized shapes are returned digit-stripped.
func ToMessagingForm(input string) string {
	trimmed := strings.TrimSpace(input)
	digits := Digits(trimmed)

	switch {
	case len(digits) == 11 && strings.HasPrefix(digits, nationalPrefix):
		return "+" + countryCode + digits[1:]
	case len(digits) == 12 && strings.HasPrefix(digits, countryCode):
		return "+" + digits
	case len(digits) == 10:
		return "+" + countryCode + digits
	case strings.HasPrefix(trimmed, "+"+countryCode):
		return "+" + digits
	}

	return digits
}

// Validate reports whether input is a Turkish mobile number in bare,
// 0-prefixed or 90-prefixed form. 11-digit numbers without the leading 0
// are rejected rather than guessed.
func Validate(input string) bool {
	digits := Digits(input)

	switch len(digits) {
	case 10:
		return mobileBare.MatchString(digits)
	case 11:
		return mobileNat.MatchString(digits)
	case 12:
		return mobileIntl.MatchString(digits)
	}
	return false
}

// ToDisplayForm formats a valid number as 0XXX XXX XX XX.
// Invalid input is returned unchanged.
func ToDisplayForm(input string) string {
	if !Validate(input) {
		return input
	}
	storage := ToStorageForm(input)

	if number, err := phonenumbers.Parse(storage, defaultRegion); err == nil {
		formatted := phonenumbers.Format(number, phonenumbers.NATIONAL)
		if displayLayout.MatchString(formatted) {
			return formatted
		}
	}

	return storage[0:4] + " " + storage[4:7] + " " + storage[7:9] + " " + storage[9:]
}

// Normalize converts input to the requested target form.
func Normalize(input string, target Target) string {
	switch target {
	case TargetMessaging:
		return ToMessagingForm(input)
	case TargetDisplay:
		return ToDisplayForm(input)
	default:
		return ToStorageForm(input)
	}
}

// WhatsAppID returns the digit-only international number used by wa.me
// links and the GOWA gateway.
func WhatsAppID(input string) string {
	return strings.TrimPrefix(ToMessagingForm(input), "+")
}
