// Package payment formats card fields as they are typed and validates the
// completed form before anything is sent to the backend.
package payment

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

type Field string

const (
	FieldCardNumber Field = "card_number"
	FieldExpiry     Field = "expiry"
	FieldCVV        Field = "cvv"
)

// Input is the transient payment form. It is never persisted.
type Input struct {
	CardNumber string
	Expiry     string
	CVV        string
}

func (in Input) IsZero() bool {
	return in == Input{}
}

// Set formats raw for field and stores it, returning the updated form.
func (in Input) Set(field Field, raw string) Input {
	value := Format(field, raw)
	switch field {
	case FieldCardNumber:
		in.CardNumber = value
	case FieldExpiry:
		in.Expiry = value
	case FieldCVV:
		in.CVV = value
	}
	return in
}

// CardDigits returns the card number as sent on the wire, without grouping spaces.
func (in Input) CardDigits() string {
	return stripSpaces(in.CardNumber)
}

// Format reshapes a raw keystroke value for display. Unknown fields pass through.
func Format(field Field, raw string) string {
	switch field {
	case FieldCardNumber:
		return formatCardNumber(raw)
	case FieldExpiry:
		return formatExpiry(raw)
	case FieldCVV:
		digits := onlyDigits(raw)
		if len(digits) > 3 {
			digits = digits[:3]
		}
		return digits
	default:
		return raw
	}
}

// formatCardNumber puts a space after every run of four digits. Only spaces
// are stripped and there is no length cap here; Validate rejects anything
// but 16 digits.
func formatCardNumber(raw string) string {
	return strings.TrimSpace(cardGroupPattern.ReplaceAllString(stripSpaces(raw), "${1} "))
}

// formatExpiry inserts the slash once a third digit arrives.
func formatExpiry(raw string) string {
	digits := onlyDigits(raw)
	if len(digits) <= 2 {
		return digits
	}
	return digits[:2] + "/" + digits[2:]
}

func stripSpaces(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, value)
}

func onlyDigits(value string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, value)
}

// ValidationError names the field that failed and why.
type ValidationError struct {
	Field Field
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

var (
	cardGroupPattern = regexp.MustCompile(`(\d{4})`)
	cardPattern      = regexp.MustCompile(`^\d{16}$`)
	expiryPattern    = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvPattern       = regexp.MustCompile(`^\d{3}$`)
)

// Validate checks the form in order and returns the first failing rule.
// A card is expired when its (year, month) is strictly before now's
// (two-digit year, month).
func Validate(in Input, now time.Time) error {
	if !cardPattern.MatchString(in.CardDigits()) {
		return &ValidationError{Field: FieldCardNumber, Msg: "card number must be 16 digits"}
	}
	if !expiryPattern.MatchString(in.Expiry) {
		return &ValidationError{Field: FieldExpiry, Msg: "expiry must be in MM/YY format"}
	}

	month, _ := strconv.Atoi(in.Expiry[:2])
	year, _ := strconv.Atoi(in.Expiry[3:])
	if month < 1 || month > 12 {
		return &ValidationError{Field: FieldExpiry, Msg: "invalid expiry month"}
	}
	currentYear := now.Year() % 100
	currentMonth := int(now.Month())
	if year < currentYear || (year == currentYear && month < currentMonth) {
		return &ValidationError{Field: FieldExpiry, Msg: "card has expired"}
	}

	if !cvvPattern.MatchString(in.CVV) {
		return &ValidationError{Field: FieldCVV, Msg: "cvv must be 3 digits"}
	}
	return nil
}
