package payment

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"
)

func TestFormat_CardNumberGroupsOfFour(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		var digits strings.Builder
		for j := 0; j < 16; j++ {
			digits.WriteByte(byte('0' + rng.Intn(10)))
		}
		got := Format(FieldCardNumber, digits.String())

		if strings.HasSuffix(got, " ") {
			t.Fatalf("unexpected trailing space in %q", got)
		}
		groups := strings.Split(got, " ")
		if len(groups) != 4 {
			t.Fatalf("expected 4 groups in %q", got)
		}
		for _, g := range groups {
			if len(g) != 4 {
				t.Fatalf("expected groups of 4 digits in %q", got)
			}
		}
		if strings.ReplaceAll(got, " ", "") != digits.String() {
			t.Fatalf("digits changed: %q -> %q", digits.String(), got)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		field Field
		raw   string
		want  string
	}{
		{FieldCardNumber, "4111111111111111", "4111 1111 1111 1111"},
		{FieldCardNumber, "4111 1111 11", "4111 1111 11"},
		{FieldCardNumber, "41111", "4111 1"},
		{FieldCardNumber, "4111", "4111"},
		{FieldExpiry, "1", "1"},
		{FieldExpiry, "12", "12"},
		{FieldExpiry, "123", "12/3"},
		{FieldExpiry, "12/30", "12/30"},
		{FieldExpiry, "12a30", "12/30"},
		{FieldCVV, "12345", "123"},
		{FieldCVV, "1a2", "12"},
		{Field("other"), "as is", "as is"},
	}
	for _, tc := range tests {
		if got := Format(tc.field, tc.raw); got != tc.want {
			t.Fatalf("Format(%s, %q): expected %q, got %q", tc.field, tc.raw, tc.want, got)
		}
	}
}

func TestInput_Set(t *testing.T) {
	in := Input{}.Set(FieldCardNumber, "4111111111111111").Set(FieldExpiry, "1230").Set(FieldCVV, "1234")
	if in.CardNumber != "4111 1111 1111 1111" || in.Expiry != "12/30" || in.CVV != "123" {
		t.Fatalf("unexpected form: %+v", in)
	}
	if in.CardDigits() != "4111111111111111" {
		t.Fatalf("unexpected card digits %q", in.CardDigits())
	}
}

func valid() Input {
	return Input{CardNumber: "4111 1111 1111 1111", Expiry: "12/30", CVV: "123"}
}

func TestValidate(t *testing.T) {
	now := time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		edit  func(*Input)
		field Field
		msg   string
	}{
		{"short card", func(in *Input) { in.CardNumber = "4111 1111" }, FieldCardNumber, "card number must be 16 digits"},
		{"bad expiry format", func(in *Input) { in.Expiry = "1230" }, FieldExpiry, "expiry must be in MM/YY format"},
		{"month zero", func(in *Input) { in.Expiry = "00/30" }, FieldExpiry, "invalid expiry month"},
		{"month thirteen", func(in *Input) { in.Expiry = "13/30" }, FieldExpiry, "invalid expiry month"},
		{"past year", func(in *Input) { in.Expiry = "12/25" }, FieldExpiry, "card has expired"},
		{"past month", func(in *Input) { in.Expiry = "04/26" }, FieldExpiry, "card has expired"},
		{"short cvv", func(in *Input) { in.CVV = "12" }, FieldCVV, "cvv must be 3 digits"},
		{"card checked first", func(in *Input) { in.CardNumber = ""; in.CVV = "" }, FieldCardNumber, "card number must be 16 digits"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := valid()
			tc.edit(&in)
			err := Validate(in, now)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Field != tc.field || verr.Msg != tc.msg {
				t.Fatalf("expected %s %q, got %s %q", tc.field, tc.msg, verr.Field, verr.Msg)
			}
		})
	}

	if err := Validate(valid(), now); err != nil {
		t.Fatalf("expected valid form, got %v", err)
	}
	current := valid()
	current.Expiry = "05/26"
	if err := Validate(current, now); err != nil {
		t.Fatalf("expected the current month to be accepted, got %v", err)
	}
}

func TestValidate_PastExpiriesAlwaysFail(t *testing.T) {
	now := time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC)
	for year := 0; year <= 26; year++ {
		for month := 1; month <= 12; month++ {
			if year == 26 && month >= 5 {
				continue
			}
			in := valid().Set(FieldExpiry, twoDigits(month)+twoDigits(year))
			var verr *ValidationError
			if err := Validate(in, now); !errors.As(err, &verr) || verr.Msg != "card has expired" {
				t.Fatalf("expected %s to be expired, got %v", in.Expiry, err)
			}
		}
	}
}

func twoDigits(n int) string {
	return string([]byte{byte('0' + n/10), byte('0' + n%10)})
}
