package cmd

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"

	"cinema-cli/payment"
)

func promptSecret(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Mask:  '*',
		Validate: func(input string) error {
			if input == "" {
				return errors.New("required")
			}
			return nil
		},
	}
	return prompt.Run()
}

func promptText(label string) (string, error) {
	prompt := promptui.Prompt{Label: label}
	value, err := prompt.Run()
	return strings.TrimSpace(value), err
}

// promptPaymentField asks for one card field. Input is checked through the
// same formatter the payment form uses, so digits may be typed with or
// without separators.
func promptPaymentField(field payment.Field) (string, error) {
	labels := map[payment.Field]string{
		payment.FieldCardNumber: "Card number",
		payment.FieldExpiry:     "Expiry (MM/YY)",
		payment.FieldCVV:        "CVV",
	}
	prompt := promptui.Prompt{
		Label: labels[field],
		Validate: func(input string) error {
			if payment.Format(field, input) == "" {
				return errors.New("required")
			}
			return nil
		},
	}
	if field == payment.FieldCVV {
		prompt.Mask = '*'
	}
	return prompt.Run()
}

func promptSelect(label string, items []string) (int, error) {
	selectItem := promptui.Select{
		Label: label,
		Items: items,
		Size:  10,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(items[index]), strings.ToLower(strings.TrimSpace(input)))
		},
	}
	index, _, err := selectItem.Run()
	return index, err
}
