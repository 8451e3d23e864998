package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"cinema-cli/payment"
)

// fieldSetter formats a payment field and returns the stored form.
type fieldSetter interface {
	SetPaymentField(field payment.Field, raw string) payment.Input
}

var paymentFields = []payment.Field{payment.FieldCardNumber, payment.FieldExpiry, payment.FieldCVV}

// payForm is the card entry form. Every keystroke is pushed through the
// flow's formatter and the input shows the formatted value.
type payForm struct {
	inputs []textinput.Model
	focus  int
}

func newPayForm() payForm {
	placeholders := []string{"1234 5678 9012 3456", "MM/YY", "123"}
	limits := []int{19, 5, 3}
	inputs := make([]textinput.Model, len(paymentFields))
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i] + 1
		ti.Width = limits[i] + 2
		if paymentFields[i] == payment.FieldCVV {
			ti.EchoMode = textinput.EchoPassword
		}
		inputs[i] = ti
	}
	inputs[0].Focus()
	return payForm{inputs: inputs}
}

// Update returns submit=true when enter is pressed on the last field.
func (f payForm) Update(msg tea.KeyMsg, setter fieldSetter) (payForm, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "down":
		f.move(1)
		return f, nil, false
	case "shift+tab", "up":
		f.move(-1)
		return f, nil, false
	case "enter":
		if f.focus < len(f.inputs)-1 {
			f.move(1)
			return f, nil, false
		}
		return f, nil, true
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	field := paymentFields[f.focus]
	form := setter.SetPaymentField(field, f.inputs[f.focus].Value())
	f.sync(form)
	return f, cmd, false
}

func (f *payForm) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *payForm) sync(form payment.Input) {
	values := []string{form.CardNumber, form.Expiry, form.CVV}
	for i, value := range values {
		if f.inputs[i].Value() != value {
			f.inputs[i].SetValue(value)
			f.inputs[i].CursorEnd()
		}
	}
}

func (f payForm) View() string {
	labels := []string{"Card number", "Expiry", "CVV"}
	var b strings.Builder
	for i, input := range f.inputs {
		b.WriteString(labelStyle.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}
	b.WriteString(hint("tab next field • enter pay • esc cancel"))
	return b.String()
}
