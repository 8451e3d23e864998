package booking

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"cinema-cli/service"
)

type State int

const (
	StateIdle State = iota
	StateShowSelected
	StateConfirming
	StateAwaitingPayment
	StateSettling
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateShowSelected:
		return "show selected"
	case StateConfirming:
		return "confirming"
	case StateAwaitingPayment:
		return "awaiting payment"
	case StateSettling:
		return "settling"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrShowUnavailable  = errors.New("selected show is no longer available")
	ErrNoShowSelected   = errors.New("please select a show")
	ErrInvalidQuantity  = errors.New("ticket quantity must be at least 1")
	ErrNoFoodSelected   = errors.New("please select at least one food item")
	ErrBusy             = errors.New("a payment is already in progress")
	ErrNotConfirming    = errors.New("nothing is waiting for payment")
	ErrNotLoggedIn      = errors.New("please log in to book tickets")
	ErrInvalidSelection = errors.New("selection cannot change while a payment is in progress")
)

// StockError is the advisory stock check against the last fetched inventory.
// The backend remains the authority on stock.
type StockError struct {
	Item      string
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("not enough %s in stock. available: %d", e.Item, e.Available)
}

type Stage string

const (
	StageBooking   Stage = "booking"
	StageFoodOrder Stage = "food order"
	StagePayment   Stage = "payment"
)

const defaultFailureMessage = "please try again"

// StageError is a remote failure at one step of a transaction. For payment
// failures it describes the payment, never the rollback that followed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Stage, service.MessageOf(e.Err, defaultFailureMessage))
}

func (e *StageError) Unwrap() error {
	return e.Err
}

type Kind string

const (
	KindBooking   Kind = "booking"
	KindFoodOrder Kind = "food_order"
)

// Receipt describes a settled transaction.
type Receipt struct {
	Kind      Kind
	Id        int
	PaymentId int
	Quantity  int
	Amount    decimal.Decimal
}

// Message renders the success line. Food totals always show two decimals,
// ticket totals show the amount as is.
func (r Receipt) Message() string {
	if r.Kind == KindFoodOrder {
		return fmt.Sprintf("Payment successful! Food order placed. Total: %s", r.Amount.StringFixed(2))
	}
	return fmt.Sprintf("Booking successful! %d tickets booked for %s. Booking ID: %d", r.Quantity, r.Amount.String(), r.Id)
}
