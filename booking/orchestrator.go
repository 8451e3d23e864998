// Package booking sequences the two-step purchase flows: create a booking or
// food order, pay for it, and delete it again when the payment fails.
package booking

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"cinema-cli/model"
	"cinema-cli/payment"
	"cinema-cli/pricing"
	"cinema-cli/service"
	"cinema-cli/session"
)

// TicketBackend is the slice of the API ticket bookings need.
type TicketBackend interface {
	PaymentBackend
	CreateBooking(ctx context.Context, req model.BookingRequest) (model.Booking, error)
	DeleteBooking(ctx context.Context, id int) error
}

// Draft is the unpaid ticket selection.
type Draft struct {
	Key            model.ShowKey
	TicketQuantity int
}

func newDraft() Draft {
	return Draft{TicketQuantity: 1}
}

// Orchestrator drives one ticket purchase at a time. It is safe for use from
// several goroutines; a second Pay while one is in flight fails with ErrBusy.
type Orchestrator struct {
	backend TicketBackend
	logger  logrus.FieldLogger
	now     func() time.Time

	mu       sync.Mutex
	state    State
	busy     bool
	listing  map[model.ShowKey]model.Show
	revision uint64
	draft    Draft
	form     payment.Input
}

type options struct {
	logger logrus.FieldLogger
	now    func() time.Time
}

type Option func(*options)

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: logrus.StandardLogger(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func NewOrchestrator(backend TicketBackend, opts ...Option) *Orchestrator {
	o := buildOptions(opts)
	return &Orchestrator{
		backend: backend,
		logger:  o.logger.WithField("flow", KindBooking),
		now:     o.now,
		listing: map[model.ShowKey]model.Show{},
		draft:   newDraft(),
	}
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) Draft() Draft {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.draft
}

func (o *Orchestrator) Form() payment.Input {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.form
}

// Revision increases with every listing refresh.
func (o *Orchestrator) Revision() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.revision
}

// SetListing replaces the last fetched show listing. A selection whose show
// disappeared is dropped, closing payment capture if it was open.
func (o *Orchestrator) SetListing(shows []model.Show) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.listing = model.IndexShows(shows)
	o.revision++
	if o.busy || o.draft.Key.IsZero() {
		return
	}
	if _, ok := o.listing[o.draft.Key]; !ok {
		o.logger.WithField("show_key", o.draft.Key.String()).Info("selected show left the listing")
		o.resetLocked()
	}
}

// Select picks a show from the last fetched listing.
func (o *Orchestrator) Select(key model.ShowKey) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.busy || o.state > StateShowSelected {
		return ErrInvalidSelection
	}
	if _, ok := o.listing[key]; !ok {
		return ErrShowUnavailable
	}
	o.draft.Key = key
	o.state = StateShowSelected
	return nil
}

// SetQuantity updates the ticket count. Values below one are raised to one.
func (o *Orchestrator) SetQuantity(n int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.busy {
		return ErrInvalidSelection
	}
	if n < 1 {
		n = 1
	}
	o.draft.TicketQuantity = n
	return nil
}

// Selected returns the chosen show as it appears in the current listing.
func (o *Orchestrator) Selected() (model.Show, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	show, ok := o.listing[o.draft.Key]
	return show, ok && !o.draft.Key.IsZero()
}

// Quote prices the draft against the current listing.
func (o *Orchestrator) Quote() (pricing.Quote, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	show, ok := o.listing[o.draft.Key]
	if !ok || o.draft.Key.IsZero() {
		return pricing.Quote{}, false
	}
	return pricing.Quote{
		Total:    pricing.TicketTotal(show, o.draft.TicketQuantity),
		Revision: o.revision,
	}, true
}

// Confirm checks the session and the draft and opens payment capture.
func (o *Orchestrator) Confirm(sess session.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.busy {
		return ErrBusy
	}
	if !sess.HasUser() {
		return ErrNotLoggedIn
	}
	if o.draft.Key.IsZero() {
		return ErrNoShowSelected
	}
	if o.draft.TicketQuantity < 1 {
		return ErrInvalidQuantity
	}
	if _, ok := o.listing[o.draft.Key]; !ok {
		o.resetLocked()
		return ErrShowUnavailable
	}
	o.state = StateConfirming
	return nil
}

// SetPaymentField formats raw into the payment form and returns the form.
func (o *Orchestrator) SetPaymentField(field payment.Field, raw string) payment.Input {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.busy {
		o.form = o.form.Set(field, raw)
	}
	return o.form
}

// Cancel closes payment capture. Requests already sent are not affected.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy {
		return
	}
	o.form = payment.Input{}
	if o.state == StateConfirming {
		o.state = StateShowSelected
	}
}

// Reset discards the draft and the payment form.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.busy {
		o.resetLocked()
	}
}

func (o *Orchestrator) resetLocked() {
	o.draft = newDraft()
	o.form = payment.Input{}
	o.state = StateIdle
}

// Pay validates the payment form, creates the booking and pays for it. If the
// payment fails the booking is deleted before Pay returns, and the returned
// error describes the payment failure.
func (o *Orchestrator) Pay(ctx context.Context, sess session.Context) (Receipt, error) {
	o.mu.Lock()
	if o.busy {
		o.mu.Unlock()
		return Receipt{}, ErrBusy
	}
	if o.state != StateConfirming {
		o.mu.Unlock()
		return Receipt{}, ErrNotConfirming
	}
	if err := payment.Validate(o.form, o.now()); err != nil {
		o.mu.Unlock()
		return Receipt{}, err
	}
	show, ok := o.listing[o.draft.Key]
	if !ok {
		o.resetLocked()
		o.mu.Unlock()
		return Receipt{}, ErrShowUnavailable
	}
	draft := o.draft
	form := o.form
	o.busy = true
	o.state = StateAwaitingPayment
	o.mu.Unlock()

	correlationID := service.NewCorrelationID()
	ctx = service.WithCorrelationID(session.NewContext(ctx, sess), correlationID)
	logger := o.logger.WithFields(logrus.Fields{
		"correlation_id": correlationID,
		"user_id":        sess.UserId,
		"show_key":       draft.Key.String(),
	})

	amount := pricing.TicketTotal(show, draft.TicketQuantity)
	created, err := o.backend.CreateBooking(ctx, model.BookingRequest{
		Date:           draft.Key.Date,
		Time:           draft.Key.Time,
		TicketQuantity: draft.TicketQuantity,
		UserId:         sess.UserId,
		MovieId:        draft.Key.MovieId,
		HallId:         draft.Key.HallId,
	})
	if err != nil {
		logger.WithError(err).Warn("booking creation failed")
		o.finish(StateConfirming, false)
		return Receipt{}, &StageError{Stage: StageBooking, Err: err}
	}

	o.setState(StateSettling)
	paid, err := settle(ctx, o.backend, o.backend.DeleteBooking, settlement{
		kind:   KindBooking,
		id:     created.Id,
		amount: amount,
		form:   form,
		paidAt: o.now(),
	}, logger)
	o.finish(StateIdle, true)
	if err != nil {
		return Receipt{}, err
	}

	return Receipt{
		Kind:      KindBooking,
		Id:        created.Id,
		PaymentId: paid.Id,
		Quantity:  draft.TicketQuantity,
		Amount:    amount,
	}, nil
}

func (o *Orchestrator) setState(state State) {
	o.mu.Lock()
	o.state = state
	o.mu.Unlock()
}

func (o *Orchestrator) finish(state State, clear bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.busy = false
	if clear {
		o.resetLocked()
		return
	}
	o.state = state
}

// Total is a convenience for callers that only need the amount.
func (o *Orchestrator) Total() decimal.Decimal {
	quote, _ := o.Quote()
	return quote.Total
}
