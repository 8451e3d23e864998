package booking

import (
	"context"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"cinema-cli/model"
	"cinema-cli/payment"
	"cinema-cli/pricing"
	"cinema-cli/service"
	"cinema-cli/session"
)

// FoodBackend is the slice of the API food orders need.
type FoodBackend interface {
	PaymentBackend
	CreateFoodOrder(ctx context.Context, req model.FoodOrderRequest) (model.FoodOrder, error)
	DeleteFoodOrder(ctx context.Context, id int) error
}

// FoodOrderer is the food counterpart of Orchestrator: the order is created
// when the payment form is submitted and deleted if the payment fails.
type FoodOrderer struct {
	backend FoodBackend
	logger  logrus.FieldLogger
	now     func() time.Time

	mu        sync.Mutex
	state     State
	busy      bool
	inventory []model.FoodItem
	revision  uint64
	selection pricing.FoodSelection
	form      payment.Input
}

func NewFoodOrderer(backend FoodBackend, opts ...Option) *FoodOrderer {
	o := buildOptions(opts)
	return &FoodOrderer{
		backend:   backend,
		logger:    o.logger.WithField("flow", KindFoodOrder),
		now:       o.now,
		selection: pricing.FoodSelection{},
	}
}

func (f *FoodOrderer) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *FoodOrderer) Revision() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revision
}

func (f *FoodOrderer) Inventory() []model.FoodItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.FoodItem(nil), f.inventory...)
}

func (f *FoodOrderer) Form() payment.Input {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// SetInventory replaces the last fetched inventory. Quantities of items that
// disappeared are dropped.
func (f *FoodOrderer) SetInventory(items []model.FoodItem) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.inventory = append([]model.FoodItem(nil), items...)
	f.revision++
	if f.busy {
		return
	}
	for id := range f.selection {
		if _, ok := lo.Find(f.inventory, func(item model.FoodItem) bool { return item.Id == id }); !ok {
			delete(f.selection, id)
		}
	}
}

// SetQuantity records the wanted quantity of one item, clamped at zero.
func (f *FoodOrderer) SetQuantity(foodID int, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy || f.state > StateShowSelected {
		return ErrInvalidSelection
	}
	f.selection.Set(foodID, qty)
	f.state = StateShowSelected
	if f.selection.Empty() {
		f.state = StateIdle
	}
	return nil
}

func (f *FoodOrderer) Quantity(foodID int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selection[foodID]
}

// Lines prices the current selection against the current inventory.
func (f *FoodOrderer) Lines() []pricing.Line {
	f.mu.Lock()
	defer f.mu.Unlock()
	return pricing.FoodLines(f.selection, f.inventory)
}

func (f *FoodOrderer) Quote() pricing.Quote {
	f.mu.Lock()
	defer f.mu.Unlock()
	return pricing.Quote{
		Total:    pricing.FoodTotal(f.selection, f.inventory),
		Revision: f.revision,
	}
}

// Confirm checks the session, that something is selected and that the last
// known stock covers it, then opens payment capture.
func (f *FoodOrderer) Confirm(sess session.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.busy {
		return ErrBusy
	}
	if !sess.HasUser() {
		return ErrNotLoggedIn
	}
	lines := pricing.FoodLines(f.selection, f.inventory)
	if len(lines) == 0 {
		return ErrNoFoodSelected
	}
	if err := checkStock(lines); err != nil {
		return err
	}
	f.state = StateConfirming
	return nil
}

func (f *FoodOrderer) SetPaymentField(field payment.Field, raw string) payment.Input {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.busy {
		f.form = f.form.Set(field, raw)
	}
	return f.form
}

func (f *FoodOrderer) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return
	}
	f.form = payment.Input{}
	if f.state == StateConfirming {
		f.state = StateShowSelected
	}
}

// Reset clears the selection and the payment form.
func (f *FoodOrderer) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.busy {
		f.resetLocked()
	}
}

func (f *FoodOrderer) resetLocked() {
	f.selection = pricing.FoodSelection{}
	f.form = payment.Input{}
	f.state = StateIdle
}

// Pay creates the food order and pays for it, deleting the order again if
// the payment fails.
func (f *FoodOrderer) Pay(ctx context.Context, sess session.Context) (Receipt, error) {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return Receipt{}, ErrBusy
	}
	if f.state != StateConfirming {
		f.mu.Unlock()
		return Receipt{}, ErrNotConfirming
	}
	if err := payment.Validate(f.form, f.now()); err != nil {
		f.mu.Unlock()
		return Receipt{}, err
	}
	lines := pricing.FoodLines(f.selection, f.inventory)
	if len(lines) == 0 {
		f.state = StateIdle
		f.mu.Unlock()
		return Receipt{}, ErrNoFoodSelected
	}
	if err := checkStock(lines); err != nil {
		f.mu.Unlock()
		return Receipt{}, err
	}
	form := f.form
	amount := pricing.FoodTotal(f.selection, f.inventory)
	f.busy = true
	f.state = StateAwaitingPayment
	f.mu.Unlock()

	correlationID := service.NewCorrelationID()
	ctx = service.WithCorrelationID(session.NewContext(ctx, sess), correlationID)
	logger := f.logger.WithFields(logrus.Fields{
		"correlation_id": correlationID,
		"user_id":        sess.UserId,
		"items":          len(lines),
	})

	order, err := f.backend.CreateFoodOrder(ctx, model.FoodOrderRequest{
		FoodIds:       lo.Map(lines, func(line pricing.Line, _ int) int { return line.Item.Id }),
		OrderQuantity: lo.Map(lines, func(line pricing.Line, _ int) int { return line.Quantity }),
	})
	if err != nil {
		logger.WithError(err).Warn("food order creation failed")
		f.finish(StateConfirming, false)
		return Receipt{}, &StageError{Stage: StageFoodOrder, Err: err}
	}

	f.mu.Lock()
	f.state = StateSettling
	f.mu.Unlock()

	paid, err := settle(ctx, f.backend, f.backend.DeleteFoodOrder, settlement{
		kind:   KindFoodOrder,
		id:     order.Id,
		amount: amount,
		form:   form,
		paidAt: f.now(),
	}, logger)
	f.finish(StateIdle, true)
	if err != nil {
		return Receipt{}, err
	}

	return Receipt{
		Kind:      KindFoodOrder,
		Id:        order.Id,
		PaymentId: paid.Id,
		Quantity:  lo.Sum(lo.Map(lines, func(line pricing.Line, _ int) int { return line.Quantity })),
		Amount:    amount,
	}, nil
}

func (f *FoodOrderer) finish(state State, clear bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false
	if clear {
		f.resetLocked()
		return
	}
	f.state = state
}

// checkStock compares each line with the last fetched inventory.
func checkStock(lines []pricing.Line) error {
	for _, line := range lines {
		if line.Quantity > line.Item.Quantity {
			return &StockError{Item: line.Item.Item, Available: line.Item.Quantity}
		}
	}
	return nil
}
