package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"

	"cinema-cli/model"
	"cinema-cli/payment"
	"cinema-cli/session"
)

var fixedNow = time.Date(2026, time.May, 10, 9, 30, 0, 0, time.UTC)

func testOptions() []Option {
	logger, _ := test.NewNullLogger()
	return []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(logger),
	}
}

var customer = session.Context{Token: "jwt", UserId: 9, Name: "ana", Role: model.RoleCustomer}

// fakeBackend records every call and fails the ones it is told to.
type fakeBackend struct {
	mu sync.Mutex

	bookings       []model.BookingRequest
	foodOrders     []model.FoodOrderRequest
	payments       []model.PaymentRequest
	deletedBooking []int
	deletedFood    []int
	sessions       []session.Context

	bookingErr error
	foodErr    error
	paymentErr error
	deleteErr  error

	// block, when set, holds CreateBooking until it is closed.
	block chan struct{}
}

func (f *fakeBackend) CreateBooking(ctx context.Context, req model.BookingRequest) (model.Booking, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings = append(f.bookings, req)
	if sess, ok := session.FromContext(ctx); ok {
		f.sessions = append(f.sessions, sess)
	}
	if f.bookingErr != nil {
		return model.Booking{}, f.bookingErr
	}
	return model.Booking{Id: 42}, nil
}

func (f *fakeBackend) DeleteBooking(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedBooking = append(f.deletedBooking, id)
	return f.deleteErr
}

func (f *fakeBackend) CreateFoodOrder(ctx context.Context, req model.FoodOrderRequest) (model.FoodOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.foodOrders = append(f.foodOrders, req)
	if f.foodErr != nil {
		return model.FoodOrder{}, f.foodErr
	}
	return model.FoodOrder{Id: 17}, nil
}

func (f *fakeBackend) DeleteFoodOrder(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedFood = append(f.deletedFood, id)
	return f.deleteErr
}

func (f *fakeBackend) CreatePayment(ctx context.Context, req model.PaymentRequest) (model.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payments = append(f.payments, req)
	if f.paymentErr != nil {
		return model.Payment{}, f.paymentErr
	}
	return model.Payment{Id: 7}, nil
}

func fillCard(set func(payment.Field, string) payment.Input) {
	set(payment.FieldCardNumber, "4111111111111111")
	set(payment.FieldExpiry, "1230")
	set(payment.FieldCVV, "123")
}

func intPtr(v int) *int {
	return &v
}

func duneShow() model.Show {
	return model.Show{
		Id:        1,
		Movie:     model.Movie{Id: 10, Name: "Dune"},
		Hall:      model.Hall{Id: 5, HallNo: "A1", Price: decimal.NewFromInt(500)},
		StartTime: "2024-05-01T18:00:00",
	}
}

var errBoom = errors.New("boom")
