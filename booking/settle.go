package booking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"cinema-cli/model"
	"cinema-cli/payment"
	"cinema-cli/pricing"
)

// PaymentBackend is the part of the API both flows settle through.
type PaymentBackend interface {
	CreatePayment(ctx context.Context, req model.PaymentRequest) (model.Payment, error)
}

// paidAtLayout is ISO 8601 with milliseconds, e.g. 2024-05-01T18:00:00.000Z.
const paidAtLayout = "2006-01-02T15:04:05.000Z07:00"

type settlement struct {
	kind   Kind
	id     int
	amount decimal.Decimal
	form   payment.Input
	paidAt time.Time
}

func (s settlement) request() model.PaymentRequest {
	id := s.id
	req := model.PaymentRequest{
		Amount:     pricing.Amount(s.amount),
		CardNumber: s.form.CardDigits(),
		Expiry:     s.form.Expiry,
		Cvv:        s.form.CVV,
		PaidAt:     s.paidAt.UTC().Format(paidAtLayout),
	}
	if s.kind == KindFoodOrder {
		req.FoodOrderId = &id
	} else {
		req.BookingId = &id
	}
	return req
}

// settle posts the payment for a freshly created record. When the payment
// fails the record is deleted exactly once; a failed delete is only logged.
func settle(
	ctx context.Context,
	backend PaymentBackend,
	rollback func(context.Context, int) error,
	s settlement,
	logger logrus.FieldLogger,
) (model.Payment, error) {
	logger = logger.WithFields(logrus.Fields{
		string(s.kind) + "_id": s.id,
		"amount":               s.amount.String(),
	})

	paid, err := backend.CreatePayment(ctx, s.request())
	if err == nil {
		logger.WithField("payment_id", paid.Id).Info("payment settled")
		return paid, nil
	}

	logger.WithError(err).Warn("payment failed, rolling back")
	// The rollback must go out even if the caller gave up on ctx.
	if delErr := rollback(context.WithoutCancel(ctx), s.id); delErr != nil {
		logger.WithError(delErr).Warn("rollback failed, record left for the backend to expire")
	} else {
		logger.Info("rolled back unpaid record")
	}
	return model.Payment{}, &StageError{Stage: StagePayment, Err: err}
}
