package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"cinema-cli/model"
)

// CreateBooking reserves tickets for a show. The booking stays provisional
// until a payment referencing its id succeeds.
func (c *Client) CreateBooking(ctx context.Context, req model.BookingRequest) (model.Booking, error) {
	var booking model.Booking
	if err := c.postJSON(ctx, c.endpoint("/bookings", nil), req, &booking); err != nil {
		return model.Booking{}, err
	}
	if booking.Id == 0 {
		return model.Booking{}, errors.New("booking response carried no id")
	}
	return booking, nil
}

// DeleteBooking removes a booking, used to roll back one whose payment failed.
func (c *Client) DeleteBooking(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("invalid booking id %d", id)
	}
	return c.delete(ctx, c.endpoint(resourcePath("/bookings", id), nil))
}

// SearchBookings looks bookings up by customer name and/or phone.
func (c *Client) SearchBookings(ctx context.Context, lookup model.BookingLookup) ([]model.Booking, error) {
	query := url.Values{}
	if name := strings.TrimSpace(lookup.Name); name != "" {
		query.Set("name", name)
	}
	if phone := strings.TrimSpace(lookup.Phone); phone != "" {
		query.Set("phone", phone)
	}
	if len(query) == 0 {
		return nil, errors.New("name or phone is required")
	}

	var bookings []model.Booking
	if err := c.getJSON(ctx, c.endpoint("/bookings", query), &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// CreateFoodOrder places a provisional food order.
func (c *Client) CreateFoodOrder(ctx context.Context, req model.FoodOrderRequest) (model.FoodOrder, error) {
	if len(req.FoodIds) == 0 || len(req.FoodIds) != len(req.OrderQuantity) {
		return model.FoodOrder{}, errors.New("food ids and quantities must be non-empty and aligned")
	}
	var order model.FoodOrder
	if err := c.postJSON(ctx, c.endpoint("/food-order", nil), req, &order); err != nil {
		return model.FoodOrder{}, err
	}
	if order.Id == 0 {
		return model.FoodOrder{}, errors.New("food order response carried no id")
	}
	return order, nil
}

// DeleteFoodOrder removes a food order, used to roll back one whose payment failed.
func (c *Client) DeleteFoodOrder(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("invalid food order id %d", id)
	}
	return c.delete(ctx, c.endpoint(resourcePath("/food-order", id), nil))
}

// CreatePayment settles a booking or a food order. Any 2xx counts as paid,
// even when the body is not the expected JSON.
func (c *Client) CreatePayment(ctx context.Context, req model.PaymentRequest) (model.Payment, error) {
	if (req.BookingId == nil) == (req.FoodOrderId == nil) {
		return model.Payment{}, errors.New("payment must reference exactly one of booking or food order")
	}
	var payment model.Payment
	if err := c.postJSON(ctx, c.endpoint("/payments", nil), req, &payment); err != nil {
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			c.logger.WithError(err).WithField("status", decodeErr.StatusCode).Warn("payment accepted with an unreadable response")
			return model.Payment{}, nil
		}
		return model.Payment{}, err
	}
	return payment, nil
}
