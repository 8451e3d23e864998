package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type BookingRequest struct {
	Date           string `json:"date"`
	Time           string `json:"time"`
	TicketQuantity int    `json:"ticket_quantity"`
	UserId         int    `json:"user_id"`
	MovieId        int    `json:"movie_id"`
	HallId         int    `json:"hall_id"`
}

type Booking struct {
	Id             int              `json:"id"`
	Date           string           `json:"date"`
	Time           string           `json:"time"`
	TicketQuantity int              `json:"ticket_quantity"`
	Status         string           `json:"status,omitempty"`
	Movie          *Movie           `json:"movie,omitempty"`
	Hall           *Hall            `json:"hall,omitempty"`
	Payment        *PaymentSnapshot `json:"payment,omitempty"`
}

type PaymentSnapshot struct {
	Amount decimal.Decimal `json:"amount"`
}

type BookingLookup struct {
	Name  string
	Phone string
}

// PaymentRequest references either a booking or a food order, never both.
type PaymentRequest struct {
	BookingId   *int        `json:"booking_id,omitempty"`
	FoodOrderId *int        `json:"food_order_id,omitempty"`
	Amount      json.Number `json:"amount"`
	CardNumber  string      `json:"card_number"`
	Expiry      string      `json:"expiry"`
	Cvv         string      `json:"cvv"`
	PaidAt      string      `json:"paid_at"`
}

type Payment struct {
	Id int `json:"id"`
}
