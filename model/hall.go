package model

import "github.com/shopspring/decimal"

type Hall struct {
	Id       int             `json:"id"`
	HallNo   string          `json:"hall_no"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Capacity int             `json:"capacity,omitempty"`
}

type HallInput struct {
	HallNo   string          `json:"hall_no"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}
