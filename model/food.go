package model

import "github.com/shopspring/decimal"

type FoodItem struct {
	Id       int             `json:"id"`
	Item     string          `json:"item"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type FoodItemInput struct {
	Item     string          `json:"item"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type FoodOrderRequest struct {
	FoodIds       []int `json:"food_id"`
	OrderQuantity []int `json:"order_quantity"`
}

type FoodOrder struct {
	Id int `json:"id"`
}
