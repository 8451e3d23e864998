package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const MaxImageSize = 5 << 20

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\d{11}$`)

	imageExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
	}
)

// FieldError reports a rejected form field.
type FieldError struct {
	Field string
	Msg   string
}

func (e *FieldError) Error() string {
	return e.Msg
}

func fieldErr(field, msg string) error {
	return &FieldError{Field: field, Msg: msg}
}

// ParseHallInput builds a hall payload from raw form values.
func ParseHallInput(hallNo, category, price string) (HallInput, error) {
	hallNo = strings.TrimSpace(hallNo)
	category = strings.TrimSpace(category)
	price = strings.TrimSpace(price)
	if hallNo == "" || category == "" || price == "" {
		return HallInput{}, errors.New("all fields are required")
	}
	amount, err := decimal.NewFromString(price)
	if err != nil {
		return HallInput{}, fieldErr("price", "price must be a number")
	}
	return HallInput{HallNo: hallNo, Category: category, Price: amount}, nil
}

func (in MovieInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Genre) == "" {
		return errors.New("movie name and genre are required")
	}
	return nil
}

// ValidateImage checks a poster file before upload.
func ValidateImage(filename string, size int64) error {
	if !imageExtensions[strings.ToLower(filepath.Ext(filename))] {
		return fieldErr("image", "please select a valid image file (JPEG, PNG, GIF, WebP)")
	}
	if size > MaxImageSize {
		return fieldErr("image", "image size should be less than 5MB")
	}
	return nil
}

// ResolveImageURL turns a stored poster path into something a browser can open.
func ResolveImageURL(base, imageURL string) string {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return ""
	}
	if strings.HasPrefix(imageURL, "http://") || strings.HasPrefix(imageURL, "https://") {
		return imageURL
	}
	base = strings.TrimRight(base, "/")
	return base + "/" + strings.TrimLeft(imageURL, "/")
}

func (in ShowInput) Validate() error {
	if in.MovieId <= 0 || in.HallId <= 0 || strings.TrimSpace(in.StartTime) == "" || strings.TrimSpace(in.EndTime) == "" {
		return errors.New("please select movie, hall, start time, and end time")
	}
	start, err := parseShowTime(in.StartTime)
	if err != nil {
		return fieldErr("start_time", fmt.Sprintf("invalid start time %q", in.StartTime))
	}
	end, err := parseShowTime(in.EndTime)
	if err != nil {
		return fieldErr("end_time", fmt.Sprintf("invalid end time %q", in.EndTime))
	}
	if !end.After(start) {
		return fieldErr("end_time", "end time must be after start time")
	}
	return nil
}

// ParseFoodItemInput builds an inventory payload from raw form values.
func ParseFoodItemInput(item, quantity, price string) (FoodItemInput, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return FoodItemInput{}, fieldErr("item", "item name is required")
	}
	if len([]rune(item)) < 2 {
		return FoodItemInput{}, fieldErr("item", "item name must be at least 2 characters")
	}

	qty, err := parseQuantity(strings.TrimSpace(quantity))
	if err != nil {
		return FoodItemInput{}, err
	}

	price = strings.TrimSpace(price)
	if price == "" {
		return FoodItemInput{}, fieldErr("price", "price is required")
	}
	amount, err := decimal.NewFromString(price)
	if err != nil {
		return FoodItemInput{}, fieldErr("price", "price must be a number")
	}
	if !amount.IsPositive() {
		return FoodItemInput{}, fieldErr("price", "price must be greater than 0")
	}

	return FoodItemInput{Item: item, Quantity: qty, Price: amount}, nil
}

func parseQuantity(raw string) (int, error) {
	if raw == "" {
		return 0, fieldErr("quantity", "quantity is required")
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fieldErr("quantity", "quantity must be a number")
	}
	if !value.IsPositive() {
		return 0, fieldErr("quantity", "quantity must be greater than 0")
	}
	if !value.Equal(value.Truncate(0)) {
		return 0, fieldErr("quantity", "quantity must be a whole number")
	}
	qty, err := strconv.Atoi(value.String())
	if err != nil {
		return 0, fieldErr("quantity", "quantity is too large")
	}
	return qty, nil
}

func (r SignupRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" || r.Password == "" {
		return errors.New("name and password are required")
	}
	if !emailPattern.MatchString(r.Email) {
		return fieldErr("email", "please enter a valid email address")
	}
	if !phonePattern.MatchString(r.PhoneNo) {
		return fieldErr("phoneNo", "phone number must be exactly 11 digits")
	}
	return nil
}
