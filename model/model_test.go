package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func TestShowKey_RoundTrip(t *testing.T) {
	show := Show{
		Movie:     Movie{Id: 10, Name: "Dune"},
		Hall:      Hall{Id: 5},
		StartTime: "2024-05-01T18:00:00",
	}
	key := show.Key()
	want := ShowKey{MovieId: 10, HallId: 5, Date: "2024-05-01", Time: "18:00"}
	if key != want {
		t.Fatalf("expected %+v, got %+v", want, key)
	}
	if key.String() != "10|5|2024-05-01|18:00" {
		t.Fatalf("unexpected key string %q", key.String())
	}

	parsed, err := ParseShowKey(" " + key.String() + " ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != key {
		t.Fatalf("expected %+v, got %+v", key, parsed)
	}
}

func TestParseShowKey_Invalid(t *testing.T) {
	for _, raw := range []string{"", "1|2|3", "a|2|2024-05-01|18:00", "1|b|2024-05-01|18:00", "1|2||18:00"} {
		if _, err := ParseShowKey(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
	if (ShowKey{}).String() != "" {
		t.Fatalf("expected empty string for zero key")
	}
}

func TestIndexShows_LaterDuplicateWins(t *testing.T) {
	first := Show{Id: 1, Movie: Movie{Id: 1}, Hall: Hall{Id: 1}, StartTime: "2024-05-01T18:00:00"}
	second := first
	second.Id = 2

	index := IndexShows([]Show{first, second})
	if len(index) != 1 || index[first.Key()].Id != 2 {
		t.Fatalf("unexpected index %+v", index)
	}
}

func TestGroupByTitle(t *testing.T) {
	shows := []Show{
		{Id: 1, Movie: Movie{Name: "Dune"}},
		{Id: 2, Movie: Movie{Name: "Alien", Title: "Alien: Romulus"}},
		{Id: 3, Movie: Movie{Name: "Dune"}},
	}
	titles, groups := GroupByTitle(shows)
	if diff := cmp.Diff([]string{"Dune", "Alien: Romulus"}, titles); diff != "" {
		t.Fatalf("unexpected titles (-want +got):\n%s", diff)
	}
	if len(groups["Dune"]) != 2 || groups["Dune"][1].Id != 3 {
		t.Fatalf("unexpected group %+v", groups["Dune"])
	}
}

func TestShow_StartAcceptsZonedAndLocalTimes(t *testing.T) {
	for _, raw := range []string{"2024-05-01T18:00:00", "2024-05-01T18:00", "2024-05-01T18:00:00Z", "2024-05-01T18:00:00.000+02:00"} {
		if _, err := (Show{StartTime: raw}).Start(); err != nil {
			t.Fatalf("expected %q to parse: %v", raw, err)
		}
	}
	if _, err := (Show{StartTime: "tomorrow"}).Start(); err == nil {
		t.Fatalf("expected error for free text time")
	}
}

func TestRole_UnmarshalJSON(t *testing.T) {
	tests := map[string]Role{
		`"Admin"`:                RoleAdmin,
		`{"role":"customer"}`:    RoleCustomer,
		`{"name":" ADMIN "}`:     RoleAdmin,
		`{"id":2,"name":"user"}`: Role("user"),
	}
	for raw, want := range tests {
		var res LoginResponse
		if err := json.Unmarshal([]byte(`{"token":"t","role":`+raw+`}`), &res); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if res.Role != want {
			t.Fatalf("%s: expected %q, got %q", raw, want, res.Role)
		}
	}
	if !Role("user").IsCustomer() || Role("user").IsAdmin() {
		t.Fatalf("legacy user role must count as customer")
	}
	var role Role
	if err := json.Unmarshal([]byte(`42`), &role); err == nil {
		t.Fatalf("expected error for numeric role")
	}
}

func TestMovie_Matches(t *testing.T) {
	movie := Movie{Name: "Dune", Genre: "Sci-Fi", Description: "Desert planet"}
	for _, query := range []string{"", "dune", "SCI", "planet"} {
		if !movie.Matches(query) {
			t.Fatalf("expected %q to match", query)
		}
	}
	if movie.Matches("comedy") {
		t.Fatalf("unexpected match")
	}
}

func fieldOf(t *testing.T, err error) *FieldError {
	t.Helper()
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected field error, got %v", err)
	}
	return fe
}

func TestParseHallInput(t *testing.T) {
	in, err := ParseHallInput(" A1 ", "VIP", "250.50")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.HallNo != "A1" || !in.Price.Equal(decimal.RequireFromString("250.5")) {
		t.Fatalf("unexpected hall %+v", in)
	}
	if _, err := ParseHallInput("A1", "", "10"); err == nil || err.Error() != "all fields are required" {
		t.Fatalf("unexpected error %v", err)
	}
	_, err = ParseHallInput("A1", "VIP", "ten")
	if fe := fieldOf(t, err); fe.Msg != "price must be a number" {
		t.Fatalf("unexpected message %q", fe.Msg)
	}
}

func TestParseFoodItemInput(t *testing.T) {
	tests := []struct {
		item, qty, price string
		msg              string
	}{
		{"", "1", "10", "item name is required"},
		{"P", "1", "10", "item name must be at least 2 characters"},
		{"Popcorn", "", "10", "quantity is required"},
		{"Popcorn", "x", "10", "quantity must be a number"},
		{"Popcorn", "0", "10", "quantity must be greater than 0"},
		{"Popcorn", "1.5", "10", "quantity must be a whole number"},
		{"Popcorn", "1", "", "price is required"},
		{"Popcorn", "1", "x", "price must be a number"},
		{"Popcorn", "1", "-2", "price must be greater than 0"},
	}
	for _, tc := range tests {
		_, err := ParseFoodItemInput(tc.item, tc.qty, tc.price)
		if fe := fieldOf(t, err); fe.Msg != tc.msg {
			t.Fatalf("%+v: expected %q, got %q", tc, tc.msg, fe.Msg)
		}
	}

	in, err := ParseFoodItemInput("Popcorn", "12", "3.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Quantity != 12 || in.Price.String() != "3.5" {
		t.Fatalf("unexpected item %+v", in)
	}
}

func TestShowInput_Validate(t *testing.T) {
	valid := ShowInput{MovieId: 1, HallId: 2, StartTime: "2024-05-01T18:00", EndTime: "2024-05-01T20:30"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	missing := valid
	missing.HallId = 0
	if err := missing.Validate(); err == nil || err.Error() != "please select movie, hall, start time, and end time" {
		t.Fatalf("unexpected error %v", err)
	}

	backwards := valid
	backwards.EndTime = valid.StartTime
	if fe := fieldOf(t, backwards.Validate()); fe.Msg != "end time must be after start time" {
		t.Fatalf("unexpected message %q", fe.Msg)
	}
}

func TestMovieInput_Validate(t *testing.T) {
	if err := (MovieInput{Name: "Dune"}).Validate(); err == nil {
		t.Fatalf("expected missing genre to fail")
	}
	if err := (MovieInput{Name: "Dune", Genre: "Sci-Fi"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateImage(t *testing.T) {
	if err := ValidateImage("poster.PNG", 1024); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fe := fieldOf(t, ValidateImage("poster.bmp", 10)); fe.Msg != "please select a valid image file (JPEG, PNG, GIF, WebP)" {
		t.Fatalf("unexpected message %q", fe.Msg)
	}
	if fe := fieldOf(t, ValidateImage("poster.jpg", MaxImageSize+1)); fe.Msg != "image size should be less than 5MB" {
		t.Fatalf("unexpected message %q", fe.Msg)
	}
}

func TestResolveImageURL(t *testing.T) {
	tests := []struct{ base, url, want string }{
		{"http://api", "", ""},
		{"http://api", "https://cdn/x.png", "https://cdn/x.png"},
		{"http://api/", "/uploads/x.png", "http://api/uploads/x.png"},
		{"http://api", "uploads/x.png", "http://api/uploads/x.png"},
	}
	for _, tc := range tests {
		if got := ResolveImageURL(tc.base, tc.url); got != tc.want {
			t.Fatalf("ResolveImageURL(%q, %q): expected %q, got %q", tc.base, tc.url, tc.want, got)
		}
	}
}

func TestSignupRequest_Validate(t *testing.T) {
	base := SignupRequest{Name: "ana", Password: "pw", Email: "ana@example.com", PhoneNo: "01712345678"}
	if err := base.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	noName := base
	noName.Name = " "
	if err := noName.Validate(); err == nil || err.Error() != "name and password are required" {
		t.Fatalf("unexpected error %v", err)
	}

	badEmail := base
	badEmail.Email = "ana@example"
	if fe := fieldOf(t, badEmail.Validate()); fe.Field != "email" {
		t.Fatalf("unexpected field %q", fe.Field)
	}

	badPhone := base
	badPhone.PhoneNo = "0171234567"
	if fe := fieldOf(t, badPhone.Validate()); fe.Msg != "phone number must be exactly 11 digits" {
		t.Fatalf("unexpected message %q", fe.Msg)
	}
}
