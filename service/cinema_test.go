package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"cinema-cli/model"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// recorder answers each "METHOD /path" with a canned body and keeps every request.
type recorder struct {
	mu       sync.Mutex
	requests []recorded
	replies  map[string]string
}

func (rec *recorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	rec.mu.Lock()
	rec.requests = append(rec.requests, recorded{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(body)})
	reply, ok := rec.replies[r.Method+" "+r.URL.Path]
	rec.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"no route"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(reply))
}

func newRecorder(t *testing.T, replies map[string]string) (*recorder, *Client) {
	t.Helper()
	rec := &recorder{replies: replies}
	server := httptest.NewServer(rec)
	t.Cleanup(server.Close)
	return rec, newTestClient(server, 1)
}

func TestGetShows_OK(t *testing.T) {
	_, client := newRecorder(t, map[string]string{
		"GET /shows": `[{"id":1,"movie":{"id":10,"name":"Dune"},"hall":{"id":5,"hall_no":"A1","price":500},"start_time":"2024-05-01T18:00:00"}]`,
	})

	shows, err := client.GetShows(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shows) != 1 {
		t.Fatalf("expected 1 show, got %d", len(shows))
	}
	if !shows[0].Hall.Price.Equal(decimal.NewFromInt(500)) || shows[0].Movie.DisplayTitle() != "Dune" {
		t.Fatalf("unexpected show %+v", shows[0])
	}
}

func TestCatalogEndpoints(t *testing.T) {
	rec, client := newRecorder(t, map[string]string{
		"GET /movie":               `[{"id":1,"name":"Dune","genre":"Sci-Fi"}]`,
		"GET /halls":               `[{"id":5,"hall_no":"A1","category":"VIP","price":"250.5"}]`,
		"GET /food-inventory":      `[{"id":1,"item":"Popcorn","quantity":4,"price":100}]`,
		"POST /halls":              `{}`,
		"PATCH /halls/5":           `{}`,
		"DELETE /movie/1":          ``,
		"POST /shows":              `{}`,
		"DELETE /food-inventory/1": ``,
		"PATCH /food-inventory/1":  `{}`,
	})
	ctx := context.Background()

	movies, err := client.GetMovies(ctx)
	if err != nil || len(movies) != 1 {
		t.Fatalf("movies: %v %+v", err, movies)
	}
	halls, err := client.GetHalls(ctx)
	if err != nil || halls[0].Price.String() != "250.5" {
		t.Fatalf("halls: %v %+v", err, halls)
	}
	items, err := client.GetFoodInventory(ctx)
	if err != nil || items[0].Quantity != 4 {
		t.Fatalf("food: %v %+v", err, items)
	}

	hall := model.HallInput{HallNo: "A1", Category: "VIP", Price: decimal.NewFromInt(300)}
	for _, call := range []func() error{
		func() error { return client.CreateHall(ctx, hall) },
		func() error { return client.UpdateHall(ctx, 5, hall) },
		func() error { return client.DeleteMovie(ctx, 1) },
		func() error {
			return client.CreateShow(ctx, model.ShowInput{MovieId: 1, HallId: 5, StartTime: "2024-05-01T18:00", EndTime: "2024-05-01T20:00"})
		},
		func() error { return client.DeleteFoodItem(ctx, 1) },
		func() error {
			return client.UpdateFoodItem(ctx, 1, model.FoodItemInput{Item: "Popcorn", Quantity: 9, Price: decimal.NewFromInt(120)})
		},
	} {
		if err := call(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	want := []recorded{
		{Method: "GET", Path: "/movie"},
		{Method: "GET", Path: "/halls"},
		{Method: "GET", Path: "/food-inventory"},
		{Method: "POST", Path: "/halls", Body: `{"hall_no":"A1","category":"VIP","price":"300"}`},
		{Method: "PATCH", Path: "/halls/5", Body: `{"hall_no":"A1","category":"VIP","price":"300"}`},
		{Method: "DELETE", Path: "/movie/1"},
		{Method: "POST", Path: "/shows", Body: `{"movie_id":1,"hall_id":5,"start_time":"2024-05-01T18:00","end_time":"2024-05-01T20:00"}`},
		{Method: "DELETE", Path: "/food-inventory/1"},
		{Method: "PATCH", Path: "/food-inventory/1", Body: `{"item":"Popcorn","quantity":9,"price":"120"}`},
	}
	if diff := cmp.Diff(want, rec.requests); diff != "" {
		t.Fatalf("unexpected requests (-want +got):\n%s", diff)
	}
}

func TestCreateBooking_RequiresID(t *testing.T) {
	_, client := newRecorder(t, map[string]string{"POST /bookings": `{}`})

	if _, err := client.CreateBooking(context.Background(), model.BookingRequest{TicketQuantity: 1}); err == nil {
		t.Fatal("expected error for a booking without id")
	}
}

func TestBookingAndPaymentEndpoints(t *testing.T) {
	rec, client := newRecorder(t, map[string]string{
		"POST /bookings":        `{"id":42}`,
		"DELETE /bookings/42":   ``,
		"POST /food-order":      `{"id":17}`,
		"DELETE /food-order/17": ``,
		"POST /payments":        `{"id":7}`,
	})
	ctx := context.Background()

	booking, err := client.CreateBooking(ctx, model.BookingRequest{Date: "2024-05-01", Time: "18:00", TicketQuantity: 2, UserId: 9, MovieId: 10, HallId: 5})
	if err != nil || booking.Id != 42 {
		t.Fatalf("booking: %v %+v", err, booking)
	}
	if err := client.DeleteBooking(ctx, booking.Id); err != nil {
		t.Fatalf("delete booking: %v", err)
	}
	order, err := client.CreateFoodOrder(ctx, model.FoodOrderRequest{FoodIds: []int{1, 2}, OrderQuantity: []int{2, 1}})
	if err != nil || order.Id != 17 {
		t.Fatalf("food order: %v %+v", err, order)
	}
	if err := client.DeleteFoodOrder(ctx, order.Id); err != nil {
		t.Fatalf("delete food order: %v", err)
	}
	orderID := order.Id
	paid, err := client.CreatePayment(ctx, model.PaymentRequest{FoodOrderId: &orderID, Amount: "250", CardNumber: "4111111111111111", Expiry: "12/30", Cvv: "123", PaidAt: "2026-05-10T09:30:00.000Z"})
	if err != nil || paid.Id != 7 {
		t.Fatalf("payment: %v %+v", err, paid)
	}

	if len(rec.requests) != 5 {
		t.Fatalf("expected 5 requests, got %+v", rec.requests)
	}
	var bookingBody map[string]any
	if err := json.Unmarshal([]byte(rec.requests[0].Body), &bookingBody); err != nil {
		t.Fatalf("decode booking body: %v", err)
	}
	if bookingBody["ticket_quantity"] != float64(2) || bookingBody["user_id"] != float64(9) {
		t.Fatalf("unexpected booking body %v", bookingBody)
	}
	if rec.requests[2].Body != `{"food_id":[1,2],"order_quantity":[2,1]}` {
		t.Fatalf("unexpected food order body %s", rec.requests[2].Body)
	}
	payBody := rec.requests[4].Body
	if !strings.Contains(payBody, `"food_order_id":17`) || !strings.Contains(payBody, `"amount":250`) || strings.Contains(payBody, "booking_id") {
		t.Fatalf("unexpected payment body %s", payBody)
	}
}

func TestClientSideGuards(t *testing.T) {
	rec, client := newRecorder(t, nil)
	ctx := context.Background()
	id := 1

	if _, err := client.CreatePayment(ctx, model.PaymentRequest{BookingId: &id, FoodOrderId: &id}); err == nil {
		t.Fatal("expected error for a payment with two references")
	}
	if _, err := client.CreatePayment(ctx, model.PaymentRequest{}); err == nil {
		t.Fatal("expected error for a payment without reference")
	}
	if _, err := client.CreateFoodOrder(ctx, model.FoodOrderRequest{FoodIds: []int{1}}); err == nil {
		t.Fatal("expected error for misaligned food order")
	}
	if err := client.DeleteBooking(ctx, 0); err == nil {
		t.Fatal("expected error for booking id 0")
	}
	if _, err := client.SearchBookings(ctx, model.BookingLookup{Name: " "}); err == nil {
		t.Fatal("expected error for an empty lookup")
	}
	if _, err := client.Login(ctx, model.LoginRequest{Name: "ana"}); err == nil {
		t.Fatal("expected error for a missing password")
	}
	if len(rec.requests) != 0 {
		t.Fatalf("expected no requests, got %+v", rec.requests)
	}
}

func TestSearchBookings_Query(t *testing.T) {
	rec, client := newRecorder(t, map[string]string{
		"GET /bookings": `[{"id":3,"date":"2024-05-01","time":"18:00","ticket_quantity":2,"payment":{"amount":"1000"}}]`,
	})

	bookings, err := client.SearchBookings(context.Background(), model.BookingLookup{Name: " Ana ", Phone: "01712345678"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings) != 1 || bookings[0].Payment == nil || bookings[0].Payment.Amount.String() != "1000" {
		t.Fatalf("unexpected bookings %+v", bookings)
	}
	if rec.requests[0].Query != "name=Ana&phone=01712345678" {
		t.Fatalf("unexpected query %q", rec.requests[0].Query)
	}
}

func TestLogin_OK(t *testing.T) {
	_, client := newRecorder(t, map[string]string{
		"POST /auth/login": `{"token":"jwt","role":{"name":"admin"},"id":3,"name":"root"}`,
	})

	res, err := client.Login(context.Background(), model.LoginRequest{Name: "root", Password: "pw"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Token != "jwt" || res.Role != model.RoleAdmin || res.Id != 3 {
		t.Fatalf("unexpected login %+v", res)
	}
}

func TestCreateUser_Conflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"duplicate"}`))
	}))
	defer server.Close()
	client := newTestClient(server, 1)

	err := client.CreateUser(context.Background(), model.SignupRequest{Name: "ana"})
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUploadMovieImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload/movie-image" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Errorf("read form file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		if header.Filename != "poster.png" || string(content) != "png-bytes" {
			t.Errorf("unexpected upload %s %q", header.Filename, content)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"imageUrl":"/uploads/poster.png"}`))
	}))
	defer server.Close()
	client := newTestClient(server, 1)

	url, err := client.UploadMovieImage(context.Background(), "/tmp/posters/poster.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "/uploads/poster.png" {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestCreatePayment_UnreadableSuccessBodyCountsAsPaid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("Payment created"))
	}))
	defer server.Close()
	client := newTestClient(server, 1)
	bookingID := 42

	paid, err := client.CreatePayment(context.Background(), model.PaymentRequest{BookingId: &bookingID, Amount: "1000"})
	if err != nil {
		t.Fatalf("expected a 2xx payment to count as paid, got %v", err)
	}
	if paid.Id != 0 {
		t.Fatalf("unexpected payment %+v", paid)
	}

	var out map[string]any
	err = client.getJSON(context.Background(), server.URL+"/shows", &out)
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) || decodeErr.StatusCode != http.StatusCreated {
		t.Fatalf("expected decode error from a GET, got %v", err)
	}
}
