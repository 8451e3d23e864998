package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"cinema-cli/model"
)

// GetShows returns every scheduled show with its movie and hall embedded.
func (c *Client) GetShows(ctx context.Context) ([]model.Show, error) {
	var shows []model.Show
	if err := c.getJSON(ctx, c.endpoint("/shows", nil), &shows); err != nil {
		return nil, err
	}
	return shows, nil
}

// GetMovies returns the movie catalog.
func (c *Client) GetMovies(ctx context.Context) ([]model.Movie, error) {
	var movies []model.Movie
	if err := c.getJSON(ctx, c.endpoint("/movie", nil), &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// GetHalls returns all halls.
func (c *Client) GetHalls(ctx context.Context) ([]model.Hall, error) {
	var halls []model.Hall
	if err := c.getJSON(ctx, c.endpoint("/halls", nil), &halls); err != nil {
		return nil, err
	}
	return halls, nil
}

// GetFoodInventory returns the food items with their current stock.
func (c *Client) GetFoodInventory(ctx context.Context) ([]model.FoodItem, error) {
	var items []model.FoodItem
	if err := c.getJSON(ctx, c.endpoint("/food-inventory", nil), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CreateShow(ctx context.Context, in model.ShowInput) error {
	return c.postJSON(ctx, c.endpoint("/shows", nil), in, nil)
}

func (c *Client) DeleteShow(ctx context.Context, id int) error {
	return c.delete(ctx, c.endpoint(resourcePath("/shows", id), nil))
}

func (c *Client) CreateHall(ctx context.Context, in model.HallInput) error {
	return c.postJSON(ctx, c.endpoint("/halls", nil), in, nil)
}

func (c *Client) UpdateHall(ctx context.Context, id int, in model.HallInput) error {
	return c.patchJSON(ctx, c.endpoint(resourcePath("/halls", id), nil), in, nil)
}

func (c *Client) DeleteHall(ctx context.Context, id int) error {
	return c.delete(ctx, c.endpoint(resourcePath("/halls", id), nil))
}

func (c *Client) CreateMovie(ctx context.Context, in model.MovieInput) error {
	return c.postJSON(ctx, c.endpoint("/movie", nil), in, nil)
}

func (c *Client) UpdateMovie(ctx context.Context, id int, in model.MovieInput) error {
	return c.patchJSON(ctx, c.endpoint(resourcePath("/movie", id), nil), in, nil)
}

func (c *Client) DeleteMovie(ctx context.Context, id int) error {
	return c.delete(ctx, c.endpoint(resourcePath("/movie", id), nil))
}

func (c *Client) CreateFoodItem(ctx context.Context, in model.FoodItemInput) error {
	return c.postJSON(ctx, c.endpoint("/food-inventory", nil), in, nil)
}

func (c *Client) UpdateFoodItem(ctx context.Context, id int, in model.FoodItemInput) error {
	return c.patchJSON(ctx, c.endpoint(resourcePath("/food-inventory", id), nil), in, nil)
}

func (c *Client) DeleteFoodItem(ctx context.Context, id int) error {
	return c.delete(ctx, c.endpoint(resourcePath("/food-inventory", id), nil))
}

// UploadMovieImage sends a poster as multipart form data and returns the
// URL the backend stored it under.
func (c *Client) UploadMovieImage(ctx context.Context, filename string, image io.Reader) (string, error) {
	if image == nil {
		return "", errors.New("image is required")
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("image", filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return "", fmt.Errorf("copy image: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	endpoint := c.endpoint("/upload/movie-image", nil)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	res, err := c.send(ctx, req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, errorSnippetLimit))
		return "", newAPIError(res, endpoint, snippet)
	}

	var out struct {
		ImageUrl string `json:"imageUrl"`
	}
	if err := decodeBody(res.Body, &out); err != nil {
		return "", fmt.Errorf("decode response from %s: %w", endpoint, err)
	}
	if out.ImageUrl == "" {
		return "", errors.New("upload returned no image url")
	}
	return out.ImageUrl, nil
}

func resourcePath(collection string, id int) string {
	return collection + "/" + strconv.Itoa(id)
}
