package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"cinema-cli/model"
	"cinema-cli/service"
)

type hallRecord struct{ hall model.Hall }

func (h hallRecord) ID() int { return h.hall.Id }
func (h hallRecord) Title() string {
	return fmt.Sprintf("Hall %s", h.hall.HallNo)
}
func (h hallRecord) Description() string {
	return fmt.Sprintf("%s • %s per ticket", h.hall.Category, h.hall.Price.StringFixed(2))
}
func (h hallRecord) FilterValue() string { return h.hall.HallNo + " " + h.hall.Category }
func (h hallRecord) Values() []string {
	return []string{h.hall.HallNo, h.hall.Category, h.hall.Price.String()}
}

type movieRecord struct {
	movie     model.Movie
	imageBase string
}

func (m movieRecord) ID() int       { return m.movie.Id }
func (m movieRecord) Title() string { return m.movie.DisplayTitle() }
func (m movieRecord) Description() string {
	parts := []string{m.movie.Genre}
	if m.movie.Description != "" {
		parts = append(parts, m.movie.Description)
	}
	if poster := model.ResolveImageURL(m.imageBase, m.movie.ImageUrl); poster != "" {
		parts = append(parts, poster)
	}
	return strings.Join(parts, " • ")
}
func (m movieRecord) FilterValue() string {
	return strings.Join([]string{m.movie.DisplayTitle(), m.movie.Genre, m.movie.Description}, " ")
}
func (m movieRecord) Values() []string {
	return []string{m.movie.Name, m.movie.Genre, m.movie.Description, m.movie.ImageUrl}
}

type showRecord struct{ show model.Show }

func (s showRecord) ID() int { return s.show.Id }
func (s showRecord) Title() string {
	return fmt.Sprintf("%s • Hall %s", s.show.Movie.DisplayTitle(), s.show.Hall.HallNo)
}
func (s showRecord) Description() string {
	return fmt.Sprintf("%s → %s", s.show.StartTime, s.show.EndTime)
}
func (s showRecord) FilterValue() string { return s.Title() }
func (s showRecord) Values() []string {
	return []string{strconv.Itoa(s.show.Movie.Id), strconv.Itoa(s.show.Hall.Id), s.show.StartTime, s.show.EndTime}
}

type inventoryRecord struct{ item model.FoodItem }

func (f inventoryRecord) ID() int       { return f.item.Id }
func (f inventoryRecord) Title() string { return f.item.Item }
func (f inventoryRecord) Description() string {
	return fmt.Sprintf("%d in stock • %s", f.item.Quantity, f.item.Price.StringFixed(2))
}
func (f inventoryRecord) FilterValue() string { return f.item.Item }
func (f inventoryRecord) Values() []string {
	return []string{f.item.Item, strconv.Itoa(f.item.Quantity), f.item.Price.String()}
}

func hallsResource(client *service.Client) resource {
	return resource{
		name:   "Halls",
		fields: []string{"Hall number", "Category", "Price"},
		load: func(ctx context.Context) ([]record, string, error) {
			halls, err := client.GetHalls(ctx)
			return lo.Map(halls, func(h model.Hall, _ int) record { return hallRecord{hall: h} }), "", err
		},
		create: func(ctx context.Context, values []string) error {
			in, err := model.ParseHallInput(values[0], values[1], values[2])
			if err != nil {
				return err
			}
			return client.CreateHall(ctx, in)
		},
		update: func(ctx context.Context, id int, values []string) error {
			in, err := model.ParseHallInput(values[0], values[1], values[2])
			if err != nil {
				return err
			}
			return client.UpdateHall(ctx, id, in)
		},
		remove: client.DeleteHall,
	}
}

func moviesResource(client *service.Client, imageBase string) resource {
	save := func(ctx context.Context, values []string) (model.MovieInput, error) {
		in := model.MovieInput{Name: values[0], Genre: values[1], Description: values[2]}
		if err := in.Validate(); err != nil {
			return in, err
		}
		imageURL, err := resolveMovieImage(ctx, client, values[3])
		if err != nil {
			return in, err
		}
		if imageURL != "" {
			in.ImageUrl = &imageURL
		}
		return in, nil
	}
	return resource{
		name:   "Movies",
		fields: []string{"Name", "Genre", "Description", "Image (file path or URL)"},
		load: func(ctx context.Context) ([]record, string, error) {
			movies, err := client.GetMovies(ctx)
			return lo.Map(movies, func(m model.Movie, _ int) record {
				return movieRecord{movie: m, imageBase: imageBase}
			}), "", err
		},
		create: func(ctx context.Context, values []string) error {
			in, err := save(ctx, values)
			if err != nil {
				return err
			}
			return client.CreateMovie(ctx, in)
		},
		update: func(ctx context.Context, id int, values []string) error {
			in, err := save(ctx, values)
			if err != nil {
				return err
			}
			return client.UpdateMovie(ctx, id, in)
		},
		remove: client.DeleteMovie,
	}
}

// resolveMovieImage uploads a local poster file. URLs and paths already
// stored by the backend are kept as they are.
func resolveMovieImage(ctx context.Context, client *service.Client, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return value, nil
	}
	info, err := os.Stat(value)
	if err != nil || info.IsDir() {
		return value, nil
	}
	if err := model.ValidateImage(value, info.Size()); err != nil {
		return "", err
	}
	f, err := os.Open(value)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return client.UploadMovieImage(ctx, filepath.Base(value), f)
}

func showsResource(client *service.Client) resource {
	return resource{
		name:   "Shows",
		fields: []string{"Movie ID", "Hall ID", "Start (YYYY-MM-DDTHH:MM)", "End (YYYY-MM-DDTHH:MM)"},
		load: func(ctx context.Context) ([]record, string, error) {
			var (
				shows  []model.Show
				movies []model.Movie
				halls  []model.Hall
			)
			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() (err error) {
				shows, err = client.GetShows(ctx)
				return err
			})
			g.Go(func() (err error) {
				movies, err = client.GetMovies(ctx)
				if err != nil {
					return fmt.Errorf("failed to load movies: %w", err)
				}
				return nil
			})
			g.Go(func() (err error) {
				halls, err = client.GetHalls(ctx)
				if err != nil {
					return fmt.Errorf("failed to load halls: %w", err)
				}
				return nil
			})
			if err := g.Wait(); err != nil {
				return nil, "", err
			}
			return lo.Map(shows, func(s model.Show, _ int) record { return showRecord{show: s} }), showChoices(movies, halls), nil
		},
		create: func(ctx context.Context, values []string) error {
			in, err := parseShowInput(values)
			if err != nil {
				return err
			}
			return client.CreateShow(ctx, in)
		},
		remove: client.DeleteShow,
	}
}

func parseShowInput(values []string) (model.ShowInput, error) {
	movieID, _ := strconv.Atoi(values[0])
	hallID, _ := strconv.Atoi(values[1])
	in := model.ShowInput{MovieId: movieID, HallId: hallID, StartTime: values[2], EndTime: values[3]}
	return in, in.Validate()
}

func showChoices(movies []model.Movie, halls []model.Hall) string {
	movieChoices := lo.Map(movies, func(m model.Movie, _ int) string {
		return fmt.Sprintf("%d %s", m.Id, m.DisplayTitle())
	})
	hallChoices := lo.Map(halls, func(h model.Hall, _ int) string {
		return fmt.Sprintf("%d Hall %s (%s)", h.Id, h.HallNo, h.Category)
	})
	return "Movies: " + strings.Join(movieChoices, ", ") + "\nHalls: " + strings.Join(hallChoices, ", ")
}

func inventoryResource(client *service.Client) resource {
	return resource{
		name:   "Food",
		fields: []string{"Item", "Quantity", "Price"},
		load: func(ctx context.Context) ([]record, string, error) {
			items, err := client.GetFoodInventory(ctx)
			return lo.Map(items, func(f model.FoodItem, _ int) record { return inventoryRecord{item: f} }), "", err
		},
		create: func(ctx context.Context, values []string) error {
			in, err := model.ParseFoodItemInput(values[0], values[1], values[2])
			if err != nil {
				return err
			}
			return client.CreateFoodItem(ctx, in)
		},
		update: func(ctx context.Context, id int, values []string) error {
			in, err := model.ParseFoodItemInput(values[0], values[1], values[2])
			if err != nil {
				return err
			}
			return client.UpdateFoodItem(ctx, id, in)
		},
		remove: client.DeleteFoodItem,
	}
}
