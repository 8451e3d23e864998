package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"cinema-cli/model"
	"cinema-cli/service"
	"cinema-cli/session"
)

const adminRoleID = 1

var errAdminOnly = errors.New("this command needs an admin session")

// adminContext returns a request context carrying an admin session.
func (a *app) adminContext(ctx context.Context) (context.Context, error) {
	sess, err := a.requireSession()
	if err != nil {
		return nil, err
	}
	if !sess.IsAdmin() {
		return nil, errAdminOnly
	}
	return session.NewContext(ctx, sess), nil
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func newAdminCmd(a *app) *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Manage accounts and the cinema catalog (admin only)",
	}
	admin.AddCommand(
		newAddAdminCmd(a),
		newHallAdminCmd(a),
		newMovieAdminCmd(a),
		newShowAdminCmd(a),
		newFoodAdminCmd(a),
	)
	return admin
}

func newAddAdminCmd(a *app) *cobra.Command {
	var flags signupFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create another admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := a.adminContext(cmd.Context())
			if err != nil {
				return err
			}
			req, err := flags.request(adminRoleID)
			if err != nil {
				return err
			}
			if err := createUser(ctx, a, req); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Admin added successfully!")
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

// deleteCmd builds the `delete <id>` subcommand shared by every collection.
func deleteCmd(a *app, noun string, remove func(*service.Client, context.Context, int) error) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := a.adminContext(cmd.Context())
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := remove(a.client, ctx, id); err != nil {
				return fmt.Errorf("error deleting %s: %w", noun, err)
			}
			fmt.Fprintf(a.out, "%s %d deleted.\n", noun, id)
			return nil
		},
	}
}

func newHallAdminCmd(a *app) *cobra.Command {
	var hallNo, category, price string
	hall := &cobra.Command{Use: "hall", Short: "Manage halls"}

	save := func(update bool) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx, err := a.adminContext(cmd.Context())
			if err != nil {
				return err
			}
			in, err := model.ParseHallInput(hallNo, category, price)
			if err != nil {
				return err
			}
			if !update {
				if err := a.client.CreateHall(ctx, in); err != nil {
					return fmt.Errorf("failed to add hall: %w", err)
				}
				fmt.Fprintln(a.out, "Hall added successfully.")
				return nil
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.client.UpdateHall(ctx, id, in); err != nil {
				return fmt.Errorf("failed to update hall: %w", err)
			}
			fmt.Fprintln(a.out, "Hall updated successfully.")
			return nil
		}
	}

	add := &cobra.Command{Use: "add", Short: "Add a hall", RunE: save(false)}
	update := &cobra.Command{Use: "update <id>", Short: "Update a hall", Args: cobra.ExactArgs(1), RunE: save(true)}
	for _, c := range []*cobra.Command{add, update} {
		c.Flags().StringVar(&hallNo, "hall-no", "", "hall number")
		c.Flags().StringVar(&category, "category", "", "hall category, e.g. VIP")
		c.Flags().StringVar(&price, "price", "", "ticket price")
	}
	hall.AddCommand(add, update, deleteCmd(a, "hall", (*service.Client).DeleteHall))
	return hall
}

func newMovieAdminCmd(a *app) *cobra.Command {
	var name, genre, description, image string
	movie := &cobra.Command{Use: "movie", Short: "Manage movies"}

	save := func(update bool) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx, err := a.adminContext(cmd.Context())
			if err != nil {
				return err
			}
			in := model.MovieInput{Name: name, Genre: genre, Description: description}
			if err := in.Validate(); err != nil {
				return err
			}
			if image != "" {
				imageURL, err := uploadPoster(ctx, a, image)
				if err != nil {
					return err
				}
				in.ImageUrl = &imageURL
			}
			if !update {
				if err := a.client.CreateMovie(ctx, in); err != nil {
					return fmt.Errorf("error saving movie: %w", err)
				}
				fmt.Fprintln(a.out, "Movie added successfully.")
				return nil
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.client.UpdateMovie(ctx, id, in); err != nil {
				return fmt.Errorf("error updating movie: %w", err)
			}
			fmt.Fprintln(a.out, "Movie updated successfully.")
			return nil
		}
	}

	add := &cobra.Command{Use: "add", Short: "Add a movie", RunE: save(false)}
	update := &cobra.Command{Use: "update <id>", Short: "Update a movie", Args: cobra.ExactArgs(1), RunE: save(true)}
	for _, c := range []*cobra.Command{add, update} {
		c.Flags().StringVar(&name, "name", "", "movie name")
		c.Flags().StringVar(&genre, "genre", "", "movie genre")
		c.Flags().StringVar(&description, "description", "", "short description")
		c.Flags().StringVar(&image, "image", "", "poster image file to upload")
	}
	movie.AddCommand(add, update, deleteCmd(a, "movie", (*service.Client).DeleteMovie))
	return movie
}

func uploadPoster(ctx context.Context, a *app, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if err := model.ValidateImage(path, info.Size()); err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	imageURL, err := a.client.UploadMovieImage(ctx, filepath.Base(path), f)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return imageURL, nil
}

func newShowAdminCmd(a *app) *cobra.Command {
	var in model.ShowInput
	show := &cobra.Command{Use: "show", Short: "Manage shows"}

	add := &cobra.Command{
		Use:   "add",
		Short: "Schedule a show",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := a.adminContext(cmd.Context())
			if err != nil {
				return err
			}
			if err := in.Validate(); err != nil {
				return err
			}
			if err := a.client.CreateShow(ctx, in); err != nil {
				return fmt.Errorf("error adding show: %w", err)
			}
			fmt.Fprintln(a.out, "Show added successfully.")
			return nil
		},
	}
	add.Flags().IntVar(&in.MovieId, "movie", 0, "movie id")
	add.Flags().IntVar(&in.HallId, "hall", 0, "hall id")
	add.Flags().StringVar(&in.StartTime, "start", "", "start time, YYYY-MM-DDTHH:MM")
	add.Flags().StringVar(&in.EndTime, "end", "", "end time, YYYY-MM-DDTHH:MM")

	show.AddCommand(add, deleteCmd(a, "show", (*service.Client).DeleteShow))
	return show
}

func newFoodAdminCmd(a *app) *cobra.Command {
	var item, quantity, price string
	food := &cobra.Command{Use: "food", Short: "Manage the food inventory"}

	save := func(update bool) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx, err := a.adminContext(cmd.Context())
			if err != nil {
				return err
			}
			in, err := model.ParseFoodItemInput(item, quantity, price)
			if err != nil {
				return err
			}
			if !update {
				if err := a.client.CreateFoodItem(ctx, in); err != nil {
					return fmt.Errorf("error adding food item: %w", err)
				}
				fmt.Fprintln(a.out, "Food item added successfully.")
				return nil
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.client.UpdateFoodItem(ctx, id, in); err != nil {
				return fmt.Errorf("error updating food item: %w", err)
			}
			fmt.Fprintln(a.out, "Food item updated successfully.")
			return nil
		}
	}

	add := &cobra.Command{Use: "add", Short: "Add a food item", RunE: save(false)}
	update := &cobra.Command{Use: "update <id>", Short: "Update a food item", Args: cobra.ExactArgs(1), RunE: save(true)}
	for _, c := range []*cobra.Command{add, update} {
		c.Flags().StringVar(&item, "item", "", "item name")
		c.Flags().StringVar(&quantity, "quantity", "", "quantity in stock")
		c.Flags().StringVar(&price, "price", "", "unit price")
	}
	food.AddCommand(add, update, deleteCmd(a, "food item", (*service.Client).DeleteFoodItem))
	return food
}
