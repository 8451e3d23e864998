package cmd

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"cinema-cli/model"
	"cinema-cli/store"
)

func newShowsCmd(a *app) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "shows",
		Short: "List shows, grouped by movie",
		RunE: func(cmd *cobra.Command, args []string) error {
			shows, err := a.client.GetShows(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load shows: %w", err)
			}
			shows = lo.Filter(shows, func(show model.Show, _ int) bool {
				return show.Movie.Matches(search)
			})
			if len(shows) == 0 {
				fmt.Fprintln(a.out, "No shows found.")
				return nil
			}
			renderShows(a.out, shows)
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "filter by movie name, genre or description")
	return cmd
}

func newMoviesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "movies",
		Short: "List movies",
		RunE: func(cmd *cobra.Command, args []string) error {
			movies, err := a.client.GetMovies(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load movies: %w", err)
			}
			renderMovies(a.out, movies, a.cfg.ImageBase())
			return nil
		},
	}
}

func newHallsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "halls",
		Short: "List halls",
		RunE: func(cmd *cobra.Command, args []string) error {
			halls, err := a.client.GetHalls(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch halls: %w", err)
			}
			renderHalls(a.out, halls)
			return nil
		},
	}
}

func newFoodCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "food",
		Short: "List the food inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.client.GetFoodInventory(cmd.Context())
			if err != nil {
				return fmt.Errorf("could not load food items: %w", err)
			}
			renderFood(a.out, items)
			return nil
		},
	}
}

func newBookingsCmd(a *app) *cobra.Command {
	bookings := &cobra.Command{
		Use:   "bookings",
		Short: "Work with existing bookings",
	}

	var lookup model.BookingLookup
	search := &cobra.Command{
		Use:   "search",
		Short: "Find bookings by customer name or phone",
		RunE: func(cmd *cobra.Command, args []string) error {
			if lookup.Name == "" && lookup.Phone == "" {
				return errors.New("please enter either name or phone number to search")
			}
			found, err := a.client.SearchBookings(cmd.Context(), lookup)
			if err != nil {
				return fmt.Errorf("failed to search bookings: %w", err)
			}
			if err := store.RememberLookup(lookup); err != nil {
				a.logger.WithError(err).Debug("could not save lookup history")
			}
			if len(found) == 0 {
				fmt.Fprintln(a.out, "No bookings found.")
				return nil
			}
			renderBookings(a.out, found)
			return nil
		},
	}
	search.Flags().StringVar(&lookup.Name, "name", "", "customer name")
	search.Flags().StringVar(&lookup.Phone, "phone", "", "customer phone number")

	recent := &cobra.Command{
		Use:   "recent",
		Short: "List recent booking searches",
		RunE: func(cmd *cobra.Command, args []string) error {
			lookups, err := store.LoadRecentLookups()
			if err != nil {
				return err
			}
			for _, l := range lookups {
				fmt.Fprintf(a.out, "name=%q phone=%q\n", l.Name, l.Phone)
			}
			return nil
		},
	}

	bookings.AddCommand(search, recent)
	return bookings
}
