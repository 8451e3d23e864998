package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"cinema-cli/model"
)

func newTable(out io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(header, table.RowConfig{AutoMerge: true})
	t.Style().Options.SeparateRows = true
	return t
}

// renderShows prints shows grouped by movie title, merging the title cells.
func renderShows(out io.Writer, shows []model.Show) {
	rowConfigAutoMerge := table.RowConfig{AutoMerge: true}
	t := newTable(out, table.Row{"Movie", "Genre", "Date", "Time", "Hall", "Price", "Key"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true, WidthMax: 24},
		{Number: 2, AutoMerge: true},
	})

	titles, groups := model.GroupByTitle(shows)
	for _, title := range titles {
		var rows []table.Row
		for _, show := range groups[title] {
			key := show.Key()
			rows = append(rows, table.Row{
				title,
				show.Movie.Genre,
				key.Date,
				key.Time,
				fmt.Sprintf("%s (%s)", show.Hall.HallNo, show.Hall.Category),
				show.Hall.Price.StringFixed(2),
				key.String(),
			})
		}
		t.AppendRows(rows, rowConfigAutoMerge)
		t.AppendSeparator()
	}
	t.Render()
}

func renderMovies(out io.Writer, movies []model.Movie, imageBase string) {
	t := newTable(out, table.Row{"ID", "Title", "Genre", "Description", "Poster"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 4, WidthMax: 40}})
	for _, m := range movies {
		t.AppendRow(table.Row{m.Id, m.DisplayTitle(), m.Genre, m.Description, model.ResolveImageURL(imageBase, m.ImageUrl)})
	}
	t.Render()
}

func renderHalls(out io.Writer, halls []model.Hall) {
	t := newTable(out, table.Row{"ID", "Hall", "Category", "Price"})
	for _, h := range halls {
		t.AppendRow(table.Row{h.Id, h.HallNo, h.Category, h.Price.StringFixed(2)})
	}
	t.Render()
}

func renderFood(out io.Writer, items []model.FoodItem) {
	t := newTable(out, table.Row{"ID", "Item", "In stock", "Price"})
	for _, f := range items {
		t.AppendRow(table.Row{f.Id, f.Item, f.Quantity, f.Price.StringFixed(2)})
	}
	t.Render()
}

func renderBookings(out io.Writer, bookings []model.Booking) {
	t := newTable(out, table.Row{"ID", "Movie", "Hall", "Date", "Time", "Tickets", "Status", "Paid"})
	for _, b := range bookings {
		movie, hall, paid := "", "", ""
		if b.Movie != nil {
			movie = b.Movie.DisplayTitle()
		}
		if b.Hall != nil {
			hall = b.Hall.HallNo
		}
		if b.Payment != nil {
			paid = b.Payment.Amount.StringFixed(2)
		}
		t.AppendRow(table.Row{b.Id, movie, hall, b.Date, b.Time, b.TicketQuantity, b.Status, paid})
	}
	t.Render()
}

func showLabel(show model.Show) string {
	key := show.Key()
	return strings.Join([]string{
		show.Movie.DisplayTitle(),
		key.Date + " " + key.Time,
		"Hall " + show.Hall.HallNo,
		show.Hall.Price.StringFixed(2),
	}, " • ")
}
