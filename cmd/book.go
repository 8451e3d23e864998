package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"cinema-cli/booking"
	"cinema-cli/model"
	"cinema-cli/payment"
)

type cardFlags struct {
	number, expiry, cvv string
}

func (f *cardFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.number, "card", "", "card number (prompted when empty)")
	cmd.Flags().StringVar(&f.expiry, "expiry", "", "card expiry MM/YY (prompted when empty)")
	cmd.Flags().StringVar(&f.cvv, "cvv", "", "card CVV (prompted when empty)")
}

// fill pushes every card field through setter, prompting for the missing ones.
func (f cardFlags) fill(setter interface {
	SetPaymentField(payment.Field, string) payment.Input
}) error {
	values := map[payment.Field]string{
		payment.FieldCardNumber: f.number,
		payment.FieldExpiry:     f.expiry,
		payment.FieldCVV:        f.cvv,
	}
	for _, field := range []payment.Field{payment.FieldCardNumber, payment.FieldExpiry, payment.FieldCVV} {
		value := values[field]
		if value == "" {
			var err error
			if value, err = promptPaymentField(field); err != nil {
				return err
			}
		}
		setter.SetPaymentField(field, value)
	}
	return nil
}

func newBookCmd(a *app) *cobra.Command {
	var (
		showKey string
		tickets int
		card    cardFlags
	)
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book tickets for a show and pay for them",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.requireSession()
			if err != nil {
				return booking.ErrNotLoggedIn
			}
			shows, err := a.client.GetShows(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load shows: %w", err)
			}

			flow := booking.NewOrchestrator(a.client, booking.WithLogger(a.logger))
			flow.SetListing(shows)

			key, err := chooseShow(showKey, shows)
			if err != nil {
				return err
			}
			if tickets < 1 {
				return booking.ErrInvalidQuantity
			}
			if err := flow.SetQuantity(tickets); err != nil {
				return err
			}
			if err := flow.Select(key); err != nil {
				return err
			}
			if err := flow.Confirm(sess); err != nil {
				return err
			}

			quote, _ := flow.Quote()
			fmt.Fprintf(a.out, "Total: %s\n", quote.Total.StringFixed(2))
			if err := card.fill(flow); err != nil {
				return err
			}

			receipt, err := flow.Pay(cmd.Context(), sess)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, receipt.Message())
			return nil
		},
	}
	cmd.Flags().StringVar(&showKey, "show", "", "show key as printed by `shows` (prompted when empty)")
	cmd.Flags().IntVar(&tickets, "tickets", 1, "number of tickets")
	card.bind(cmd)
	return cmd
}

func chooseShow(raw string, shows []model.Show) (model.ShowKey, error) {
	if strings.TrimSpace(raw) != "" {
		return model.ParseShowKey(raw)
	}
	if len(shows) == 0 {
		return model.ShowKey{}, booking.ErrShowUnavailable
	}
	index, err := promptSelect("Select Show", lo.Map(shows, func(show model.Show, _ int) string {
		return showLabel(show)
	}))
	if err != nil {
		return model.ShowKey{}, err
	}
	return shows[index].Key(), nil
}

func newOrderFoodCmd(a *app) *cobra.Command {
	var (
		items []string
		card  cardFlags
	)
	cmd := &cobra.Command{
		Use:     "order-food",
		Short:   "Order food and drinks and pay for them",
		Example: "  cinema order-food --item 3=2 --item 5=1",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.requireSession()
			if err != nil {
				return booking.ErrNotLoggedIn
			}
			inventory, err := a.client.GetFoodInventory(cmd.Context())
			if err != nil {
				return fmt.Errorf("could not load food items: %w", err)
			}

			flow := booking.NewFoodOrderer(a.client, booking.WithLogger(a.logger))
			flow.SetInventory(inventory)

			if len(items) == 0 {
				if err := pickFood(flow, inventory); err != nil {
					return err
				}
			}
			for _, raw := range items {
				id, qty, err := parseFoodItem(raw)
				if err != nil {
					return err
				}
				if err := flow.SetQuantity(id, qty); err != nil {
					return err
				}
			}
			if err := flow.Confirm(sess); err != nil {
				return err
			}

			for _, line := range flow.Lines() {
				fmt.Fprintf(a.out, "%s x%d = %s\n", line.Item.Item, line.Quantity, line.Subtotal.StringFixed(2))
			}
			fmt.Fprintf(a.out, "Total: %s\n", flow.Quote().Total.StringFixed(2))
			if err := card.fill(flow); err != nil {
				return err
			}

			receipt, err := flow.Pay(cmd.Context(), sess)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, receipt.Message())
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&items, "item", nil, "food id and quantity as id=qty, repeatable (prompted when empty)")
	card.bind(cmd)
	return cmd
}

func parseFoodItem(raw string) (int, int, error) {
	idPart, qtyPart, ok := strings.Cut(raw, "=")
	if !ok {
		return 0, 0, fmt.Errorf("invalid item %q, expected id=qty", raw)
	}
	id, err := strconv.Atoi(strings.TrimSpace(idPart))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid food id in %q", raw)
	}
	qty, err := strconv.Atoi(strings.TrimSpace(qtyPart))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid quantity in %q", raw)
	}
	return id, qty, nil
}

// pickFood asks for items one at a time until the user checks out.
func pickFood(flow *booking.FoodOrderer, inventory []model.FoodItem) error {
	const done = "Done, go to payment"
	labels := append(lo.Map(inventory, func(item model.FoodItem, _ int) string {
		return fmt.Sprintf("%s • %s • %d in stock", item.Item, item.Price.StringFixed(2), item.Quantity)
	}), done)
	for {
		index, err := promptSelect("Select Food", labels)
		if err != nil {
			return err
		}
		if index == len(inventory) {
			return nil
		}
		raw, err := promptText(fmt.Sprintf("Quantity of %s", inventory[index].Item))
		if err != nil {
			return err
		}
		qty, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid quantity %q", raw)
		}
		if err := flow.SetQuantity(inventory[index].Id, qty); err != nil {
			return err
		}
	}
}
