package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/JovanPapi/krusevska-odaja-internal-work/cmd/posctl/output"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/enum"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/model"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/screen"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/service"
	"github.com/spf13/cobra"
)

// listFlags are shared by every "list" subcommand.
type listFlags struct {
	query string
	page  int
}

func (f *listFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "Case-insensitive filter")
	cmd.Flags().IntVar(&f.page, "page", 1, "Page number (1-based)")
}

// showPage loads a collection, filters it and prints one page.
func showPage[T any](ctx context.Context, opts *options, c *client, coll *screen.Collection[T], f listFlags, headers []string, row func(T) []string) error {
	defer c.flush()
	if err := coll.Load(ctx); err != nil {
		return err
	}
	coll.SetFilter(f.query)
	page := coll.Page(f.page)

	if opts.jsonOutput {
		return output.JSON(page)
	}
	if page.Total == 0 {
		output.Muted("Nothing to show")
		return nil
	}
	rows := make([][]string, len(page.Items))
	for i, item := range page.Items {
		rows[i] = row(item)
	}
	output.Table(headers, rows)
	output.Muted("page %d of %d, %d total", page.Number, page.Pages, page.Total)
	return nil
}

func groupCmd(use, short string) *cobra.Command {
	return &cobra.Command{Use: use, Short: short}
}

// --- Products ---

func newProductsCmd(opts *options) *cobra.Command {
	cmd := groupCmd("products", "Browse the menu")

	var f listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient(opts)
			if _, err := c.require(cmd.Context(), enum.PageAdministration, enum.PageWaiter); err != nil {
				return err
			}
			return showPage(cmd.Context(), opts, c, c.screens.Products, f,
				[]string{"NAME", "CATEGORY", "PRICE", "INGREDIENTS"},
				func(p model.Product) []string {
					names := make([]string, len(p.ListOfIngredients))
					for i, ing := range p.ListOfIngredients {
						names[i] = ing.DisplayName(opts.lang)
					}
					return []string{p.DisplayName(opts.lang), enum.CategoryLabel(p.ProductCategory), p.Price.StringFixed(2), strings.Join(names, ", ")}
				})
		},
	}
	f.bind(list)
	cmd.AddCommand(list)
	return cmd
}

// --- Ingredients ---

func newIngredientsCmd(opts *options) *cobra.Command {
	cmd := groupCmd("ingredients", "Manage ingredients")

	var f listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List ingredients",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient(opts)
			if _, err := c.require(cmd.Context(), enum.PageAdministration); err != nil {
				return err
			}
			return showPage(cmd.Context(), opts, c, c.screens.Ingredients, f,
				[]string{"UUID", "NAME", "TRANSLATED"},
				func(i model.Ingredient) []string {
					return []string{i.UUID, i.Name, i.NameTranslated}
				})
		},
	}
	f.bind(list)

	del := &cobra.Command{
		Use:   "delete <uuid>",
		Short: "Delete an ingredient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient(opts)
			if _, err := c.require(cmd.Context(), enum.PageAdministration); err != nil {
				return err
			}
			defer c.flush()
			admin := service.NewAdminService(c.gw, c.screens, c.notes, nil)
			_, err := admin.DeleteIngredient(cmd.Context(), args[0])
			return err
		},
	}

	cmd.AddCommand(list, del)
	return cmd
}

// --- Waiters ---

func newWaitersCmd(opts *options) *cobra.Command {
	cmd := groupCmd("waiters", "Browse waiters")

	var f listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List waiters",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient(opts)
			if _, err := c.require(cmd.Context(), enum.PageAdministration); err != nil {
				return err
			}
			return showPage(cmd.Context(), opts, c, c.screens.Waiters, f,
				[]string{"CODE", "NAME", "TABLES"},
				func(w model.Waiter) []string {
					return []string{strconv.Itoa(w.Code), w.FullName(), strconv.Itoa(len(w.ListOfServingTables))}
				})
		},
	}
	f.bind(list)
	cmd.AddCommand(list)
	return cmd
}

// --- Payments ---

func newPaymentsCmd(opts *options) *cobra.Command {
	cmd := groupCmd("payments", "Browse recorded payments")

	var f listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List payments",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient(opts)
			if _, err := c.require(cmd.Context(), enum.PageAdministration); err != nil {
				return err
			}
			return showPage(cmd.Context(), opts, c, c.screens.Payments, f,
				[]string{"DATE", "WAITER", "METHOD", "AMOUNT"},
				func(p model.Payment) []string {
					return []string{p.PaymentDate, p.PayerName(), p.PaymentMethod, p.AmountPaid.StringFixed(2)}
				})
		},
	}
	f.bind(list)
	cmd.AddCommand(list)
	return cmd
}

// --- Serving tables ---

func newTablesCmd(opts *options) *cobra.Command {
	cmd := groupCmd("tables", "Browse serving tables")

	var (
		f      listFlags
		status string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List serving tables of one status",
		Long: `List serving tables. Only reserved tables are shown unless --status says otherwise.
The filter matches the waiter's first name.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			status = strings.ToUpper(status)
			switch status {
			case enum.TableStatusFree, enum.TableStatusReserved, enum.TableStatusClosed:
			default:
				return fmt.Errorf("invalid status %q", status)
			}

			c := newClient(opts)
			if _, err := c.require(cmd.Context(), enum.PageAdministration); err != nil {
				return err
			}
			c.screens.ServingTables.SetScope(screen.TableStatus(status))
			return showPage(cmd.Context(), opts, c, c.screens.ServingTables, f,
				[]string{"CODE", "WAITER", "ORDERS", "TOTAL", "PAID", "BALANCE"},
				func(t model.ServingTable) []string {
					waiter := ""
					if t.Waiter != nil {
						waiter = t.Waiter.FullName()
					}
					return []string{
						strconv.Itoa(t.Code), waiter, strconv.Itoa(len(t.ListOfOrders)),
						t.TotalPrice.StringFixed(2), t.AmountPaid.StringFixed(2), t.Balance().StringFixed(2),
					}
				})
		},
	}
	f.bind(list)
	list.Flags().StringVar(&status, "status", enum.TableStatusReserved, "FREE, RESERVED or CLOSED")
	cmd.AddCommand(list)
	return cmd
}
