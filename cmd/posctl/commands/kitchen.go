package commands

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/JovanPapi/krusevska-odaja-internal-work/cmd/posctl/output"
	"github.com/JovanPapi/krusevska-odaja-internal-work/cmd/posctl/tui"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/enum"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newKitchenCmd(opts *options) *cobra.Command {
	var every time.Duration

	cmd := &cobra.Command{
		Use:   "kitchen",
		Short: "Work the kitchen queue interactively",
		Long: `Open the kitchen board: uncompleted orders in arrival order, refreshed on a timer.

Keys:
  ↑/↓      move
  enter    mark the selected order as completed
  ←/→      previous / next page
  r        reload now
  q        quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient(opts)
			if _, err := c.require(cmd.Context(), enum.PageKitchen); err != nil {
				return err
			}
			kitchen := service.NewKitchenService(c.gw, c.screens.Kitchen, c.notes, nil)
			board := tui.NewKitchenBoard(c.screens.Kitchen, kitchen, c.notes, opts.lang, every)
			_, err := tea.NewProgram(board, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().DurationVar(&every, "refresh", 30*time.Second, "How often the queue is reloaded")

	var f listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "Print the kitchen queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient(opts)
			if _, err := c.require(cmd.Context(), enum.PageKitchen); err != nil {
				return err
			}
			defer c.flush()
			queue := c.screens.Kitchen
			if err := queue.Load(cmd.Context()); err != nil {
				return err
			}
			queue.SetFilter(f.query)
			page := queue.Page(f.page)
			orders := service.Prioritize(page)

			if opts.jsonOutput {
				return output.JSON(orders)
			}
			if len(orders) == 0 {
				output.Muted("No orders waiting")
				return nil
			}
			rows := make([][]string, len(orders))
			for i, o := range orders {
				rows[i] = []string{strconv.Itoa(o.Priority), strconv.Itoa(o.TableCode()), o.WaiterName(), tui.Lines(o.KitchenOrder, opts.lang), o.UUID}
			}
			output.Table([]string{"#", "TABLE", "WAITER", "ITEMS", "UUID"}, rows)
			output.Muted("page %d of %d, %d waiting", page.Number, page.Pages, page.Total)
			return nil
		},
	}
	f.bind(list)

	complete := &cobra.Command{
		Use:   "complete <uuid>...",
		Short: "Mark kitchen orders as completed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient(opts)
			if _, err := c.require(cmd.Context(), enum.PageKitchen); err != nil {
				return err
			}
			defer c.flush()
			kitchen := service.NewKitchenService(c.gw, c.screens.Kitchen, c.notes, nil)
			var failed []string
			for _, id := range args {
				if _, err := kitchen.Complete(cmd.Context(), id); err != nil {
					failed = append(failed, id)
				}
			}
			if len(failed) > 0 {
				return errors.New("could not complete " + strings.Join(failed, ", "))
			}
			return nil
		},
	}

	cmd.AddCommand(list, complete)
	return cmd
}
