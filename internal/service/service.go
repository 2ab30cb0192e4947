// Package service holds the business rules the front-end checks before anything is
// sent to the backend, and the flows that follow a confirmed mutation.
package service

import (
	"context"
	"errors"
	"log"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/notify"
)

// Errors returned by the services. None of them is sent to the backend.
var (
	ErrNoWaiterSelected     = errors.New("select a waiter first")
	ErrNoTableSelected      = errors.New("select a serving table first")
	ErrNoDraftOrder         = errors.New("no new order is open for this table")
	ErrEmptyOrder           = errors.New("please select new products to make a new order")
	ErrTableClosed          = errors.New("serving table is closed")
	ErrTableNotCharged      = errors.New("serving table has no orders to charge")
	ErrTableFullyPaid       = errors.New("serving table is already fully paid")
	ErrAmountNotPositive    = errors.New("amount to pay must be greater than 0")
	ErrAmountExceedsBalance = errors.New("amount to pay must not be higher than remaining balance or total amount")
	ErrInvalidQuantity      = errors.New("quantity must be between 1 and 99")
	ErrProductNotFound      = errors.New("product not found")
	ErrTableNotFound        = errors.New("serving table not found")
	ErrOrderNotFound        = errors.New("order not found on serving table")
	ErrValidation           = errors.New("validation failed")
)

const maxQuantity = 99

// Events is told when the kitchen queue changed. Satisfied by *workspace.Registry.
type Events interface {
	KitchenChanged(ctx context.Context)
}

// reject reports a rule failure to the operator and returns it.
func reject(ctx context.Context, n notify.Notifier, err error) error {
	notify.Error(ctx, n, err.Error())
	return err
}

// refreshLogged runs a post-mutation refresh. Its failure was already shown to the
// operator by the gateway and does not undo the mutation.
func refreshLogged(ctx context.Context, what string, refresh func(context.Context) error) {
	if err := refresh(ctx); err != nil {
		log.Printf("ERROR: refresh after %s: %v", what, err)
	}
}

func kitchenChanged(ctx context.Context, events Events) {
	if events != nil {
		events.KitchenChanged(ctx)
	}
}
