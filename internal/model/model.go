// Package model holds the entity shapes exchanged with the REST backend.
package model

import (
	"encoding/json"
	"strings"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/enum"
	"github.com/shopspring/decimal"
)

func init() {
	// The backend reads prices and amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Ingredient is referenced, never owned, by products and order lines.
type Ingredient struct {
	UUID           string `json:"uuid,omitempty"`
	Name           string `json:"name"`
	NameTranslated string `json:"nameTranslated"`
}

// DisplayName picks the name matching the operator's language.
func (i Ingredient) DisplayName(lang string) string {
	if lang == enum.LanguageMacedonian && i.NameTranslated != "" {
		return i.NameTranslated
	}
	return i.Name
}

// Product is a menu entry. ListOfIngredients may hold only the subset chosen for an
// order line.
type Product struct {
	UUID              string          `json:"uuid,omitempty"`
	Name              string          `json:"name"`
	NameTranslated    string          `json:"nameTranslated"`
	Price             decimal.Decimal `json:"price"`
	ProductCategory   string          `json:"productCategory"`
	Description       string          `json:"description"`
	ListOfIngredients []Ingredient    `json:"listOfIngredients"`
}

// DisplayName picks the name matching the operator's language.
func (p Product) DisplayName(lang string) string {
	if lang == enum.LanguageMacedonian && p.NameTranslated != "" {
		return p.NameTranslated
	}
	return p.Name
}

// Clone returns a copy whose ingredient slice is not shared with p.
func (p Product) Clone() Product {
	p.ListOfIngredients = append([]Ingredient(nil), p.ListOfIngredients...)
	return p
}

// OrderProduct is one line of an order.
type OrderProduct struct {
	UUID     string   `json:"uuid,omitempty"`
	Product  *Product `json:"product,omitempty"`
	Quantity int      `json:"quantity"`
}

// LineTotal is price × quantity; a line without a product is worth zero.
func (op OrderProduct) LineTotal() decimal.Decimal {
	if op.Product == nil {
		return decimal.Zero
	}
	return op.Product.Price.Mul(decimal.NewFromInt(int64(op.Quantity)))
}

// Order groups the lines sent to the kitchen in one go.
type Order struct {
	UUID                string          `json:"uuid,omitempty"`
	Code                int             `json:"code"`
	TotalPrice          decimal.Decimal `json:"totalPrice"`
	CreationDate        string          `json:"creationDate,omitempty"`
	Waiter              *Waiter         `json:"waiter,omitempty"`
	ListOfOrderProducts []OrderProduct  `json:"listOfOrderProducts"`
}

// Total sums the line totals in order.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.ListOfOrderProducts {
		total = total.Add(line.LineTotal())
	}
	return total
}

// Clone returns a copy whose line slice is not shared with o.
func (o Order) Clone() Order {
	o.ListOfOrderProducts = append([]OrderProduct(nil), o.ListOfOrderProducts...)
	return o
}

// Payment is a single charge recorded against a serving table.
type Payment struct {
	UUID          string          `json:"uuid,omitempty"`
	PaymentDate   string          `json:"paymentDate,omitempty"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	WaiterName    string          `json:"waiterName,omitempty"`
	Waiter        *PersonName     `json:"waiter,omitempty"`
}

// PayerName returns the waiter's name whichever shape the backend sent.
func (p Payment) PayerName() string {
	if p.WaiterName != "" {
		return p.WaiterName
	}
	if p.Waiter != nil {
		return p.Waiter.FullName()
	}
	return ""
}

// PersonName is the trimmed waiter shape embedded in admin DTOs.
type PersonName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// FullName joins first and last name.
func (n PersonName) FullName() string {
	return strings.TrimSpace(n.FirstName + " " + n.LastName)
}

// ServingTable is a physical table with its running bill.
type ServingTable struct {
	UUID               string          `json:"uuid,omitempty"`
	Code               int             `json:"code"`
	ServingTableStatus string          `json:"servingTableStatus"`
	Waiter             *Waiter         `json:"waiter,omitempty"`
	TotalPrice         decimal.Decimal `json:"totalPrice"`
	AmountPaid         decimal.Decimal `json:"amountPaid"`
	RemainingBalance   decimal.Decimal `json:"remainingBalance"`
	ListOfOrders       []Order         `json:"listOfOrders"`
	ListOfPayments     []Payment       `json:"listOfPayments,omitempty"`
}

// Balance is TotalPrice − AmountPaid, the amount still owed.
func (t ServingTable) Balance() decimal.Decimal {
	return t.TotalPrice.Sub(t.AmountPaid)
}

// FullyPaid reports whether nothing is owed on a table that has a bill.
func (t ServingTable) FullyPaid() bool {
	return t.TotalPrice.IsPositive() && t.AmountPaid.GreaterThanOrEqual(t.TotalPrice)
}

// IsDraft reports whether the table exists only on the client.
func (t ServingTable) IsDraft() bool {
	return t.UUID == ""
}

// LastOrderCode returns the highest order code on the table, 0 when it has none.
func (t ServingTable) LastOrderCode() int {
	last := 0
	for _, o := range t.ListOfOrders {
		if o.Code > last {
			last = o.Code
		}
	}
	return last
}

// FindOrder looks an order up by its code.
func (t ServingTable) FindOrder(code int) (Order, bool) {
	for _, o := range t.ListOfOrders {
		if o.Code == code {
			return o, true
		}
	}
	return Order{}, false
}

// Clone copies the table together with its orders.
func (t ServingTable) Clone() ServingTable {
	orders := make([]Order, len(t.ListOfOrders))
	for i, o := range t.ListOfOrders {
		orders[i] = o.Clone()
	}
	t.ListOfOrders = orders
	t.ListOfPayments = append([]Payment(nil), t.ListOfPayments...)
	return t
}

// Waiter owns back-references to the tables and orders they created.
type Waiter struct {
	UUID                string         `json:"uuid,omitempty"`
	Code                int            `json:"code"`
	FirstName           string         `json:"firstName"`
	LastName            string         `json:"lastName"`
	ListOfServingTables []ServingTable `json:"listOfServingTables,omitempty"`
	ListOfOrders        []Order        `json:"listOfOrders,omitempty"`
}

// FullName joins first and last name.
func (w Waiter) FullName() string {
	return PersonName{FirstName: w.FirstName, LastName: w.LastName}.FullName()
}

// FindTable looks one of the waiter's tables up by its code.
func (w Waiter) FindTable(code int) (ServingTable, bool) {
	for _, t := range w.ListOfServingTables {
		if t.Code == code {
			return t, true
		}
	}
	return ServingTable{}, false
}

// Clone copies the waiter together with tables and orders.
func (w Waiter) Clone() Waiter {
	tables := make([]ServingTable, len(w.ListOfServingTables))
	for i, t := range w.ListOfServingTables {
		tables[i] = t.Clone()
	}
	w.ListOfServingTables = tables
	w.ListOfOrders = append([]Order(nil), w.ListOfOrders...)
	return w
}

// KitchenOrder is the fulfillment view of an order.
type KitchenOrder struct {
	UUID                string         `json:"uuid,omitempty"`
	Completed           bool           `json:"completed"`
	Waiter              *Waiter        `json:"waiter,omitempty"`
	Order               *Order         `json:"order,omitempty"`
	ServingTable        *ServingTable  `json:"servingTable,omitempty"`
	ListOfOrderProducts []OrderProduct `json:"listOfOrderProducts"`
}

// WaiterName returns the full name of the waiter who placed the order.
func (k KitchenOrder) WaiterName() string {
	if k.Waiter == nil {
		return ""
	}
	return k.Waiter.FullName()
}

// TableCode returns the serving table code, 0 when unknown.
func (k KitchenOrder) TableCode() int {
	if k.ServingTable == nil {
		return 0
	}
	return k.ServingTable.Code
}

// User is the signed-in operator as returned by the login endpoint.
type User struct {
	UUID      ID     `json:"uuid"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
}

// ID accepts an identifier sent either as a JSON string or a JSON number.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}
