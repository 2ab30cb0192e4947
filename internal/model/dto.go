package model

import "github.com/shopspring/decimal"

// OrderDTO is the order payload sent when a waiter confirms a draft.
type OrderDTO struct {
	Code                int            `json:"code"`
	ListOfOrderProducts []OrderProduct `json:"listOfOrderProducts"`
}

// CreateTableWithFirstOrderDTO opens a new table together with its first order.
type CreateTableWithFirstOrderDTO struct {
	WaiterUUID       string   `json:"waiterUuid"`
	ServingTableCode int      `json:"servingTableCode"`
	OrderDTO         OrderDTO `json:"orderDTO"`
}

// SaveNewOrderToTableDTO appends an order to a table that already exists.
type SaveNewOrderToTableDTO struct {
	ServingTableUUID string   `json:"servingTableUuid"`
	WaiterUUID       string   `json:"waiterUuid"`
	OrderDTO         OrderDTO `json:"orderDTO"`
}

// PayTablePriceDTO pays part or all of a table's bill.
type PayTablePriceDTO struct {
	ServingTableUUID string          `json:"servingTableUuid"`
	WaiterUUID       string          `json:"waiterUuid"`
	AmountToPay      decimal.Decimal `json:"amountToPay"`
}

// UpdateServingTableDTO reassigns a table code or waiter.
type UpdateServingTableDTO struct {
	UUID       string `json:"uuid"`
	Code       int    `json:"code"`
	WaiterUUID string `json:"waiterUuid"`
}

// UpdateWaiterDTO edits a waiter's code and name.
type UpdateWaiterDTO struct {
	UUID      string `json:"uuid"`
	Code      int    `json:"code"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// DeleteProductFromOrderDTO removes one line from an order.
type DeleteProductFromOrderDTO struct {
	OrderUUID        string `json:"orderUuid"`
	OrderProductUUID string `json:"orderProductUuid"`
}

// Credentials are posted to the login endpoint.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is what the backend returns on a successful login.
type LoginResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
