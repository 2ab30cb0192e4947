package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/model"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/notify"
)

// --- Authentication ---

// Login exchanges credentials for a bearer token. The backend may wrap the result in
// a {"data": ...} envelope; both shapes are accepted.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (model.LoginResult, error) {
	var raw json.RawMessage
	if err := c.Call(ctx, http.MethodPost, pathLogin, creds, &raw); err != nil {
		return model.LoginResult{}, err
	}

	var envelope struct {
		Data *model.LoginResult `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Data != nil {
		return *envelope.Data, nil
	}

	var result model.LoginResult
	if err := json.Unmarshal(raw, &result); err != nil {
		reqErr := &RequestError{Method: http.MethodPost, Path: pathLogin, Status: http.StatusOK, Message: "cannot decode login response", Err: err}
		notify.Error(ctx, c.notifier, reqErr.Message)
		return model.LoginResult{}, reqErr
	}
	return result, nil
}

// --- Products ---

func (c *Client) FetchProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := c.Call(ctx, http.MethodGet, pathFetchProducts, nil, &products)
	return products, err
}

func (c *Client) CreateProduct(ctx context.Context, p model.Product) (string, error) {
	return c.message(ctx, http.MethodPost, pathCreateProduct, map[string]any{"productToCreate": p})
}

func (c *Client) UpdateProduct(ctx context.Context, p model.Product) (string, error) {
	return c.message(ctx, http.MethodPost, pathUpdateProduct, map[string]any{"productToUpdate": p})
}

func (c *Client) DeleteProduct(ctx context.Context, productUUID string) (string, error) {
	return c.message(ctx, http.MethodDelete, pathDeleteProduct, map[string]any{"productId": productUUID})
}

// --- Ingredients ---

func (c *Client) FetchIngredients(ctx context.Context) ([]model.Ingredient, error) {
	var ingredients []model.Ingredient
	err := c.Call(ctx, http.MethodGet, pathFetchIngredients, nil, &ingredients)
	return ingredients, err
}

func (c *Client) CreateIngredient(ctx context.Context, i model.Ingredient) (string, error) {
	return c.message(ctx, http.MethodPost, pathCreateIngredient, map[string]any{"ingredientToCreate": i})
}

func (c *Client) UpdateIngredient(ctx context.Context, i model.Ingredient) (string, error) {
	return c.message(ctx, http.MethodPost, pathUpdateIngredient, map[string]any{"ingredientToUpdate": i})
}

func (c *Client) DeleteIngredient(ctx context.Context, ingredientUUID string) (string, error) {
	return c.message(ctx, http.MethodDelete, pathDeleteIngredient, map[string]any{"ingredientId": ingredientUUID})
}

// --- Waiters ---

// FetchWaitersForAdminPage returns waiters without their tables.
func (c *Client) FetchWaitersForAdminPage(ctx context.Context) ([]model.Waiter, error) {
	var waiters []model.Waiter
	err := c.Call(ctx, http.MethodGet, pathFetchWaitersForAdminPage, nil, &waiters)
	return waiters, err
}

// FetchWaitersForWaiterPage returns waiters with their serving tables and orders.
func (c *Client) FetchWaitersForWaiterPage(ctx context.Context) ([]model.Waiter, error) {
	var waiters []model.Waiter
	err := c.Call(ctx, http.MethodGet, pathFetchWaitersForWaiterPage, nil, &waiters)
	return waiters, err
}

func (c *Client) CreateWaiter(ctx context.Context, w model.Waiter) (string, error) {
	return c.message(ctx, http.MethodPost, pathCreateWaiter, map[string]any{"waiterToCreate": w})
}

func (c *Client) UpdateWaiter(ctx context.Context, w model.UpdateWaiterDTO) (string, error) {
	return c.message(ctx, http.MethodPost, pathUpdateWaiter, map[string]any{"waiterToUpdate": w})
}

func (c *Client) DeleteWaiter(ctx context.Context, waiterUUID string) (string, error) {
	return c.message(ctx, http.MethodDelete, pathDeleteWaiter, map[string]any{"waiterUuid": waiterUUID})
}

// --- Payments ---

func (c *Client) FetchPayments(ctx context.Context) ([]model.Payment, error) {
	var payments []model.Payment
	err := c.Call(ctx, http.MethodGet, pathFetchPayments, nil, &payments)
	return payments, err
}

// --- Serving tables ---

func (c *Client) FetchServingTables(ctx context.Context) ([]model.ServingTable, error) {
	var tables []model.ServingTable
	err := c.Call(ctx, http.MethodGet, pathFetchServingTables, nil, &tables)
	return tables, err
}

func (c *Client) FetchServingTableByID(ctx context.Context, tableUUID string) (model.ServingTable, error) {
	var table model.ServingTable
	err := c.Call(ctx, http.MethodPost, pathFetchServingTableByID, map[string]any{"servingTableUuid": tableUUID}, &table)
	return table, err
}

func (c *Client) DeleteServingTable(ctx context.Context, tableUUID string) (string, error) {
	return c.message(ctx, http.MethodDelete, pathDeleteServingTable, map[string]any{"servingTableUuid": tableUUID})
}

func (c *Client) UpdateServingTable(ctx context.Context, dto model.UpdateServingTableDTO) (string, error) {
	return c.message(ctx, http.MethodPost, pathUpdateServingTable, map[string]any{"servingTableToUpdate": dto})
}

func (c *Client) CloseServingTable(ctx context.Context, tableUUID string) (string, error) {
	return c.message(ctx, http.MethodPost, pathCloseServingTable, map[string]any{"servingTableUuid": tableUUID})
}

func (c *Client) CreateServingTableWithFirstOrder(ctx context.Context, dto model.CreateTableWithFirstOrderDTO) (string, error) {
	return c.message(ctx, http.MethodPost, pathCreateServingTableWithOrder, map[string]any{"servingTableToCreate": dto})
}

func (c *Client) UpdateServingTableWithNewOrder(ctx context.Context, dto model.SaveNewOrderToTableDTO) (string, error) {
	return c.message(ctx, http.MethodPost, pathUpdateServingTableWithNewOrder, map[string]any{"servingTableToUpdate": dto})
}

func (c *Client) PayServingTablePrice(ctx context.Context, dto model.PayTablePriceDTO) (string, error) {
	return c.message(ctx, http.MethodPost, pathPayServingTablePrice, map[string]any{"payServingTablePrice": dto})
}

// --- Orders ---

func (c *Client) DeleteProductFromOrder(ctx context.Context, dto model.DeleteProductFromOrderDTO) (string, error) {
	return c.message(ctx, http.MethodDelete, pathDeleteProductFromOrder, map[string]any{"deleteProductFromOrderDTO": dto})
}

func (c *Client) DeleteOrderFromServingTable(ctx context.Context, orderUUID string) (string, error) {
	return c.message(ctx, http.MethodDelete, pathDeleteOrderFromServingTable, map[string]any{"orderUuid": orderUUID})
}

// --- Kitchen orders ---

func (c *Client) FetchUncompletedKitchenOrders(ctx context.Context) ([]model.KitchenOrder, error) {
	var orders []model.KitchenOrder
	err := c.Call(ctx, http.MethodGet, pathFetchUncompletedKitchenOrders, nil, &orders)
	return orders, err
}

func (c *Client) FetchCompletedKitchenOrders(ctx context.Context, waiterUUID string) ([]model.KitchenOrder, error) {
	var orders []model.KitchenOrder
	err := c.Call(ctx, http.MethodPost, pathFetchCompletedKitchenOrders, map[string]any{"waiterUuid": waiterUUID}, &orders)
	return orders, err
}

func (c *Client) MarkKitchenOrderAsCompleted(ctx context.Context, kitchenOrderUUID string) (string, error) {
	return c.message(ctx, http.MethodPost, pathMarkKitchenOrderAsCompleted, map[string]any{"kitchenOrderUuid": kitchenOrderUUID})
}

// message performs a mutation whose success body is a human-readable string.
func (c *Client) message(ctx context.Context, method, path string, body any) (string, error) {
	var msg string
	if err := c.Call(ctx, method, path, body, &msg); err != nil {
		return "", err
	}
	return msg, nil
}
