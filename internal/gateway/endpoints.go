package gateway

// Backend paths, grouped by controller.
const (
	pathLogin = "/api/authenticate/login"

	pathFetchProducts = "/api/products/fetch-products"
	pathCreateProduct = "/api/products/create-product"
	pathUpdateProduct = "/api/products/update-product"
	pathDeleteProduct = "/api/products/delete-product"

	pathFetchIngredients = "/api/ingredients/fetch-ingredients"
	pathCreateIngredient = "/api/ingredients/create-ingredient"
	pathUpdateIngredient = "/api/ingredients/update-ingredient"
	pathDeleteIngredient = "/api/ingredients/delete-ingredient"

	pathFetchWaitersForAdminPage  = "/api/waiters/fetch-waiters-for-admin-page"
	pathFetchWaitersForWaiterPage = "/api/waiters/fetch-waiters-for-waiter-page"
	pathCreateWaiter              = "/api/waiters/create-waiter"
	pathUpdateWaiter              = "/api/waiters/update-waiter"
	pathDeleteWaiter              = "/api/waiters/delete-waiter"

	pathFetchPayments = "/api/payments/fetch-payments"

	pathFetchServingTables             = "/api/serving-tables/fetch-serving-tables"
	pathFetchServingTableByID          = "/api/serving-tables/fetch-serving-table-by-id"
	pathDeleteServingTable             = "/api/serving-tables/delete-serving-table"
	pathUpdateServingTable             = "/api/serving-tables/update-serving-table"
	pathCloseServingTable              = "/api/serving-tables/close-serving-table"
	pathCreateServingTableWithOrder    = "/api/serving-tables/create-serving-table-with-first-order"
	pathUpdateServingTableWithNewOrder = "/api/serving-tables/update-serving-table-with-new-order"
	pathPayServingTablePrice           = "/api/serving-tables/pay-serving-table-price"

	pathDeleteProductFromOrder      = "/api/orders/delete-product-from-order"
	pathDeleteOrderFromServingTable = "/api/orders/delete-order-from-serving-table"

	pathFetchUncompletedKitchenOrders = "/api/kitchen-orders/fetch-uncompleted-kitchen-orders"
	pathFetchCompletedKitchenOrders   = "/api/kitchen-orders/fetch-completed-kitchen-orders"
	pathMarkKitchenOrderAsCompleted   = "/api/kitchen-orders/mark-order-as-completed"
)
