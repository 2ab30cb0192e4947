package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/gateway"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/model"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/notify"
	"github.com/shopspring/decimal"
)

type capturedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]json.RawMessage
}

func newBackend(t *testing.T, status int, response string) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	var captured []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := capturedRequest{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization")}
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &req.Body); err != nil {
				t.Errorf("request body is not a JSON object: %s", raw)
			}
		}
		captured = append(captured, req)
		w.WriteHeader(status)
		io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestCall_InjectsBearerToken(t *testing.T) {
	srv, captured := newBackend(t, http.StatusOK, `[]`)
	client := gateway.New(srv.URL, gateway.WithTokenSource(gateway.StaticToken("abc123")))

	if _, err := client.FetchProducts(context.Background()); err != nil {
		t.Fatalf("fetch products: %v", err)
	}

	got := (*captured)[0]
	if got.Auth != "Bearer abc123" {
		t.Errorf("authorization: got %q, want %q", got.Auth, "Bearer abc123")
	}
	if got.Method != http.MethodGet || got.Path != "/api/products/fetch-products" {
		t.Errorf("request: got %s %s", got.Method, got.Path)
	}
}

func TestCall_NoTokenNoHeader(t *testing.T) {
	srv, captured := newBackend(t, http.StatusOK, `[]`)

	for _, client := range []*gateway.Client{
		gateway.New(srv.URL),
		gateway.New(srv.URL, gateway.WithTokenSource(gateway.StaticToken(""))),
	} {
		if _, err := client.FetchPayments(context.Background()); err != nil {
			t.Fatalf("fetch payments: %v", err)
		}
	}

	for i, req := range *captured {
		if req.Auth != "" {
			t.Errorf("request %d: unexpected authorization header %q", i, req.Auth)
		}
	}
}

func TestCall_NonSuccessSurfacesBodyAndNotifiesOnce(t *testing.T) {
	srv, _ := newBackend(t, http.StatusUnauthorized, "Bad credentials\n")
	rec := &notify.Recorder{}
	client := gateway.New(srv.URL, gateway.WithNotifier(rec))

	_, err := client.FetchWaitersForAdminPage(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}

	var reqErr *gateway.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %T", err)
	}
	if reqErr.Status != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", reqErr.Status, http.StatusUnauthorized)
	}
	if reqErr.Message != "Bad credentials" {
		t.Errorf("message: got %q, want %q", reqErr.Message, "Bad credentials")
	}
	if gateway.StatusOf(err) != http.StatusUnauthorized {
		t.Errorf("StatusOf: got %d", gateway.StatusOf(err))
	}

	notes := rec.All()
	if len(notes) != 1 {
		t.Fatalf("notifications: got %d, want 1", len(notes))
	}
	if notes[0].Level != notify.LevelError || notes[0].Message != "Bad credentials" {
		t.Errorf("notification: got %+v", notes[0])
	}
}

func TestCall_EmptyErrorBodyFallsBackToStatusText(t *testing.T) {
	srv, _ := newBackend(t, http.StatusInternalServerError, "")
	client := gateway.New(srv.URL)

	_, err := client.FetchServingTables(context.Background())
	if got := gateway.MessageOf(err); got != "Internal Server Error" {
		t.Errorf("message: got %q", got)
	}
}

func TestCall_TransportErrorIsRequestError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	rec := &notify.Recorder{}
	client := gateway.New(url, gateway.WithNotifier(rec))
	_, err := client.FetchIngredients(context.Background())

	var reqErr *gateway.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %v", err)
	}
	if reqErr.Status != 0 {
		t.Errorf("status: got %d, want 0", reqErr.Status)
	}
	if len(rec.All()) != 1 {
		t.Errorf("notifications: got %d, want 1", len(rec.All()))
	}
}

func TestDeleteIngredient_ReturnsLiteralMessage(t *testing.T) {
	srv, captured := newBackend(t, http.StatusOK, "Ingredient deleted successfully.")
	client := gateway.New(srv.URL)

	msg, err := client.DeleteIngredient(context.Background(), "i9")
	if err != nil {
		t.Fatalf("delete ingredient: %v", err)
	}
	if msg != "Ingredient deleted successfully." {
		t.Errorf("message: got %q", msg)
	}

	got := (*captured)[0]
	if got.Method != http.MethodDelete || got.Path != "/api/ingredients/delete-ingredient" {
		t.Errorf("request: got %s %s", got.Method, got.Path)
	}
	if string(got.Body["ingredientId"]) != `"i9"` {
		t.Errorf("body: got %s", got.Body["ingredientId"])
	}
}

func TestMutation_UnquotesJSONStringResponse(t *testing.T) {
	srv, _ := newBackend(t, http.StatusOK, `"Order marked as completed."`)
	client := gateway.New(srv.URL)

	msg, err := client.MarkKitchenOrderAsCompleted(context.Background(), "k1")
	if err != nil {
		t.Fatalf("mark completed: %v", err)
	}
	if msg != "Order marked as completed." {
		t.Errorf("message: got %q", msg)
	}
}

func TestPayServingTablePrice_WrapsBody(t *testing.T) {
	srv, captured := newBackend(t, http.StatusOK, "Paid.")
	client := gateway.New(srv.URL)

	_, err := client.PayServingTablePrice(context.Background(), model.PayTablePriceDTO{
		ServingTableUUID: "t1",
		WaiterUUID:       "w1",
		AmountToPay:      decimal.NewFromInt(150),
	})
	if err != nil {
		t.Fatalf("pay: %v", err)
	}

	got := (*captured)[0]
	if got.Path != "/api/serving-tables/pay-serving-table-price" {
		t.Errorf("path: got %s", got.Path)
	}
	want := `{"servingTableUuid":"t1","waiterUuid":"w1","amountToPay":150}`
	if string(got.Body["payServingTablePrice"]) != want {
		t.Errorf("body: got %s, want %s", got.Body["payServingTablePrice"], want)
	}
}

func TestLogin_AcceptsBothShapes(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"plain", `{"user":{"uuid":1,"username":"admin"},"token":"tok"}`},
		{"enveloped", `{"data":{"user":{"uuid":1,"username":"admin"},"token":"tok"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newBackend(t, http.StatusOK, tt.response)
			client := gateway.New(srv.URL)

			result, err := client.Login(context.Background(), model.Credentials{Username: "admin", Password: "pw"})
			if err != nil {
				t.Fatalf("login: %v", err)
			}
			if result.Token != "tok" || result.User.Username != "admin" || result.User.UUID != "1" {
				t.Errorf("result: got %+v", result)
			}
		})
	}
}

func TestFetchCompletedKitchenOrders_PostsWaiter(t *testing.T) {
	srv, captured := newBackend(t, http.StatusOK, `[{"uuid":"k1","completed":true,"servingTable":{"code":4}}]`)
	client := gateway.New(srv.URL)

	orders, err := client.FetchCompletedKitchenOrders(context.Background(), "w1")
	if err != nil {
		t.Fatalf("fetch completed: %v", err)
	}
	if len(orders) != 1 || orders[0].TableCode() != 4 {
		t.Errorf("orders: got %+v", orders)
	}

	got := (*captured)[0]
	if got.Method != http.MethodPost || string(got.Body["waiterUuid"]) != `"w1"` {
		t.Errorf("request: got %s body %v", got.Method, got.Body)
	}
}
