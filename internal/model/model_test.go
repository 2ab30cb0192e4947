package model_test

import (
	"encoding/json"
	"testing"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/enum"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/model"
	"github.com/shopspring/decimal"
)

func TestOrderTotal(t *testing.T) {
	soup := &model.Product{UUID: "p1", Price: decimal.NewFromInt(100)}
	salad := &model.Product{UUID: "p2", Price: decimal.RequireFromString("45.50")}

	order := model.Order{ListOfOrderProducts: []model.OrderProduct{
		{Product: soup, Quantity: 2},
		{Product: salad, Quantity: 3},
		{Product: nil, Quantity: 5},
	}}

	want := decimal.RequireFromString("336.50")
	if got := order.Total(); !got.Equal(want) {
		t.Errorf("total: got %s, want %s", got, want)
	}
}

func TestServingTableBalance(t *testing.T) {
	table := model.ServingTable{
		TotalPrice: decimal.NewFromInt(500),
		AmountPaid: decimal.NewFromInt(200),
	}
	if got := table.Balance(); !got.Equal(decimal.NewFromInt(300)) {
		t.Errorf("balance: got %s, want 300", got)
	}
	if table.FullyPaid() {
		t.Error("table with balance should not be fully paid")
	}

	table.AmountPaid = decimal.NewFromInt(500)
	if !table.FullyPaid() {
		t.Error("expected table to be fully paid")
	}
}

func TestServingTableLastOrderCode(t *testing.T) {
	table := model.ServingTable{ListOfOrders: []model.Order{{Code: 1}, {Code: 3}, {Code: 2}}}
	if got := table.LastOrderCode(); got != 3 {
		t.Errorf("last order code: got %d, want 3", got)
	}
	if got := (model.ServingTable{}).LastOrderCode(); got != 0 {
		t.Errorf("empty table last order code: got %d, want 0", got)
	}
}

func TestServingTableCloneDoesNotShareOrders(t *testing.T) {
	orig := model.ServingTable{ListOfOrders: []model.Order{
		{Code: 1, ListOfOrderProducts: []model.OrderProduct{{Quantity: 1}}},
	}}
	clone := orig.Clone()
	clone.ListOfOrders[0].ListOfOrderProducts[0].Quantity = 9
	clone.ListOfOrders = append(clone.ListOfOrders, model.Order{Code: 2})

	if orig.ListOfOrders[0].ListOfOrderProducts[0].Quantity != 1 {
		t.Error("clone mutated original order line")
	}
	if len(orig.ListOfOrders) != 1 {
		t.Error("clone mutated original order list")
	}
}

func TestDisplayName(t *testing.T) {
	p := model.Product{Name: "Grilled trout", NameTranslated: "Пастрмка на скара"}
	if got := p.DisplayName(enum.LanguageEnglish); got != "Grilled trout" {
		t.Errorf("en: got %q", got)
	}
	if got := p.DisplayName(enum.LanguageMacedonian); got != "Пастрмка на скара" {
		t.Errorf("mk: got %q", got)
	}

	untranslated := model.Ingredient{Name: "Garlic"}
	if got := untranslated.DisplayName(enum.LanguageMacedonian); got != "Garlic" {
		t.Errorf("fallback: got %q", got)
	}
}

func TestPaymentPayerName(t *testing.T) {
	if got := (model.Payment{WaiterName: "Ana Petrova"}).PayerName(); got != "Ana Petrova" {
		t.Errorf("flat name: got %q", got)
	}
	nested := model.Payment{Waiter: &model.PersonName{FirstName: "Marko", LastName: "Iliev"}}
	if got := nested.PayerName(); got != "Marko Iliev" {
		t.Errorf("nested name: got %q", got)
	}
}

func TestPayTablePriceEncodesAmountAsNumber(t *testing.T) {
	body, err := json.Marshal(model.PayTablePriceDTO{
		ServingTableUUID: "t1",
		WaiterUUID:       "w1",
		AmountToPay:      decimal.RequireFromString("120.5"),
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"servingTableUuid":"t1","waiterUuid":"w1","amountToPay":120.5}`
	if string(body) != want {
		t.Errorf("body: got %s, want %s", body, want)
	}
}

func TestUserIDAcceptsNumberAndString(t *testing.T) {
	var fromNumber, fromString model.User
	if err := json.Unmarshal([]byte(`{"uuid":7,"username":"admin"}`), &fromNumber); err != nil {
		t.Fatalf("number id: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"uuid":"u-7","username":"admin"}`), &fromString); err != nil {
		t.Fatalf("string id: %v", err)
	}
	if fromNumber.UUID != "7" || fromString.UUID != "u-7" {
		t.Errorf("ids: got %q and %q", fromNumber.UUID, fromString.UUID)
	}
}
