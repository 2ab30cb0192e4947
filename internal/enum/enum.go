package enum

// ── Group A: State machines (owned by the backend) ──

const (
	TableStatusFree     = "FREE"
	TableStatusReserved = "RESERVED"
	TableStatusClosed   = "CLOSED"
)

// ── Group B: Catalog labels ──

const (
	CategorySalads          = "SALADS"
	CategoryGarnishAndExtra = "GARNISH_AND_EXTRA"
	CategoryAppetizers      = "APPETIZERS"
	CategoryGrill           = "GRILL"
	CategoryDishesToOrder   = "DISHES_TO_ORDER"
	CategorySpecialities    = "SPECIALITIES"
	CategoryCookedDishes    = "COOKED_DISHES"
	CategoryDesserts        = "DESSERTS"
	CategorySnacks          = "SNACKS"
	CategoryAperatives      = "APERATIVES"
	CategoryDrinks          = "DRINKS"
)

// categoryLabels keeps the display order of the admin category picker.
var categoryLabels = []struct{ value, label string }{
	{CategorySalads, "Salads"},
	{CategoryGarnishAndExtra, "Garnish and extra"},
	{CategoryAppetizers, "Appetizers"},
	{CategoryGrill, "Grill"},
	{CategoryDishesToOrder, "Dishes to order"},
	{CategorySpecialities, "Specialities"},
	{CategoryCookedDishes, "Cooked dishes"},
	{CategoryDesserts, "Desserts"},
	{CategorySnacks, "Snacks"},
	{CategoryAperatives, "Aperatives"},
	{CategoryDrinks, "Drinks"},
}

// CategoryLabel returns the display label of a product category, or "" when unknown.
func CategoryLabel(category string) string {
	for _, c := range categoryLabels {
		if c.value == category {
			return c.label
		}
	}
	return ""
}

// IsValidCategory reports whether category is one of the known product categories.
func IsValidCategory(category string) bool {
	return CategoryLabel(category) != ""
}

const (
	PaymentMethodCash = "CASH"
	PaymentMethodCard = "CARD"
)

// ── Group C: Front-end pages (one per operator role) ──

const (
	PageAdministration = "administrationPage"
	PageWaiter         = "waiterPage"
	PageKitchen        = "kitchenPage"
)

// IsValidPage reports whether page names one of the three role views.
func IsValidPage(page string) bool {
	switch page {
	case PageAdministration, PageWaiter, PageKitchen:
		return true
	}
	return false
}

const (
	LanguageEnglish    = "en"
	LanguageMacedonian = "mk"
)
