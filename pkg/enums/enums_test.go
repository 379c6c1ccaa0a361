package enums

import "testing"

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("shipped")
	if err != nil || status != OrderStatusShipped {
		t.Fatalf("expected shipped, got %q (%v)", status, err)
	}
	if _, err := ParseOrderStatus("lost"); err == nil {
		t.Fatalf("expected unknown status to fail")
	}
}

func TestOrderStatusCancellableOnlyWhilePending(t *testing.T) {
	for _, status := range validOrderStatuses {
		want := status == OrderStatusPending
		if got := status.Cancellable(); got != want {
			t.Fatalf("status %s: expected cancellable=%v, got %v", status, want, got)
		}
	}
}

func TestProductCategoriesReturnsCopy(t *testing.T) {
	cats := ProductCategories()
	if len(cats) != 9 {
		t.Fatalf("expected 9 categories, got %d", len(cats))
	}
	cats[0] = "mutated"
	if !ProductCategoryElectronics.IsValid() || ProductCategories()[0] != ProductCategoryElectronics {
		t.Fatalf("expected categories slice to be a copy")
	}
}

func TestUserRole(t *testing.T) {
	if !UserRoleAdmin.IsAdmin() || UserRoleUser.IsAdmin() {
		t.Fatalf("unexpected admin checks")
	}
	if _, err := ParseUserRole("owner"); err == nil {
		t.Fatalf("expected unknown role to fail")
	}
	if _, err := ParsePaymentMethod("paypal"); err != nil {
		t.Fatalf("expected paypal to parse: %v", err)
	}
}
