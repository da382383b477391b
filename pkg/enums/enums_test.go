package enums

import "testing"

func TestParsePaymentMethod(t *testing.T) {
	for _, raw := range []string{"CASH", "CARD", "TRANSFER"} {
		got, err := ParsePaymentMethod(raw)
		if err != nil {
			t.Fatalf("parse %s: %v", raw, err)
		}
		if got.String() != raw || !got.IsValid() {
			t.Fatalf("unexpected payment method %q", got)
		}
	}
	if _, err := ParsePaymentMethod("cash"); err == nil {
		t.Fatal("payment methods are case sensitive")
	}
	if PaymentMethod("BITCOIN").IsValid() {
		t.Fatal("unknown payment method reported valid")
	}
}

func TestParseRoleAndStatus(t *testing.T) {
	if r, err := ParseRole("STORE_MANAGER"); err != nil || r != RoleStoreManager {
		t.Fatalf("unexpected role %q err=%v", r, err)
	}
	if _, err := ParseRole("owner"); err == nil {
		t.Fatal("expected invalid role error")
	}
	if s, err := ParseOrderStatus("CANCELLED"); err != nil || s != OrderStatusCancelled {
		t.Fatalf("unexpected status %q err=%v", s, err)
	}
	if OrderStatus("SHIPPED").IsValid() {
		t.Fatal("unknown status reported valid")
	}
}

func TestParseCatalogKind(t *testing.T) {
	if k, err := ParseCatalogKind("SUPPLIER"); err != nil || k != CatalogKindSupplier {
		t.Fatalf("unexpected kind %q err=%v", k, err)
	}
	if _, err := ParseCatalogKind("WAREHOUSE"); err == nil {
		t.Fatal("expected invalid kind error")
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	if !OrderStatusCancelled.IsTerminal() {
		t.Fatal("cancelled must be terminal")
	}
	if OrderStatusSuccess.IsTerminal() || OrderStatusPending.IsTerminal() {
		t.Fatal("only cancelled is terminal")
	}
}

func TestParseErrorNamesTheSet(t *testing.T) {
	_, err := ParseRole("owner")
	if err == nil || err.Error() != `invalid role "owner"` {
		t.Fatalf("unexpected error %v", err)
	}
}
