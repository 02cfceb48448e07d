package command

import (
	"testing"

	"github.com/corex-studio/corex-payment/internal/acquiring/types"
)

func TestPurchaseTTKItems(t *testing.T) {
	ctx := NewContext(types.ConnectionConfig{})
	items := NewPurchase(1000, "").TTKItems(ctx)

	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if string(items[0].Value) != "PUR" {
		t.Errorf("expected message id PUR, got %q", items[0].Value)
	}
	if string(items[2].Value) != "000000001000" {
		t.Errorf("expected zero-padded amount, got %q", items[2].Value)
	}
}

func TestPurchaseInpasFieldsDefaultCurrency(t *testing.T) {
	ctx := NewContext(types.ConnectionConfig{})
	fields := NewPurchase(1000, "").InpasFields(ctx)

	want := map[string]string{"00": "1000", "04": DefaultCurrency, "25": "01"}
	if len(fields) != len(want) {
		t.Fatalf("expected %d fields, got %d", len(want), len(fields))
	}
	for _, f := range fields {
		if want[f.ID] != f.Value {
			t.Errorf("field %s: expected %q, got %q", f.ID, want[f.ID], f.Value)
		}
	}
}

func TestRefundMessageIDAndOperation(t *testing.T) {
	ctx := NewContext(types.ConnectionConfig{})
	items := NewRefund(500, "").TTKItems(ctx)
	if string(items[0].Value) != "REF" {
		t.Errorf("expected REF, got %q", items[0].Value)
	}

	fields := NewRefund(500, "").InpasFields(ctx)
	for _, f := range fields {
		if f.ID == "25" && f.Value != "29" {
			t.Errorf("expected operation 29, got %q", f.Value)
		}
	}
}

func TestTotalsShape(t *testing.T) {
	ctx := NewContext(types.ConnectionConfig{})
	items := NewTotals().TTKItems(ctx)
	if len(items) != 3 || string(items[0].Value) != "SRV" || string(items[2].Value) != "2" {
		t.Errorf("unexpected totals TTK items: %+v", items)
	}

	fields := NewTotals().InpasFields(ctx)
	if len(fields) != 1 || fields[0].ID != "25" || fields[0].Value != "59" {
		t.Errorf("unexpected totals inpas fields: %+v", fields)
	}
}
