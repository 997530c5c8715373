package bind_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"chungtay/pkg/bind"
)

type pledgeInput struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Message       string  `json:"message,omitempty" validate:"omitempty,max=10"`
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=bank_transfer momo cash"`
}

func TestValidBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(
		`{"amount": 50000, "payment_method": "momo"}`))

	var in pledgeInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if errs != nil {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
	if in.Amount != 50000 {
		t.Errorf("amount = %v", in.Amount)
	}
}

func TestValidationErrorsKeyedByJSONName(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(
		`{"amount": 0, "payment_method": "paypal"}`))

	var in pledgeInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if errs == nil {
		t.Fatal("expected validation errors")
	}
	if _, ok := errs["amount"]; !ok {
		t.Errorf("expected amount error, got %v", errs)
	}
	if _, ok := errs["payment_method"]; !ok {
		t.Errorf("expected payment_method error, got %v", errs)
	}
}

func TestMalformedJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"amount": `))

	var in pledgeInput
	if _, err := bind.JSON(r, &in); err == nil {
		t.Error("expected decode error")
	}
}

func TestMaxRuleMessage(t *testing.T) {
	var in pledgeInput
	in.Amount = 100
	in.Message = "this message is far too long"
	in.PaymentMethod = "cash"

	errs, err := bind.Check(&in)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if msg, ok := errs["message"]; !ok || !strings.Contains(msg, "10") {
		t.Errorf("expected max-length message, got %v", errs)
	}
}
