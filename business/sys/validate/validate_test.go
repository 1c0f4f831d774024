package validate_test

import (
	"testing"

	"github.com/ardanlabs/ledger/business/sys/validate"
)

type model struct {
	From   string   `json:"from" validate:"required"`
	To     string   `json:"to" validate:"required"`
	Amount *float64 `json:"amount" validate:"required"`
}

func TestCheck(t *testing.T) {
	amount := 1000.0

	if err := validate.Check(model{From: "A", To: "B", Amount: &amount}); err != nil {
		t.Fatalf("Should be able to validate a complete model: %s", err)
	}

	err := validate.Check(model{From: "A"})
	if !validate.IsFieldErrors(err) {
		t.Fatalf("Should get back field errors: got %v", err)
	}

	fields := validate.GetFieldErrors(err).Fields()
	if len(fields) != 2 {
		t.Fatalf("Should get back two field errors: got %v", fields)
	}

	if _, exists := fields["to"]; !exists {
		t.Fatalf("Should use the json name for the field: got %v", fields)
	}

	if _, exists := fields["amount"]; !exists {
		t.Fatalf("Should report the missing amount: got %v", fields)
	}
}
