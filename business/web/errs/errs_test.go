package errs_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ardanlabs/ledger/business/web/errs"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestTrusted(t *testing.T) {
	t.Log("Given the need to carry a status code with an error.")
	{
		err := fmt.Errorf("handler: %w", errs.NewTrusted(context.DeadlineExceeded, http.StatusServiceUnavailable))

		if !errs.IsTrusted(err) {
			t.Fatalf("\t%s\tShould find the trusted error in the chain.", failed)
		}
		t.Logf("\t%s\tShould find the trusted error in the chain.", success)

		if te := errs.GetTrusted(err); te.Status != http.StatusServiceUnavailable {
			t.Fatalf("\t%s\tShould get back the status: got %d", failed, te.Status)
		}
		t.Logf("\t%s\tShould get back the status.", success)

		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("\t%s\tShould unwrap to the original error.", failed)
		}
		t.Logf("\t%s\tShould unwrap to the original error.", success)

		if errs.IsTrusted(errors.New("plain")) {
			t.Fatalf("\t%s\tShould not treat a plain error as trusted.", failed)
		}
		t.Logf("\t%s\tShould not treat a plain error as trusted.", success)
	}
}
