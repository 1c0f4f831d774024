package mid_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/business/web/mid"
	"github.com/ardanlabs/ledger/foundation/web"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestErrors(t *testing.T) {
	log := zap.NewNop().Sugar()

	tt := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"trusted", errs.NewTrusted(errors.New("mining cancelled"), http.StatusServiceUnavailable), http.StatusServiceUnavailable, "mining cancelled"},
		{"fields", validate.FieldErrors{{Field: "to", Err: "to is a required field"}}, http.StatusBadRequest, "data validation error"},
		{"untrusted", errors.New("database exploded"), http.StatusInternalServerError, "Internal Server Error"},
		{"panic", nil, http.StatusInternalServerError, "Internal Server Error"},
	}

	t.Log("Given the need to map handler errors to responses.")
	{
		for testID, test := range tt {
			app := web.NewApp(make(chan os.Signal, 1), mid.Errors(log), mid.Metrics(), mid.Panics())

			h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				if test.err == nil {
					panic("boom")
				}
				return test.err
			}
			app.Handle(http.MethodGet, "", "/test", h)

			w := httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

			if w.Code != test.status {
				t.Fatalf("\t%s\tTest %d:\t%s: Should get status %d: got %d", failed, testID, test.name, test.status, w.Code)
			}
			t.Logf("\t%s\tTest %d:\t%s: Should get status %d.", success, testID, test.name, test.status)

			var er errs.Response
			if err := json.NewDecoder(w.Body).Decode(&er); err != nil || er.Error != test.msg {
				t.Fatalf("\t%s\tTest %d:\t%s: Should get message %q: got %q", failed, testID, test.name, test.msg, er.Error)
			}
			t.Logf("\t%s\tTest %d:\t%s: Should get message %q.", success, testID, test.name, test.msg)
		}
	}
}
