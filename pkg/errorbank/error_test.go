package errorbank

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
	}{
		{BadRequest("x"), http.StatusBadRequest},
		{Unauthorized("x"), http.StatusUnauthorized},
		{Forbidden("x"), http.StatusForbidden},
		{Conflict("x"), http.StatusConflict},
		{NotFound("x"), http.StatusNotFound},
		{Unprocessable("x"), http.StatusUnprocessableEntity},
		{Internal("x"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.err.StatusCode(); got != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.err.Kind(), got, tc.status)
		}
	}
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	raw := errors.New("boom")
	appErr := From(raw)
	if appErr.Kind() != KindInternal {
		t.Fatalf("kind = %s, want internal", appErr.Kind())
	}
	if !errors.Is(appErr, raw) {
		t.Fatal("wrapped cause lost")
	}

	original := NotFound("missing")
	if From(fmt.Errorf("ctx: %w", original)) != original {
		t.Fatal("From must unwrap to the original AppError")
	}
}

func TestReason(t *testing.T) {
	err := Unprocessable("not served", WithReason("NotServedYet"))
	if err.Reason() != "NotServedYet" {
		t.Fatalf("reason = %q", err.Reason())
	}
	if BadRequest("x").Reason() != "" {
		t.Fatal("missing reason must be empty")
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("wrap: %w", Conflict("taken"))
	if !IsKind(err, KindConflict) {
		t.Fatal("IsKind must see through wrapping")
	}
	if IsKind(err, KindNotFound) {
		t.Fatal("wrong kind matched")
	}
	if IsKind(errors.New("plain"), KindInternal) {
		t.Fatal("plain error is not an AppError")
	}
}
