package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(Validation("bad input")); got != KindValidation {
		t.Fatalf("expected KindValidation, got %v", got)
	}
	if got := KindOf(NotFound("project %d not found", 7)); got != KindNotFound {
		t.Fatalf("expected KindNotFound, got %v", got)
	}
	if got := KindOf(errors.New("plain")); got != KindUnknown {
		t.Fatalf("expected KindUnknown for plain error, got %v", got)
	}
	if got := KindOf(nil); got != KindUnknown {
		t.Fatalf("expected KindUnknown for nil, got %v", got)
	}

	// 包装后的业务错误仍应识别出类别
	wrapped := fmt.Errorf("handler: %w", InvalidState("already paid"))
	if got := KindOf(wrapped); got != KindInvalidState {
		t.Fatalf("expected KindInvalidState through wrapping, got %v", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := UpstreamUnavailable("payment service unreachable", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to reach the wrapped cause")
	}
	if msg := err.Error(); msg != "payment service unreachable: connection refused" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("x"), http.StatusBadRequest},
		{NotFound("x"), http.StatusNotFound},
		{PermissionDenied("x"), http.StatusForbidden},
		{InvalidState("x"), http.StatusConflict},
		{UpstreamUnavailable("x", errors.New("y")), http.StatusBadGateway},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
