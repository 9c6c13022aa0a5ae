package auth

import (
	"net/http"
	"testing"
)

func TestFromRequest(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/projects", nil)
	req.Header.Set(HeaderUserID, "42")
	req.Header.Set(HeaderUserEmail, "pm@example.com")
	req.Header.Set(HeaderUserRole, "PROJECT_MANAGER")

	id := FromRequest(req)
	if id.UserID != 42 || id.Email != "pm@example.com" || id.Role != "PROJECT_MANAGER" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestFromRequestAnonymous(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/projects", nil)
	id := FromRequest(req)
	if id != (Identity{}) {
		t.Fatalf("expected zero identity, got %+v", id)
	}

	req.Header.Set(HeaderUserID, "not-a-number")
	if got := FromRequest(req); got.UserID != 0 {
		t.Fatalf("garbage user id must stay zero, got %d", got.UserID)
	}
}

func TestForwardRoundtrip(t *testing.T) {
	id := Identity{UserID: 7, Email: "admin@example.com", Role: "ADMIN"}

	req, _ := http.NewRequest(http.MethodPost, "/payments/process-milestone", nil)
	id.Forward(req)

	if got := FromRequest(req); got != id {
		t.Fatalf("roundtrip mismatch: %+v != %+v", got, id)
	}
}

func TestForwardZeroIdentitySetsNothing(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/projects", nil)
	Identity{}.Forward(req)

	for _, h := range []string{HeaderUserID, HeaderUserEmail, HeaderUserRole} {
		if req.Header.Get(h) != "" {
			t.Fatalf("header %s should not be set for zero identity", h)
		}
	}
}
