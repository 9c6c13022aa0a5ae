package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"buildpro/internal/auth"
	"buildpro/pkg/util"
)

const testSecret = "test-secret"

func newGuardedRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	api.Use(AuthMiddleware(secret))
	api.Use(RouteGuard())
	api.Any("/*path", func(c *gin.Context) {
		identity, _ := c.Get("identity")
		id := identity.(auth.Identity)
		c.JSON(http.StatusOK, gin.H{"role": id.Role, "user_id": id.UserID})
	})
	return r
}

func request(t *testing.T, r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func tokenFor(t *testing.T, role string) string {
	t.Helper()
	token, err := util.GenerateJWT(1, "user@test.local", role, testSecret)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	r := newGuardedRouter(testSecret)

	t.Run("missing token is unauthorized", func(t *testing.T) {
		w := request(t, r, http.MethodGet, "/api/projects", "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		w := request(t, r, http.MethodGet, "/api/projects", "not.a.jwt")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("token signed with wrong secret is unauthorized", func(t *testing.T) {
		token, err := util.GenerateJWT(1, "user@test.local", "ADMIN", "other-secret")
		if err != nil {
			t.Fatal(err)
		}
		w := request(t, r, http.MethodGet, "/api/projects", token)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("valid token passes through", func(t *testing.T) {
		w := request(t, r, http.MethodGet, "/api/projects", tokenFor(t, "VIEWER"))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestRouteGuard(t *testing.T) {
	r := newGuardedRouter(testSecret)

	cases := []struct {
		name   string
		path   string
		role   string
		status int
	}{
		{"admin may update progress", "/api/update-progress", "ADMIN", http.StatusOK},
		{"project manager may update progress", "/api/update-progress", "PROJECT_MANAGER", http.StatusOK},
		{"vendor may not update progress", "/api/update-progress", "VENDOR", http.StatusForbidden},
		{"viewer may not update progress", "/api/update-progress", "VIEWER", http.StatusForbidden},
		{"viewer may not touch payments", "/api/payments/process-milestone", "VIEWER", http.StatusForbidden},
		{"vendor may not touch payments", "/api/payments/process-milestone", "VENDOR", http.StatusForbidden},
		{"admin may touch payments", "/api/payments/process-milestone", "ADMIN", http.StatusOK},
		{"viewer may not restock", "/api/materials/restock", "VIEWER", http.StatusForbidden},
		{"admin may restock", "/api/materials/restock", "ADMIN", http.StatusOK},
		{"vendor may update prices", "/api/materials/update-price", "VENDOR", http.StatusOK},
		{"viewer may not update prices", "/api/materials/update-price", "VIEWER", http.StatusForbidden},
		{"viewer may read projects", "/api/projects", "VIEWER", http.StatusOK},
		{"vendor may read materials", "/api/materials", "VENDOR", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := request(t, r, http.MethodPost, tc.path, tokenFor(t, tc.role))
			if w.Code != tc.status {
				t.Fatalf("%s as %s: expected %d, got %d", tc.path, tc.role, tc.status, w.Code)
			}
		})
	}
}
