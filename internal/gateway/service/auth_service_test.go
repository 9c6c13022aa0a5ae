package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"buildpro/internal/gateway/model"
	"buildpro/pkg/apperr"
	"buildpro/pkg/rbac"
	"buildpro/pkg/util"
)

type fakeUserStore struct {
	users  map[string]*model.User
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User), nextID: 1}
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := s.users[email]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (s *fakeUserStore) Insert(_ context.Context, u *model.User) (int, error) {
	id := s.nextID
	s.nextID++
	stored := *u
	stored.ID = id
	s.users[u.Email] = &stored
	return id, nil
}

const jwtSecret = "test-secret"

func newAuthService(store *fakeUserStore) *AuthService {
	return NewAuthService(store, jwtSecret, zap.NewNop())
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults role to viewer", func(t *testing.T) {
		svc := newAuthService(newFakeUserStore())
		user, err := svc.Register(ctx, "a@example.com", "A", "secret1", "")
		if err != nil {
			t.Fatal(err)
		}
		if user.Role != rbac.RoleViewer {
			t.Fatalf("expected VIEWER, got %s", user.Role)
		}
		if user.ID == 0 {
			t.Fatal("expected assigned id")
		}
		if user.PasswordHash == "secret1" {
			t.Fatal("password must be hashed")
		}
	})

	t.Run("rejects missing fields and short passwords", func(t *testing.T) {
		svc := newAuthService(newFakeUserStore())
		cases := []struct{ email, password string }{
			{"", "secret1"},
			{"a@example.com", ""},
			{"a@example.com", "short"},
		}
		for _, tc := range cases {
			_, err := svc.Register(ctx, tc.email, "A", tc.password, "")
			if apperr.KindOf(err) != apperr.KindValidation {
				t.Errorf("Register(%q, %q): expected validation error, got %v", tc.email, tc.password, err)
			}
		}
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		svc := newAuthService(newFakeUserStore())
		_, err := svc.Register(ctx, "a@example.com", "A", "secret1", "SUPERUSER")
		if apperr.KindOf(err) != apperr.KindValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc := newAuthService(newFakeUserStore())
		if _, err := svc.Register(ctx, "a@example.com", "A", "secret1", rbac.RoleAdmin); err != nil {
			t.Fatal(err)
		}
		_, err := svc.Register(ctx, "a@example.com", "B", "secret2", "")
		if apperr.KindOf(err) != apperr.KindInvalidState {
			t.Fatalf("expected invalid state error, got %v", err)
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	store := newFakeUserStore()
	svc := newAuthService(store)

	if _, err := svc.Register(ctx, "pm@example.com", "PM", "secret1", rbac.RoleProjectManager); err != nil {
		t.Fatal(err)
	}

	t.Run("issues a token carrying the user claims", func(t *testing.T) {
		token, user, err := svc.Login(ctx, "pm@example.com", "secret1")
		if err != nil {
			t.Fatal(err)
		}
		if user.Role != rbac.RoleProjectManager {
			t.Fatalf("unexpected role: %s", user.Role)
		}

		claims, err := util.ParseJWT(token, jwtSecret)
		if err != nil {
			t.Fatal(err)
		}
		if claims.UserID != user.ID || claims.Email != "pm@example.com" || claims.Role != rbac.RoleProjectManager {
			t.Fatalf("unexpected claims: %+v", claims)
		}
	})

	t.Run("rejects wrong password and unknown user alike", func(t *testing.T) {
		for _, tc := range []struct{ email, password string }{
			{"pm@example.com", "wrong"},
			{"ghost@example.com", "secret1"},
		} {
			_, _, err := svc.Login(ctx, tc.email, tc.password)
			if apperr.KindOf(err) != apperr.KindPermissionDenied {
				t.Errorf("Login(%q): expected permission denied, got %v", tc.email, err)
			}
		}
	})
}
