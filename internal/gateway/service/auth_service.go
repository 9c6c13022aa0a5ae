package service

import (
	"context"

	"go.uber.org/zap"

	"buildpro/internal/gateway/model"
	"buildpro/pkg/apperr"
	"buildpro/pkg/rbac"
	"buildpro/pkg/util"
)

// UserStore 是认证服务对用户存储的依赖
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Insert(ctx context.Context, u *model.User) (int, error)
}

type AuthService struct {
	users     UserStore
	jwtSecret string
	logger    *zap.Logger
}

func NewAuthService(users UserStore, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// Register 注册新用户，角色缺省为 VIEWER
func (s *AuthService) Register(ctx context.Context, email, name, password, role string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, apperr.Validation("email and password are required")
	}
	if len(password) < 6 {
		return nil, apperr.Validation("password must be at least 6 characters")
	}
	if role == "" {
		role = rbac.RoleViewer
	}
	if !rbac.RoleIn(role, rbac.RoleAdmin, rbac.RoleProjectManager, rbac.RoleVendor, rbac.RoleViewer) {
		return nil, apperr.Validation("unknown role: %s", role)
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.InvalidState("email already registered")
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
	}
	id, err := s.users.Insert(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	s.logger.Info("User registered", zap.Int("user_id", id), zap.String("role", role))
	return user, nil
}

// Login 校验凭证并签发 JWT
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if user == nil || !util.CheckPassword(password, user.PasswordHash) {
		return "", nil, apperr.PermissionDenied("invalid email or password")
	}

	token, err := util.GenerateJWT(user.ID, user.Email, user.Role, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}
